package service

import (
	"time"

	"github.com/eventsnap/eventsnap-backend/internal/models"
)

// Store interfaces are defined on the consumer side so the services can be
// exercised against in-memory fakes; internal/repository provides the GORM
// implementations.

type EventStore interface {
	Create(event *models.Event) (*models.Event, error)
	GetByID(id uint) (*models.Event, error)
	GetByPublicID(publicID string) (*models.Event, error)
	GetActiveByPublicID(publicID string) (*models.Event, error)
	PublicIDExists(publicID string) (bool, error)
	Update(event *models.Event) error
	ListByOwner(ownerID uint, page, limit int) ([]models.Event, int64, error)
	ListAll(page, limit int) ([]models.Event, int64, error)
	RefreshStats(eventID uint) (*models.EventStats, error)
}

type PhotoStore interface {
	Create(photo *models.Photo) error
	GetByID(id uint) (*models.Photo, error)
	GetByIDs(ids []uint) ([]models.Photo, error)
	List(eventID uint, q models.PhotoListQuery) ([]models.Photo, int64, error)
	Recent(eventID uint, n int) ([]models.Photo, error)
	UpdateStatus(id uint, status models.PhotoStatus) error
	Delete(id uint) error
	IncrementViewCount(id uint) error
	IncrementDownloadCount(id uint) error
}

type UserStore interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
}

type HostStore interface {
	Create(host *models.Host) error
	GetActiveByEventPublicID(eventPublicID string) (*models.Host, error)
	Update(host *models.Host) error
}

// QRRenderer renders the upload link of an event as an embeddable image.
type QRRenderer interface {
	GeneratePNG(publicEventID string, size int) ([]byte, error)
	GenerateDataURL(publicEventID string, size int) (string, error)
	UploadURL(publicEventID string) string
}

// CredentialMailer notifies a host of their event credentials, best-effort.
type CredentialMailer interface {
	SendEventCredentials(to, title, eventID, password, uploadURL string, date time.Time) error
}
