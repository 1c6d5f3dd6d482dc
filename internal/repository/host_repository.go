package repository

import (
	"github.com/eventsnap/eventsnap-backend/internal/models"
	"gorm.io/gorm"
)

type HostRepository struct {
	db *gorm.DB
}

func NewHostRepository(db *gorm.DB) *HostRepository {
	return &HostRepository{db: db}
}

func (r *HostRepository) Create(host *models.Host) error {
	return r.db.Create(host).Error
}

// GetActiveByEventPublicID finds the live credential bound to an event.
func (r *HostRepository) GetActiveByEventPublicID(eventPublicID string) (*models.Host, error) {
	var host models.Host
	err := r.db.Where("event_public_id = ? AND active = ?", eventPublicID, true).First(&host).Error
	if err != nil {
		return nil, err
	}
	return &host, nil
}

func (r *HostRepository) Update(host *models.Host) error {
	return r.db.Save(host).Error
}
