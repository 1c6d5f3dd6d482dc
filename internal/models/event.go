package models

import (
	"time"
)

const (
	DefaultMaxPhotosPerUser = 10
	DefaultMaxFileSizeBytes = 10 * 1024 * 1024 // 10MB
)

// DefaultAllowedMimeTypes is the file-type allowlist applied when an event is
// created without explicit settings.
var DefaultAllowedMimeTypes = []string{"image/jpeg", "image/png", "image/webp"}

// EventSettings controls the upload and moderation policy of a single event.
type EventSettings struct {
	AllowAnonymousUpload bool     `json:"allow_anonymous_upload" gorm:"default:true"`
	RequireApproval      bool     `json:"require_approval" gorm:"default:false"`
	MaxPhotosPerUser     int      `json:"max_photos_per_user" gorm:"default:10"`
	AllowedMimeTypes     []string `json:"allowed_mime_types" gorm:"type:json;serializer:json"`
	MaxFileSizeBytes     int64    `json:"max_file_size_bytes" gorm:"default:10485760"`
}

// EventStats is derived from the photos table, never authoritative.
// RefreshStats recomputes it with a full recount.
type EventStats struct {
	TotalPhotos    int `json:"total_photos" gorm:"default:0"`
	ApprovedPhotos int `json:"approved_photos" gorm:"default:0"`
	PendingPhotos  int `json:"pending_photos" gorm:"default:0"`
	RejectedPhotos int `json:"rejected_photos" gorm:"default:0"`
	TotalViews     int `json:"total_views" gorm:"default:0"`
}

type Event struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	PublicID      string        `json:"public_id" gorm:"uniqueIndex;not null"` // evt_..., assigned once at creation
	Title         string        `json:"title" gorm:"not null"`
	Description   string        `json:"description"`
	ScheduledDate time.Time     `json:"scheduled_date" gorm:"not null"`
	OwnerID       *uint         `json:"owner_id"` // nil for host-created events
	Active        bool          `json:"active" gorm:"default:true"`
	Settings      EventSettings `json:"settings" gorm:"embedded;embeddedPrefix:setting_"`
	Stats         EventStats    `json:"stats" gorm:"embedded;embeddedPrefix:stat_"`
	QRCodeImage   string        `json:"qr_code_image" gorm:"type:text"` // base64 data URL, empty until rendered
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type EventSettingsRequest struct {
	AllowAnonymousUpload *bool    `json:"allow_anonymous_upload"`
	RequireApproval      *bool    `json:"require_approval"`
	MaxPhotosPerUser     *int     `json:"max_photos_per_user" validate:"omitempty,min=1,max=1000"`
	AllowedMimeTypes     []string `json:"allowed_mime_types" validate:"omitempty,dive,supported_image"`
	MaxFileSizeBytes     *int64   `json:"max_file_size_bytes" validate:"omitempty,min=1"`
}

type CreateEventRequest struct {
	Title         string                `json:"title" validate:"required"`
	Description   string                `json:"description" validate:"max=500"`
	ScheduledDate string                `json:"scheduled_date" validate:"required"`
	Settings      *EventSettingsRequest `json:"settings"`
}

type UpdateEventRequest struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	ScheduledDate *string               `json:"scheduled_date"`
	Settings      *EventSettingsRequest `json:"settings"`
}

// HostCreateEventRequest is the self-service creation flow: no platform
// account, credentials are mailed to the host afterwards. With no password a
// random one is generated and included in the mail.
type HostCreateEventRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description" validate:"required,max=500"`
	ScheduledDate string `json:"scheduled_date" validate:"required"`
	HostEmail     string `json:"host_email" validate:"required,email"`
	Password      string `json:"password" validate:"omitempty,min=6"`
}

type EventResponse struct {
	ID            uint          `json:"id"`
	PublicID      string        `json:"public_id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ScheduledDate time.Time     `json:"scheduled_date"`
	Active        bool          `json:"active"`
	Settings      EventSettings `json:"settings"`
	Stats         EventStats    `json:"stats"`
	QRCodeImage   string        `json:"qr_code_image,omitempty"`
	UploadURL     string        `json:"upload_url"`
	GalleryURL    string        `json:"gallery_url"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// PublicEventResponse is the anonymous projection: just enough for the upload
// form and gallery header, no moderation internals.
type PublicEventResponse struct {
	PublicID         string    `json:"public_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ScheduledDate    time.Time `json:"scheduled_date"`
	AllowedMimeTypes []string  `json:"allowed_mime_types"`
	MaxPhotosPerUser int       `json:"max_photos_per_user"`
	MaxFileSizeBytes int64     `json:"max_file_size_bytes"`
}

// HostCreateEventResponse reports the degraded-success sub-steps: the event
// always exists, QR and email may have failed independently.
type HostCreateEventResponse struct {
	Event     *EventResponse `json:"event"`
	EmailSent bool           `json:"email_sent"`
	QRPending bool           `json:"qr_pending,omitempty"`
}

type QRCodeResponse struct {
	PublicID  string `json:"public_id"`
	QRCode    string `json:"qr_code"`
	UploadURL string `json:"upload_url"`
	Size      int    `json:"size"`
}

// QRPackageResponse bundles the QR code in several sizes for print material.
type QRPackageResponse struct {
	PublicID   string            `json:"public_id"`
	UploadURL  string            `json:"upload_url"`
	GalleryURL string            `json:"gallery_url"`
	Sizes      map[string]string `json:"sizes"` // "300px" -> data URL
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	Pagination Pagination      `json:"pagination"`
}

// EventStatsResponse is the moderator dashboard view: live counts plus the
// most recent uploads.
type EventStatsResponse struct {
	Stats        EventStats      `json:"stats"`
	RecentPhotos []PhotoResponse `json:"recent_photos"`
	EventTitle   string          `json:"event_title"`
	EventDate    time.Time       `json:"event_date"`
}
