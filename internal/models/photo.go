package models

import (
	"time"
)

type PhotoStatus string

const (
	PhotoStatusPending  PhotoStatus = "pending"
	PhotoStatusApproved PhotoStatus = "approved"
	PhotoStatusRejected PhotoStatus = "rejected"
)

// ValidPhotoStatus reports whether s is one of the three moderation states.
// Every directed transition between them is allowed, there is no terminal
// state.
func ValidPhotoStatus(s PhotoStatus) bool {
	switch s {
	case PhotoStatusPending, PhotoStatusApproved, PhotoStatusRejected:
		return true
	}
	return false
}

type Photo struct {
	ID               uint        `json:"id" gorm:"primaryKey"`
	EventID          uint        `json:"event_id" gorm:"not null;index"` // immutable after creation
	MediaKey         string      `json:"-" gorm:"not null"`              // R2 object key
	ImageID          string      `json:"-"`                              // Cloudflare Images id, empty if variant upload failed
	PhotoURL         string      `json:"photo_url" gorm:"not null"`
	ThumbnailURL     string      `json:"thumbnail_url"`
	OriginalFileName string      `json:"original_file_name" gorm:"not null"`
	MimeType         string      `json:"mime_type" gorm:"not null"`
	FileSize         int64       `json:"file_size" gorm:"not null"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	UploaderName     string      `json:"uploader_name" gorm:"default:Anonymous"`
	UploaderEmail    string      `json:"uploader_email,omitempty"`
	Caption          string      `json:"caption,omitempty"`
	Status           PhotoStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	ViewCount        int         `json:"view_count" gorm:"default:0"`
	DownloadCount    int         `json:"download_count" gorm:"default:0"`
	UploadedAt       time.Time   `json:"uploaded_at"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// VisibleInPublicGallery is derived, not stored: approved photos of active
// events only.
func (p *Photo) VisibleInPublicGallery(event *Event) bool {
	return p.Status == PhotoStatusApproved && event.Active
}

// UploaderMeta is the optional identity a participant attaches to a batch.
type UploaderMeta struct {
	Name    string `json:"uploader_name"`
	Email   string `json:"uploader_email"`
	Caption string `json:"caption"`
}

type UpdatePhotoStatusRequest struct {
	Status PhotoStatus `json:"status" validate:"required"`
}

type BulkUpdatePhotoStatusRequest struct {
	PhotoIDs []uint      `json:"photo_ids" validate:"required,min=1"`
	Status   PhotoStatus `json:"status" validate:"required"`
}

// PhotoListQuery carries the pagination and filter knobs of a photo listing.
type PhotoListQuery struct {
	Page      int
	Limit     int
	Status    PhotoStatus // empty means all statuses
	SortBy    string      // uploaded_at or created_at
	SortOrder string      // asc or desc
}

func (q *PhotoListQuery) Normalize(defaultLimit int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = defaultLimit
	}
	if q.SortBy != "uploaded_at" && q.SortBy != "created_at" {
		q.SortBy = "uploaded_at"
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
}

type PhotoResponse struct {
	ID               uint        `json:"id"`
	EventID          uint        `json:"event_id"`
	PhotoURL         string      `json:"photo_url"`
	ThumbnailURL     string      `json:"thumbnail_url,omitempty"`
	OriginalFileName string      `json:"original_file_name"`
	MimeType         string      `json:"mime_type"`
	FileSize         int64       `json:"file_size"`
	Width            int         `json:"width,omitempty"`
	Height           int         `json:"height,omitempty"`
	UploaderName     string      `json:"uploader_name"`
	Caption          string      `json:"caption,omitempty"`
	Status           PhotoStatus `json:"status"`
	ViewCount        int         `json:"view_count"`
	DownloadCount    int         `json:"download_count"`
	UploadedAt       time.Time   `json:"uploaded_at"`
}

func NewPhotoResponse(p *Photo) PhotoResponse {
	return PhotoResponse{
		ID:               p.ID,
		EventID:          p.EventID,
		PhotoURL:         p.PhotoURL,
		ThumbnailURL:     p.ThumbnailURL,
		OriginalFileName: p.OriginalFileName,
		MimeType:         p.MimeType,
		FileSize:         p.FileSize,
		Width:            p.Width,
		Height:           p.Height,
		UploaderName:     p.UploaderName,
		Caption:          p.Caption,
		Status:           p.Status,
		ViewCount:        p.ViewCount,
		DownloadCount:    p.DownloadCount,
		UploadedAt:       p.UploadedAt,
	}
}

type PhotoListResponse struct {
	Photos     []PhotoResponse `json:"photos"`
	Pagination Pagination      `json:"pagination"`
}

// FailedUpload reports one file of a batch that did not make it, with the
// originating filename so the uploader can retry just that file.
type FailedUpload struct {
	FileName string `json:"file_name"`
	Error    string `json:"error"`
}

// UploadBatchResponse is the mixed per-file result of Upload Intake: nine of
// ten succeeding is a success with one entry in Failed.
type UploadBatchResponse struct {
	Uploaded []PhotoResponse `json:"uploaded"`
	Failed   []FailedUpload  `json:"failed,omitempty"`
}
