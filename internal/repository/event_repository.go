package repository

import (
	"github.com/eventsnap/eventsnap-backend/internal/models"
	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *models.Event) (*models.Event, error) {
	result := r.db.Create(event)
	if result.Error != nil {
		return nil, result.Error
	}
	return event, nil
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetByPublicID(publicID string) (*models.Event, error) {
	var event models.Event
	err := r.db.Where("public_id = ?", publicID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetActiveByPublicID is the public lookup: soft-deleted events are invisible
// here.
func (r *EventRepository) GetActiveByPublicID(publicID string) (*models.Event, error) {
	var event models.Event
	err := r.db.Where("public_id = ? AND active = ?", publicID, true).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) PublicIDExists(publicID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Where("public_id = ?", publicID).Count(&count).Error
	return count > 0, err
}

func (r *EventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// ListByOwner returns the organizer's events newest first, soft-deleted ones
// included so their history stays browsable.
func (r *EventRepository) ListByOwner(ownerID uint, page, limit int) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	query := r.db.Model(&models.Event{}).Where("owner_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	return events, total, err
}

// ListAll is the admin view across every owner.
func (r *EventRepository) ListAll(page, limit int) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	if err := r.db.Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	return events, total, err
}

// RefreshStats recounts the photo set of one event and persists the derived
// stats. Always a full recount, never an incremental update, so concurrent
// refreshes converge to the same value.
func (r *EventRepository) RefreshStats(eventID uint) (*models.EventStats, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var counts []statusCount
	err := r.db.Model(&models.Photo{}).
		Select("status, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	var totalViews int64
	err = r.db.Model(&models.Photo{}).
		Where("event_id = ?", eventID).
		Select("COALESCE(SUM(view_count), 0)").
		Scan(&totalViews).Error
	if err != nil {
		return nil, err
	}

	var stats models.EventStats
	for _, c := range counts {
		switch models.PhotoStatus(c.Status) {
		case models.PhotoStatusApproved:
			stats.ApprovedPhotos = int(c.Count)
		case models.PhotoStatusPending:
			stats.PendingPhotos = int(c.Count)
		case models.PhotoStatusRejected:
			stats.RejectedPhotos = int(c.Count)
		}
		stats.TotalPhotos += int(c.Count)
	}
	stats.TotalViews = int(totalViews)

	err = r.db.Model(&models.Event{}).Where("id = ?", eventID).Updates(map[string]interface{}{
		"stat_total_photos":    stats.TotalPhotos,
		"stat_approved_photos": stats.ApprovedPhotos,
		"stat_pending_photos":  stats.PendingPhotos,
		"stat_rejected_photos": stats.RejectedPhotos,
		"stat_total_views":     stats.TotalViews,
	}).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
