package repository

import (
	"fmt"

	"github.com/eventsnap/eventsnap-backend/internal/models"
	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(photo *models.Photo) error {
	return r.db.Create(photo).Error
}

func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.First(&photo, id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) GetByIDs(ids []uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.Where("id IN ?", ids).Find(&photos).Error
	return photos, err
}

// List pages through one event's photos, optionally filtered by status.
func (r *PhotoRepository) List(eventID uint, q models.PhotoListQuery) ([]models.Photo, int64, error) {
	query := r.db.Model(&models.Photo{}).Where("event_id = ?", eventID)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var photos []models.Photo
	err := query.Order(fmt.Sprintf("%s %s", q.SortBy, q.SortOrder)).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&photos).Error
	return photos, total, err
}

// Recent returns the newest n photos of an event regardless of status.
func (r *PhotoRepository) Recent(eventID uint, n int) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(n).
		Find(&photos).Error
	return photos, err
}

func (r *PhotoRepository) UpdateStatus(id uint, status models.PhotoStatus) error {
	return r.db.Model(&models.Photo{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PhotoRepository) Delete(id uint) error {
	return r.db.Delete(&models.Photo{}, id).Error
}

// IncrementViewCount bumps the counter atomically in the store; the counter
// never decreases.
func (r *PhotoRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Photo{}).Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *PhotoRepository) IncrementDownloadCount(id uint) error {
	return r.db.Model(&models.Photo{}).Where("id = ?", id).
		Update("download_count", gorm.Expr("download_count + 1")).Error
}
