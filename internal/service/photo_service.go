package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/eventsnap/eventsnap-backend/internal/models"
	"github.com/eventsnap/eventsnap-backend/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// storageTimeout bounds every external storage call so a hung upload
	// reports StorageUnavailable instead of stalling the batch.
	storageTimeout = 30 * time.Second

	galleryPageSize   = 20
	moderatorPageSize = 20
)

// UploadFile decouples Upload Intake from the HTTP multipart types so the
// pipeline can be driven from tests.
type UploadFile struct {
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type PhotoService struct {
	photoRepo PhotoStore
	eventRepo EventStore
	media     storage.StorageService
	images    storage.ImageService
	validator EmailChecker
	logger    *zap.Logger
}

// EmailChecker validates uploader-supplied addresses.
type EmailChecker interface {
	IsEmail(email string) bool
}

func NewPhotoService(
	photoRepo PhotoStore,
	eventRepo EventStore,
	media storage.StorageService,
	images storage.ImageService,
	validator EmailChecker,
	logger *zap.Logger,
) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		eventRepo: eventRepo,
		media:     media,
		images:    images,
		validator: validator,
		logger:    logger,
	}
}

// refreshStats recounts one event's stats. A failure is logged and swallowed:
// stats are eventually consistent and the next recount heals them.
func (s *PhotoService) refreshStats(eventID uint) {
	if _, err := s.eventRepo.RefreshStats(eventID); err != nil {
		s.logger.Error("failed to refresh event stats",
			zap.Uint("event_id", eventID),
			zap.Error(err),
		)
	}
}

// UploadBatch is the Upload Intake pipeline. Batch-level preconditions
// (event, non-empty batch, batch size, uploader email) fail the whole call
// before anything is written; per-file problems (type, size, storage) fail
// only that file and are reported alongside the successes.
func (s *PhotoService) UploadBatch(ctx context.Context, p models.Principal, eventPublicID string, files []UploadFile, meta models.UploaderMeta) (*models.UploadBatchResponse, error) {
	event, err := s.eventRepo.GetActiveByPublicID(eventPublicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}

	if p.Role == models.RoleAnonymous && !event.Settings.AllowAnonymousUpload {
		return nil, models.NewAccessDeniedError("Anonymous uploads are not allowed for this event")
	}

	if len(files) == 0 {
		return nil, models.ErrNoFilesProvided
	}
	if len(files) > event.Settings.MaxPhotosPerUser {
		return nil, models.NewTooManyFilesError(event.Settings.MaxPhotosPerUser)
	}
	if meta.Email != "" && !s.validator.IsEmail(meta.Email) {
		return nil, models.NewInvalidEmailError(meta.Email)
	}

	uploaderName := meta.Name
	if uploaderName == "" {
		uploaderName = "Anonymous"
	}
	if utf8.RuneCountInString(meta.Caption) > 200 {
		return nil, models.NewValidationError("Caption cannot exceed 200 characters")
	}

	initialStatus := models.PhotoStatusApproved
	if event.Settings.RequireApproval {
		initialStatus = models.PhotoStatusPending
	}

	resp := &models.UploadBatchResponse{}
	for _, file := range files {
		photo, err := s.uploadOne(ctx, event, file, uploaderName, meta, initialStatus)
		if err != nil {
			s.logger.Warn("file upload failed",
				zap.String("event", event.PublicID),
				zap.String("file", file.FileName),
				zap.Error(err),
			)
			resp.Failed = append(resp.Failed, models.FailedUpload{
				FileName: file.FileName,
				Error:    models.UserMessage(err),
			})
			continue
		}
		resp.Uploaded = append(resp.Uploaded, models.NewPhotoResponse(photo))
	}

	// One recount per batch, after every file has settled.
	s.refreshStats(event.ID)

	s.logger.Info("upload batch processed",
		zap.String("event", event.PublicID),
		zap.Int("uploaded", len(resp.Uploaded)),
		zap.Int("failed", len(resp.Failed)),
	)
	return resp, nil
}

func allowedMimeType(allowed []string, mimeType string) bool {
	for _, t := range allowed {
		if t == mimeType {
			return true
		}
	}
	return false
}

func (s *PhotoService) uploadOne(ctx context.Context, event *models.Event, file UploadFile, uploaderName string, meta models.UploaderMeta, status models.PhotoStatus) (*models.Photo, error) {
	src, err := file.Open()
	if err != nil {
		return nil, models.NewInternalError("Failed to read file", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, models.NewInternalError("Failed to read file", err)
	}

	// Sniff the type when the client did not declare one.
	declaredType := file.ContentType
	if declaredType == "" {
		declaredType = mimetype.Detect(content).String()
	}

	if !allowedMimeType(event.Settings.AllowedMimeTypes, declaredType) {
		return nil, models.NewUnsupportedFileTypeError(file.FileName, declaredType)
	}
	if int64(len(content)) > event.Settings.MaxFileSizeBytes {
		return nil, models.NewFileTooLargeError(file.FileName, event.Settings.MaxFileSizeBytes)
	}

	width, height := 0, 0
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(content)); err == nil {
		width, height = cfg.Width, cfg.Height
	}

	key := fmt.Sprintf("events/%s/%s%s", event.PublicID, uuid.NewString(), filepath.Ext(file.FileName))

	storeCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	photoURL, err := s.media.Upload(storeCtx, key, bytes.NewReader(content), int64(len(content)), declaredType)
	if err != nil {
		return nil, models.NewUpstreamError("Storage unavailable", err)
	}

	// The variants upload is best-effort: the original already exists, a
	// missing thumbnail only degrades the gallery.
	thumbnailURL := ""
	imageID := ""
	imgCtx, cancelImg := context.WithTimeout(ctx, storageTimeout)
	defer cancelImg()
	if id, _, err := s.images.Upload(imgCtx, file.FileName, bytes.NewReader(content)); err != nil {
		s.logger.Warn("image variant upload failed",
			zap.String("file", file.FileName),
			zap.Error(err),
		)
	} else {
		imageID = id
		thumbnailURL = s.images.GetThumbnailURL(id)
	}

	photo := &models.Photo{
		EventID:          event.ID,
		MediaKey:         key,
		ImageID:          imageID,
		PhotoURL:         photoURL,
		ThumbnailURL:     thumbnailURL,
		OriginalFileName: file.FileName,
		MimeType:         declaredType,
		FileSize:         int64(len(content)),
		Width:            width,
		Height:           height,
		UploaderName:     uploaderName,
		UploaderEmail:    meta.Email,
		Caption:          meta.Caption,
		Status:           status,
		UploadedAt:       time.Now(),
	}

	if err := s.photoRepo.Create(photo); err != nil {
		// The record is the source of truth; without it the stored media is
		// orphaned, so clean up.
		delCtx, cancelDel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancelDel()
		_ = s.media.Delete(delCtx, key)
		if imageID != "" {
			_ = s.images.Delete(delCtx, imageID)
		}
		return nil, models.NewInternalError("Failed to save photo", err)
	}

	return photo, nil
}

// ListEventPhotos is the moderator listing: every status, filterable.
func (s *PhotoService) ListEventPhotos(p models.Principal, eventPublicID string, q models.PhotoListQuery) (*models.PhotoListResponse, error) {
	event, err := s.eventRepo.GetByPublicID(eventPublicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}
	if err := CanModerateEvent(p, event); err != nil {
		return nil, err
	}

	if q.Status != "" && !models.ValidPhotoStatus(q.Status) {
		return nil, models.NewValidationError("Invalid status filter %q", q.Status)
	}
	q.Normalize(moderatorPageSize)

	photos, total, err := s.photoRepo.List(event.ID, q)
	if err != nil {
		return nil, models.NewInternalError("Failed to list photos", err)
	}

	return buildPhotoList(photos, q, total), nil
}

// GetGalleryPhotos is the public listing: approved photos of active events
// only, regardless of what the caller asks for.
func (s *PhotoService) GetGalleryPhotos(eventPublicID string, q models.PhotoListQuery) (*models.PhotoListResponse, error) {
	event, err := s.eventRepo.GetActiveByPublicID(eventPublicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}

	q.Status = models.PhotoStatusApproved
	q.Normalize(galleryPageSize)

	photos, total, err := s.photoRepo.List(event.ID, q)
	if err != nil {
		return nil, models.NewInternalError("Failed to list photos", err)
	}

	return buildPhotoList(photos, q, total), nil
}

func buildPhotoList(photos []models.Photo, q models.PhotoListQuery, total int64) *models.PhotoListResponse {
	responses := make([]models.PhotoResponse, 0, len(photos))
	for i := range photos {
		responses = append(responses, models.NewPhotoResponse(&photos[i]))
	}
	return &models.PhotoListResponse{
		Photos:     responses,
		Pagination: models.NewPagination(q.Page, q.Limit, total),
	}
}

// GetPhoto returns one photo. Moderators of the owning event see any status;
// everyone else only approved photos of active events, and those reads count
// as views.
func (s *PhotoService) GetPhoto(p models.Principal, photoID uint) (*models.PhotoResponse, error) {
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		return nil, models.ErrPhotoNotFound
	}
	event, err := s.eventRepo.GetByID(photo.EventID)
	if err != nil {
		return nil, models.ErrPhotoNotFound
	}

	if CanModerateEvent(p, event) == nil {
		return respPtr(models.NewPhotoResponse(photo)), nil
	}

	if !photo.VisibleInPublicGallery(event) {
		return nil, models.ErrAccessDenied
	}

	if err := s.photoRepo.IncrementViewCount(photo.ID); err != nil {
		s.logger.Warn("failed to increment view count", zap.Uint("photo_id", photo.ID), zap.Error(err))
	} else {
		photo.ViewCount++
	}

	return respPtr(models.NewPhotoResponse(photo)), nil
}

func respPtr(r models.PhotoResponse) *models.PhotoResponse {
	return &r
}

// RecordDownload bumps the download counter for a publicly visible photo and
// returns its URL.
func (s *PhotoService) RecordDownload(p models.Principal, photoID uint) (*models.PhotoResponse, error) {
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		return nil, models.ErrPhotoNotFound
	}
	event, err := s.eventRepo.GetByID(photo.EventID)
	if err != nil {
		return nil, models.ErrPhotoNotFound
	}

	if CanModerateEvent(p, event) != nil && !photo.VisibleInPublicGallery(event) {
		return nil, models.ErrAccessDenied
	}

	if err := s.photoRepo.IncrementDownloadCount(photo.ID); err != nil {
		s.logger.Warn("failed to increment download count", zap.Uint("photo_id", photo.ID), zap.Error(err))
	} else {
		photo.DownloadCount++
	}

	return respPtr(models.NewPhotoResponse(photo)), nil
}

// UpdatePhotoStatus moves one photo through the moderation state machine and
// recounts the owning event. Access is re-checked here, against current
// ownership, right before the write.
func (s *PhotoService) UpdatePhotoStatus(p models.Principal, photoID uint, status models.PhotoStatus) (*models.PhotoResponse, error) {
	if !models.ValidPhotoStatus(status) {
		return nil, models.NewValidationError("Invalid status. Must be approved, rejected, or pending")
	}

	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		return nil, models.ErrPhotoNotFound
	}
	event, err := s.eventRepo.GetByID(photo.EventID)
	if err != nil {
		return nil, models.ErrPhotoNotFound
	}
	if err := CanModerateEvent(p, event); err != nil {
		return nil, err
	}

	if err := s.photoRepo.UpdateStatus(photo.ID, status); err != nil {
		return nil, models.NewInternalError("Failed to update photo status", err)
	}
	photo.Status = status

	s.refreshStats(event.ID)

	s.logger.Info("photo status updated",
		zap.Uint("photo_id", photo.ID),
		zap.String("status", string(status)),
	)
	return respPtr(models.NewPhotoResponse(photo)), nil
}

// BulkUpdateStatusResult reports how much of a bulk request actually applied.
type BulkUpdateStatusResult struct {
	UpdatedCount   int `json:"updated_count"`
	TotalRequested int `json:"total_requested"`
}

// BulkUpdatePhotoStatus transitions many photos at once. Photos outside the
// caller's scope are skipped, and stats are recounted once per distinct
// affected event, not once per photo.
func (s *PhotoService) BulkUpdatePhotoStatus(p models.Principal, req models.BulkUpdatePhotoStatusRequest) (*BulkUpdateStatusResult, error) {
	if !models.ValidPhotoStatus(req.Status) {
		return nil, models.NewValidationError("Invalid status. Must be approved, rejected, or pending")
	}
	if len(req.PhotoIDs) == 0 {
		return nil, models.NewValidationError("Photo IDs are required")
	}

	photos, err := s.photoRepo.GetByIDs(req.PhotoIDs)
	if err != nil {
		return nil, models.NewInternalError("Failed to load photos", err)
	}

	events := map[uint]*models.Event{}
	updated := 0
	affected := map[uint]bool{}
	for i := range photos {
		photo := &photos[i]
		event, ok := events[photo.EventID]
		if !ok {
			event, err = s.eventRepo.GetByID(photo.EventID)
			if err != nil {
				continue
			}
			events[photo.EventID] = event
		}
		if CanModerateEvent(p, event) != nil {
			continue
		}
		if err := s.photoRepo.UpdateStatus(photo.ID, req.Status); err != nil {
			s.logger.Error("bulk status update failed for photo",
				zap.Uint("photo_id", photo.ID),
				zap.Error(err),
			)
			continue
		}
		updated++
		affected[photo.EventID] = true
	}

	if updated == 0 {
		return nil, models.NewNotFoundError("No accessible photos found")
	}

	for eventID := range affected {
		s.refreshStats(eventID)
	}

	return &BulkUpdateStatusResult{
		UpdatedCount:   updated,
		TotalRequested: len(req.PhotoIDs),
	}, nil
}

// DeletePhoto removes the record and recounts. Backing media deletion is
// best-effort: a storage failure is logged and the record still goes away.
func (s *PhotoService) DeletePhoto(ctx context.Context, p models.Principal, photoID uint) error {
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		return models.ErrPhotoNotFound
	}
	event, err := s.eventRepo.GetByID(photo.EventID)
	if err != nil {
		return models.ErrPhotoNotFound
	}
	if err := CanModerateEvent(p, event); err != nil {
		return err
	}

	delCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	if err := s.media.Delete(delCtx, photo.MediaKey); err != nil {
		s.logger.Warn("failed to delete media from storage",
			zap.String("key", photo.MediaKey),
			zap.Error(err),
		)
	}
	if photo.ImageID != "" {
		if err := s.images.Delete(delCtx, photo.ImageID); err != nil {
			s.logger.Warn("failed to delete image variants",
				zap.String("image_id", photo.ImageID),
				zap.Error(err),
			)
		}
	}

	if err := s.photoRepo.Delete(photo.ID); err != nil {
		return models.NewInternalError("Failed to delete photo", err)
	}

	s.refreshStats(event.ID)

	s.logger.Info("photo deleted", zap.Uint("photo_id", photo.ID))
	return nil
}
