package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eventsnap/eventsnap-backend/internal/models"
	"github.com/eventsnap/eventsnap-backend/pkg/bcrypt"
	"github.com/eventsnap/eventsnap-backend/pkg/utils"
	"go.uber.org/zap"
)

// eventIDMaxRetries bounds the collision loop around the id generator.
const eventIDMaxRetries = 5

type EventService struct {
	eventRepo EventStore
	photoRepo PhotoStore
	hostRepo  HostStore
	qr        QRRenderer
	mailer    CredentialMailer
	logger    *zap.Logger
	baseURL   string
}

func NewEventService(
	eventRepo EventStore,
	photoRepo PhotoStore,
	hostRepo HostStore,
	qr QRRenderer,
	mailer CredentialMailer,
	logger *zap.Logger,
	baseURL string,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		photoRepo: photoRepo,
		hostRepo:  hostRepo,
		qr:        qr,
		mailer:    mailer,
		logger:    logger,
		baseURL:   baseURL,
	}
}

func (s *EventService) toResponse(event *models.Event) *models.EventResponse {
	return &models.EventResponse{
		ID:            event.ID,
		PublicID:      event.PublicID,
		Title:         event.Title,
		Description:   event.Description,
		ScheduledDate: event.ScheduledDate,
		Active:        event.Active,
		Settings:      event.Settings,
		Stats:         event.Stats,
		QRCodeImage:   event.QRCodeImage,
		UploadURL:     utils.UploadURL(s.baseURL, event.PublicID),
		GalleryURL:    utils.GalleryURL(s.baseURL, event.PublicID),
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}
}

// Lengths count runes, not bytes, so multibyte titles get the full budget.
func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < 3 || n > 100 {
		return "", models.NewValidationError("Event title must be between 3 and 100 characters")
	}
	return title, nil
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > 500 {
		return "", models.NewValidationError("Description cannot exceed 500 characters")
	}
	return description, nil
}

func parseScheduledDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, models.NewValidationError("Please provide a valid date")
}

func defaultSettings() models.EventSettings {
	return models.EventSettings{
		AllowAnonymousUpload: true,
		RequireApproval:      false,
		MaxPhotosPerUser:     models.DefaultMaxPhotosPerUser,
		AllowedMimeTypes:     append([]string(nil), models.DefaultAllowedMimeTypes...),
		MaxFileSizeBytes:     models.DefaultMaxFileSizeBytes,
	}
}

func applySettings(settings *models.EventSettings, req *models.EventSettingsRequest) {
	if req == nil {
		return
	}
	if req.AllowAnonymousUpload != nil {
		settings.AllowAnonymousUpload = *req.AllowAnonymousUpload
	}
	if req.RequireApproval != nil {
		settings.RequireApproval = *req.RequireApproval
	}
	if req.MaxPhotosPerUser != nil {
		settings.MaxPhotosPerUser = *req.MaxPhotosPerUser
	}
	if req.AllowedMimeTypes != nil {
		settings.AllowedMimeTypes = req.AllowedMimeTypes
	}
	if req.MaxFileSizeBytes != nil {
		settings.MaxFileSizeBytes = *req.MaxFileSizeBytes
	}
}

// generatePublicID retries the pure generator against the store. Collisions
// are astronomically rare, the bound is a safety net.
func (s *EventService) generatePublicID() (string, error) {
	for i := 0; i < eventIDMaxRetries; i++ {
		publicID := utils.GenerateEventID()
		exists, err := s.eventRepo.PublicIDExists(publicID)
		if err != nil {
			return "", models.NewInternalError("Failed to check event ID", err)
		}
		if !exists {
			return publicID, nil
		}
		s.logger.Warn("event id collision, retrying", zap.String("public_id", publicID))
	}
	return "", models.ErrGenerationExhausted
}

// renderQR fills event.QRCodeImage. Failure is degraded success: the event
// exists without its QR image and the caller reports it as pending.
func (s *EventService) renderQR(event *models.Event) bool {
	dataURL, err := s.qr.GenerateDataURL(event.PublicID, 0)
	if err != nil {
		s.logger.Error("failed to render QR code",
			zap.String("public_id", event.PublicID),
			zap.Error(err),
		)
		return false
	}
	event.QRCodeImage = dataURL
	if err := s.eventRepo.Update(event); err != nil {
		s.logger.Error("failed to persist QR code",
			zap.String("public_id", event.PublicID),
			zap.Error(err),
		)
		return false
	}
	return true
}

// CreateEvent is the organizer path: authenticated platform account owns the
// new event.
func (s *EventService) CreateEvent(p models.Principal, req models.CreateEventRequest) (*models.EventResponse, error) {
	if p.Role != models.RoleOrganizer && p.Role != models.RoleAdmin {
		return nil, models.ErrAccessDenied
	}

	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(req.Description)
	if err != nil {
		return nil, err
	}
	scheduledDate, err := parseScheduledDate(req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	publicID, err := s.generatePublicID()
	if err != nil {
		return nil, err
	}

	settings := defaultSettings()
	applySettings(&settings, req.Settings)

	ownerID := p.UserID
	event := &models.Event{
		PublicID:      publicID,
		Title:         title,
		Description:   description,
		ScheduledDate: scheduledDate,
		OwnerID:       &ownerID,
		Active:        true,
		Settings:      settings,
	}

	created, err := s.eventRepo.Create(event)
	if err != nil {
		return nil, models.NewInternalError("Failed to create event", err)
	}

	s.renderQR(created)

	s.logger.Info("event created",
		zap.String("public_id", created.PublicID),
		zap.Uint("owner_id", ownerID),
	)
	return s.toResponse(created), nil
}

// HostCreateEvent is the self-service path: no platform account, a Host
// credential is minted alongside the event and mailed out. QR and email
// failures degrade the response instead of rolling anything back.
func (s *EventService) HostCreateEvent(req models.HostCreateEventRequest) (*models.HostCreateEventResponse, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(req.Description)
	if err != nil {
		return nil, err
	}
	scheduledDate, err := parseScheduledDate(req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	publicID, err := s.generatePublicID()
	if err != nil {
		return nil, err
	}

	password := req.Password
	if password == "" {
		password = utils.GenerateRandomString(10)
	}

	hashedPassword, err := bcrypt.HashPassword(password)
	if err != nil {
		return nil, models.NewInternalError("Failed to hash password", err)
	}

	host := &models.Host{
		EventPublicID: publicID,
		Email:         req.HostEmail,
		Password:      hashedPassword,
		Active:        true,
	}
	if err := s.hostRepo.Create(host); err != nil {
		return nil, models.NewInternalError("Failed to create event host", err)
	}

	settings := defaultSettings()
	settings.RequireApproval = true // host-created events moderate by default

	event := &models.Event{
		PublicID:      publicID,
		Title:         title,
		Description:   description,
		ScheduledDate: scheduledDate,
		OwnerID:       nil,
		Active:        true,
		Settings:      settings,
	}
	created, err := s.eventRepo.Create(event)
	if err != nil {
		return nil, models.NewInternalError("Failed to create event", err)
	}

	qrOK := s.renderQR(created)

	emailSent := true
	err = s.mailer.SendEventCredentials(
		req.HostEmail, title, publicID, password,
		utils.UploadURL(s.baseURL, publicID), scheduledDate,
	)
	if err != nil {
		emailSent = false
		s.logger.Warn("credential email failed",
			zap.String("public_id", publicID),
			zap.Error(err),
		)
	}

	s.logger.Info("host event created",
		zap.String("public_id", publicID),
		zap.Bool("email_sent", emailSent),
		zap.Bool("qr_rendered", qrOK),
	)

	return &models.HostCreateEventResponse{
		Event:     s.toResponse(created),
		EmailSent: emailSent,
		QRPending: !qrOK,
	}, nil
}

// GetEvent is the moderator read: full projection including settings, stats
// and QR image.
func (s *EventService) GetEvent(p models.Principal, publicID string) (*models.EventResponse, error) {
	event, err := s.eventRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}
	if err := CanModerateEvent(p, event); err != nil {
		return nil, err
	}
	return s.toResponse(event), nil
}

// GetPublicEvent exposes only what the upload form needs. Soft-deleted events
// are invisible here.
func (s *EventService) GetPublicEvent(publicID string) (*models.PublicEventResponse, error) {
	event, err := s.eventRepo.GetActiveByPublicID(publicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}
	return &models.PublicEventResponse{
		PublicID:         event.PublicID,
		Title:            event.Title,
		Description:      event.Description,
		ScheduledDate:    event.ScheduledDate,
		AllowedMimeTypes: event.Settings.AllowedMimeTypes,
		MaxPhotosPerUser: event.Settings.MaxPhotosPerUser,
		MaxFileSizeBytes: event.Settings.MaxFileSizeBytes,
	}, nil
}

func (s *EventService) ListEvents(p models.Principal, page, limit int) (*models.EventListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var events []models.Event
	var total int64
	var err error

	switch p.Role {
	case models.RoleAdmin:
		events, total, err = s.eventRepo.ListAll(page, limit)
	case models.RoleOrganizer:
		events, total, err = s.eventRepo.ListByOwner(p.UserID, page, limit)
	default:
		return nil, models.ErrAccessDenied
	}
	if err != nil {
		return nil, models.NewInternalError("Failed to list events", err)
	}

	responses := make([]models.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, *s.toResponse(&events[i]))
	}

	return &models.EventListResponse{
		Events:     responses,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

func (s *EventService) UpdateEvent(p models.Principal, publicID string, req models.UpdateEventRequest) (*models.EventResponse, error) {
	event, err := s.eventRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}
	if err := CanUpdateEvent(p, event); err != nil {
		return nil, err
	}

	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		event.Title = title
	}
	if req.Description != nil {
		description, err := validateDescription(*req.Description)
		if err != nil {
			return nil, err
		}
		event.Description = description
	}
	if req.ScheduledDate != nil {
		scheduledDate, err := parseScheduledDate(*req.ScheduledDate)
		if err != nil {
			return nil, err
		}
		event.ScheduledDate = scheduledDate
	}
	applySettings(&event.Settings, req.Settings)

	if err := s.eventRepo.Update(event); err != nil {
		return nil, models.NewInternalError("Failed to update event", err)
	}

	return s.toResponse(event), nil
}

// DeleteEvent retires the event: the active flag flips, photos stay in place
// and keep counting in owner stats. Public lookups stop seeing it.
func (s *EventService) DeleteEvent(p models.Principal, publicID string) error {
	event, err := s.eventRepo.GetByPublicID(publicID)
	if err != nil {
		return models.ErrEventNotFound
	}
	if err := CanDeleteEvent(p, event); err != nil {
		return err
	}

	event.Active = false
	if err := s.eventRepo.Update(event); err != nil {
		return models.NewInternalError("Failed to delete event", err)
	}

	s.logger.Info("event deactivated", zap.String("public_id", publicID))
	return nil
}

// GetEventStats refreshes the derived counters from the photo set and returns
// them with the most recent uploads. The refresh doubles as self-healing for
// any drift left behind by a failed recount.
func (s *EventService) GetEventStats(p models.Principal, publicID string) (*models.EventStatsResponse, error) {
	event, err := s.eventRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}
	if err := CanModerateEvent(p, event); err != nil {
		return nil, err
	}

	stats, err := s.eventRepo.RefreshStats(event.ID)
	if err != nil {
		return nil, models.NewInternalError("Failed to compute event statistics", err)
	}

	recent, err := s.photoRepo.Recent(event.ID, 5)
	if err != nil {
		return nil, models.NewInternalError("Failed to load recent photos", err)
	}
	recentResponses := make([]models.PhotoResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, models.NewPhotoResponse(&recent[i]))
	}

	return &models.EventStatsResponse{
		Stats:        *stats,
		RecentPhotos: recentResponses,
		EventTitle:   event.Title,
		EventDate:    event.ScheduledDate,
	}, nil
}

// GetQRCode renders on demand at the requested size; the stored image is the
// default 300px render.
func (s *EventService) GetQRCode(p models.Principal, publicID string, size int) (*models.QRCodeResponse, error) {
	event, err := s.eventRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}
	if err := CanModerateEvent(p, event); err != nil {
		return nil, err
	}

	dataURL, err := s.qr.GenerateDataURL(event.PublicID, size)
	if err != nil {
		return nil, models.NewUpstreamError("Failed to generate QR code", err)
	}

	return &models.QRCodeResponse{
		PublicID:  event.PublicID,
		QRCode:    dataURL,
		UploadURL: s.qr.UploadURL(event.PublicID),
		Size:      size,
	}, nil
}

// GetQRCodePNG serves the raw image for direct download or print embedding.
func (s *EventService) GetQRCodePNG(p models.Principal, publicID string, size int) ([]byte, error) {
	event, err := s.eventRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}
	if err := CanModerateEvent(p, event); err != nil {
		return nil, err
	}

	png, err := s.qr.GeneratePNG(event.PublicID, size)
	if err != nil {
		return nil, models.NewUpstreamError("Failed to generate QR code", err)
	}
	return png, nil
}

var qrPackageSizes = []int{200, 300, 500}

// GetQRPackage bundles several print sizes in one response.
func (s *EventService) GetQRPackage(p models.Principal, publicID string) (*models.QRPackageResponse, error) {
	event, err := s.eventRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}
	if err := CanModerateEvent(p, event); err != nil {
		return nil, err
	}

	sizes := make(map[string]string, len(qrPackageSizes))
	for _, size := range qrPackageSizes {
		dataURL, err := s.qr.GenerateDataURL(event.PublicID, size)
		if err != nil {
			return nil, models.NewUpstreamError("Failed to generate QR package", err)
		}
		sizes[fmt.Sprintf("%dpx", size)] = dataURL
	}

	return &models.QRPackageResponse{
		PublicID:   event.PublicID,
		UploadURL:  utils.UploadURL(s.baseURL, event.PublicID),
		GalleryURL: utils.GalleryURL(s.baseURL, event.PublicID),
		Sizes:      sizes,
	}, nil
}

// RegenerateQRCode re-renders from the immutable public id. The id itself is
// never regenerated.
func (s *EventService) RegenerateQRCode(p models.Principal, publicID string) (*models.EventResponse, error) {
	event, err := s.eventRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, models.ErrEventNotFound
	}
	if err := CanUpdateEvent(p, event); err != nil {
		return nil, err
	}

	if !s.renderQR(event) {
		return nil, models.NewUpstreamError("Failed to regenerate QR code", nil)
	}
	return s.toResponse(event), nil
}
