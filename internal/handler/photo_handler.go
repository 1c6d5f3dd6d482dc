package handler

import (
	"io"
	"strconv"

	"github.com/eventsnap/eventsnap-backend/internal/middleware"
	"github.com/eventsnap/eventsnap-backend/internal/models"
	"github.com/eventsnap/eventsnap-backend/internal/service"
	"github.com/eventsnap/eventsnap-backend/pkg/captcha"
	"github.com/gofiber/fiber/v2"
)

type PhotoHandler struct {
	photoService *service.PhotoService
	captcha      *captcha.TurnstileService
}

func NewPhotoHandler(photoService *service.PhotoService, captcha *captcha.TurnstileService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		captcha:      captcha,
	}
}

func photoIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("photoId"), 10, 32)
	if err != nil {
		return 0, models.NewValidationError("Invalid photo ID")
	}
	return uint(id), nil
}

func listQuery(c *fiber.Ctx) models.PhotoListQuery {
	return models.PhotoListQuery{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 0),
		Status:    models.PhotoStatus(c.Query("status")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
}

// UploadPhotos accepts a multipart batch under the "photos" field. Anonymous
// callers go through captcha when it is configured; a host or organizer token
// skips it.
func (h *PhotoHandler) UploadPhotos(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if p.Role == models.RoleAnonymous && h.captcha.Enabled() {
		if err := h.captcha.Verify(c.Context(), c.FormValue("captcha_token"), c.IP()); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Captcha verification failed"))
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid multipart form"))
	}

	files := make([]service.UploadFile, 0, len(form.File["photos"]))
	for _, fh := range form.File["photos"] {
		fh := fh
		files = append(files, service.UploadFile{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				f, err := fh.Open()
				return f, err
			},
		})
	}

	meta := models.UploaderMeta{
		Name:    c.FormValue("uploader_name"),
		Email:   c.FormValue("uploader_email"),
		Caption: c.FormValue("caption"),
	}

	resp, err := h.photoService.UploadBatch(c.Context(), p, c.Params("id"), files, meta)
	if err != nil {
		return serviceError(c, err)
	}

	status := fiber.StatusCreated
	if len(resp.Uploaded) == 0 {
		// Every file failed its own checks.
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(models.SuccessResponse(resp, "Upload processed"))
}

// ListEventPhotos is the moderator listing with status filters.
func (h *PhotoHandler) ListEventPhotos(c *fiber.Ctx) error {
	resp, err := h.photoService.ListEventPhotos(middleware.Principal(c), c.Params("id"), listQuery(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(resp, "Photos retrieved successfully"))
}

// GetGalleryPhotos is the public approved-only listing.
func (h *PhotoHandler) GetGalleryPhotos(c *fiber.Ctx) error {
	resp, err := h.photoService.GetGalleryPhotos(c.Params("id"), listQuery(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(resp, "Photos retrieved successfully"))
}

func (h *PhotoHandler) GetPhoto(c *fiber.Ctx) error {
	photoID, err := photoIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	photo, err := h.photoService.GetPhoto(middleware.Principal(c), photoID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(photo, "Photo retrieved successfully"))
}

func (h *PhotoHandler) DownloadPhoto(c *fiber.Ctx) error {
	photoID, err := photoIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	photo, err := h.photoService.RecordDownload(middleware.Principal(c), photoID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(photo, "Download recorded"))
}

func (h *PhotoHandler) UpdatePhotoStatus(c *fiber.Ctx) error {
	photoID, err := photoIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	var req models.UpdatePhotoStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	photo, err := h.photoService.UpdatePhotoStatus(middleware.Principal(c), photoID, req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(photo, "Photo status updated successfully"))
}

func (h *PhotoHandler) BulkUpdatePhotoStatus(c *fiber.Ctx) error {
	var req models.BulkUpdatePhotoStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	result, err := h.photoService.BulkUpdatePhotoStatus(middleware.Principal(c), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(result, "Photo statuses updated successfully"))
}

func (h *PhotoHandler) DeletePhoto(c *fiber.Ctx) error {
	photoID, err := photoIDParam(c)
	if err != nil {
		return serviceError(c, err)
	}

	if err := h.photoService.DeletePhoto(c.Context(), middleware.Principal(c), photoID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Photo deleted successfully"))
}
