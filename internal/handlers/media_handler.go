package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Felixnganga-max/kamson/internal/models"
	"github.com/Felixnganga-max/kamson/internal/services"
)

type MediaAPI interface {
	Upload(ctx context.Context, in services.UploadMediaInput) (*models.Media, error)
	List(ctx context.Context, category, mediaType string) ([]models.Media, error)
	Delete(ctx context.Context, id string) error
}

type MediaHandler struct {
	svc      MediaAPI
	maxBytes int
}

func NewMediaHandler(svc MediaAPI, maxBytes int) *MediaHandler {
	return &MediaHandler{svc: svc, maxBytes: maxBytes}
}

// POST /api/media/upload (multipart, file field "src")
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	file, fileType, err := formFile(c, "src", h.maxBytes)
	if err != nil {
		return err
	}
	in := services.UploadMediaInput{
		Title:     c.FormValue("title"),
		Category:  c.FormValue("category"),
		Type:      c.FormValue("type"),
		Thumbnail: c.FormValue("thumbnail"),
		File:      file,
		FileType:  fileType,
	}
	m, err := h.svc.Upload(c.Context(), in)
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusCreated, m)
}

// GET /api/media
func (h *MediaHandler) List(c *fiber.Ctx) error {
	media, err := h.svc.List(c.Context(), c.Query("category"), c.Query("type"))
	if err != nil {
		return err
	}
	return Success(c, fiber.StatusOK, media)
}

// DELETE /api/media/:id
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Media deleted successfully"})
}
