package handler

import (
	"errors"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/middleware"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/service/photo"
)

type PhotoHandler struct {
	photoService photo.Service
}

func NewPhotoHandler(photoService photo.Service) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// Serve streams the photo behind a raw identifier. The identifier is
// whatever the member record holds: a filename, a legacy uploads path
// or a full (possibly URL-encoded) external URL. Misses are a definite
// plain-text 404; this route never answers with substitute imagery.
func (h *PhotoHandler) Serve(c *fiber.Ctx) error {
	raw := c.Params("+")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	preferUploaded := c.QueryBool("real")

	p, err := h.photoService.ServePhoto(c.Context(), raw, preferUploaded)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(fiber.StatusNotFound).SendString("photo not found")
		}
		log.Printf("photo: serve %q failed: %v", raw, err)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}

	c.Set(fiber.HeaderContentType, p.ContentType)
	// Assets are immutable once created; a resolved filename can be
	// cached essentially forever.
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendStream(p.Content, int(p.Size))
}

// Upload accepts one image file and returns the canonical filename the
// caller should assign to the member's photo reference.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	reader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer reader.Close()

	filename, err := h.photoService.Upload(c.Context(), file.Filename, mimeType, file.Size, reader)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotImage):
			return middleware.BadRequest("Only image files are accepted")
		case errors.Is(err, domain.ErrTooLarge):
			return middleware.TooLarge("File size must be at most 5MB")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"filename": filename})
}
