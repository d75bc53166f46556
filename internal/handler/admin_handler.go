package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/middleware"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/service/photo"
)

type AdminHandler struct {
	photoService photo.Service
}

func NewAdminHandler(photoService photo.Service) *AdminHandler {
	return &AdminHandler{photoService: photoService}
}

// SetMemberPhoto force-sets a member's photo reference to an explicit
// filename, bypassing resolution.
func (h *AdminHandler) SetMemberPhoto(c *fiber.Ctx) error {
	memberID, err := uuid.Parse(c.Params("memberId"))
	if err != nil {
		return middleware.BadRequest("Invalid member ID")
	}

	var input domain.SetPhotoInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Filename == "" {
		return middleware.BadRequest("Filename is required")
	}

	if err := h.photoService.SetMemberPhoto(c.Context(), memberID, input.Filename); err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return middleware.NotFound("Member not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"member_id": memberID,
		"photo_id":  input.Filename,
	})
}

func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.photoService.Reconcile(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrMaintenanceBusy) {
			return middleware.Conflict("A maintenance run is already in progress")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(report)
}

func (h *AdminHandler) CollectOrphans(c *fiber.Ctx) error {
	var retention time.Duration
	if v := c.Query("retention"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < 0 {
			return middleware.BadRequest("Invalid retention duration")
		}
		retention = parsed
	}

	report, err := h.photoService.CollectOrphans(c.Context(), retention)
	if err != nil {
		if errors.Is(err, domain.ErrMaintenanceBusy) {
			return middleware.Conflict("A maintenance run is already in progress")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(report)
}

func (h *AdminHandler) ListAssets(c *fiber.Ctx) error {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 50),
	}

	result, err := h.photoService.ListAssets(c.Context(), params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
