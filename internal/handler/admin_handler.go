package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/registro-go-api/internal/dto"
	"github.com/noah-isme/registro-go-api/internal/service"
	"github.com/noah-isme/registro-go-api/internal/utils"
)

// AdminHandler wires the audited administrative endpoints.
type AdminHandler struct {
	service service.AdminService
	auth    service.Authenticator
	logger  zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.AdminService, auth service.Authenticator, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		auth:    auth,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// RegisterPublic attaches the code verification endpoint; it sits
// outside the admin guard so the UI can probe a code before use.
func (h *AdminHandler) RegisterPublic(router fiber.Router) {
	router.Post("/verify", h.verify)
}

// Register attaches guarded admin routes to the router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Patch("/activities/:id/date", h.reschedule)
	router.Delete("/activities/:id", h.delete)
	router.Get("/audit", h.listAudit)
}

func (h *AdminHandler) verify(c *fiber.Ctx) error {
	var payload dto.AdminVerifyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	return utils.SendSuccess(c, "code verified", fiber.Map{"valid": h.auth.Verify(payload.Code)})
}

func (h *AdminHandler) reschedule(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AdminRescheduleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	entry, err := h.service.Reschedule(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "activity not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to reschedule activity")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to reschedule activity")
		}
	}

	return utils.SendSuccess(c, "activity rescheduled", entry)
}

func (h *AdminHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AdminDeleteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	actor := actorFromContext(c)
	entry, err := h.service.Delete(c.Context(), id, payload, actor)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "activity not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete activity")
	}

	return utils.SendSuccess(c, "activity deleted", entry)
}

func (h *AdminHandler) listAudit(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	recordID, err := parseQueryInt(c, "record_id")
	if err != nil || recordID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid record id")
	}

	req := dto.AuditListRequest{
		Page:     page,
		PageSize: pageSize,
		Action:   c.Query("action"),
		RecordID: uint(recordID),
	}

	response, err := h.service.ListAudit(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list audit entries")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list audit entries")
	}

	return utils.OK(c, response.Items, "audit entries retrieved", response.Pagination)
}
