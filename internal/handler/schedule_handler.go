package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/registro-go-api/internal/dto"
	"github.com/noah-isme/registro-go-api/internal/service"
	"github.com/noah-isme/registro-go-api/internal/utils"
)

// ScheduleHandler wires the activity registration and status endpoints.
type ScheduleHandler struct {
	schedules service.ScheduleService
	summaries service.SummaryService
	logger    zerolog.Logger
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(schedules service.ScheduleService, summaries service.SummaryService, logger zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		summaries: summaries,
		logger:    logger.With().Str("component", "schedule_handler").Logger(),
	}
}

// Register attaches activity routes to the router group.
func (h *ScheduleHandler) Register(router fiber.Router) {
	router.Post("/batch", h.createBatch)
	router.Get("/summary", h.summary)
	router.Get("", h.list)
	router.Patch("/status", h.updateStatus)
}

func (h *ScheduleHandler) createBatch(c *fiber.Ctx) error {
	var payload dto.ScheduleBatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	response, err := h.schedules.CreateBatch(c.Context(), payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoDates), errors.Is(err, service.ErrInvalidRange):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to register activities")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to register activities")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activities registered", response)
}

func (h *ScheduleHandler) list(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "from and to are required")
	}

	response, err := h.schedules.QueryRange(c.Context(), from, to, c.Query("specialist"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid date range")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activities")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activities")
	}

	return utils.SendSuccess(c, "activities retrieved", response)
}

func (h *ScheduleHandler) updateStatus(c *fiber.Ctx) error {
	var payload dto.StatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	updated, err := h.schedules.UpdateStatusAndNotes(c.Context(), payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "activity not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update status")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update status")
		}
	}

	return utils.SendSuccess(c, "status updated", fiber.Map{"updated": updated})
}

func (h *ScheduleHandler) summary(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "month is required")
	}

	response, err := h.summaries.GetMonthSummary(c.Context(), month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid month")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build summary")
	}

	return utils.SendSuccess(c, "summary retrieved", response)
}
