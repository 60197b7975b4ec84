package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/registro-go-api/internal/service"
	"github.com/noah-isme/registro-go-api/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves the monthly matrix workbook.
type ExportHandler struct {
	service service.ExportService
	logger  zerolog.Logger
}

// NewExportHandler constructs the handler.
func NewExportHandler(service service.ExportService, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.With().Str("component", "export_handler").Logger(),
	}
}

// Register attaches export routes to the router group.
func (h *ExportHandler) Register(router fiber.Router) {
	router.Get("/matrix", h.matrix)
}

func (h *ExportHandler) matrix(c *fiber.Ctx) error {
	month := strings.TrimSpace(c.Query("month"))
	if month == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "month is required")
	}

	first, err := time.Parse("2006-01", month)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid month")
	}
	last := first.AddDate(0, 1, -1)

	policy, err := service.ParseCellPolicy(c.Query("cell_policy"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid cell policy")
	}

	payload, err := h.service.ExportMonthMatrix(
		c.Context(),
		first.Format("2006-01-02"),
		last.Format("2006-01-02"),
		c.Query("specialist"),
		policy,
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid date range")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to export matrix")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export matrix")
	}

	filename := fmt.Sprintf("matriz_%s.xlsx", first.Format("2006_01"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(payload)
}
