package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/nws-forecast/internal/forecast"
	"github.com/bobby-s-dev/nws-forecast/internal/services"
)

// Commands are the user actions the control server can trigger.
type Commands interface {
	ShowForecast()
	CycleStyle()
	CloseView()
}

// StatusSource reports the state of a background component for health checks.
type StatusSource interface {
	GetStatus() map[string]interface{}
}

var startTime = time.Now()

type Handler struct {
	controller *services.Controller
	cycle      *forecast.Cycle
	commands   Commands
	schedule   StatusSource
	logger     *zap.Logger
}

// NewHandler builds the control handlers. schedule may be nil when periodic
// refresh is off.
func NewHandler(controller *services.Controller, cycle *forecast.Cycle, commands Commands, schedule StatusSource, logger *zap.Logger) *Handler {
	return &Handler{
		controller: controller,
		cycle:      cycle,
		commands:   commands,
		schedule:   schedule,
		logger:     logger,
	}
}

// GetForecast handles GET /api/v1/forecast
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	style := h.cycle.Active()
	if name := c.Query("style"); name != "" {
		parsed, err := forecast.ParseStyle(name)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		style = parsed
	}

	snapshot, ok := h.controller.Store().Current()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No forecast fetched yet",
		})
	}

	lines, err := forecast.Render(snapshot.Model, style)
	if err != nil {
		h.logger.Error("Failed to render forecast", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": forecast.Diagnostic(err),
		})
	}

	text := forecast.Text(lines)
	if c.Query("format") == "text" {
		return c.SendString(text + "\n")
	}

	return c.JSON(fiber.Map{
		"fetch_id":    snapshot.FetchID,
		"coordinates": snapshot.Coordinates,
		"fetched_at":  snapshot.FetchedAt,
		"style":       style.String(),
		"records":     snapshot.Model,
		"text":        text,
	})
}

// GetRaw handles GET /api/v1/forecast/raw
func (h *Handler) GetRaw(c *fiber.Ctx) error {
	snapshot, ok := h.controller.Store().Current()
	if !ok || len(snapshot.Raw) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No forecast fetched yet",
		})
	}

	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(snapshot.Raw)
}

// PostShow handles POST /api/v1/actions/show
func (h *Handler) PostShow(c *fiber.Ctx) error {
	h.logger.Info("Show forecast requested", zap.String("ip", c.IP()))
	h.commands.ShowForecast()
	return accepted(c, "show")
}

// PostCycle handles POST /api/v1/actions/cycle
func (h *Handler) PostCycle(c *fiber.Ctx) error {
	h.commands.CycleStyle()
	return accepted(c, "cycle")
}

// PostClose handles POST /api/v1/actions/close
func (h *Handler) PostClose(c *fiber.Ctx) error {
	h.logger.Info("Close view requested", zap.String("ip", c.IP()))
	h.commands.CloseView()
	return accepted(c, "close")
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	health := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"style":     h.cycle.Active().String(),
		"stats":     h.controller.GetStats(),
	}
	if h.schedule != nil {
		health["scheduler"] = h.schedule.GetStatus()
	}
	return c.JSON(health)
}

func accepted(c *fiber.Ctx, action string) error {
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"accepted": action,
	})
}
