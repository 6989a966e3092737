package httpapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bethellan/MaranuiCam/internal/forecast"
	"github.com/bethellan/MaranuiCam/internal/store"
)

var validate = validator.New()

// DayWindow bounds the signed day offsets the API accepts. Requests
// outside it are rejected here; the assembly core never sees them.
type DayWindow struct {
	MaxPastDays   int
	MaxFutureDays int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *forecast.Service, st *store.MemoryStore, window DayWindow) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		offset, err := parseDayOffset(c, window)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Resolve the offset to a calendar day first, so a dataset
		// assembled before midnight is never served for the day the
		// same offset means afterwards. Serve the stored dataset when
		// one is held; assemble on a miss and publish the result for
		// the next request.
		day := service.RequestFor(offset).Day
		d, err := st.Latest(day)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to load forecast dataset")
			}
			d, err = service.Assemble(c.UserContext(), offset)
			if err != nil {
				return fiber.NewError(fiber.StatusServiceUnavailable, "forecast assembly canceled")
			}
			st.Publish(d)
		}

		return c.JSON(d)
	})
}

func parseDayOffset(c *fiber.Ctx, window DayWindow) (int, error) {
	raw := c.Query("offset", "0")
	offset, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: must be an integer", raw)
	}

	rule := fmt.Sprintf("min=%d,max=%d", -window.MaxPastDays, window.MaxFutureDays)
	if err := validate.Var(offset, rule); err != nil {
		return 0, fmt.Errorf("offset %d outside allowed window [%d,%d]",
			offset, -window.MaxPastDays, window.MaxFutureDays)
	}
	return offset, nil
}
