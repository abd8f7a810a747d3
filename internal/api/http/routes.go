package httpapi

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-session/internal/session"
)

var validate = validator.New()

// RegisterRoutes wires the session endpoints into the Fiber app.
func RegisterRoutes(app *fiber.App, ctrl *session.Controller) {
	v1 := app.Group("/api/v1")

	v1.Get("/session", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Snapshot())
	})

	v1.Post("/session/city", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := bind(c, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ctrl.SelectCity(req.City)
		return c.SendStatus(fiber.StatusAccepted)
	})

	v1.Post("/session/forecast", func(c *fiber.Ctx) error {
		var req forecastRequest
		if err := bind(c, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ctrl.FetchForecast(req.Latitude, req.Longitude)
		return c.SendStatus(fiber.StatusAccepted)
	})

	v1.Post("/session/location", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := bind(c, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ctrl.ReconcileLocation(req.City)
		return c.JSON(ctrl.Snapshot())
	})

	v1.Get("/forecast/hourly", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Snapshot().Hourly)
	})

	v1.Get("/forecast/daily", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Snapshot().Daily)
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"cities":  ctrl.Cities(),
			"weather": ctrl.CityWeather(),
		})
	})

	v1.Post("/cities", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := bind(c, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ctrl.AddCity(req.City)
		return c.SendStatus(fiber.StatusCreated)
	})

	v1.Delete("/cities/:name", func(c *fiber.Ctx) error {
		// Path params arrive percent-encoded.
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "invalid city name")
		}
		ctrl.RemoveCity(name)
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/cities/refresh", func(c *fiber.Ctx) error {
		ctrl.RefreshCityList()
		return c.SendStatus(fiber.StatusAccepted)
	})
}

// cityRequest carries a single city name.
type cityRequest struct {
	City string `json:"city" validate:"required"`
}

// forecastRequest carries the coordinates for a forecast fetch.
type forecastRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return err
	}
	return validate.Struct(req)
}
