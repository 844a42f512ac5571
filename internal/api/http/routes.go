package httpapi

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mjaramillo/weather-alert-api/internal/weather"
)

var validate = validator.New()

//go:embed openapi.json
var openAPIDocument []byte

// checkWeatherBody is the POST /check_weather request body. Pointer fields
// distinguish "missing" from a legitimate zero coordinate.
type checkWeatherBody struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
	Email     string   `json:"email" validate:"required"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. The apiKey guard
// covers both weather routes; the OpenAPI document stays open.
func RegisterRoutes(app *fiber.App, service *weather.Service, apiKey string) {
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(openAPIDocument)
	})

	guard := APIKeyAuth(apiKey)

	app.Post("/check_weather", guard, func(c *fiber.Ctx) error {
		var body checkWeatherBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "request body is required",
			})
		}

		if err := validate.Struct(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "latitude, longitude and email are required",
			})
		}

		result, err := service.CheckWeather(c.Context(), weather.Request{
			Latitude:  *body.Latitude,
			Longitude: *body.Longitude,
			Email:     body.Email,
		})
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(result)
	})

	app.Get("/notifications", guard, func(c *fiber.Ctx) error {
		email := c.Query("email")
		if email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "email query parameter is required",
			})
		}

		notifications, err := service.GetNotifications(c.Context(), email)
		if err != nil {
			return errorResponse(c, err)
		}

		if len(notifications) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("no notifications found for %s", email),
			})
		}

		return c.JSON(fiber.Map{
			"notifications": notifications,
		})
	})
}

// errorResponse maps the service failure taxonomy to HTTP status codes.
// The core classifies collaborator failures; only the boundary decides codes.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, weather.ErrInvalidRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, weather.ErrForecastUnavailable):
		status = fiber.StatusBadGateway
	case errors.Is(err, weather.ErrAlertDelivery), errors.Is(err, weather.ErrPersistence):
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
