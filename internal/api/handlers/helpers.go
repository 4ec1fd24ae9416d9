package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/content-planner/internal/apperr"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	if err := Validate.RegisterValidation("time_slot", validateTimeSlot); err != nil {
		panic(err)
	}
}

// validateTimeSlot accepts an empty slot, HH:MM or a short free-form label.
func validateTimeSlot(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	return len(v) <= 32 && !strings.ContainsAny(v, "\r\n")
}

// bind parses the JSON body into in and validates it.
func bind(c *fiber.Ctx, in any) error {
	if err := c.BodyParser(in); err != nil {
		slog.Info(err.Error())
		return apperr.Validation("Invalid request body")
	}
	if err := Validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return apperr.Validation("field %s failed the %s check", strings.ToLower(f.Field()), f.Tag())
		}
		return apperr.Validation("Invalid request body")
	}
	return nil
}

// respond writes err as a JSON error with the status matching its kind.
func respond(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong"

	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrAuthentication):
		status = fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperr.ErrTransport):
		status = fiber.StatusBadGateway
	case errors.Is(err, apperr.ErrConfiguration):
		status = fiber.StatusServiceUnavailable
	default:
		slog.Info(err.Error())
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  apperr.KindName(err),
	})
}
