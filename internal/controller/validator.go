package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateGameRequest picks a time control preset. Empty means untimed.
type CreateGameRequest struct {
	TimeControl string `json:"timeControl" validate:"max=16"`
}

// validateStruct runs the struct's validate tags and flattens the failures
// into one readable message.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	var details strings.Builder
	for _, fe := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch fe.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			details.WriteString(fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			details.WriteString(fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(details.String())
}

// parseBody decodes and validates a JSON body. On failure the 400 response
// has already been written and handled is true.
func parseBody(c *fiber.Ctx, v interface{}) (handled bool, err error) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(v); err != nil {
			return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "invalid request body",
				"details": err.Error(),
			})
		}
	}
	if err := validateStruct(v); err != nil {
		return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": err.Error(),
		})
	}
	return false, nil
}
