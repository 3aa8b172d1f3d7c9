package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/medpredict/alert-service/internal/domain"
)

// toHTTPError maps domain sentinels onto fiber errors so the central error
// handler renders the right status.
func toHTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConfiguration):
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	default:
		return err
	}
}
