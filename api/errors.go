package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Error is the JSON shape every failed request resolves to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (e Error) Error() string {
	return e.Message
}

func NewError(code int, msg string) Error {
	return Error{
		Code:    code,
		Message: msg,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid request body",
	}
}

func ErrFileTooLarge() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "file too large",
	}
}

func ErrUnsupportedFile() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "unsupported file type",
	}
}

// ValidationError reports per-field failures from request validation.
type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(fields map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: fields,
	}
}

func NewErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr Error
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.Code).JSON(apiErr)
		}

		var valErr ValidationError
		if errors.As(err, &valErr) {
			return c.Status(valErr.Status).JSON(valErr)
		}

		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		apiErr = NewError(code, err.Error())
		log.Error("request failed", "code", apiErr.Code, "error", apiErr.Message)
		return c.Status(apiErr.Code).JSON(apiErr)
	}
}
