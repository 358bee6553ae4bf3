package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"docgen/internal/converter"
	"docgen/internal/docx"
	"docgen/internal/http/middleware"
	"docgen/internal/parse"
	"docgen/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_INPUT", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// inputMessage returns the user-facing message for input errors.
func inputMessage(err error) (string, bool) {
	var (
		ve validator.ValidationErrors
		ie *parse.InputError
	)
	switch {
	case errors.As(err, &ve):
		return validationMessage(ve), true
	case errors.As(err, &ie):
		if ie.Field == "" {
			return ie.Reason, true
		}
		return ie.Error(), true
	case errors.Is(err, parse.ErrInvalidInput):
		return "invalid input", true
	}
	return "", false
}

// respondError maps pipeline and service errors onto the error envelope.
// Only user input errors echo their message back.
func respondError(c *fiber.Ctx, err error) error {
	if msg, ok := inputMessage(err); ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", msg)
	}
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownKind):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, docx.ErrTemplate):
		return writeError(c, fiber.StatusUnprocessableEntity, "TEMPLATE_ERROR", "document template could not be rendered")
	case errors.Is(err, converter.ErrConversion):
		return writeError(c, fiber.StatusBadGateway, "CONVERSION_ERROR", "pdf conversion failed")
	case errors.Is(err, service.ErrStorageUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "artifact storage unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
