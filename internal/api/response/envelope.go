package response

import (
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/sejin/dispatch-platform/pkg/util"
)

// Envelope is the uniform success wrapper every 2xx response uses. Data is
// omitted when the handler produced no value.
type Envelope struct {
	Success bool        `json:"success"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorEnvelope is the uniform failure wrapper. Errors is present only for
// field-level failures; Path only for authn/authz rejections.
type ErrorEnvelope struct {
	Success   bool                   `json:"success"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Errors    []apperrors.FieldError `json:"errors,omitempty"`
	Path      string                 `json:"path,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// OK writes a 200 success envelope carrying data.
func OK(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Envelope{Success: true, Code: "SUCCESS", Message: message, Data: data})
}

// OKEmpty writes a 200 success envelope with no data field.
func OKEmpty(c *fiber.Ctx, message string) error {
	return OK(c, message, nil)
}

// Created writes a 201 success envelope carrying data.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Code: "SUCCESS", Message: message, Data: data})
}

// Error writes the error envelope for a normalized AppError.
func Error(c *fiber.Ctx, appErr *apperrors.AppError) error {
	return c.Status(appErr.HTTPStatus).JSON(ErrorEnvelope{
		Success:   false,
		Code:      appErr.Code,
		Message:   appErr.Message,
		Errors:    appErr.Fields,
		Path:      appErr.Path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
