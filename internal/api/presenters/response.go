package presenters

import (
	"Go-Voting-Backend/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes err with an explicit status. Only errors from the
// domain taxonomy are shown to the caller verbatim.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	if statusCode >= fiber.StatusInternalServerError {
		log.Errorw("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(statusCode).JSON(Response{
		Status:  false,
		Message: message,
		Error:   domain.PublicError(err),
		Code:    domain.ErrorCode(err),
	})
}

// DomainErrorResponse derives the status from err.
func DomainErrorResponse(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, domain.HTTPStatus(err), message, err)
}
