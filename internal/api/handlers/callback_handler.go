package handlers

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/pkg/purchase"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	CallbackHandler interface {
		HandleCallback(c *fiber.Ctx) error
	}

	callbackHandler struct {
		callbackService purchase.CallbackService
		validator       *validator.Validate
	}
)

func NewCallbackHandler(callbackService purchase.CallbackService, validator *validator.Validate) CallbackHandler {
	return &callbackHandler{
		callbackService: callbackService,
		validator:       validator,
	}
}

// HandleCallback answers the gateway in plain text, which is the only
// acknowledgement format it accepts.
func (h *callbackHandler) HandleCallback(c *fiber.Ctx) error {
	req := new(domain.DuitkuCallbackRequest)
	if err := c.BodyParser(req); err != nil {
		log.Warnw("unparseable payment callback", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString(domain.CallbackResponseError)
	}

	if err := h.validator.Struct(req); err != nil {
		log.Warnw("invalid payment callback", "merchant_order_id", req.MerchantOrderID, "error", err)
		return c.Status(fiber.StatusBadRequest).SendString(domain.CallbackResponseError)
	}

	cb, err := domain.ParseDuitkuCallback(*req)
	if err != nil {
		log.Warnw("invalid payment callback", "merchant_order_id", req.MerchantOrderID, "error", err)
		return c.Status(fiber.StatusBadRequest).SendString(domain.CallbackResponseError)
	}

	_, err = h.callbackService.HandleCallback(c.Context(), cb)
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).SendString(domain.CallbackResponseSuccess)
	case errors.Is(err, domain.ErrInvalidSignature):
		return c.Status(fiber.StatusBadRequest).SendString(domain.CallbackResponseInvalidSignature)
	case errors.Is(err, domain.ErrUnknownOrder):
		return c.Status(fiber.StatusNotFound).SendString(domain.CallbackResponseError)
	case errors.Is(err, domain.ErrAmountMismatch):
		return c.Status(fiber.StatusBadRequest).SendString(domain.CallbackResponseError)
	default:
		log.Errorw("payment callback processing failed", "merchant_order_id", cb.MerchantOrderID, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString(domain.CallbackResponseError)
	}
}
