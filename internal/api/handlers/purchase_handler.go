package handlers

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/internal/api/presenters"
	"Go-Voting-Backend/pkg/purchase"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PurchaseHandler interface {
		Initiate(c *fiber.Ctx) error
		GetUserPurchases(c *fiber.Ctx) error
		GetPurchase(c *fiber.Ctx) error
	}

	purchaseHandler struct {
		purchaseService purchase.PurchaseService
		validator       *validator.Validate
	}
)

func NewPurchaseHandler(purchaseService purchase.PurchaseService, validator *validator.Validate) PurchaseHandler {
	return &purchaseHandler{
		purchaseService: purchaseService,
		validator:       validator,
	}
}

func (h *purchaseHandler) Initiate(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.PurchaseRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrInvalidRequest)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInitiatePurchase, domain.ErrInvalidRequest)
	}

	resp, err := h.purchaseService.Initiate(c.Context(), *req, userID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedInitiatePurchase, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessInitiatePurchase)
}

func (h *purchaseHandler) GetUserPurchases(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := parsePagination(c)

	purchases, count, err := h.purchaseService.GetUserPurchases(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetPurchases, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"purchases":  purchases,
		"pagination": paginationMeta(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetPurchases)
}

func (h *purchaseHandler) GetPurchase(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	p, err := h.purchaseService.GetPurchase(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetPurchase, err)
	}

	return presenters.SuccessResponse(c, p, fiber.StatusOK, domain.MessageSuccessGetPurchase)
}
