package handlers

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/internal/api/presenters"
	"Go-Voting-Backend/pkg/points"
	"github.com/gofiber/fiber/v2"
)

type (
	PointsHandler interface {
		GetPackages(c *fiber.Ctx) error
		GetUserPoints(c *fiber.Ctx) error
		GetPackageHistory(c *fiber.Ctx) error
	}

	pointsHandler struct {
		pointsService points.PointsService
	}
)

func NewPointsHandler(pointsService points.PointsService) PointsHandler {
	return &pointsHandler{
		pointsService: pointsService,
	}
}

func (h *pointsHandler) GetPackages(c *fiber.Ctx) error {
	packages, err := h.pointsService.GetPackages(c.Context())
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetPackages, err)
	}

	return presenters.SuccessResponse(c, packages, fiber.StatusOK, domain.MessageSuccessGetPackages)
}

func (h *pointsHandler) GetUserPoints(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	p, err := h.pointsService.GetUserPoints(c.Context(), userID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetUserPoints, err)
	}

	return presenters.SuccessResponse(c, p, fiber.StatusOK, domain.MessageSuccessGetUserPoints)
}

func (h *pointsHandler) GetPackageHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	histories, err := h.pointsService.GetPackageHistory(c.Context(), userID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetPackageHistory, err)
	}

	return presenters.SuccessResponse(c, histories, fiber.StatusOK, domain.MessageSuccessGetPackageHistory)
}
