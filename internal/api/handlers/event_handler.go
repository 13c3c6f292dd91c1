package handlers

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/internal/api/presenters"
	"Go-Voting-Backend/pkg/event"
	"github.com/gofiber/fiber/v2"
)

type (
	EventHandler interface {
		GetCandidateVotes(c *fiber.Ctx) error
	}

	eventHandler struct {
		eventService event.EventService
	}
)

func NewEventHandler(eventService event.EventService) EventHandler {
	return &eventHandler{
		eventService: eventService,
	}
}

func (h *eventHandler) GetCandidateVotes(c *fiber.Ctx) error {
	count, err := h.eventService.CandidateVoteCount(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetCandidateVotes, err)
	}

	return presenters.SuccessResponse(c, count, fiber.StatusOK, domain.MessageSuccessGetCandidateVotes)
}
