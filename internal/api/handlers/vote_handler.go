package handlers

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/internal/api/presenters"
	"Go-Voting-Backend/pkg/vote"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	VoteHandler interface {
		CastVote(c *fiber.Ctx) error
		GetUserVotes(c *fiber.Ctx) error
	}

	voteHandler struct {
		voteService vote.VoteService
		validator   *validator.Validate
	}
)

func NewVoteHandler(voteService vote.VoteService, validator *validator.Validate) VoteHandler {
	return &voteHandler{
		voteService: voteService,
		validator:   validator,
	}
}

func (h *voteHandler) CastVote(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CastVoteRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrInvalidRequest)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCastVote, domain.ErrInvalidRequest)
	}

	v, err := h.voteService.CastVote(c.Context(), *req, userID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedCastVote, err)
	}

	return presenters.SuccessResponse(c, v, fiber.StatusCreated, domain.MessageSuccessCastVote)
}

func (h *voteHandler) GetUserVotes(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := parsePagination(c)

	votes, count, err := h.voteService.GetUserVotes(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetUserVotes, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"votes":      votes,
		"pagination": paginationMeta(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetUserVotes)
}
