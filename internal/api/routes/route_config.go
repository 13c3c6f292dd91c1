package routes

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/internal/api/handlers"
	"Go-Voting-Backend/internal/middleware"
	"Go-Voting-Backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App             *fiber.App
	PurchaseHandler handlers.PurchaseHandler
	CallbackHandler handlers.CallbackHandler
	VoteHandler     handlers.VoteHandler
	PointsHandler   handlers.PointsHandler
	EventHandler    handlers.EventHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
	Gatherer        prometheus.Gatherer
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Points()
	c.Payment()
	c.Votes()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": domain.MessageSuccessPing})
	})
	if c.Gatherer != nil {
		c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(c.Gatherer, promhttp.HandlerOpts{})))
	}
	c.App.Get("/api/v1/packages", c.PointsHandler.GetPackages)
	c.App.Get("/api/v1/candidates/:id/votes", c.EventHandler.GetCandidateVotes)
}

func (c *Config) Points() {
	points := c.App.Group("/api/v1/points", c.Middleware.AuthMiddleware(c.JWTService))
	{
		points.Post("/purchase", c.PurchaseHandler.Initiate)
		points.Get("/purchases", c.PurchaseHandler.GetUserPurchases)
		points.Get("/purchases/:id", c.PurchaseHandler.GetPurchase)
		points.Get("/me", c.PointsHandler.GetUserPoints)
		points.Get("/packages/history", c.PointsHandler.GetPackageHistory)
	}
}

// Payment routes are called by the gateway and authenticated by signature.
func (c *Config) Payment() {
	payment := c.App.Group("/api/v1/payment")
	payment.Post("/callback", c.CallbackHandler.HandleCallback)
}

func (c *Config) Votes() {
	votes := c.App.Group("/api/v1/votes", c.Middleware.AuthMiddleware(c.JWTService))
	{
		votes.Post("", c.VoteHandler.CastVote)
		votes.Get("", c.VoteHandler.GetUserVotes)
	}
}
