package trade

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *TradeService) SetupRoutes(app *fiber.App) {
	authMiddleware := middleware.AuthMiddleware(s.jwtService)

	app.Post("/trade/request", s.SendRequest, authMiddleware)
	app.Get("/trade/requests", s.GetRequests, authMiddleware)
	app.Put("/trade/requests/:id/accept", s.AcceptRequest, authMiddleware)
	app.Put("/trade/requests/:id/reject", s.RejectRequest, authMiddleware)
}
