package chat

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API чатов
func (s *ChatService) SetupRoutes(app *fiber.App) {
	authMiddleware := middleware.AuthMiddleware(s.jwtService)

	// /chat/conversations и /chat/user/:user_id регистрируются
	// раньше /chat/:request_id
	app.Get("/chat/conversations", s.ListConversations, authMiddleware)
	app.Get("/chat/user/:user_id", s.GetConversationWithUser, authMiddleware)
	app.Get("/chat/:request_id", s.GetHistoryByRequest, authMiddleware)
}
