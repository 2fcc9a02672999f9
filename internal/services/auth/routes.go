package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты регистрации и профилей
func (s *AuthService) SetupRoutes(app *fiber.App) {
	app.Post("/register", s.Register)
	app.Post("/login", s.Login)

	authMiddleware := middleware.AuthMiddleware(s.jwtService)

	app.Get("/profile", s.Profile, authMiddleware)

	// /users/me регистрируется раньше /users/:id
	app.Get("/users/me", s.GetMyProfile, authMiddleware)
	app.Get("/users/:id", s.GetUserProfile)
}
