package skill

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API навыков
func (s *SkillService) SetupRoutes(app *fiber.App) {
	authMiddleware := middleware.AuthMiddleware(s.jwtService)

	app.Post("/skills", s.AddSkill, authMiddleware)
	app.Get("/skills", s.GetSkills, authMiddleware)
	app.Delete("/skills/:id", s.DeleteSkill, authMiddleware)
	app.Get("/search", s.SearchSkills, authMiddleware)
}
