package skill

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// SkillService представляет сервис для работы с навыками
type SkillService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	skills     storage.SkillStore
	users      storage.UserStore
}

// NewSkillService создает новый экземпляр SkillService
func NewSkillService(cfg *config.Config, skills storage.SkillStore, users storage.UserStore) *SkillService {
	return &SkillService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret, cfg.TokenTTLMinutes),
		skills:     skills,
		users:      users,
	}
}

// AddSkill добавляет навык текущего пользователя
func (s *SkillService) AddSkill(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if payload.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Skill name is required"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	skill := &models.Skill{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		UserID:      userID,
	}
	if err := s.skills.CreateSkill(ctx, skill); err != nil {
		log.Printf("Ошибка создания навыка: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create skill"})
	}

	return c.Status(fiber.StatusCreated).JSON(skill)
}

// GetSkills возвращает навыки текущего пользователя
func (s *SkillService) GetSkills(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	ctx, cancel := db.GetContext()
	defer cancel()

	skills, err := s.skills.ListSkillsByUser(ctx, userID)
	if err != nil {
		log.Printf("Ошибка запроса навыков: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load skills"})
	}
	if skills == nil {
		skills = []models.Skill{}
	}

	return c.JSON(skills)
}

// SearchSkills ищет чужие навыки по имени и категории
func (s *SkillService) SearchSkills(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)
	query := c.Query("q")
	category := c.Query("category")

	ctx, cancel := db.GetContext()
	defer cancel()

	skills, err := s.skills.SearchSkills(ctx, userID, query, category)
	if err != nil {
		log.Printf("Ошибка поиска навыков: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to search skills"})
	}

	// Добавляем владельца к каждому навыку
	results := make([]models.Skill, 0, len(skills))
	for _, skill := range skills {
		if owner, err := s.users.GetUserByID(ctx, skill.UserID); err == nil {
			skill.Owner = &models.User{ID: owner.ID, Username: owner.Username, Email: owner.Email}
		}
		results = append(results, skill)
	}

	return c.JSON(results)
}

// DeleteSkill удаляет навык текущего пользователя. Связанные предложения
// обмена и их сообщения удаляются каскадно.
func (s *SkillService) DeleteSkill(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	skillID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skill ID"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	skill, err := s.skills.GetSkill(ctx, skillID)
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}
	if skill.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only delete your own skills"})
	}

	if err := s.skills.DeleteSkill(ctx, skillID); err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}

	return c.JSON(fiber.Map{"success": true})
}
