package auth

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// AuthService – структура для обработки регистрации и авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	users      storage.UserStore
	skills     storage.SkillStore
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, users storage.UserStore, skills storage.SkillStore) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret, cfg.TokenTTLMinutes),
		users:      users,
		skills:     skills,
	}
}

// GetJWTService возвращает сервис JWT для использования в middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// Register создает нового пользователя
func (s *AuthService) Register(c fiber.Ctx) error {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	if len(payload.Username) < 3 || len(payload.Username) > 50 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username must be 3-50 characters"})
	}
	if len(payload.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Password must be at least 6 characters"})
	}
	if payload.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is required"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register user"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user := &models.User{
		Username: payload.Username,
		Email:    payload.Email,
		Password: string(hashed),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}

	return c.JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user.Username,
	})
}

// Login проверяет учетные данные и выдает JWT
func (s *AuthService) Login(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Несуществующий email и неверный пароль неразличимы для клиента
	user, err := s.users.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{"token": token})
}

// Profile возвращает данные текущего пользователя
func (s *AuthService) Profile(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// GetMyProfile возвращает профиль текущего пользователя вместе с навыками
func (s *AuthService) GetMyProfile(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)
	return s.userProfile(c, userID)
}

// GetUserProfile возвращает публичный профиль пользователя с навыками
func (s *AuthService) GetUserProfile(c fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	return s.userProfile(c, userID)
}

func (s *AuthService) userProfile(c fiber.Ctx, userID int64) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}

	skills, err := s.skills.ListSkillsByUser(ctx, userID)
	if err != nil {
		log.Printf("Ошибка запроса навыков пользователя %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load skills"})
	}

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"skills":   skills,
	})
}
