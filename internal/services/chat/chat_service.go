package chat

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/conversation"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// ChatService представляет HTTP-сервис истории переписок
type ChatService struct {
	cfg           *config.Config
	jwtService    *utils.JWTService
	conversations *conversation.Store
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(cfg *config.Config, conversations *conversation.Store) *ChatService {
	return &ChatService{
		cfg:           cfg,
		jwtService:    utils.NewJWTService(cfg.JWTSecret, cfg.TokenTTLMinutes),
		conversations: conversations,
	}
}

// GetConversationWithUser возвращает переписку текущего пользователя
// с указанным собеседником
func (s *ChatService) GetConversationWithUser(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	partnerID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	messages, err := s.conversations.GetConversation(ctx, userID, partnerID)
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	return c.JSON(messages)
}

// ListConversations возвращает список переписок пользователя
func (s *ChatService) ListConversations(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	ctx, cancel := db.GetContext()
	defer cancel()

	conversations, err := s.conversations.ListConversations(ctx, userID)
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}

	return c.JSON(fiber.Map{"conversations": conversations})
}

// GetHistoryByRequest возвращает сообщения, привязанные к предложению обмена
func (s *ChatService) GetHistoryByRequest(c fiber.Ctx) error {
	requestID, err := strconv.ParseInt(c.Params("request_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	messages, err := s.conversations.GetHistoryByRequest(ctx, requestID)
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	return c.JSON(messages)
}
