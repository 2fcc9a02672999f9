package trade

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// TradeService представляет HTTP-сервис предложений обмена
type TradeService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	ledger     *ledger.Ledger
}

// NewTradeService создает новый экземпляр TradeService
func NewTradeService(cfg *config.Config, l *ledger.Ledger) *TradeService {
	return &TradeService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret, cfg.TokenTTLMinutes),
		ledger:     l,
	}
}

// SendRequest создает новое предложение обмена
func (s *TradeService) SendRequest(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	var payload struct {
		ReceiverID int64 `json:"receiver_id"`
		SkillID    int64 `json:"skill_id"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	trade, err := s.ledger.SendRequest(ctx, userID, payload.ReceiverID, payload.SkillID)
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}

	return c.JSON(fiber.Map{
		"message":    "Trade request sent",
		"request_id": trade.ID,
	})
}

// GetRequests возвращает входящие и исходящие предложения пользователя
func (s *TradeService) GetRequests(c fiber.Ctx) error {
	userID := c.Locals("userID").(int64)

	ctx, cancel := db.GetContext()
	defer cancel()

	received, sent, err := s.ledger.ListForUser(ctx, userID)
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}
	if received == nil {
		received = []models.TradeRequest{}
	}
	if sent == nil {
		sent = []models.TradeRequest{}
	}

	return c.JSON(fiber.Map{
		"received": received,
		"sent":     sent,
	})
}

// AcceptRequest принимает предложение обмена
func (s *TradeService) AcceptRequest(c fiber.Ctx) error {
	return s.updateStatus(c, s.ledger.Accept)
}

// RejectRequest отклоняет предложение обмена
func (s *TradeService) RejectRequest(c fiber.Ctx) error {
	return s.updateStatus(c, s.ledger.Reject)
}

func (s *TradeService) updateStatus(c fiber.Ctx, op func(ctx context.Context, requestID, actingUserID int64) (*models.TradeRequest, error)) error {
	userID := c.Locals("userID").(int64)

	requestID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	trade, err := op(ctx, requestID, userID)
	if err != nil {
		return c.Status(apperrors.HTTPStatus(err)).JSON(fiber.Map{"error": apperrors.Message(err)})
	}

	return c.JSON(fiber.Map{"status": trade.Status})
}
