package storage

import (
	"context"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// UserStore определяет операции хранилища для пользователей
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// SkillStore определяет операции хранилища для навыков
type SkillStore interface {
	CreateSkill(ctx context.Context, skill *models.Skill) error
	GetSkill(ctx context.Context, id int64) (*models.Skill, error)
	ListSkillsByUser(ctx context.Context, userID int64) ([]models.Skill, error)
	SearchSkills(ctx context.Context, excludeUserID int64, query, category string) ([]models.Skill, error)
	DeleteSkill(ctx context.Context, id int64) error
}

// TradeStore определяет операции хранилища для предложений обмена
type TradeStore interface {
	CreateTrade(ctx context.Context, trade *models.TradeRequest) error
	GetTrade(ctx context.Context, id int64) (*models.TradeRequest, error)
	UpdateTradeStatus(ctx context.Context, id int64, status string) error
	ListTradesByReceiver(ctx context.Context, userID int64) ([]models.TradeRequest, error)
	ListTradesBySender(ctx context.Context, userID int64) ([]models.TradeRequest, error)
}

// MessageStore определяет операции хранилища для сообщений чата.
// Сообщения только добавляются и никогда не изменяются.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessagesByKey(ctx context.Context, key string) ([]models.ChatMessage, error)
	ListMessagesByRequest(ctx context.Context, requestID int64) ([]models.ChatMessage, error)
	ConversationKeysForUser(ctx context.Context, userID int64) ([]string, error)
	LatestMessageByKey(ctx context.Context, key string) (*models.ChatMessage, error)
}

// Store — агрегированный интерфейс всех хранилищ для внедрения зависимостей
type Store interface {
	UserStore
	SkillStore
	TradeStore
	MessageStore
}
