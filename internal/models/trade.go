package models

import "time"

// Статусы предложения обмена. Переходы возможны только из pending.
const (
	TradeStatusPending  = "pending"
	TradeStatusAccepted = "accepted"
	TradeStatusRejected = "rejected"
)

// TradeRequest представляет предложение обмена навыками
type TradeRequest struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	SkillID    int64     `json:"skill_id"`
	Status     string    `json:"status"` // pending, accepted, rejected
	CreatedAt  time.Time `json:"created_at"`

	// Дополнительные поля для API
	SkillName        string `json:"skill,omitempty"`
	SenderUsername   string `json:"sender,omitempty"`
	ReceiverUsername string `json:"receiver,omitempty"`
}
