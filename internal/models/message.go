package models

import "time"

// ChatMessage представляет сообщение в переписке между двумя пользователями.
// RequestID необязателен: сообщение может существовать вне контекста обмена.
type ChatMessage struct {
	ID              int64     `json:"id"`
	RequestID       *int64    `json:"request_id,omitempty"`
	SenderID        int64     `json:"sender_id"`
	ReceiverID      int64     `json:"receiver_id"`
	Message         string    `json:"message"`
	Timestamp       time.Time `json:"timestamp"`
	ConversationKey string    `json:"conversation_key"`
}

// ConversationSummary представляет переписку в списке диалогов пользователя
type ConversationSummary struct {
	ConversationKey string     `json:"conversation_key"`
	PartnerID       int64      `json:"partner_id"`
	PartnerUsername string     `json:"partner_username,omitempty"`
	LatestMessage   string     `json:"latest_message"`
	Timestamp       *time.Time `json:"timestamp"`
}
