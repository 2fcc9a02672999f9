// Package conversation владеет сообщениями чата и списками переписок.
package conversation

import (
	"context"
	"sort"
	"strings"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
)

// Store отвечает за добавление и выборку сообщений чата
type Store struct {
	messages storage.MessageStore
	users    storage.UserStore
}

// NewStore создает новый экземпляр Store
func NewStore(messages storage.MessageStore, users storage.UserStore) *Store {
	return &Store{messages: messages, users: users}
}

// AppendMessage сохраняет сообщение под каноническим ключом пары.
// Серверное время присваивается в момент сохранения; сообщение
// неизменяемо после записи.
func (s *Store) AppendMessage(ctx context.Context, senderID, receiverID int64, requestID *int64, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	msg := &models.ChatMessage{
		RequestID:       requestID,
		SenderID:        senderID,
		ReceiverID:      receiverID,
		Message:         text,
		ConversationKey: Key(senderID, receiverID),
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetConversation возвращает все сообщения пары по возрастанию времени
func (s *Store) GetConversation(ctx context.Context, userA, userB int64) ([]models.ChatMessage, error) {
	return s.messages.ListMessagesByKey(ctx, Key(userA, userB))
}

// GetHistoryByRequest возвращает сообщения, привязанные к предложению
// обмена. Отсутствие сообщений — не ошибка.
func (s *Store) GetHistoryByRequest(ctx context.Context, requestID int64) ([]models.ChatMessage, error) {
	return s.messages.ListMessagesByRequest(ctx, requestID)
}

// ListConversations возвращает переписки пользователя, отсортированные
// по времени последнего сообщения (новые первыми). Переписки без
// последнего сообщения оказываются в конце.
func (s *Store) ListConversations(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	keys, err := s.messages.ConversationKeysForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(keys))
	for _, key := range keys {
		a, b, err := ParseKey(key)
		if err != nil {
			continue
		}
		partnerID := a
		if a == userID {
			partnerID = b
		}

		summary := models.ConversationSummary{
			ConversationKey: key,
			PartnerID:       partnerID,
		}
		if partner, err := s.users.GetUserByID(ctx, partnerID); err == nil {
			summary.PartnerUsername = partner.Username
		}

		latest, err := s.messages.LatestMessageByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			summary.LatestMessage = latest.Message
			ts := latest.Timestamp
			summary.Timestamp = &ts
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		ti, tj := summaries[i].Timestamp, summaries[j].Timestamp
		if tj == nil {
			return ti != nil
		}
		if ti == nil {
			return false
		}
		return ti.After(*tj)
	})

	return summaries, nil
}
