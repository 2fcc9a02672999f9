package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// Memory реализует Store в памяти. Используется в тестах вместо Postgres;
// каждая операция атомарна под общим мьютексом, каскадные удаления
// повторяют поведение внешних ключей схемы.
type Memory struct {
	mu sync.Mutex

	users    map[int64]*models.User
	skills   map[int64]*models.Skill
	trades   map[int64]*models.TradeRequest
	messages map[int64]*models.ChatMessage

	nextUserID    int64
	nextSkillID   int64
	nextTradeID   int64
	nextMessageID int64
}

// NewMemory создает пустое хранилище в памяти
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[int64]*models.User),
		skills:   make(map[int64]*models.Skill),
		trades:   make(map[int64]*models.TradeRequest),
		messages: make(map[int64]*models.ChatMessage),
	}
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Уникальность email и username повторяет ограничения схемы users
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailTaken
		}
		if u.Username == user.Username {
			return apperrors.ErrUsernameTaken
		}
	}

	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = time.Now().UTC()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *Memory) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// DeleteUser удаляет пользователя вместе с его навыками, предложениями
// обмена и сообщениями
func (m *Memory) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(m.users, id)

	for skillID, skill := range m.skills {
		if skill.UserID == id {
			m.deleteSkillLocked(skillID)
		}
	}
	for tradeID, trade := range m.trades {
		if trade.SenderID == id || trade.ReceiverID == id {
			m.deleteTradeLocked(tradeID)
		}
	}
	for msgID, msg := range m.messages {
		if msg.SenderID == id || msg.ReceiverID == id {
			delete(m.messages, msgID)
		}
	}
	return nil
}

func (m *Memory) CreateSkill(_ context.Context, skill *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSkillID++
	skill.ID = m.nextSkillID
	stored := *skill
	m.skills[skill.ID] = &stored
	return nil
}

func (m *Memory) GetSkill(_ context.Context, id int64) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	skill, ok := m.skills[id]
	if !ok {
		return nil, apperrors.ErrSkillNotFound
	}
	copied := *skill
	return &copied, nil
}

func (m *Memory) ListSkillsByUser(_ context.Context, userID int64) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var skills []models.Skill
	for _, skill := range m.skills {
		if skill.UserID == userID {
			skills = append(skills, *skill)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].ID < skills[j].ID })
	return skills, nil
}

func (m *Memory) SearchSkills(_ context.Context, excludeUserID int64, query, category string) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var skills []models.Skill
	for _, skill := range m.skills {
		if skill.UserID == excludeUserID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(skill.Name), strings.ToLower(query)) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(skill.Category), strings.ToLower(category)) {
			continue
		}
		skills = append(skills, *skill)
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].ID < skills[j].ID })
	return skills, nil
}

// DeleteSkill удаляет навык вместе со связанными предложениями обмена
// и их сообщениями
func (m *Memory) DeleteSkill(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.skills[id]; !ok {
		return apperrors.ErrSkillNotFound
	}
	m.deleteSkillLocked(id)
	return nil
}

func (m *Memory) deleteSkillLocked(id int64) {
	delete(m.skills, id)
	for tradeID, trade := range m.trades {
		if trade.SkillID == id {
			m.deleteTradeLocked(tradeID)
		}
	}
}

func (m *Memory) deleteTradeLocked(id int64) {
	delete(m.trades, id)
	for msgID, msg := range m.messages {
		if msg.RequestID != nil && *msg.RequestID == id {
			delete(m.messages, msgID)
		}
	}
}

func (m *Memory) CreateTrade(_ context.Context, trade *models.TradeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextTradeID++
	trade.ID = m.nextTradeID
	trade.CreatedAt = time.Now().UTC()
	stored := *trade
	m.trades[trade.ID] = &stored
	return nil
}

func (m *Memory) GetTrade(_ context.Context, id int64) (*models.TradeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trade, ok := m.trades[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	copied := *trade
	return &copied, nil
}

func (m *Memory) UpdateTradeStatus(_ context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	trade, ok := m.trades[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	trade.Status = status
	return nil
}

func (m *Memory) ListTradesByReceiver(_ context.Context, userID int64) ([]models.TradeRequest, error) {
	return m.listTrades(func(t *models.TradeRequest) bool { return t.ReceiverID == userID }), nil
}

func (m *Memory) ListTradesBySender(_ context.Context, userID int64) ([]models.TradeRequest, error) {
	return m.listTrades(func(t *models.TradeRequest) bool { return t.SenderID == userID }), nil
}

func (m *Memory) listTrades(match func(*models.TradeRequest) bool) []models.TradeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	var trades []models.TradeRequest
	for _, trade := range m.trades {
		if match(trade) {
			trades = append(trades, *trade)
		}
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].ID < trades[j].ID })
	return trades
}

func (m *Memory) CreateMessage(_ context.Context, msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextMessageID++
	msg.ID = m.nextMessageID
	msg.Timestamp = time.Now().UTC()
	stored := *msg
	m.messages[msg.ID] = &stored
	return nil
}

func (m *Memory) ListMessagesByKey(_ context.Context, key string) ([]models.ChatMessage, error) {
	return m.listMessages(func(msg *models.ChatMessage) bool { return msg.ConversationKey == key }), nil
}

func (m *Memory) ListMessagesByRequest(_ context.Context, requestID int64) ([]models.ChatMessage, error) {
	return m.listMessages(func(msg *models.ChatMessage) bool {
		return msg.RequestID != nil && *msg.RequestID == requestID
	}), nil
}

func (m *Memory) listMessages(match func(*models.ChatMessage) bool) []models.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var messages []models.ChatMessage
	for _, msg := range m.messages {
		if match(msg) {
			messages = append(messages, *msg)
		}
	}
	// Порядок по времени, при равных отметках — по порядку вставки
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages
}

func (m *Memory) ConversationKeysForUser(_ context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var keys []string
	// Стабильный порядок обхода по ID сообщений
	ids := make([]int64, 0, len(m.messages))
	for id := range m.messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		msg := m.messages[id]
		if msg.SenderID != userID && msg.ReceiverID != userID {
			continue
		}
		if msg.ConversationKey == "" || seen[msg.ConversationKey] {
			continue
		}
		seen[msg.ConversationKey] = true
		keys = append(keys, msg.ConversationKey)
	}
	return keys, nil
}

func (m *Memory) LatestMessageByKey(ctx context.Context, key string) (*models.ChatMessage, error) {
	messages, _ := m.ListMessagesByKey(ctx, key)
	if len(messages) == 0 {
		return nil, nil
	}
	latest := messages[len(messages)-1]
	return &latest, nil
}
