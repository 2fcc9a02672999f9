package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// Postgres реализует Store поверх пула соединений pgx
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres создает новый экземпляр Postgres
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Код ошибки PostgreSQL "unique_violation"
const uniqueViolationCode = "23505"

// uniqueViolation переводит нарушение уникального индекса users
// в доменную ошибку; для остальных ошибок возвращает nil
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return apperrors.ErrEmailTaken
	case "users_username_key":
		return apperrors.ErrUsernameTaken
	}
	return nil
}

// CreateUser создает пользователя и присваивает ему ID
func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	err := p.pool.QueryRow(ctx, `
        INSERT INTO users (username, email, password)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `, user.Username, user.Email, user.Password).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

// GetUserByID возвращает пользователя по ID
func (p *Postgres) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := p.pool.QueryRow(ctx, `
        SELECT id, username, email, password, created_at FROM users WHERE id = $1
    `, id).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка запроса пользователя: %w", err)
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя по email
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := p.pool.QueryRow(ctx, `
        SELECT id, username, email, password, created_at FROM users WHERE email = $1
    `, email).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка запроса пользователя: %w", err)
	}
	return &user, nil
}

// DeleteUser удаляет пользователя; навыки, предложения и сообщения
// удаляются каскадно внешними ключами
func (p *Postgres) DeleteUser(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// CreateSkill создает навык и присваивает ему ID
func (p *Postgres) CreateSkill(ctx context.Context, skill *models.Skill) error {
	err := p.pool.QueryRow(ctx, `
        INSERT INTO skills (name, description, category, user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, skill.Name, skill.Description, skill.Category, skill.UserID).Scan(&skill.ID)
	if err != nil {
		return fmt.Errorf("ошибка создания навыка: %w", err)
	}
	return nil
}

// GetSkill возвращает навык по ID
func (p *Postgres) GetSkill(ctx context.Context, id int64) (*models.Skill, error) {
	var skill models.Skill
	err := p.pool.QueryRow(ctx, `
        SELECT id, name, description, category, user_id FROM skills WHERE id = $1
    `, id).Scan(&skill.ID, &skill.Name, &skill.Description, &skill.Category, &skill.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSkillNotFound
		}
		return nil, fmt.Errorf("ошибка запроса навыка: %w", err)
	}
	return &skill, nil
}

// ListSkillsByUser возвращает навыки пользователя
func (p *Postgres) ListSkillsByUser(ctx context.Context, userID int64) ([]models.Skill, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id, name, description, category, user_id FROM skills WHERE user_id = $1 ORDER BY id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса навыков: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// SearchSkills ищет чужие навыки по подстроке имени и категории
func (p *Postgres) SearchSkills(ctx context.Context, excludeUserID int64, query, category string) ([]models.Skill, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id, name, description, category, user_id
        FROM skills
        WHERE user_id != $1
          AND ($2 = '' OR name ILIKE '%' || $2 || '%')
          AND ($3 = '' OR category ILIKE '%' || $3 || '%')
        ORDER BY id
    `, excludeUserID, query, category)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска навыков: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// DeleteSkill удаляет навык; связанные предложения и их сообщения
// удаляются каскадно
func (p *Postgres) DeleteSkill(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления навыка: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSkillNotFound
	}
	return nil
}

func scanSkills(rows pgx.Rows) ([]models.Skill, error) {
	var skills []models.Skill
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Description, &skill.Category, &skill.UserID); err != nil {
			return nil, fmt.Errorf("ошибка сканирования навыка: %w", err)
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

// CreateTrade создает предложение обмена со статусом pending
func (p *Postgres) CreateTrade(ctx context.Context, trade *models.TradeRequest) error {
	err := p.pool.QueryRow(ctx, `
        INSERT INTO trade_requests (sender_id, receiver_id, skill_id, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, trade.SenderID, trade.ReceiverID, trade.SkillID, trade.Status).Scan(&trade.ID, &trade.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания предложения обмена: %w", err)
	}
	return nil
}

// GetTrade возвращает предложение обмена по ID
func (p *Postgres) GetTrade(ctx context.Context, id int64) (*models.TradeRequest, error) {
	var trade models.TradeRequest
	err := p.pool.QueryRow(ctx, `
        SELECT id, sender_id, receiver_id, skill_id, status, created_at
        FROM trade_requests WHERE id = $1
    `, id).Scan(&trade.ID, &trade.SenderID, &trade.ReceiverID, &trade.SkillID, &trade.Status, &trade.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("ошибка запроса предложения обмена: %w", err)
	}
	return &trade, nil
}

// UpdateTradeStatus обновляет статус предложения обмена
func (p *Postgres) UpdateTradeStatus(ctx context.Context, id int64, status string) error {
	tag, err := p.pool.Exec(ctx, `
        UPDATE trade_requests SET status = $1 WHERE id = $2
    `, status, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса предложения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

// ListTradesByReceiver возвращает входящие предложения пользователя
func (p *Postgres) ListTradesByReceiver(ctx context.Context, userID int64) ([]models.TradeRequest, error) {
	return p.listTrades(ctx, `receiver_id`, userID)
}

// ListTradesBySender возвращает исходящие предложения пользователя
func (p *Postgres) ListTradesBySender(ctx context.Context, userID int64) ([]models.TradeRequest, error) {
	return p.listTrades(ctx, `sender_id`, userID)
}

func (p *Postgres) listTrades(ctx context.Context, column string, userID int64) ([]models.TradeRequest, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`
        SELECT id, sender_id, receiver_id, skill_id, status, created_at
        FROM trade_requests WHERE %s = $1 ORDER BY id
    `, column), userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса предложений обмена: %w", err)
	}
	defer rows.Close()

	var trades []models.TradeRequest
	for rows.Next() {
		var trade models.TradeRequest
		if err := rows.Scan(&trade.ID, &trade.SenderID, &trade.ReceiverID, &trade.SkillID,
			&trade.Status, &trade.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования предложения: %w", err)
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}

// CreateMessage сохраняет сообщение; ID и серверное время присваивает база
func (p *Postgres) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	err := p.pool.QueryRow(ctx, `
        INSERT INTO chat_messages (request_id, sender_id, receiver_id, message, conversation_key)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, timestamp
    `, msg.RequestID, msg.SenderID, msg.ReceiverID, msg.Message, msg.ConversationKey).Scan(&msg.ID, &msg.Timestamp)
	if err != nil {
		return fmt.Errorf("ошибка сохранения сообщения: %w", err)
	}
	return nil
}

// ListMessagesByKey возвращает сообщения переписки по возрастанию времени
func (p *Postgres) ListMessagesByKey(ctx context.Context, key string) ([]models.ChatMessage, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id, request_id, sender_id, receiver_id, message, timestamp, conversation_key
        FROM chat_messages WHERE conversation_key = $1
        ORDER BY timestamp ASC, id ASC
    `, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса сообщений: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListMessagesByRequest возвращает сообщения по предложению обмена
func (p *Postgres) ListMessagesByRequest(ctx context.Context, requestID int64) ([]models.ChatMessage, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT id, request_id, sender_id, receiver_id, message, timestamp, conversation_key
        FROM chat_messages WHERE request_id = $1
        ORDER BY timestamp ASC, id ASC
    `, requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса сообщений: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ConversationKeysForUser возвращает ключи всех переписок пользователя
func (p *Postgres) ConversationKeysForUser(ctx context.Context, userID int64) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
        SELECT DISTINCT conversation_key FROM chat_messages
        WHERE sender_id = $1 OR receiver_id = $1
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса ключей переписок: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("ошибка сканирования ключа: %w", err)
		}
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys, rows.Err()
}

// LatestMessageByKey возвращает последнее сообщение переписки
// или nil, если сообщений нет
func (p *Postgres) LatestMessageByKey(ctx context.Context, key string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := p.pool.QueryRow(ctx, `
        SELECT id, request_id, sender_id, receiver_id, message, timestamp, conversation_key
        FROM chat_messages WHERE conversation_key = $1
        ORDER BY timestamp DESC, id DESC
        LIMIT 1
    `, key).Scan(&msg.ID, &msg.RequestID, &msg.SenderID, &msg.ReceiverID, &msg.Message,
		&msg.Timestamp, &msg.ConversationKey)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка запроса последнего сообщения: %w", err)
	}
	return &msg, nil
}

func scanMessages(rows pgx.Rows) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.RequestID, &msg.SenderID, &msg.ReceiverID,
			&msg.Message, &msg.Timestamp, &msg.ConversationKey); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сообщения: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
