package db

import "context"

// Схема базы данных. Удаление пользователя каскадно удаляет его навыки,
// предложения обмена и сообщения; удаление навыка — связанные предложения,
// удаление предложения — привязанные к нему сообщения.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS skills (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS trade_requests (
	id BIGSERIAL PRIMARY KEY,
	sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	skill_id BIGINT NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id BIGSERIAL PRIMARY KEY,
	request_id BIGINT REFERENCES trade_requests(id) ON DELETE CASCADE,
	sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	message TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	conversation_key TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_conversation_key ON chat_messages (conversation_key);
CREATE INDEX IF NOT EXISTS idx_chat_messages_request_id ON chat_messages (request_id);
CREATE INDEX IF NOT EXISTS idx_skills_user_id ON skills (user_id);
`

// initSchema создает таблицы, если они еще не существуют
func initSchema(ctx context.Context) error {
	_, err := Pool.Exec(ctx, schema)
	return err
}
