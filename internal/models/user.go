package models

import "time"

// User представляет пользователя платформы
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at,omitempty"`

	// Дополнительные поля для API
	Skills []Skill `json:"skills,omitempty"`
}
