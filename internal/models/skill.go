package models

// Skill представляет навык, который пользователь предлагает для обмена
type Skill struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	UserID      int64  `json:"user_id"`

	// Дополнительные поля для API
	Owner *User `json:"owner,omitempty"`
}
