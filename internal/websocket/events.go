package websocket

import "encoding/json"

// EventType определяет тип события WebSocket
type EventType string

const (
	// Клиент → сервер
	EventRegister    EventType = "register"
	EventSendMessage EventType = "send_message"

	// Сервер → клиент
	EventRegisterSuccess EventType = "register_success"
	EventRegisterError   EventType = "register_error"
	EventMessageSent     EventType = "message_sent"
	EventMessageError    EventType = "message_error"
	EventReceiveMessage  EventType = "receive_message"
)

// Event представляет структуру сообщения для WebSocket
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RegisterPayload — полезная нагрузка события register
type RegisterPayload struct {
	Token string `json:"token"`
}

// SendMessagePayload — полезная нагрузка события send_message.
// RequestID необязателен; нулевое значение означает сообщение вне обмена.
type SendMessagePayload struct {
	Token      string `json:"token"`
	ReceiverID int64  `json:"receiver_id"`
	RequestID  *int64 `json:"request_id"`
	Message    string `json:"message"`
}

// ErrorPayload — полезная нагрузка событий об ошибках
type ErrorPayload struct {
	Error string `json:"error"`
}

// marshalEvent кодирует событие с полезной нагрузкой
func marshalEvent(eventType EventType, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: eventType, Payload: raw})
}
