package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Максимальное время ожидания для pong от клиента
	pongWait = 60 * time.Second

	// Отправлять ping-сообщения клиенту с этим интервалом
	pingPeriod = (pongWait * 9) / 10

	// Время ожидания записи сообщения клиенту
	writeWait = 10 * time.Second

	// Максимальный размер сообщения от клиента
	maxMessageSize = 512 * 1024 // 512KB

	// Размер буфера для отправляемых сообщений
	sendBufferSize = 256
)

// Client представляет собой отдельное WebSocket соединение.
// UserID равен нулю, пока соединение не зарегистрировано; идентичность
// отправителя при этом всё равно выводится из токена каждого события.
type Client struct {
	ID        uuid.UUID
	UserID    int64
	conn      *websocket.Conn
	send      chan []byte // Буферизованный канал исходящих сообщений
	gateway   *Gateway
	closeChan chan struct{}
}

// NewClient создает новый экземпляр Client
func NewClient(conn *websocket.Conn, gateway *Gateway) *Client {
	return &Client{
		ID:        uuid.New(),
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		gateway:   gateway,
		closeChan: make(chan struct{}),
	}
}

// Start запускает клиентские горутины для чтения и записи
func (c *Client) Start() {
	go c.readPump()
	go c.writePump()
}

// Send ставит событие в очередь отправки без блокировки.
// Возвращает false, если буфер заполнен и событие отброшено.
func (c *Client) Send(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		log.Printf("Send buffer full for client %s, event dropped", c.ID)
		return false
	}
}

// sendEvent кодирует и ставит в очередь событие для этого клиента
func (c *Client) sendEvent(eventType EventType, payload interface{}) {
	data, err := marshalEvent(eventType, payload)
	if err != nil {
		log.Printf("Error marshaling event %s: %v", eventType, err)
		return
	}
	c.Send(data)
}

// sendError отправляет клиенту именованное событие об ошибке
func (c *Client) sendError(eventType EventType, message string) {
	c.sendEvent(eventType, ErrorPayload{Error: message})
}

// readPump обрабатывает входящие события от клиента
func (c *Client) readPump() {
	defer func() {
		c.gateway.disconnect(c)
		c.conn.Close()
		close(c.closeChan)
	}()

	// Настраиваем соединение
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close error: %v", err)
			}
			break
		}

		c.handleIncoming(message)
	}
}

// handleIncoming разбирает конверт события и передает его шлюзу
func (c *Client) handleIncoming(message []byte) {
	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("Error unmarshaling event: %v", err)
		c.sendError(EventMessageError, "malformed event")
		return
	}

	c.gateway.handleEvent(c, event)
}

// writePump отправляет события клиенту
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing message: %v", err)
				return
			}
		case <-ticker.C:
			// Отправляем ping для поддержания соединения
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closeChan:
			return
		}
	}
}
