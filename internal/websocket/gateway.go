// Package websocket реализует шлюз реального времени: регистрацию
// соединений, проверку статуса обмена и доставку сообщений онлайн-получателям.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/conversation"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/presence"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

const eventTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway обслуживает постоянные соединения и маршрутизирует события
type Gateway struct {
	jwtService    *utils.JWTService
	ledger        *ledger.Ledger
	conversations *conversation.Store
	registry      presence.Registry
}

// NewGateway создает новый экземпляр Gateway
func NewGateway(jwtService *utils.JWTService, l *ledger.Ledger, conversations *conversation.Store, registry presence.Registry) *Gateway {
	return &Gateway{
		jwtService:    jwtService,
		ledger:        l,
		conversations: conversations,
		registry:      registry,
	}
}

// Router возвращает маршрутизатор слушателя реального времени
func (g *Gateway) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws", g.HandleWS)
	return router
}

// HandleWS переводит HTTP-запрос в WebSocket-соединение.
// Соединение принимается без аутентификации; идентичность появляется
// только после события register.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := NewClient(conn, g)
	client.Start()
	log.Printf("WebSocket client %s connected", client.ID)
}

// disconnect убирает соединение из реестра присутствия
func (g *Gateway) disconnect(c *Client) {
	g.registry.Unregister(c)
	log.Printf("WebSocket client %s disconnected", c.ID)
}

// handleEvent диспетчеризует входящее событие. Любой сбой обработчика,
// включая панику, превращается в событие об ошибке отправителю и
// никогда не рвёт соединение.
func (g *Gateway) handleEvent(c *Client, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic handling %s event: %v", event.Type, r)
			if event.Type == EventRegister {
				c.sendError(EventRegisterError, "internal error")
			} else {
				c.sendError(EventMessageError, "internal error")
			}
		}
	}()

	switch event.Type {
	case EventRegister:
		g.handleRegister(c, event.Payload)
	case EventSendMessage:
		g.handleSendMessage(c, event.Payload)
	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}
}

// handleRegister привязывает соединение к пользователю по токену.
// При ошибке соединение остается открытым, регистрацию можно повторить.
func (g *Gateway) handleRegister(c *Client, payload json.RawMessage) {
	var p RegisterPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			c.sendError(EventRegisterError, "malformed payload")
			return
		}
	}
	if p.Token == "" {
		c.sendError(EventRegisterError, apperrors.ErrMissingToken.Error())
		return
	}

	userID, err := g.jwtService.ExtractUserID(p.Token)
	if err != nil {
		c.sendError(EventRegisterError, err.Error())
		return
	}

	c.UserID = userID
	g.registry.Register(userID, c)
	c.sendEvent(EventRegisterSuccess, map[string]int64{"user_id": userID})
	log.Printf("WebSocket client %s registered for user %d", c.ID, userID)
}

// handleSendMessage проверяет токен заново на каждом сообщении (защита
// от устаревших дескрипторов), сверяет статус обмена, сохраняет сообщение
// и доставляет его получателю, если тот онлайн. Подтверждение отправителю
// уходит независимо от доставки.
func (g *Gateway) handleSendMessage(c *Client, payload json.RawMessage) {
	var p SendMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(EventMessageError, "malformed payload")
		return
	}

	senderID, err := g.jwtService.ExtractUserID(p.Token)
	if err != nil {
		c.sendError(EventMessageError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	// Нулевой request_id означает сообщение вне контекста обмена
	requestID := p.RequestID
	if requestID != nil && *requestID == 0 {
		requestID = nil
	}

	if requestID != nil {
		status, err := g.ledger.GetStatus(ctx, *requestID)
		if err != nil || status != models.TradeStatusAccepted {
			c.sendError(EventMessageError, apperrors.ErrTradeNotAccepted.Error())
			return
		}
	}

	msg, err := g.conversations.AppendMessage(ctx, senderID, p.ReceiverID, requestID, p.Message)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.sendError(EventMessageError, appErr.Message)
		} else {
			log.Printf("Error appending message: %v", err)
			c.sendError(EventMessageError, "failed to save message")
		}
		return
	}

	// Доставляем получателю, если он онлайн; сообщение уже сохранено,
	// офлайн-получатель прочитает его из истории
	if conn, ok := g.registry.Lookup(p.ReceiverID); ok {
		if data, err := marshalEvent(EventReceiveMessage, msg); err == nil {
			conn.Send(data)
		}
	}

	c.sendEvent(EventMessageSent, msg)
}
