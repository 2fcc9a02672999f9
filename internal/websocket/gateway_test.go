package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/conversation"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/presence"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

type fixture struct {
	gateway  *Gateway
	store    *storage.Memory
	jwt      *utils.JWTService
	registry presence.Registry
	convos   *conversation.Store
	ledger   *ledger.Ledger
	alice    *models.User
	bob      *models.User
	skill    *models.Skill
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemory()
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	bob := &models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NoError(t, store.CreateUser(ctx, bob))

	skill := &models.Skill{Name: "Guitar lessons", UserID: bob.ID}
	require.NoError(t, store.CreateSkill(ctx, skill))

	jwtService := utils.NewJWTService("test-secret", 60)
	l := ledger.NewLedger(store, store, store)
	convos := conversation.NewStore(store, store)
	registry := presence.NewRegistry()

	return &fixture{
		gateway:  NewGateway(jwtService, l, convos, registry),
		store:    store,
		jwt:      jwtService,
		registry: registry,
		convos:   convos,
		ledger:   l,
		alice:    alice,
		bob:      bob,
		skill:    skill,
	}
}

func (f *fixture) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := f.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func (f *fixture) dispatch(t *testing.T, c *Client, eventType EventType, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	f.gateway.handleEvent(c, Event{Type: eventType, Payload: raw})
}

// nextEvent снимает следующее событие из очереди отправки клиента
func nextEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	default:
		t.Fatal("no event queued for client")
		return Event{}
	}
}

func decodeMessage(t *testing.T, event Event) models.ChatMessage {
	t.Helper()
	var msg models.ChatMessage
	require.NoError(t, json.Unmarshal(event.Payload, &msg))
	return msg
}

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)
	c := NewClient(nil, f.gateway)

	f.dispatch(t, c, EventRegister, RegisterPayload{Token: f.token(t, f.alice.ID)})

	event := nextEvent(t, c)
	assert.Equal(t, EventRegisterSuccess, event.Type)

	var payload map[string]int64
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, f.alice.ID, payload["user_id"])

	conn, ok := f.registry.Lookup(f.alice.ID)
	require.True(t, ok)
	assert.Same(t, c, conn)
}

func TestRegister_MissingToken(t *testing.T) {
	f := newFixture(t)
	c := NewClient(nil, f.gateway)

	f.dispatch(t, c, EventRegister, RegisterPayload{})

	event := nextEvent(t, c)
	assert.Equal(t, EventRegisterError, event.Type)
}

func TestRegister_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	expired := utils.NewJWTService("test-secret", -1)
	token, err := expired.GenerateToken(f.alice.ID)
	require.NoError(t, err)

	c := NewClient(nil, f.gateway)
	f.dispatch(t, c, EventRegister, RegisterPayload{Token: token})

	event := nextEvent(t, c)
	assert.Equal(t, EventRegisterError, event.Type)

	_, ok := f.registry.Lookup(f.alice.ID)
	assert.False(t, ok)
}

func TestRegister_RetryAfterError(t *testing.T) {
	f := newFixture(t)
	c := NewClient(nil, f.gateway)

	f.dispatch(t, c, EventRegister, RegisterPayload{Token: "garbage"})
	assert.Equal(t, EventRegisterError, nextEvent(t, c).Type)

	// Соединение не закрыто, повторная регистрация возможна
	f.dispatch(t, c, EventRegister, RegisterPayload{Token: f.token(t, f.alice.ID)})
	assert.Equal(t, EventRegisterSuccess, nextEvent(t, c).Type)
}

func TestSendMessage_AcceptedTradeDeliversToReceiver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trade, err := f.ledger.SendRequest(ctx, f.alice.ID, f.bob.ID, f.skill.ID)
	require.NoError(t, err)
	_, err = f.ledger.Accept(ctx, trade.ID, f.bob.ID)
	require.NoError(t, err)

	sender := NewClient(nil, f.gateway)
	receiver := NewClient(nil, f.gateway)
	f.dispatch(t, sender, EventRegister, RegisterPayload{Token: f.token(t, f.alice.ID)})
	f.dispatch(t, receiver, EventRegister, RegisterPayload{Token: f.token(t, f.bob.ID)})
	nextEvent(t, sender)
	nextEvent(t, receiver)

	f.dispatch(t, sender, EventSendMessage, SendMessagePayload{
		Token:      f.token(t, f.alice.ID),
		ReceiverID: f.bob.ID,
		RequestID:  &trade.ID,
		Message:    "hi",
	})

	ack := nextEvent(t, sender)
	require.Equal(t, EventMessageSent, ack.Type)
	sent := decodeMessage(t, ack)
	assert.Equal(t, "hi", sent.Message)
	assert.Equal(t, "1_2", sent.ConversationKey)
	require.NotNil(t, sent.RequestID)
	assert.Equal(t, trade.ID, *sent.RequestID)

	delivered := nextEvent(t, receiver)
	require.Equal(t, EventReceiveMessage, delivered.Type)
	assert.Equal(t, sent.ID, decodeMessage(t, delivered).ID)

	msgs, err := f.convos.GetHistoryByRequest(ctx, trade.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestSendMessage_PendingTradeRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trade, err := f.ledger.SendRequest(ctx, f.alice.ID, f.bob.ID, f.skill.ID)
	require.NoError(t, err)

	sender := NewClient(nil, f.gateway)
	f.dispatch(t, sender, EventSendMessage, SendMessagePayload{
		Token:      f.token(t, f.alice.ID),
		ReceiverID: f.bob.ID,
		RequestID:  &trade.ID,
		Message:    "hi",
	})

	event := nextEvent(t, sender)
	assert.Equal(t, EventMessageError, event.Type)

	msgs, err := f.convos.GetHistoryByRequest(ctx, trade.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSendMessage_RejectedTradeRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trade, err := f.ledger.SendRequest(ctx, f.alice.ID, f.bob.ID, f.skill.ID)
	require.NoError(t, err)
	_, err = f.ledger.Reject(ctx, trade.ID, f.bob.ID)
	require.NoError(t, err)

	sender := NewClient(nil, f.gateway)
	f.dispatch(t, sender, EventSendMessage, SendMessagePayload{
		Token:      f.token(t, f.alice.ID),
		ReceiverID: f.bob.ID,
		RequestID:  &trade.ID,
		Message:    "hi",
	})

	assert.Equal(t, EventMessageError, nextEvent(t, sender).Type)
}

func TestSendMessage_UnknownTradeRejected(t *testing.T) {
	f := newFixture(t)

	unknown := int64(999)
	sender := NewClient(nil, f.gateway)
	f.dispatch(t, sender, EventSendMessage, SendMessagePayload{
		Token:      f.token(t, f.alice.ID),
		ReceiverID: f.bob.ID,
		RequestID:  &unknown,
		Message:    "hi",
	})

	assert.Equal(t, EventMessageError, nextEvent(t, sender).Type)
}

func TestSendMessage_WithoutTradeContext(t *testing.T) {
	f := newFixture(t)

	sender := NewClient(nil, f.gateway)
	f.dispatch(t, sender, EventSendMessage, SendMessagePayload{
		Token:      f.token(t, f.alice.ID),
		ReceiverID: f.bob.ID,
		Message:    "free-form",
	})

	ack := nextEvent(t, sender)
	require.Equal(t, EventMessageSent, ack.Type)
	assert.Nil(t, decodeMessage(t, ack).RequestID)
}

func TestSendMessage_ZeroRequestIDMeansNoContext(t *testing.T) {
	f := newFixture(t)

	zero := int64(0)
	sender := NewClient(nil, f.gateway)
	f.dispatch(t, sender, EventSendMessage, SendMessagePayload{
		Token:      f.token(t, f.alice.ID),
		ReceiverID: f.bob.ID,
		RequestID:  &zero,
		Message:    "hi",
	})

	ack := nextEvent(t, sender)
	require.Equal(t, EventMessageSent, ack.Type)
	assert.Nil(t, decodeMessage(t, ack).RequestID)
}

func TestSendMessage_OfflineReceiverStillAcked(t *testing.T) {
	f := newFixture(t)

	sender := NewClient(nil, f.gateway)
	f.dispatch(t, sender, EventSendMessage, SendMessagePayload{
		Token:      f.token(t, f.alice.ID),
		ReceiverID: f.bob.ID,
		Message:    "are you there",
	})

	// Подтверждение не зависит от доставки
	assert.Equal(t, EventMessageSent, nextEvent(t, sender).Type)

	msgs, err := f.convos.GetConversation(context.Background(), f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestSendMessage_EmptyMessageRejected(t *testing.T) {
	f := newFixture(t)

	sender := NewClient(nil, f.gateway)
	f.dispatch(t, sender, EventSendMessage, SendMessagePayload{
		Token:      f.token(t, f.alice.ID),
		ReceiverID: f.bob.ID,
		Message:    "   ",
	})

	assert.Equal(t, EventMessageError, nextEvent(t, sender).Type)

	msgs, err := f.convos.GetConversation(context.Background(), f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSendMessage_InvalidToken(t *testing.T) {
	f := newFixture(t)

	sender := NewClient(nil, f.gateway)
	f.dispatch(t, sender, EventSendMessage, SendMessagePayload{
		Token:      "garbage",
		ReceiverID: f.bob.ID,
		Message:    "hi",
	})

	assert.Equal(t, EventMessageError, nextEvent(t, sender).Type)
}

func TestSendMessage_MalformedPayload(t *testing.T) {
	f := newFixture(t)

	sender := NewClient(nil, f.gateway)
	f.gateway.handleEvent(sender, Event{Type: EventSendMessage, Payload: json.RawMessage(`{"receiver_id":"oops"}`)})

	assert.Equal(t, EventMessageError, nextEvent(t, sender).Type)
}

func TestDisconnect_RemovesPresence(t *testing.T) {
	f := newFixture(t)

	c := NewClient(nil, f.gateway)
	f.dispatch(t, c, EventRegister, RegisterPayload{Token: f.token(t, f.alice.ID)})
	nextEvent(t, c)

	f.gateway.disconnect(c)

	_, ok := f.registry.Lookup(f.alice.ID)
	assert.False(t, ok)
}
