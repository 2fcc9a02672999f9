package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

func seed(t *testing.T) (*Memory, *models.User, *models.User, *models.Skill, *models.TradeRequest) {
	t.Helper()
	store := NewMemory()
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	bob := &models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NoError(t, store.CreateUser(ctx, bob))

	skill := &models.Skill{Name: "Guitar lessons", UserID: bob.ID}
	require.NoError(t, store.CreateSkill(ctx, skill))

	trade := &models.TradeRequest{
		SenderID:   alice.ID,
		ReceiverID: bob.ID,
		SkillID:    skill.ID,
		Status:     models.TradeStatusAccepted,
	}
	require.NoError(t, store.CreateTrade(ctx, trade))

	msg := &models.ChatMessage{
		RequestID:       &trade.ID,
		SenderID:        alice.ID,
		ReceiverID:      bob.ID,
		Message:         "hi",
		ConversationKey: "1_2",
	}
	require.NoError(t, store.CreateMessage(ctx, msg))

	return store, alice, bob, skill, trade
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &models.User{Username: "a", Email: "dup@example.com"}))
	err := store.CreateUser(ctx, &models.User{Username: "b", Email: "dup@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &models.User{Username: "dup", Email: "first@example.com"}))
	err := store.CreateUser(ctx, &models.User{Username: "dup", Email: "second@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestDeleteUser_Cascades(t *testing.T) {
	store, alice, bob, skill, trade := seed(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteUser(ctx, bob.ID))

	_, err := store.GetUserByID(ctx, bob.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = store.GetSkill(ctx, skill.ID)
	assert.ErrorIs(t, err, apperrors.ErrSkillNotFound)

	_, err = store.GetTrade(ctx, trade.ID)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)

	msgs, err := store.ListMessagesByKey(ctx, "1_2")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// Второй участник не затронут
	_, err = store.GetUserByID(ctx, alice.ID)
	assert.NoError(t, err)
}

func TestDeleteSkill_CascadesToTradesAndMessages(t *testing.T) {
	store, _, _, skill, trade := seed(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteSkill(ctx, skill.ID))

	_, err := store.GetTrade(ctx, trade.ID)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)

	msgs, err := store.ListMessagesByRequest(ctx, trade.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestDeleteUser_NotFound(t *testing.T) {
	store := NewMemory()

	err := store.DeleteUser(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestConversationKeysForUser_Scoped(t *testing.T) {
	store, alice, bob, _, _ := seed(t)
	ctx := context.Background()

	carol := &models.User{Username: "carol", Email: "carol@example.com"}
	require.NoError(t, store.CreateUser(ctx, carol))
	require.NoError(t, store.CreateMessage(ctx, &models.ChatMessage{
		SenderID:        bob.ID,
		ReceiverID:      carol.ID,
		Message:         "other",
		ConversationKey: "2_3",
	}))

	keys, err := store.ConversationKeysForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1_2"}, keys)

	keys, err = store.ConversationKeysForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1_2", "2_3"}, keys)
}
