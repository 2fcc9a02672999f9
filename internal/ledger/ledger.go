// Package ledger владеет предложениями обмена и переходами их статусов.
package ledger

import (
	"context"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
)

// Ledger реализует жизненный цикл предложений обмена:
// pending → accepted либо pending → rejected, обратных переходов нет.
type Ledger struct {
	trades storage.TradeStore
	skills storage.SkillStore
	users  storage.UserStore
}

// NewLedger создает новый экземпляр Ledger
func NewLedger(trades storage.TradeStore, skills storage.SkillStore, users storage.UserStore) *Ledger {
	return &Ledger{trades: trades, skills: skills, users: users}
}

// SendRequest создает предложение обмена со статусом pending.
// Получатель должен быть владельцем навыка. Повторные pending-предложения
// между той же парой допускаются.
func (l *Ledger) SendRequest(ctx context.Context, senderID, receiverID, skillID int64) (*models.TradeRequest, error) {
	if senderID == receiverID {
		return nil, apperrors.ErrSelfTrade
	}

	skill, err := l.skills.GetSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if skill.UserID != receiverID {
		return nil, apperrors.ErrOwnershipMismatch
	}

	trade := &models.TradeRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		SkillID:    skillID,
		Status:     models.TradeStatusPending,
	}
	if err := l.trades.CreateTrade(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// Accept принимает предложение обмена. Доступно только получателю
// и только из статуса pending.
func (l *Ledger) Accept(ctx context.Context, requestID, actingUserID int64) (*models.TradeRequest, error) {
	trade, err := l.getForReceiver(ctx, requestID, actingUserID)
	if err != nil {
		return nil, err
	}
	if trade.Status != models.TradeStatusPending {
		return nil, apperrors.ErrAlreadyProcessed
	}

	if err := l.trades.UpdateTradeStatus(ctx, requestID, models.TradeStatusAccepted); err != nil {
		return nil, err
	}
	trade.Status = models.TradeStatusAccepted
	return trade, nil
}

// Reject отклоняет предложение обмена. Доступно только получателю;
// статус перезаписывается без проверки текущего значения.
func (l *Ledger) Reject(ctx context.Context, requestID, actingUserID int64) (*models.TradeRequest, error) {
	trade, err := l.getForReceiver(ctx, requestID, actingUserID)
	if err != nil {
		return nil, err
	}

	if err := l.trades.UpdateTradeStatus(ctx, requestID, models.TradeStatusRejected); err != nil {
		return nil, err
	}
	trade.Status = models.TradeStatusRejected
	return trade, nil
}

// getForReceiver ищет предложение, адресованное actingUserID.
// Чужие предложения неотличимы от несуществующих.
func (l *Ledger) getForReceiver(ctx context.Context, requestID, actingUserID int64) (*models.TradeRequest, error) {
	trade, err := l.trades.GetTrade(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if trade.ReceiverID != actingUserID {
		return nil, apperrors.ErrRequestNotFound
	}
	return trade, nil
}

// ListForUser возвращает входящие и исходящие предложения пользователя
// с именами навыков и участников
func (l *Ledger) ListForUser(ctx context.Context, userID int64) (received, sent []models.TradeRequest, err error) {
	received, err = l.trades.ListTradesByReceiver(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	sent, err = l.trades.ListTradesBySender(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	for i := range received {
		l.enrich(ctx, &received[i])
	}
	for i := range sent {
		l.enrich(ctx, &sent[i])
	}
	return received, sent, nil
}

// enrich добавляет имена навыка и участников; ошибки поиска не фатальны
func (l *Ledger) enrich(ctx context.Context, trade *models.TradeRequest) {
	if skill, err := l.skills.GetSkill(ctx, trade.SkillID); err == nil {
		trade.SkillName = skill.Name
	}
	if sender, err := l.users.GetUserByID(ctx, trade.SenderID); err == nil {
		trade.SenderUsername = sender.Username
	}
	if receiver, err := l.users.GetUserByID(ctx, trade.ReceiverID); err == nil {
		trade.ReceiverUsername = receiver.Username
	}
}

// GetStatus возвращает статус предложения обмена
func (l *Ledger) GetStatus(ctx context.Context, requestID int64) (string, error) {
	trade, err := l.trades.GetTrade(ctx, requestID)
	if err != nil {
		return "", err
	}
	return trade.Status, nil
}
