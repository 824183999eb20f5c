package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitbuddy/api/internal/balance"
	"github.com/splitbuddy/api/internal/expense"
	"github.com/splitbuddy/api/internal/notification"
	"github.com/splitbuddy/api/internal/user"
	"github.com/splitbuddy/api/pkg/money"
)

// Common errors
var (
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrAlreadySettled      = errors.New("already settled up - no outstanding debt")
	ErrSettlementOpen      = errors.New("an open settlement with this user already exists")
	ErrNotPayer            = errors.New("only the payer can mark as paid")
	ErrNotReceiver         = errors.New("only the receiver can confirm or reject")
	ErrNotInvolved         = errors.New("not part of this settlement")
	ErrInvalidStatusChange = errors.New("invalid status change")
	ErrCannotSettleSelf    = errors.New("cannot create settlement with yourself")
)

const defaultCurrency = "USD"

// Service handles settlement business logic
type Service struct {
	repo          *Repository
	expenseRepo   *expense.Repository
	userRepo      *user.Repository
	notifications *notification.Service
}

// NewService creates a new settlement service with dependencies injected
func NewService(repo *Repository, expenseRepo *expense.Repository, userRepo *user.Repository, notifications *notification.Service) *Service {
	return &Service{
		repo:          repo,
		expenseRepo:   expenseRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// Create opens a settlement clearing the net debt between the initiator
// and another user. Either side can initiate; the direction of payment
// follows from who owes whom. The amount is the pairwise net over every
// unpaid share on expenses one of the two paid, rounded to cents;
// already-settled shares and third-party-paid expenses are excluded
// since confirming the settlement cannot clear those rows.
func (s *Service) Create(ctx context.Context, initiatorID int64, req *CreateSettlementRequest) (*Settlement, error) {
	otherUserID := req.OtherUserID

	if initiatorID == otherUserID {
		return nil, ErrCannotSettleSelf
	}

	other, err := s.userRepo.GetByID(ctx, otherUserID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, user.ErrUserNotFound
	}

	open, err := s.repo.GetPendingBetween(ctx, initiatorID, otherUserID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrSettlementOpen
	}

	shared, err := s.expenseRepo.ListSharedBetween(ctx, initiatorID, otherUserID)
	if err != nil {
		return nil, err
	}

	// Positive: the other user owes the initiator
	net, err := balance.SettleableBalance(expense.ToBalanceSlice(shared), initiatorID, otherUserID)
	if err != nil {
		return nil, err
	}

	amount := decimal.NewFromFloat(net).Abs().Round(2)
	if amount.IsZero() {
		return nil, ErrAlreadySettled
	}

	var payerID, receiverID int64
	if net > 0 {
		payerID = otherUserID
		receiverID = initiatorID
	} else {
		payerID = initiatorID
		receiverID = otherUserID
	}

	settlement, err := s.repo.Create(ctx, uuid.NewString(), payerID, receiverID, amount.InexactFloat64(), defaultCurrency)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		counterparty := receiverID
		if initiatorID == receiverID {
			counterparty = payerID
		}
		s.notifications.Notify(ctx, counterparty,
			fmt.Sprintf("A settlement of %s has been opened with you", money.MustFormat(settlement.Amount, settlement.CurrencyCode)),
			notification.TypeSettlement, "SETTLEMENT", &settlement.ID)
	}

	return settlement, nil
}

// GetByID retrieves a settlement. Only the payer or receiver may view it.
func (s *Service) GetByID(ctx context.Context, id, viewerID int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	if settlement.PayerID != viewerID && settlement.ReceiverID != viewerID {
		return nil, ErrNotInvolved
	}
	return settlement, nil
}

// ListByUserID retrieves all settlements involving a user
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// MarkAsPaid lets the payer record that they sent the money
func (s *Service) MarkAsPaid(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}

	if settlement.PayerID != userID {
		return nil, ErrNotPayer
	}

	if settlement.Status != StatusPending {
		return nil, ErrInvalidStatusChange
	}

	updated, err := s.repo.UpdateStatus(ctx, settlementID, StatusPaid)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		s.notifications.Notify(ctx, settlement.ReceiverID,
			fmt.Sprintf("%s says they paid you %s. Please confirm.", settlement.PayerName, money.MustFormat(settlement.Amount, settlement.CurrencyCode)),
			notification.TypeSettlement, "SETTLEMENT", &settlement.ID)
	}

	return updated, nil
}

// Confirm lets the receiver acknowledge the payment arrived. The amount
// was a bidirectional net, so every unpaid share between the pair is
// marked paid in both directions.
func (s *Service) Confirm(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}

	if settlement.ReceiverID != userID {
		return nil, ErrNotReceiver
	}

	if settlement.Status != StatusPaid {
		return nil, ErrInvalidStatusChange
	}

	updated, err := s.repo.UpdateStatus(ctx, settlementID, StatusConfirmed)
	if err != nil {
		return nil, err
	}

	settled, err := s.expenseRepo.MarkPairSettled(ctx, settlement.PayerID, settlement.ReceiverID)
	if err != nil {
		return nil, err
	}
	reverse, err := s.expenseRepo.MarkPairSettled(ctx, settlement.ReceiverID, settlement.PayerID)
	if err != nil {
		return nil, err
	}
	settled += reverse

	if s.notifications != nil {
		s.notifications.Notify(ctx, settlement.PayerID,
			fmt.Sprintf("%s confirmed your payment. %d shares settled.", settlement.ReceiverName, settled),
			notification.TypeSettlement, "SETTLEMENT", &settlement.ID)
	}

	return updated, nil
}

// Reject lets the receiver dispute the settlement. The underlying shares
// stay unpaid so a fresh settlement can be opened later.
func (s *Service) Reject(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}

	if settlement.ReceiverID != userID {
		return nil, ErrNotReceiver
	}

	if settlement.Status != StatusPending && settlement.Status != StatusPaid {
		return nil, ErrInvalidStatusChange
	}

	updated, err := s.repo.UpdateStatus(ctx, settlementID, StatusRejected)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		s.notifications.Notify(ctx, settlement.PayerID,
			fmt.Sprintf("%s rejected the settlement", settlement.ReceiverName),
			notification.TypeSettlement, "SETTLEMENT", &settlement.ID)
	}

	return updated, nil
}
