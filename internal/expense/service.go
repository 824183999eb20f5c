package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/splitbuddy/api/internal/balance"
	"github.com/splitbuddy/api/internal/expense/split"
	"github.com/splitbuddy/api/internal/notification"
	"github.com/splitbuddy/api/internal/user"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrUnknownParticipant  = errors.New("participant user does not exist")
	ErrNotPayer            = errors.New("only the payer can perform this action")
	ErrNotInvolved         = errors.New("only the payer or the participant can change settlement state")
	ErrPercentageSum       = errors.New("percentages must sum to 100")
	ErrCustomAmountSum     = errors.New("custom amounts must sum to the expense total")
)

// sumTolerance is how far percentage and custom-amount sums may drift from
// their targets before the request is rejected. These checks live here, at
// the input boundary; the split strategies trust their inputs.
const sumTolerance = 0.01

// Service handles expense business logic
type Service struct {
	repo          *Repository
	userRepo      *user.Repository
	splitFactory  *split.Factory
	notifications *notification.Service
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, userRepo *user.Repository, splitFactory *split.Factory, notifications *notification.Service) *Service {
	return &Service{
		repo:          repo,
		userRepo:      userRepo,
		splitFactory:  splitFactory,
		notifications: notifications,
	}
}

// ValidateSplitRequest enforces the cross-field rules the split strategies
// deliberately do not re-check: percentages summing to 100 and custom
// amounts summing to the total, both within a cent.
func ValidateSplitRequest(req *CreateExpenseRequest) error {
	splitType, err := split.ParseType(req.SplitType)
	if err != nil {
		return err
	}

	switch splitType {
	case split.TypePercentage:
		var sum float64
		for _, p := range req.Participants {
			if p.Percentage != nil {
				sum += *p.Percentage
			}
		}
		if math.Abs(sum-100) > sumTolerance {
			return ErrPercentageSum
		}
	case split.TypeCustom:
		var sum float64
		for _, p := range req.Participants {
			if p.Amount != nil {
				sum += *p.Amount
			}
		}
		if math.Abs(sum-req.Amount) > sumTolerance {
			return ErrCustomAmountSum
		}
	}

	return nil
}

// Create validates the request, evaluates the split policy, and persists
// the expense with one participant row per person. The authenticated user
// is recorded as the payer.
func (s *Service) Create(ctx context.Context, payerID int64, req *CreateExpenseRequest) (*ExpenseWithParticipants, error) {
	if err := ValidateSplitRequest(req); err != nil {
		return nil, err
	}

	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}

	// Snapshot participant identities at creation time
	ids := make([]int64, len(req.Participants))
	for i, p := range req.Participants {
		ids[i] = p.UserID
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	people := make([]split.Person, len(req.Participants))
	params := split.Params{
		CurrentUserID: payerID,
		Percentages:   make(map[int64]float64),
		Amounts:       make(map[int64]float64),
	}
	sources := make(map[int64]Source, len(req.Participants))
	sourceIDs := make(map[int64]*int64, len(req.Participants))
	for i, p := range req.Participants {
		u, ok := users[p.UserID]
		if !ok {
			return nil, fmt.Errorf("%w: user %d", ErrUnknownParticipant, p.UserID)
		}

		source, err := ParseSource(p.Source)
		if err != nil {
			return nil, err
		}
		sources[p.UserID] = source
		sourceIDs[p.UserID] = p.SourceID

		people[i] = split.Person{UserID: u.ID, Name: u.Name, Email: u.Email}
		if p.Percentage != nil {
			params.Percentages[p.UserID] = *p.Percentage
		}
		if p.Amount != nil {
			params.Amounts[p.UserID] = *p.Amount
		}
	}

	shares, err := strategy.Calculate(req.Amount, people, params)
	if err != nil {
		return nil, err
	}

	payerName := ""
	if payer, ok := users[payerID]; ok {
		payerName = payer.Name
	} else if u, err := s.userRepo.GetByID(ctx, payerID); err == nil && u != nil {
		payerName = u.Name
	}

	e := &Expense{
		PayerName:   payerName,
		GroupID:     req.GroupID,
		PayerID:     payerID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		SplitType:   strategy.Type(),
		PaidAt:      time.Now().UTC(),
	}

	participants := make([]*Participant, len(shares))
	for i, share := range shares {
		u := users[share.UserID]
		participants[i] = &Participant{
			UserID:     share.UserID,
			UserName:   u.Name,
			UserEmail:  u.Email,
			Amount:     share.Amount,
			Percentage: share.Percentage,
			Source:     sources[share.UserID],
			SourceID:   sourceIDs[share.UserID],
		}
	}

	if err := s.repo.CreateWithParticipants(ctx, e, participants); err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, e, participants)

	return &ExpenseWithParticipants{Expense: e, Participants: participants}, nil
}

// GetByID retrieves an expense with its participants
func (s *Service) GetByID(ctx context.Context, id int64) (*ExpenseWithParticipants, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	participants, err := s.repo.GetParticipants(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithParticipants{Expense: e, Participants: participants}, nil
}

// ListInvolving retrieves every expense the user is part of
func (s *Service) ListInvolving(ctx context.Context, userID int64) ([]*ExpenseWithParticipants, error) {
	return s.repo.ListInvolving(ctx, userID)
}

// ListByGroup retrieves expenses for a group with pagination
func (s *Service) ListByGroup(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroup(ctx, groupID, perPage, offset)
}

// BalanceSummary recomputes the user's aggregate position from participant
// rows. Always derived on demand, never read from a stored figure.
func (s *Service) BalanceSummary(ctx context.Context, userID int64) (balance.Summary, map[int64]float64, error) {
	expenses, err := s.repo.ListInvolving(ctx, userID)
	if err != nil {
		return balance.Summary{}, nil, err
	}

	converted := ToBalanceSlice(expenses)
	return balance.Summarize(converted, userID), balance.CounterpartyBalances(converted, userID), nil
}

// SetParticipantPaid marks a participant's share paid or unpaid. Allowed
// for the payer (recording money received) and the participant themself.
func (s *Service) SetParticipantPaid(ctx context.Context, participantID, actorID int64, paid bool) (*Participant, error) {
	p, err := s.repo.GetParticipantByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrParticipantNotFound
	}

	e, err := s.repo.GetByID(ctx, p.ExpenseID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	if actorID != p.UserID && actorID != e.PayerID {
		return nil, ErrNotInvolved
	}

	updated, err := s.repo.SetParticipantPaid(ctx, participantID, paid)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrParticipantNotFound
	}

	if paid && s.notifications != nil && actorID != e.PayerID {
		s.notifications.Notify(ctx, e.PayerID,
			fmt.Sprintf("%s marked their share of \"%s\" as paid", p.UserName, e.Title),
			notification.TypeParticipantPaid, "EXPENSE", &e.ID)
	}

	return updated, nil
}

// Delete removes an expense and all its participant rows. Only the payer
// may delete.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrExpenseNotFound
	}

	if e.PayerID != userID {
		return ErrNotPayer
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) notifyParticipants(ctx context.Context, e *Expense, participants []*Participant) {
	if s.notifications == nil {
		return
	}
	for _, p := range participants {
		if p.UserID == e.PayerID {
			continue
		}
		s.notifications.Notify(ctx, p.UserID,
			fmt.Sprintf("%s added you to \"%s\"", e.PayerName, e.Title),
			notification.TypeExpenseAdded, "EXPENSE", &e.ID)
	}
	slog.Debug("expense notifications queued", "expense_id", e.ID, "participants", len(participants))
}
