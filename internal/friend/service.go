package friend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/splitbuddy/api/internal/balance"
	"github.com/splitbuddy/api/internal/expense"
	"github.com/splitbuddy/api/internal/notification"
	"github.com/splitbuddy/api/internal/user"
)

// Common errors
var (
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrCannotFriendSelf   = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends     = errors.New("users are already friends")
	ErrRequestPending     = errors.New("a friend request between these users is already pending")
	ErrNotAddressee       = errors.New("only the addressee can respond to a friend request")
	ErrNotPending         = errors.New("friend request is not pending")
	ErrNotInvolved        = errors.New("not part of this friendship")
	ErrNotFriends         = errors.New("users are not friends")
)

// Service handles friendship business logic
type Service struct {
	repo          *Repository
	userRepo      *user.Repository
	expenseRepo   *expense.Repository
	notifications *notification.Service
}

// NewService creates a new friend service with dependencies injected
func NewService(repo *Repository, userRepo *user.Repository, expenseRepo *expense.Repository, notifications *notification.Service) *Service {
	return &Service{
		repo:          repo,
		userRepo:      userRepo,
		expenseRepo:   expenseRepo,
		notifications: notifications,
	}
}

// SendRequest creates a pending friendship from the requester to the user
// registered under the given email
func (s *Service) SendRequest(ctx context.Context, requesterID int64, email string) (*Friendship, error) {
	addressee, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if addressee == nil {
		return nil, user.ErrUserNotFound
	}
	if addressee.ID == requesterID {
		return nil, ErrCannotFriendSelf
	}

	existing, err := s.repo.GetByPair(ctx, requesterID, addressee.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == StatusAccepted {
			return nil, ErrAlreadyFriends
		}
		return nil, ErrRequestPending
	}

	f, err := s.repo.Create(ctx, requesterID, addressee.ID)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		requester, err := s.userRepo.GetByID(ctx, requesterID)
		name := "Someone"
		if err == nil && requester != nil {
			name = requester.Name
		}
		s.notifications.Notify(ctx, addressee.ID,
			fmt.Sprintf("%s sent you a friend request", name),
			notification.TypeFriendRequest, "FRIENDSHIP", &f.ID)
	}

	slog.Info("friend request sent", "friendship_id", f.ID, "requester_id", requesterID, "addressee_id", addressee.ID)

	return f, nil
}

// Accept marks a pending request as accepted. Only the addressee may accept.
func (s *Service) Accept(ctx context.Context, friendshipID, userID int64) (*Friendship, error) {
	f, err := s.pendingFor(ctx, friendshipID, userID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.repo.Accept(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if accepted == nil {
		return nil, ErrFriendshipNotFound
	}

	if s.notifications != nil {
		addressee, err := s.userRepo.GetByID(ctx, userID)
		name := "Your friend request"
		if err == nil && addressee != nil {
			name = addressee.Name
		}
		s.notifications.Notify(ctx, f.RequesterID,
			fmt.Sprintf("%s accepted your friend request", name),
			notification.TypeFriendAccepted, "FRIENDSHIP", &f.ID)
	}

	return accepted, nil
}

// Reject deletes a pending request. Only the addressee may reject.
func (s *Service) Reject(ctx context.Context, friendshipID, userID int64) error {
	if _, err := s.pendingFor(ctx, friendshipID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, friendshipID)
}

// Unfriend removes an accepted friendship. Either side may unfriend.
// Expense history between the two users is untouched.
func (s *Service) Unfriend(ctx context.Context, friendshipID, userID int64) error {
	f, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrFriendshipNotFound
	}
	if !f.Involves(userID) {
		return ErrNotInvolved
	}

	return s.repo.Delete(ctx, friendshipID)
}

// ListIncomingRequests retrieves pending requests addressed to the user
func (s *Service) ListIncomingRequests(ctx context.Context, userID int64) ([]*Request, error) {
	return s.repo.ListIncomingRequests(ctx, userID)
}

// ListFriends retrieves the user's friends with a per-friend balance.
// Balances are recomputed from unpaid expense shares on every call rather
// than read from a stored column, so they cannot drift from the underlying
// participant rows.
func (s *Service) ListFriends(ctx context.Context, userID int64) ([]*Friend, error) {
	friends, err := s.repo.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return friends, nil
	}

	expenses, err := s.expenseRepo.ListInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	balances := balance.CounterpartyBalances(expense.ToBalanceSlice(expenses), userID)
	for _, f := range friends {
		f.Balance = balances[f.UserID]
	}

	return friends, nil
}

// FriendExpenses is the per-friend detail view: every expense shared with
// the friend plus the directional totals between the two users
type FriendExpenses struct {
	Friend         *Friend
	TotalOwedToYou float64
	TotalYouOwe    float64
	NetBalance     float64
	SharedExpenses []*expense.ExpenseWithParticipants
}

// GetFriendExpenses retrieves all expenses shared between the viewer and
// an accepted friend, with pairwise totals from the viewer's perspective.
// The totals count only unpaid shares, matching the balances ListFriends
// reports; the expense cards still carry the full participant history.
func (s *Service) GetFriendExpenses(ctx context.Context, viewerID, friendID int64) (*FriendExpenses, error) {
	f, err := s.repo.GetByPair(ctx, viewerID, friendID)
	if err != nil {
		return nil, err
	}
	if f == nil || f.Status != StatusAccepted {
		return nil, ErrNotFriends
	}

	friendUser, err := s.userRepo.GetByID(ctx, friendID)
	if err != nil {
		return nil, err
	}
	if friendUser == nil {
		return nil, user.ErrUserNotFound
	}

	shared, err := s.expenseRepo.ListSharedBetween(ctx, viewerID, friendID)
	if err != nil {
		return nil, err
	}

	result := &FriendExpenses{
		Friend: &Friend{
			FriendshipID: f.ID,
			UserID:       friendUser.ID,
			Name:         friendUser.Name,
			Email:        friendUser.Email,
			AvatarURL:    friendUser.AvatarURL,
		},
		SharedExpenses: shared,
	}

	for _, e := range shared {
		contribution, err := balance.UnpaidPairContribution(e.ToBalance(), viewerID, friendID)
		if err != nil {
			return nil, err
		}
		if contribution > 0 {
			result.TotalOwedToYou += contribution
		} else {
			result.TotalYouOwe += -contribution
		}
		result.NetBalance += contribution
	}
	result.Friend.Balance = result.NetBalance

	return result, nil
}

// pendingFor loads a friendship and checks the user may respond to it
func (s *Service) pendingFor(ctx context.Context, friendshipID, userID int64) (*Friendship, error) {
	f, err := s.repo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendshipNotFound
	}
	if f.AddresseeID != userID {
		return nil, ErrNotAddressee
	}
	if f.Status != StatusPending {
		return nil, ErrNotPending
	}
	return f, nil
}
