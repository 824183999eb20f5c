package friend

import (
	"context"
	"database/sql"
	"fmt"
)

const friendshipColumns = `id, requester_id, addressee_id, status, created_at, accepted_at`

// Repository handles friendship data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new friend repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new pending friendship request
func (r *Repository) Create(ctx context.Context, requesterID, addresseeID int64) (*Friendship, error) {
	query := `
		INSERT INTO friendships (requester_id, addressee_id, status)
		VALUES ($1, $2, $3)
		RETURNING ` + friendshipColumns

	f, err := scanFriendship(r.db.QueryRowContext(ctx, query, requesterID, addresseeID, string(StatusPending)))
	if err != nil {
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}
	return f, nil
}

// GetByID retrieves a friendship by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Friendship, error) {
	query := `SELECT ` + friendshipColumns + ` FROM friendships WHERE id = $1`

	f, err := scanFriendship(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return f, nil
}

// GetByPair retrieves the friendship between two users regardless of which
// side initiated it
func (r *Repository) GetByPair(ctx context.Context, userA, userB int64) (*Friendship, error) {
	query := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)
	`

	f, err := scanFriendship(r.db.QueryRowContext(ctx, query, userA, userB))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return f, nil
}

// Accept marks a pending friendship as accepted
func (r *Repository) Accept(ctx context.Context, id int64) (*Friendship, error) {
	query := `
		UPDATE friendships
		SET status = $2, accepted_at = NOW()
		WHERE id = $1
		RETURNING ` + friendshipColumns

	f, err := scanFriendship(r.db.QueryRowContext(ctx, query, id, string(StatusAccepted)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to accept friendship: %w", err)
	}
	return f, nil
}

// Delete removes a friendship row. Used both for rejecting a pending
// request and for unfriending.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM friendships WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	return nil
}

// ListFriends retrieves the user's accepted friendships with counterparty
// identity, alphabetical by name
func (r *Repository) ListFriends(ctx context.Context, userID int64) ([]*Friend, error) {
	query := `
		SELECT f.id,
		       u.id, u.name, u.email, u.avatar_url
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END
		WHERE (f.requester_id = $1 OR f.addressee_id = $1)
		  AND f.status = $2
		ORDER BY u.name
	`

	rows, err := r.db.QueryContext(ctx, query, userID, string(StatusAccepted))
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*Friend
	for rows.Next() {
		f := &Friend{}
		if err := rows.Scan(&f.FriendshipID, &f.UserID, &f.Name, &f.Email, &f.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}

	return friends, rows.Err()
}

// ListIncomingRequests retrieves pending requests addressed to the user,
// newest first
func (r *Repository) ListIncomingRequests(ctx context.Context, userID int64) ([]*Request, error) {
	query := `
		SELECT f.id, u.id, u.name, u.email, f.created_at
		FROM friendships f
		JOIN users u ON u.id = f.requester_id
		WHERE f.addressee_id = $1 AND f.status = $2
		ORDER BY f.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		req := &Request{}
		if err := rows.Scan(&req.FriendshipID, &req.RequesterID, &req.RequesterName, &req.Email, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func scanFriendship(row *sql.Row) (*Friendship, error) {
	f := &Friendship{}
	err := row.Scan(
		&f.ID,
		&f.RequesterID,
		&f.AddresseeID,
		&f.Status,
		&f.CreatedAt,
		&f.AcceptedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}
