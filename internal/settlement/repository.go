package settlement

import (
	"context"
	"database/sql"
	"fmt"
)

const settlementColumns = `id, reference, payer_id, receiver_id, amount, currency_code, status, created_at`

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new settlement into the database
func (r *Repository) Create(ctx context.Context, reference string, payerID, receiverID int64, amount float64, currency string) (*Settlement, error) {
	query := `
		INSERT INTO settlements (reference, payer_id, receiver_id, amount, currency_code, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + settlementColumns

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, reference, payerID, receiverID, amount, currency, StatusPending).Scan(
		&settlement.ID,
		&settlement.Reference,
		&settlement.PayerID,
		&settlement.ReceiverID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Status,
		&settlement.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	return settlement, nil
}

// GetByID retrieves a settlement by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	query := `
		SELECT s.id, s.reference, s.payer_id, s.receiver_id, s.amount, s.currency_code, s.status, s.created_at,
		       p.name as payer_name, recv.name as receiver_name
		FROM settlements s
		JOIN users p ON s.payer_id = p.id
		JOIN users recv ON s.receiver_id = recv.id
		WHERE s.id = $1
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&settlement.ID,
		&settlement.Reference,
		&settlement.PayerID,
		&settlement.ReceiverID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Status,
		&settlement.CreatedAt,
		&settlement.PayerName,
		&settlement.ReceiverName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// GetPendingBetween retrieves an open settlement between two users in
// either direction. Open means PENDING or PAID; at most one such
// settlement exists per pair.
func (r *Repository) GetPendingBetween(ctx context.Context, userA, userB int64) (*Settlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM settlements
		WHERE ((payer_id = $1 AND receiver_id = $2) OR (payer_id = $2 AND receiver_id = $1))
		  AND status IN ($3, $4)
		LIMIT 1
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, userA, userB, StatusPending, StatusPaid).Scan(
		&settlement.ID,
		&settlement.Reference,
		&settlement.PayerID,
		&settlement.ReceiverID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Status,
		&settlement.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending settlement: %w", err)
	}

	return settlement, nil
}

// ListByUserID retrieves all settlements involving a user
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Settlement, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*) FROM settlements
		WHERE payer_id = $1 OR receiver_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
		SELECT s.id, s.reference, s.payer_id, s.receiver_id, s.amount, s.currency_code, s.status, s.created_at,
		       p.name as payer_name, recv.name as receiver_name
		FROM settlements s
		JOIN users p ON s.payer_id = p.id
		JOIN users recv ON s.receiver_id = recv.id
		WHERE s.payer_id = $1 OR s.receiver_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		settlement := &Settlement{}
		if err := rows.Scan(
			&settlement.ID,
			&settlement.Reference,
			&settlement.PayerID,
			&settlement.ReceiverID,
			&settlement.Amount,
			&settlement.CurrencyCode,
			&settlement.Status,
			&settlement.CreatedAt,
			&settlement.PayerName,
			&settlement.ReceiverName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	return settlements, total, rows.Err()
}

// UpdateStatus updates the status of a settlement
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) (*Settlement, error) {
	query := `
		UPDATE settlements
		SET status = $2
		WHERE id = $1
		RETURNING ` + settlementColumns

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, id, status).Scan(
		&settlement.ID,
		&settlement.Reference,
		&settlement.PayerID,
		&settlement.ReceiverID,
		&settlement.Amount,
		&settlement.CurrencyCode,
		&settlement.Status,
		&settlement.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update settlement status: %w", err)
	}

	return settlement, nil
}
