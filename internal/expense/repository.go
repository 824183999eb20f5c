package expense

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles expense and participant data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const participantColumns = `id, expense_id, user_id, user_name, user_email, amount, percentage, is_paid, paid_at, source, source_id`

// CreateWithParticipants inserts an expense and its participant rows in a
// single transaction; participant rows never exist without their parent.
func (r *Repository) CreateWithParticipants(ctx context.Context, e *Expense, participants []*Participant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, payer_id, title, description, amount, currency, category, split_type, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, query,
		e.GroupID,
		e.PayerID,
		e.Title,
		e.Description,
		e.Amount,
		e.Currency,
		e.Category,
		e.SplitType,
		e.PaidAt,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	insertParticipant := `
		INSERT INTO expense_participants (expense_id, user_id, user_name, user_email, amount, percentage, source, source_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for _, p := range participants {
		p.ExpenseID = e.ID
		if err := tx.QueryRowContext(ctx, insertParticipant,
			p.ExpenseID,
			p.UserID,
			p.UserName,
			p.UserEmail,
			p.Amount,
			p.Percentage,
			p.Source,
			p.SourceID,
		).Scan(&p.ID); err != nil {
			return fmt.Errorf("failed to create participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.title, e.description, e.amount, e.currency, e.category, e.split_type, e.paid_at, e.created_at, u.name
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.GroupID,
		&e.PayerID,
		&e.Title,
		&e.Description,
		&e.Amount,
		&e.Currency,
		&e.Category,
		&e.SplitType,
		&e.PaidAt,
		&e.CreatedAt,
		&e.PayerName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// GetParticipants retrieves all participant rows for an expense, in
// creation (selection) order.
func (r *Repository) GetParticipants(ctx context.Context, expenseID int64) ([]*Participant, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM expense_participants
		WHERE expense_id = $1
		ORDER BY id
	`, participantColumns)

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	return scanParticipants(rows)
}

// GetParticipantByID retrieves a single participant row
func (r *Repository) GetParticipantByID(ctx context.Context, id int64) (*Participant, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM expense_participants
		WHERE id = $1
	`, participantColumns)

	p := &Participant{}
	err := scanParticipant(r.db.QueryRowContext(ctx, query, id), p)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// SetParticipantPaid flips a participant's settled flag; paid_at tracks it
func (r *Repository) SetParticipantPaid(ctx context.Context, id int64, paid bool) (*Participant, error) {
	query := fmt.Sprintf(`
		UPDATE expense_participants
		SET is_paid = $2,
		    paid_at = CASE WHEN $2 THEN NOW() ELSE NULL END
		WHERE id = $1
		RETURNING %s
	`, participantColumns)

	p := &Participant{}
	err := scanParticipant(r.db.QueryRowContext(ctx, query, id, paid), p)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}
	return p, nil
}

// MarkPairSettled marks as paid every unpaid row where debtor owes on an
// expense the creditor paid. Returns how many rows were settled. Used by
// the settlement flow once a settlement is confirmed.
func (r *Repository) MarkPairSettled(ctx context.Context, debtorID, creditorID int64) (int64, error) {
	query := `
		UPDATE expense_participants p
		SET is_paid = TRUE, paid_at = NOW()
		FROM expenses e
		WHERE p.expense_id = e.id
		  AND p.user_id = $1
		  AND e.payer_id = $2
		  AND p.is_paid = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, debtorID, creditorID)
	if err != nil {
		return 0, fmt.Errorf("failed to settle pair: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// ListInvolving retrieves every expense the user pays for or participates
// in, with participants attached. Feeds balance aggregation.
func (r *Repository) ListInvolving(ctx context.Context, userID int64) ([]*ExpenseWithParticipants, error) {
	query := `
		SELECT DISTINCT e.id, e.group_id, e.payer_id, e.title, e.description, e.amount, e.currency, e.category, e.split_type, e.paid_at, e.created_at, u.name
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		LEFT JOIN expense_participants p ON p.expense_id = e.id
		WHERE e.payer_id = $1 OR p.user_id = $1
		ORDER BY e.created_at DESC, e.id DESC
	`
	return r.listWithParticipants(ctx, query, userID)
}

// ListSharedBetween retrieves expenses both users are involved in, newest
// first. Feeds the friend activity feed and pairwise settlement.
func (r *Repository) ListSharedBetween(ctx context.Context, userA, userB int64) ([]*ExpenseWithParticipants, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.title, e.description, e.amount, e.currency, e.category, e.split_type, e.paid_at, e.created_at, u.name
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE (e.payer_id = $1 OR EXISTS (
		        SELECT 1 FROM expense_participants p
		        WHERE p.expense_id = e.id AND p.user_id = $1))
		  AND (e.payer_id = $2 OR EXISTS (
		        SELECT 1 FROM expense_participants p
		        WHERE p.expense_id = e.id AND p.user_id = $2))
		ORDER BY e.created_at DESC, e.id DESC
	`
	return r.listWithParticipants(ctx, query, userA, userB)
}

// ListByGroup retrieves expenses for a group with pagination
func (r *Repository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.title, e.description, e.amount, e.currency, e.category, e.split_type, e.paid_at, e.created_at, u.name
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// Delete removes an expense and its participant rows in one transaction
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_participants WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("expense not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

func (r *Repository) listWithParticipants(ctx context.Context, query string, args ...interface{}) ([]*ExpenseWithParticipants, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, err
	}

	// N+1 is acceptable here: these lists are per-user and small
	out := make([]*ExpenseWithParticipants, len(expenses))
	for i, e := range expenses {
		participants, err := r.GetParticipants(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		out[i] = &ExpenseWithParticipants{Expense: e, Participants: participants}
	}
	return out, nil
}

func scanExpenses(rows *sql.Rows) ([]*Expense, error) {
	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(
			&e.ID,
			&e.GroupID,
			&e.PayerID,
			&e.Title,
			&e.Description,
			&e.Amount,
			&e.Currency,
			&e.Category,
			&e.SplitType,
			&e.PaidAt,
			&e.CreatedAt,
			&e.PayerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanParticipant(row rowScanner, p *Participant) error {
	return row.Scan(
		&p.ID,
		&p.ExpenseID,
		&p.UserID,
		&p.UserName,
		&p.UserEmail,
		&p.Amount,
		&p.Percentage,
		&p.IsPaid,
		&p.PaidAt,
		&p.Source,
		&p.SourceID,
	)
}

func scanParticipants(rows *sql.Rows) ([]*Participant, error) {
	var participants []*Participant
	for rows.Next() {
		p := &Participant{}
		if err := scanParticipant(rows, p); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
