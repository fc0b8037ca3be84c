package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawnbook/ledger-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, paid_at, principal_paise, interest_paise, method, note, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY paid_at, created_at
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, loanID); err != nil {
		return nil, err
	}

	itemQuery := `
		SELECT item_id
		FROM payment_items
		WHERE payment_id = $1
	`

	for _, payment := range payments {
		var itemIDs []uuid.UUID
		if err := r.db.SelectContext(ctx, &itemIDs, itemQuery, payment.ID); err != nil {
			return nil, err
		}
		payment.ItemsReturned = itemIDs
	}

	return payments, nil
}

// Commit writes a repayment in a single transaction. The payments table is
// append-only: rows are never updated or deleted once written.
func (r *paymentRepository) Commit(ctx context.Context, commit *domain.RepaymentCommit) error {
	paymentQuery := `
		INSERT INTO payments (id, loan_id, paid_at, principal_paise, interest_paise, method, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	paymentItemQuery := `
		INSERT INTO payment_items (payment_id, item_id)
		VALUES ($1, $2)
	`

	returnItemQuery := `
		UPDATE collateral_items
		SET return_date = $3
		WHERE id = $1 AND loan_id = $2 AND return_date IS NULL
	`

	loanQuery := `
		UPDATE loans
		SET outstanding_paise = $2, status = $3, updated_at = $4
		WHERE loan_id = $1
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p := commit.Payment
	_, err = tx.ExecContext(ctx, paymentQuery,
		p.ID,
		p.LoanID,
		p.PaidAt,
		p.PrincipalPaise,
		p.InterestPaise,
		p.Method,
		p.Note,
		p.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, itemID := range commit.ReturnedItemIDs {
		if _, err = tx.ExecContext(ctx, paymentItemQuery, p.ID, itemID); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, returnItemQuery, itemID, commit.LoanID, commit.ReturnDate); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, loanQuery,
		commit.LoanID,
		commit.NewOutstandingPaise,
		commit.NewStatus,
		p.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
