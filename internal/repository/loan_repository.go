package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pawnbook/ledger-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	loanQuery := `
		INSERT INTO loans (id, loan_id, direction, principal_paise, outstanding_paise, monthly_rate_pct, start_date, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	itemQuery := `
		INSERT INTO collateral_items (id, loan_id, metal, description, weight_grams, purity, pledged_value_paise, return_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, loanQuery,
		loan.ID,
		loan.LoanID,
		loan.Direction,
		loan.PrincipalPaise,
		loan.OutstandingPaise,
		loan.MonthlyRatePct,
		loan.StartDate,
		loan.DueDate,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, item := range loan.Items {
		_, err = tx.ExecContext(ctx, itemQuery,
			item.ID,
			item.LoanID,
			item.Metal,
			item.Description,
			item.WeightGrams,
			item.Purity,
			item.PledgedValuePaise,
			item.ReturnDate,
			item.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	loanQuery := `
		SELECT id, loan_id, direction, principal_paise, outstanding_paise, monthly_rate_pct, start_date, due_date, status, created_at, updated_at
		FROM loans
		WHERE loan_id = $1
	`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, loanQuery, loanID); err != nil {
		return nil, err
	}

	itemQuery := `
		SELECT id, loan_id, metal, description, weight_grams, purity, pledged_value_paise, return_date, created_at
		FROM collateral_items
		WHERE loan_id = $1
		ORDER BY created_at, id
	`

	if err := r.db.SelectContext(ctx, &loan.Items, itemQuery, loanID); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	query := `
		SELECT id, loan_id, direction, principal_paise, outstanding_paise, monthly_rate_pct, start_date, due_date, status, created_at, updated_at
		FROM loans
		WHERE ($1::text = '' OR status = $1)
		  AND ($2::text = '' OR direction = $2)
		ORDER BY created_at DESC
	`

	var loans []*domain.Loan
	if err := r.db.SelectContext(ctx, &loans, query, filter.Status, filter.Direction); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loanID string, status string) error {
	query := `
		UPDATE loans
		SET status = $2, updated_at = $3
		WHERE loan_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, loanID, status, time.Now())
	return err
}
