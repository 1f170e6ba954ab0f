package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertLoanSQL = `
        INSERT INTO loans (id, client_id, request_id, principal_original, principal_remaining, interest_rate_percent,
            frequency, status, date_created, date_last_payment, date_next_payment_due, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
        RETURNING updated_at`

	selectLoanColumns = `
        SELECT id, client_id, request_id, principal_original, principal_remaining, interest_rate_percent,
            frequency, status, date_created, date_last_payment, date_next_payment_due, updated_at
        FROM loans`

	getLoanByIDSQL = selectLoanColumns + `
        WHERE id = $1`

	getLoanForUpdateSQL = selectLoanColumns + `
        WHERE id = $1
        FOR UPDATE`

	updateLoanSQL = `
        UPDATE loans
        SET principal_remaining = $1, status = $2, date_last_payment = $3, date_next_payment_due = $4, updated_at = NOW()
        WHERE id = $5
        RETURNING updated_at`

	listOverdueLoanIDsSQL = `
        SELECT id FROM loans
        WHERE status = $1 AND date_next_payment_due < $2
        ORDER BY date_next_payment_due ASC`
)

type LoanRepository struct {
	txManager
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{
		txManager: txManager{db: db, logger: logger.With("component", "LoanRepository")},
	}
}

func (r *LoanRepository) CreateLoan(ctx context.Context, l *loan.Loan) error {
	return r.insertLoan(ctx, r.db, l)
}

func (r *LoanRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) error {
	return r.insertLoan(ctx, tx, l)
}

func (r *LoanRepository) insertLoan(ctx context.Context, q querier, l *loan.Loan) error {
	start := time.Now()
	err := q.QueryRow(ctx, insertLoanSQL,
		l.ID, l.ClientID, l.RequestID, l.PrincipalOriginal, l.PrincipalRemaining, l.InterestRatePercent,
		string(l.Frequency), string(l.Status), l.DateCreated, l.DateLastPayment, l.DateNextPaymentDue,
	).Scan(&l.UpdatedAt)
	monitoring.RecordDBQuery("CreateLoan", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "loan_id", l.ID, "client_id", l.ClientID, "error", err)
		return translateDBError(err, r.logger, "loan "+l.ID.String())
	}
	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", l.ID, "client_id", l.ClientID)
	return nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID uuid.UUID) (*loan.Loan, error) {
	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, getLoanByIDSQL, loanID))
	monitoring.RecordDBQuery("GetLoanByID", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger, "loan "+loanID.String())
	}
	return l, nil
}

func (r *LoanRepository) GetLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) (*loan.Loan, error) {
	start := time.Now()
	l, err := scanLoan(tx.QueryRow(ctx, getLoanForUpdateSQL, loanID))
	monitoring.RecordDBQuery("GetLoanForUpdate", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger, "loan "+loanID.String())
	}
	return l, nil
}

func (r *LoanRepository) UpdateLoanInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) error {
	start := time.Now()
	err := tx.QueryRow(ctx, updateLoanSQL,
		l.PrincipalRemaining, string(l.Status), l.DateLastPayment, l.DateNextPaymentDue, l.ID,
	).Scan(&l.UpdatedAt)
	monitoring.RecordDBQuery("UpdateLoan", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan", "loan_id", l.ID, "error", err)
		return translateDBError(err, r.logger, "loan "+l.ID.String())
	}
	return nil
}

func (r *LoanRepository) ListLoans(ctx context.Context, filter loan.ListFilter) ([]*loan.Loan, error) {
	query, args := buildListLoansQuery(filter)

	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		monitoring.RecordDBQuery("ListLoans", start, err)
		r.logger.ErrorContext(ctx, "Failed to query loans", "error", err)
		return nil, translateDBError(err, r.logger, "loans")
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			monitoring.RecordDBQuery("ListLoans", start, err)
			return nil, apperrors.WrapPersistenceError(err, "failed scanning loan row")
		}
		loans = append(loans, l)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("ListLoans", start, err)
	if err != nil {
		return nil, apperrors.WrapPersistenceError(err, "error iterating loan rows")
	}
	return loans, nil
}

func buildListLoansQuery(filter loan.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conds = append(conds, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := selectLoanColumns
	if len(conds) > 0 {
		query += "\n        WHERE " + strings.Join(conds, " AND ")
	}
	query += "\n        ORDER BY date_created DESC"
	return query, args
}

func (r *LoanRepository) ListOverdueLoanIDs(ctx context.Context, dueBefore time.Time) ([]uuid.UUID, error) {
	logCtx := r.logger.With(slog.String("operation", "ListOverdueLoanIDs"))
	logCtx.DebugContext(ctx, "Listing overdue loans", "due_before", dueBefore)

	start := time.Now()
	rows, err := r.db.Query(ctx, listOverdueLoanIDsSQL, string(loan.StatusActive), dueBefore)
	if err != nil {
		monitoring.RecordDBQuery("ListOverdueLoanIDs", start, err)
		logCtx.ErrorContext(ctx, "Failed to query overdue loan IDs", slog.Any("error", err))
		return nil, translateDBError(err, r.logger, "overdue loans")
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			monitoring.RecordDBQuery("ListOverdueLoanIDs", start, err)
			return nil, apperrors.WrapPersistenceError(err, "failed scanning overdue loan ID")
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("ListOverdueLoanIDs", start, err)
	if err != nil {
		return nil, apperrors.WrapPersistenceError(err, "error iterating overdue loan IDs")
	}

	logCtx.DebugContext(ctx, "Finished listing overdue loans", slog.Int("count", len(ids)))
	return ids, nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var (
		l         loan.Loan
		frequency string
		status    string
	)
	err := row.Scan(
		&l.ID, &l.ClientID, &l.RequestID, &l.PrincipalOriginal, &l.PrincipalRemaining, &l.InterestRatePercent,
		&frequency, &status, &l.DateCreated, &l.DateLastPayment, &l.DateNextPaymentDue, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Frequency = loan.ParseFrequency(frequency)
	l.Status = loan.Status(status)
	return &l, nil
}
