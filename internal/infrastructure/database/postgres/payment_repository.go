package postgres

import (
	"context"
	"log/slog"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertPaymentSQL = `
        INSERT INTO payments (id, loan_id, recorded_at, payment_date, mode, payment_type, amount_total, amount_interest,
            amount_principal, interest_due, interest_shortfall, amount_excess, principal_before, principal_after, note)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	listPaymentsByLoanSQL = `
        SELECT id, loan_id, recorded_at, payment_date, mode, payment_type, amount_total, amount_interest,
            amount_principal, interest_due, interest_shortfall, amount_excess, principal_before, principal_after, note
        FROM payments
        WHERE loan_id = $1
        ORDER BY recorded_at ASC`
)

// PaymentRepository is the append-only ledger. Rows are never updated or deleted.
type PaymentRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.LedgerRepository = (*PaymentRepository)(nil)

func NewPaymentRepository(db DBPool, logger *slog.Logger) *PaymentRepository {
	return &PaymentRepository{db: db, logger: logger.With("component", "PaymentRepository")}
}

func (r *PaymentRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, p *loan.PaymentEvent) error {
	start := time.Now()
	_, err := tx.Exec(ctx, insertPaymentSQL,
		p.ID, p.LoanID, p.Timestamp, p.PaymentDate, string(p.Mode), string(p.PaymentType),
		p.AmountTotal, p.AmountInterest, p.AmountPrincipal, p.InterestDue, p.InterestShortfall, p.AmountExcess,
		p.PrincipalBefore, p.PrincipalAfter, p.Note,
	)
	monitoring.RecordDBQuery("InsertPayment", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert payment", "payment_id", p.ID, "loan_id", p.LoanID, "error", err)
		return translateDBError(err, r.logger, "payment "+p.ID.String())
	}
	return nil
}

func (r *PaymentRepository) ListPaymentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*loan.PaymentEvent, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, listPaymentsByLoanSQL, loanID)
	if err != nil {
		monitoring.RecordDBQuery("ListPaymentsByLoanID", start, err)
		r.logger.ErrorContext(ctx, "Failed to query payments", "loan_id", loanID, "error", err)
		return nil, translateDBError(err, r.logger, "payments of loan "+loanID.String())
	}
	defer rows.Close()

	payments := make([]*loan.PaymentEvent, 0)
	for rows.Next() {
		var (
			p           loan.PaymentEvent
			mode        string
			paymentType string
		)
		if err := rows.Scan(
			&p.ID, &p.LoanID, &p.Timestamp, &p.PaymentDate, &mode, &paymentType,
			&p.AmountTotal, &p.AmountInterest, &p.AmountPrincipal, &p.InterestDue, &p.InterestShortfall, &p.AmountExcess,
			&p.PrincipalBefore, &p.PrincipalAfter, &p.Note,
		); err != nil {
			monitoring.RecordDBQuery("ListPaymentsByLoanID", start, err)
			return nil, apperrors.WrapPersistenceError(err, "failed scanning payment row")
		}
		p.Mode = loan.Mode(mode)
		p.PaymentType = loan.PaymentType(paymentType)
		payments = append(payments, &p)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("ListPaymentsByLoanID", start, err)
	if err != nil {
		return nil, apperrors.WrapPersistenceError(err, "error iterating payment rows")
	}
	return payments, nil
}
