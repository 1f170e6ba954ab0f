package loan

import (
	"context"
	"errors"
	"log/slog"

	"loan-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

// LedgerWriter appends payment events inside the caller's transaction.
type LedgerWriter struct {
	repo   LedgerRepository
	logger *slog.Logger
}

func NewLedgerWriter(repo LedgerRepository, logger *slog.Logger) *LedgerWriter {
	return &LedgerWriter{repo: repo, logger: logger.With("component", "ledgerWriter")}
}

func (w *LedgerWriter) RecordPayment(ctx context.Context, tx pgx.Tx, rec PaymentRecord) (*PaymentEvent, error) {
	payment, err := NewPaymentEvent(rec)
	if err != nil {
		return nil, err
	}

	if err := w.repo.InsertPaymentInTx(ctx, tx, payment); err != nil {
		w.logger.ErrorContext(ctx, "Failed to insert payment event", "loanID", rec.LoanID, "error", err)
		if errors.Is(err, apperrors.ErrPersistence) {
			return nil, err
		}
		return nil, apperrors.WrapPersistenceError(err, "could not record payment")
	}

	w.logger.DebugContext(ctx, "Payment event recorded", "paymentID", payment.ID, "loanID", payment.LoanID)
	return payment, nil
}
