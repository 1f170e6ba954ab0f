package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentColumns = []string{
	"id", "loan_id", "recorded_at", "payment_date", "mode", "payment_type", "amount_total", "amount_interest",
	"amount_principal", "interest_due", "interest_shortfall", "amount_excess", "principal_before", "principal_after", "note",
}

func setupPaymentRepo(t *testing.T) (context.Context, *PaymentRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool := newMockPool(t)
	return context.Background(), NewPaymentRepository(mockPool, logger), mockPool
}

func samplePayment() *loan.PaymentEvent {
	ts := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	return &loan.PaymentEvent{
		ID:                uuid.New(),
		LoanID:            uuid.New(),
		Timestamp:         ts,
		PaymentDate:       ts,
		Mode:              loan.ModeAutomatic,
		PaymentType:       loan.PaymentTypeNormal,
		AmountTotal:       decimal.RequireFromString("150.00"),
		AmountInterest:    decimal.RequireFromString("100.00"),
		AmountPrincipal:   decimal.RequireFromString("50.00"),
		InterestDue:       decimal.RequireFromString("100.00"),
		InterestShortfall: decimal.Zero,
		AmountExcess:      decimal.Zero,
		PrincipalBefore:   decimal.RequireFromString("1000.00"),
		PrincipalAfter:    decimal.RequireFromString("950.00"),
		Note:              "first installment",
	}
}

func TestPaymentRepository_InsertPaymentInTx(t *testing.T) {
	ctx, repo, mockPool := setupPaymentRepo(t)
	p := samplePayment()

	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta(insertPaymentSQL)).
		WithArgs(p.ID, p.LoanID, p.Timestamp, p.PaymentDate, "automatic", "normal",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), p.Note).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	tx, err := mockPool.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.InsertPaymentInTx(ctx, tx, p))
	require.NoError(t, tx.Commit(ctx))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestPaymentRepository_InsertPaymentInTxFailure(t *testing.T) {
	ctx, repo, mockPool := setupPaymentRepo(t)
	p := samplePayment()

	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta(insertPaymentSQL)).
		WillReturnError(errors.New("disk full"))

	tx, err := mockPool.Begin(ctx)
	require.NoError(t, err)

	err = repo.InsertPaymentInTx(ctx, tx, p)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestPaymentRepository_ListPaymentsByLoanID(t *testing.T) {
	ctx, repo, mockPool := setupPaymentRepo(t)
	p := samplePayment()

	mockPool.ExpectQuery(regexp.QuoteMeta(listPaymentsByLoanSQL)).
		WithArgs(p.LoanID).
		WillReturnRows(pgxmock.NewRows(paymentColumns).AddRow(
			p.ID, p.LoanID, p.Timestamp, p.PaymentDate, "automatic", "advance",
			p.AmountTotal, p.AmountInterest, p.AmountPrincipal, p.InterestDue, p.InterestShortfall, p.AmountExcess,
			p.PrincipalBefore, p.PrincipalAfter, p.Note,
		))

	payments, err := repo.ListPaymentsByLoanID(ctx, p.LoanID)
	require.NoError(t, err)
	require.Len(t, payments, 1)

	got := payments[0]
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, loan.ModeAutomatic, got.Mode)
	assert.Equal(t, loan.PaymentTypeAdvance, got.PaymentType)
	assert.True(t, got.AmountInterest.Add(got.AmountPrincipal).Equal(got.AmountTotal))
	assert.True(t, got.PrincipalBefore.Sub(got.AmountPrincipal).Equal(got.PrincipalAfter))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestPaymentRepository_ListPaymentsByLoanIDEmpty(t *testing.T) {
	ctx, repo, mockPool := setupPaymentRepo(t)
	loanID := uuid.New()

	mockPool.ExpectQuery(regexp.QuoteMeta(listPaymentsByLoanSQL)).
		WithArgs(loanID).
		WillReturnRows(pgxmock.NewRows(paymentColumns))

	payments, err := repo.ListPaymentsByLoanID(ctx, loanID)
	require.NoError(t, err)
	assert.NotNil(t, payments)
	assert.Empty(t, payments)
}
