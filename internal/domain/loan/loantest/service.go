// Package loantest provides a testify mock of loan.LoanService.
package loantest

import (
	"context"

	"loan-engine/internal/domain/loan"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockLoanService struct {
	mock.Mock
}

var _ loan.LoanService = (*MockLoanService)(nil)

func (_m *MockLoanService) CreateLoan(ctx context.Context, in loan.CreateLoanInput) (*loan.Loan, error) {
	ret := _m.Called(ctx, in)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*loan.Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) ListLoans(ctx context.Context, filter loan.ListFilter) ([]*loan.Loan, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) GetPayments(ctx context.Context, loanID uuid.UUID) ([]*loan.PaymentEvent, error) {
	ret := _m.Called(ctx, loanID)

	var r0 []*loan.PaymentEvent
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*loan.PaymentEvent)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) QuotePayment(ctx context.Context, loanID uuid.UUID, amount loan.Money) (*loan.Allocation, error) {
	ret := _m.Called(ctx, loanID, amount)

	var r0 *loan.Allocation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Allocation)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) MakePayment(ctx context.Context, in loan.PaymentInput) (*loan.PaymentResult, error) {
	ret := _m.Called(ctx, in)

	var r0 *loan.PaymentResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.PaymentResult)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) MarkDelinquent(ctx context.Context, loanID uuid.UUID) (*loan.Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) MarkDelinquentIfOverdue(ctx context.Context, loanID uuid.UUID, graceDays int) (*loan.Loan, error) {
	ret := _m.Called(ctx, loanID, graceDays)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) ListOverdueLoanIDs(ctx context.Context, graceDays int) ([]uuid.UUID, error) {
	ret := _m.Called(ctx, graceDays)

	var r0 []uuid.UUID
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]uuid.UUID)
	}
	return r0, ret.Error(1)
}
