// Package requesttest provides a testify mock of request.RequestService.
package requesttest

import (
	"context"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/domain/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRequestService struct {
	mock.Mock
}

var _ request.RequestService = (*MockRequestService)(nil)

func (_m *MockRequestService) SubmitRequest(ctx context.Context, in request.SubmitInput) (*request.LoanRequest, error) {
	ret := _m.Called(ctx, in)

	var r0 *request.LoanRequest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*request.LoanRequest)
	}
	return r0, ret.Error(1)
}

func (_m *MockRequestService) GetRequest(ctx context.Context, requestID uuid.UUID) (*request.LoanRequest, error) {
	ret := _m.Called(ctx, requestID)

	var r0 *request.LoanRequest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*request.LoanRequest)
	}
	return r0, ret.Error(1)
}

func (_m *MockRequestService) ListRequests(ctx context.Context, status *request.Status) ([]*request.LoanRequest, error) {
	ret := _m.Called(ctx, status)

	var r0 []*request.LoanRequest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*request.LoanRequest)
	}
	return r0, ret.Error(1)
}

func (_m *MockRequestService) ApproveRequest(ctx context.Context, requestID uuid.UUID, terms request.Terms, approver string) (*loan.Loan, *request.LoanRequest, error) {
	ret := _m.Called(ctx, requestID, terms, approver)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	var r1 *request.LoanRequest
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*request.LoanRequest)
	}
	return r0, r1, ret.Error(2)
}

func (_m *MockRequestService) RejectRequest(ctx context.Context, requestID uuid.UUID, reason, rejectedBy string) (*request.LoanRequest, error) {
	ret := _m.Called(ctx, requestID, reason, rejectedBy)

	var r0 *request.LoanRequest
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*request.LoanRequest)
	}
	return r0, ret.Error(1)
}
