// Package eventtest provides a testify mock of event.EventPublisher.
package eventtest

import (
	"context"

	"loan-engine/internal/event"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

var _ event.EventPublisher = (*MockPublisher)(nil)

func (_m *MockPublisher) PublishClientCreated(ctx context.Context, evt event.ClientCreatedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishClientUpdated(ctx context.Context, evt event.ClientUpdatedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishPaymentApplied(ctx context.Context, evt event.PaymentAppliedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishLoanStatusChanged(ctx context.Context, evt event.LoanStatusChangedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishLoanRequestDecided(ctx context.Context, evt event.LoanRequestDecidedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}
