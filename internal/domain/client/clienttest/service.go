// Package clienttest provides a testify mock of client.ClientService.
package clienttest

import (
	"context"

	"loan-engine/internal/domain/client"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockClientService struct {
	mock.Mock
}

var _ client.ClientService = (*MockClientService)(nil)

func (_m *MockClientService) CreateClient(ctx context.Context, name, phone, email, address string) (*client.Client, error) {
	ret := _m.Called(ctx, name, phone, email, address)

	var r0 *client.Client
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*client.Client)
	}
	return r0, ret.Error(1)
}

func (_m *MockClientService) GetClient(ctx context.Context, clientID uuid.UUID) (*client.Client, error) {
	ret := _m.Called(ctx, clientID)

	var r0 *client.Client
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*client.Client)
	}
	return r0, ret.Error(1)
}

func (_m *MockClientService) ListClients(ctx context.Context, activeOnly bool) ([]*client.Client, error) {
	ret := _m.Called(ctx, activeOnly)

	var r0 []*client.Client
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*client.Client)
	}
	return r0, ret.Error(1)
}

func (_m *MockClientService) UpdateClientContact(ctx context.Context, clientID uuid.UUID, update client.ContactUpdate) (*client.Client, error) {
	ret := _m.Called(ctx, clientID, update)

	var r0 *client.Client
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*client.Client)
	}
	return r0, ret.Error(1)
}

func (_m *MockClientService) UpdateDelinquency(ctx context.Context, clientID uuid.UUID, isDelinquent bool) error {
	return _m.Called(ctx, clientID, isDelinquent).Error(0)
}

func (_m *MockClientService) DeactivateClient(ctx context.Context, clientID uuid.UUID) error {
	return _m.Called(ctx, clientID).Error(0)
}

func (_m *MockClientService) ReactivateClient(ctx context.Context, clientID uuid.UUID) error {
	return _m.Called(ctx, clientID).Error(0)
}
