package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (_m *MockRepository) Save(ctx context.Context, c *Client) error {
	ret := _m.Called(ctx, c)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Client) error); ok {
		r0 = rf(ctx, c)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

func (_m *MockRepository) FindByID(ctx context.Context, clientID uuid.UUID) (*Client, error) {
	ret := _m.Called(ctx, clientID)

	var r0 *Client
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Client)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindAll(ctx context.Context, activeOnly bool) ([]*Client, error) {
	ret := _m.Called(ctx, activeOnly)

	var r0 []*Client
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Client)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) SetDelinquencyStatus(ctx context.Context, clientID uuid.UUID, isDelinquent bool) error {
	return _m.Called(ctx, clientID, isDelinquent).Error(0)
}

func (_m *MockRepository) SetActiveStatus(ctx context.Context, clientID uuid.UUID, isActive bool) error {
	return _m.Called(ctx, clientID, isActive).Error(0)
}
