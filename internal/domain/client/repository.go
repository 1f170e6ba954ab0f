package client

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Save inserts c when it does not exist yet, otherwise updates it.
	Save(ctx context.Context, c *Client) error

	FindByID(ctx context.Context, clientID uuid.UUID) (*Client, error)

	FindAll(ctx context.Context, activeOnly bool) ([]*Client, error)

	SetDelinquencyStatus(ctx context.Context, clientID uuid.UUID, isDelinquent bool) error

	SetActiveStatus(ctx context.Context, clientID uuid.UUID, isActive bool) error
}
