package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repository interface {
	Create(ctx context.Context, req *LoanRequest) error

	GetByID(ctx context.Context, requestID uuid.UUID) (*LoanRequest, error)

	// GetForUpdate locks the request row until tx ends.
	GetForUpdate(ctx context.Context, tx pgx.Tx, requestID uuid.UUID) (*LoanRequest, error)

	UpdateDecisionInTx(ctx context.Context, tx pgx.Tx, req *LoanRequest) error

	List(ctx context.Context, status *Status) ([]*LoanRequest, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}
