package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"loan-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pgxmockExpectationsNotMetMsg = "there were unfulfilled expectations"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}
	t.Cleanup(mockPool.Close)
	return mockPool
}

func TestTranslateDBError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateDBError(nil, logger, "loan"))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		err := translateDBError(pgx.ErrNoRows, logger, "loan 1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, err.Error(), "loan 1")
	})

	t.Run("unique violation becomes already exists", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "clients_pkey"}
		err := translateDBError(pgErr, logger, "client")
		assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "clients_pkey")
	})

	t.Run("other postgres errors become persistence errors", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23514", Message: "check violation"}
		err := translateDBError(pgErr, logger, "payment")
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("generic errors become persistence errors", func(t *testing.T) {
		cause := errors.New("connection reset by peer")
		err := translateDBError(cause, logger, "loans")
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.ErrorIs(t, err, cause)
	})
}

func TestTxManager(t *testing.T) {
	ctx := context.Background()

	t.Run("begin and commit", func(t *testing.T) {
		mockPool := newMockPool(t)
		m := txManager{db: mockPool, logger: logger}

		mockPool.ExpectBegin()
		mockPool.ExpectCommit()

		tx, err := m.BeginTx(ctx)
		require.NoError(t, err)
		assert.NoError(t, m.CommitTx(ctx, tx))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("begin failure is a persistence error", func(t *testing.T) {
		mockPool := newMockPool(t)
		m := txManager{db: mockPool, logger: logger}

		mockPool.ExpectBegin().WillReturnError(errors.New("too many connections"))

		tx, err := m.BeginTx(ctx)
		assert.Nil(t, tx)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
	})

	t.Run("commit failure is a persistence error", func(t *testing.T) {
		mockPool := newMockPool(t)
		m := txManager{db: mockPool, logger: logger}

		mockPool.ExpectBegin()
		mockPool.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		tx, err := m.BeginTx(ctx)
		require.NoError(t, err)
		assert.ErrorIs(t, m.CommitTx(ctx, tx), apperrors.ErrPersistence)
	})

	t.Run("rollback after commit is ignored", func(t *testing.T) {
		mockPool := newMockPool(t)
		m := txManager{db: mockPool, logger: logger}

		mockPool.ExpectBegin()
		mockPool.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

		tx, err := m.BeginTx(ctx)
		require.NoError(t, err)
		assert.NoError(t, m.RollbackTx(ctx, tx))
	})
}
