package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loan-engine/internal/domain/client"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
)

const (
	upsertClientSQL = `
        INSERT INTO clients (id, name, phone, email, address, is_delinquent, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name, phone = EXCLUDED.phone, email = EXCLUDED.email, address = EXCLUDED.address,
            is_delinquent = EXCLUDED.is_delinquent, active = EXCLUDED.active, updated_at = NOW()
        RETURNING created_at, updated_at`

	selectClientColumns = `SELECT id, name, phone, email, address, is_delinquent, active, created_at, updated_at FROM clients`

	findClientByIDSQL = selectClientColumns + ` WHERE id = $1`

	findAllClientsSQL = selectClientColumns + ` ORDER BY created_at ASC`

	findActiveClientsSQL = selectClientColumns + ` WHERE active = TRUE ORDER BY created_at ASC`

	setClientDelinquencySQL = `UPDATE clients SET is_delinquent = $1, updated_at = NOW() WHERE id = $2`

	setClientActiveSQL = `UPDATE clients SET active = $1, updated_at = NOW() WHERE id = $2`
)

type ClientRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ client.Repository = (*ClientRepository)(nil)

func NewClientRepository(db DBPool, logger *slog.Logger) *ClientRepository {
	if db == nil {
		panic("DBPool cannot be nil for ClientRepository")
	}
	return &ClientRepository{
		db:     db,
		logger: logger.With("component", "ClientRepository"),
	}
}

func (r *ClientRepository) Save(ctx context.Context, c *client.Client) error {
	start := time.Now()
	err := r.db.QueryRow(ctx, upsertClientSQL,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.IsDelinquent, c.Active,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	monitoring.RecordDBQuery("SaveClient", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save client", "client_id", c.ID, "error", err)
		return translateDBError(err, r.logger, "client "+c.ID.String())
	}
	r.logger.InfoContext(ctx, "Client saved", "client_id", c.ID)
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, clientID uuid.UUID) (*client.Client, error) {
	start := time.Now()
	var c client.Client
	err := r.db.QueryRow(ctx, findClientByIDSQL, clientID).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsDelinquent, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	monitoring.RecordDBQuery("FindClientByID", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger, "client "+clientID.String())
	}
	return &c, nil
}

func (r *ClientRepository) FindAll(ctx context.Context, activeOnly bool) ([]*client.Client, error) {
	query := findAllClientsSQL
	if activeOnly {
		query = findActiveClientsSQL
	}

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		monitoring.RecordDBQuery("FindAllClients", start, err)
		r.logger.ErrorContext(ctx, "Failed to query clients", "active_only", activeOnly, "error", err)
		return nil, translateDBError(err, r.logger, "clients")
	}
	defer rows.Close()

	clients := make([]*client.Client, 0)
	for rows.Next() {
		var c client.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsDelinquent, &c.Active, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			monitoring.RecordDBQuery("FindAllClients", start, err)
			return nil, apperrors.WrapPersistenceError(err, "failed scanning client row")
		}
		clients = append(clients, &c)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("FindAllClients", start, err)
	if err != nil {
		return nil, apperrors.WrapPersistenceError(err, "error iterating client rows")
	}
	return clients, nil
}

func (r *ClientRepository) SetDelinquencyStatus(ctx context.Context, clientID uuid.UUID, isDelinquent bool) error {
	return r.updateFlag(ctx, "SetClientDelinquency", setClientDelinquencySQL, clientID, isDelinquent)
}

func (r *ClientRepository) SetActiveStatus(ctx context.Context, clientID uuid.UUID, isActive bool) error {
	return r.updateFlag(ctx, "SetClientActive", setClientActiveSQL, clientID, isActive)
}

func (r *ClientRepository) updateFlag(ctx context.Context, queryName, query string, clientID uuid.UUID, value bool) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, query, value, clientID)
	monitoring.RecordDBQuery(queryName, start, err)
	if err != nil {
		return translateDBError(err, r.logger, "client "+clientID.String())
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Client not found for flag update", "client_id", clientID, "query", queryName)
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	return nil
}
