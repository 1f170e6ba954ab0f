package postgres

import (
	"context"
	"log/slog"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/domain/request"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertRequestSQL = `
        INSERT INTO loan_requests (id, client_id, applicant_name, phone, email, address, occupation, monthly_income,
            purpose, amount_requested, frequency_requested, status, observations, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	selectRequestColumns = `
        SELECT id, client_id, applicant_name, phone, email, address, occupation, monthly_income, purpose,
            amount_requested, frequency_requested, status, observations, decided_by, decided_at, loan_id,
            created_at, updated_at
        FROM loan_requests`

	getRequestByIDSQL = selectRequestColumns + `
        WHERE id = $1`

	getRequestForUpdateSQL = selectRequestColumns + `
        WHERE id = $1
        FOR UPDATE`

	listRequestsSQL = selectRequestColumns + `
        ORDER BY created_at DESC`

	listRequestsByStatusSQL = selectRequestColumns + `
        WHERE status = $1
        ORDER BY created_at DESC`

	updateRequestDecisionSQL = `
        UPDATE loan_requests
        SET status = $1, observations = $2, decided_by = $3, decided_at = $4, loan_id = $5, updated_at = $6
        WHERE id = $7`
)

type RequestRepository struct {
	txManager
}

var _ request.Repository = (*RequestRepository)(nil)

func NewRequestRepository(db DBPool, logger *slog.Logger) *RequestRepository {
	return &RequestRepository{
		txManager: txManager{db: db, logger: logger.With("component", "RequestRepository")},
	}
}

func (r *RequestRepository) Create(ctx context.Context, req *request.LoanRequest) error {
	start := time.Now()
	_, err := r.db.Exec(ctx, insertRequestSQL,
		req.ID, req.ClientID, req.ApplicantName, req.Phone, req.Email, req.Address, req.Occupation, req.MonthlyIncome,
		req.Purpose, req.AmountRequested, string(req.FrequencyRequested), string(req.Status), req.Observations,
		req.CreatedAt, req.UpdatedAt,
	)
	monitoring.RecordDBQuery("CreateLoanRequest", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan request", "request_id", req.ID, "error", err)
		return translateDBError(err, r.logger, "loan request "+req.ID.String())
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, requestID uuid.UUID) (*request.LoanRequest, error) {
	start := time.Now()
	req, err := scanRequest(r.db.QueryRow(ctx, getRequestByIDSQL, requestID))
	monitoring.RecordDBQuery("GetLoanRequestByID", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger, "loan request "+requestID.String())
	}
	return req, nil
}

func (r *RequestRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, requestID uuid.UUID) (*request.LoanRequest, error) {
	start := time.Now()
	req, err := scanRequest(tx.QueryRow(ctx, getRequestForUpdateSQL, requestID))
	monitoring.RecordDBQuery("GetLoanRequestForUpdate", start, err)
	if err != nil {
		return nil, translateDBError(err, r.logger, "loan request "+requestID.String())
	}
	return req, nil
}

func (r *RequestRepository) UpdateDecisionInTx(ctx context.Context, tx pgx.Tx, req *request.LoanRequest) error {
	start := time.Now()
	tag, err := tx.Exec(ctx, updateRequestDecisionSQL,
		string(req.Status), req.Observations, req.DecidedBy, req.DecidedAt, req.LoanID, req.UpdatedAt, req.ID,
	)
	monitoring.RecordDBQuery("UpdateLoanRequestDecision", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan request decision", "request_id", req.ID, "error", err)
		return translateDBError(err, r.logger, "loan request "+req.ID.String())
	}
	if tag.RowsAffected() == 0 {
		return translateDBError(pgx.ErrNoRows, r.logger, "loan request "+req.ID.String())
	}
	return nil
}

func (r *RequestRepository) List(ctx context.Context, status *request.Status) ([]*request.LoanRequest, error) {
	query, args := listRequestsSQL, []any{}
	if status != nil {
		query, args = listRequestsByStatusSQL, []any{string(*status)}
	}

	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		monitoring.RecordDBQuery("ListLoanRequests", start, err)
		r.logger.ErrorContext(ctx, "Failed to query loan requests", "error", err)
		return nil, translateDBError(err, r.logger, "loan requests")
	}
	defer rows.Close()

	reqs := make([]*request.LoanRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			monitoring.RecordDBQuery("ListLoanRequests", start, err)
			return nil, apperrors.WrapPersistenceError(err, "failed scanning loan request row")
		}
		reqs = append(reqs, req)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("ListLoanRequests", start, err)
	if err != nil {
		return nil, apperrors.WrapPersistenceError(err, "error iterating loan request rows")
	}
	return reqs, nil
}

func scanRequest(row pgx.Row) (*request.LoanRequest, error) {
	var (
		req       request.LoanRequest
		frequency string
		status    string
		decidedBy *string
	)
	err := row.Scan(
		&req.ID, &req.ClientID, &req.ApplicantName, &req.Phone, &req.Email, &req.Address, &req.Occupation,
		&req.MonthlyIncome, &req.Purpose, &req.AmountRequested, &frequency, &status, &req.Observations,
		&decidedBy, &req.DecidedAt, &req.LoanID, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.FrequencyRequested = loan.ParseFrequency(frequency)
	req.Status = request.Status(status)
	if decidedBy != nil {
		req.DecidedBy = *decidedBy
	}
	return &req, nil
}
