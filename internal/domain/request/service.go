package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-engine/internal/domain/client"
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/event"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
)

type RequestService interface {
	SubmitRequest(ctx context.Context, in SubmitInput) (*LoanRequest, error)

	GetRequest(ctx context.Context, requestID uuid.UUID) (*LoanRequest, error)

	ListRequests(ctx context.Context, status *Status) ([]*LoanRequest, error)

	// ApproveRequest creates the loan and marks the request approved in one transaction.
	ApproveRequest(ctx context.Context, requestID uuid.UUID, terms Terms, approver string) (*loan.Loan, *LoanRequest, error)

	RejectRequest(ctx context.Context, requestID uuid.UUID, reason, rejectedBy string) (*LoanRequest, error)
}

var _ RequestService = (*requestService)(nil)

type requestService struct {
	repo          Repository
	loanRepo      loan.Repository
	clientService client.ClientService
	pub           event.EventPublisher
	limits        Limits
	logger        *slog.Logger
	now           func() time.Time
}

func NewRequestService(repo Repository, loanRepo loan.Repository, cs client.ClientService, pub event.EventPublisher, limits Limits, logger *slog.Logger) RequestService {
	if pub == nil {
		pub = event.NewNoopPublisher(logger)
	}
	return &requestService{
		repo:          repo,
		loanRepo:      loanRepo,
		clientService: cs,
		pub:           pub,
		limits:        limits,
		logger:        logger.With("component", "requestService"),
		now:           time.Now,
	}
}

func (s *requestService) SubmitRequest(ctx context.Context, in SubmitInput) (*LoanRequest, error) {
	req, err := NewLoanRequest(in, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.requireActiveClient(ctx, in.ClientID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan request", "clientID", in.ClientID, "error", err)
		return nil, fmt.Errorf("failed to save loan request: %w", err)
	}

	s.logger.InfoContext(ctx, "Loan request submitted", "requestID", req.ID, "clientID", req.ClientID,
		"amountRequested", req.AmountRequested.String())
	return req, nil
}

func (s *requestService) requireActiveClient(ctx context.Context, clientID uuid.UUID) error {
	cl, err := s.clientService.GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: client %s not found", apperrors.ErrValidation, clientID)
		}
		return fmt.Errorf("failed to verify client: %w", err)
	}
	if !cl.Active {
		return fmt.Errorf("%w: client %s is not active", apperrors.ErrValidation, clientID)
	}
	return nil
}

func (s *requestService) GetRequest(ctx context.Context, requestID uuid.UUID) (*LoanRequest, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan request %s", apperrors.ErrNotFound, requestID)
		}
		return nil, fmt.Errorf("failed to get loan request %s: %w", requestID, err)
	}
	return req, nil
}

func (s *requestService) ListRequests(ctx context.Context, status *Status) ([]*LoanRequest, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown request status %q", apperrors.ErrInvalidInput, *status)
	}
	reqs, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan requests: %w", err)
	}
	return reqs, nil
}

func (s *requestService) ApproveRequest(ctx context.Context, requestID uuid.UUID, terms Terms, approver string) (l *loan.Loan, req *LoanRequest, err error) {
	logger := s.logger.With("requestID", requestID, "approver", approver)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "Approval rolled back", "error", err)
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	req, err = s.repo.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: loan request %s", apperrors.ErrNotFound, requestID)
		}
		return nil, nil, fmt.Errorf("could not load loan request: %w", err)
	}

	if req.Status == StatusPending {
		if err = s.requireActiveClient(ctx, req.ClientID); err != nil {
			return nil, nil, err
		}
	}

	l, err = Approve(req, terms, s.limits, approver, s.now())
	if err != nil {
		return nil, nil, err
	}

	if err = s.loanRepo.CreateLoanInTx(ctx, tx, l); err != nil {
		return nil, nil, fmt.Errorf("could not create approved loan: %w", err)
	}
	if err = s.repo.UpdateDecisionInTx(ctx, tx, req); err != nil {
		return nil, nil, fmt.Errorf("could not update loan request: %w", err)
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, nil, fmt.Errorf("could not commit approval: %w", err)
	}

	monitoring.RecordRequestDecision(string(StatusApproved))
	monitoring.RecordLoanCreated()
	logger.InfoContext(ctx, "Loan request approved", "loanID", l.ID, "principal", l.PrincipalOriginal.String())

	s.publishDecision(ctx, req, "")
	return l, req, nil
}

func (s *requestService) RejectRequest(ctx context.Context, requestID uuid.UUID, reason, rejectedBy string) (req *LoanRequest, err error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	req, err = s.repo.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan request %s", apperrors.ErrNotFound, requestID)
		}
		return nil, fmt.Errorf("could not load loan request: %w", err)
	}

	if err = req.Reject(reason, rejectedBy, s.now()); err != nil {
		return nil, err
	}
	if err = s.repo.UpdateDecisionInTx(ctx, tx, req); err != nil {
		return nil, fmt.Errorf("could not update loan request: %w", err)
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("could not commit rejection: %w", err)
	}

	monitoring.RecordRequestDecision(string(StatusRejected))
	s.logger.InfoContext(ctx, "Loan request rejected", "requestID", requestID, "rejectedBy", rejectedBy)

	s.publishDecision(ctx, req, reason)
	return req, nil
}

func (s *requestService) publishDecision(ctx context.Context, req *LoanRequest, reason string) {
	evt := event.LoanRequestDecidedEvent{
		RequestID: req.ID,
		ClientID:  req.ClientID,
		Decision:  string(req.Status),
		DecidedBy: req.DecidedBy,
		LoanID:    req.LoanID,
		Reason:    reason,
		Timestamp: s.now(),
	}
	if err := s.pub.PublishLoanRequestDecided(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish loan request decision", "requestID", req.ID, "error", err)
	}
}
