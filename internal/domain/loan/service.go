package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-engine/internal/domain/client"
	"loan-engine/internal/event"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
)

type CreateLoanInput struct {
	ClientID            uuid.UUID
	Principal           Money
	InterestRatePercent Money
	Frequency           Frequency
	StartDate           time.Time
}

type PaymentInput struct {
	LoanID      uuid.UUID
	Mode        Mode
	Amount      Money
	ManualSplit *ManualSplit
	PaymentType PaymentType
	Note        string
	Date        time.Time
}

type PaymentResult struct {
	Payment *PaymentEvent
	Loan    *Loan
}

type LoanService interface {
	CreateLoan(ctx context.Context, in CreateLoanInput) (*Loan, error)

	GetLoan(ctx context.Context, loanID uuid.UUID) (*Loan, error)

	ListLoans(ctx context.Context, filter ListFilter) ([]*Loan, error)

	GetPayments(ctx context.Context, loanID uuid.UUID) ([]*PaymentEvent, error)

	// QuotePayment previews how an automatic payment would be split without persisting anything.
	QuotePayment(ctx context.Context, loanID uuid.UUID, amount Money) (*Allocation, error)

	MakePayment(ctx context.Context, in PaymentInput) (*PaymentResult, error)

	MarkDelinquent(ctx context.Context, loanID uuid.UUID) (*Loan, error)

	// MarkDelinquentIfOverdue marks the loan only if, once locked, it is still overdue
	// beyond graceDays. Otherwise it fails with ErrConflict and nothing is written.
	MarkDelinquentIfOverdue(ctx context.Context, loanID uuid.UUID, graceDays int) (*Loan, error)

	ListOverdueLoanIDs(ctx context.Context, graceDays int) ([]uuid.UUID, error)
}

var _ LoanService = (*loanServiceImpl)(nil)

type loanServiceImpl struct {
	repo          Repository
	ledger        *LedgerWriter
	clientService client.ClientService
	pub           event.EventPublisher
	logger        *slog.Logger
	now           func() time.Time
}

func NewLoanService(r Repository, lr LedgerRepository, cs client.ClientService, pub event.EventPublisher, logger *slog.Logger) LoanService {
	if pub == nil {
		pub = event.NewNoopPublisher(logger)
	}
	return &loanServiceImpl{
		repo:          r,
		ledger:        NewLedgerWriter(lr, logger),
		clientService: cs,
		pub:           pub,
		logger:        logger.With("component", "loanService"),
		now:           time.Now,
	}
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, in CreateLoanInput) (*Loan, error) {
	s.logger.InfoContext(ctx, "Creating new loan", "clientID", in.ClientID)

	cl, err := s.clientService.GetClient(ctx, in.ClientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %s not found", apperrors.ErrValidation, in.ClientID)
		}
		s.logger.ErrorContext(ctx, "Failed to verify client", "clientID", in.ClientID, "error", err)
		return nil, fmt.Errorf("failed to verify client status: %w", err)
	}
	if !cl.Active {
		s.logger.WarnContext(ctx, "Attempted to create loan for inactive client", "clientID", in.ClientID)
		return nil, fmt.Errorf("%w: client %s is not active", apperrors.ErrValidation, in.ClientID)
	}

	start := in.StartDate
	if start.IsZero() {
		start = s.now()
	}
	l, err := NewLoan(in.ClientID, in.Principal, in.InterestRatePercent, in.Frequency, start)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateLoan(ctx, l); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan", "error", err)
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	monitoring.RecordLoanCreated()
	s.logger.InfoContext(ctx, "Loan created successfully", "loanID", l.ID, "clientID", l.ClientID)
	return l, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID uuid.UUID) (*Loan, error) {
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loanID", loanID)
			return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("failed to get loan %s: %w", loanID, err)
	}
	return l, nil
}

func (s *loanServiceImpl) ListLoans(ctx context.Context, filter ListFilter) ([]*Loan, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown loan status %q", apperrors.ErrInvalidInput, *filter.Status)
	}
	loans, err := s.repo.ListLoans(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans", "error", err)
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}

func (s *loanServiceImpl) GetPayments(ctx context.Context, loanID uuid.UUID) ([]*PaymentEvent, error) {
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}
	payments, err := s.ledger.repo.ListPaymentsByLoanID(ctx, loanID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list payments", "loanID", loanID, "error", err)
		return nil, fmt.Errorf("failed to list payments for loan %s: %w", loanID, err)
	}
	return payments, nil
}

func (s *loanServiceImpl) QuotePayment(ctx context.Context, loanID uuid.UUID, amount Money) (*Allocation, error) {
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if l.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrLoanCompleted, loanID)
	}

	due, err := InterestDue(l.PrincipalRemaining, l.InterestRatePercent)
	if err != nil {
		return nil, err
	}
	a, err := Allocate(amount, due, l.PrincipalRemaining, ModeAutomatic, nil)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func paymentStatusLabel(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "failure_input"
	case errors.Is(err, apperrors.ErrInvalidAllocation):
		return "failure_allocation"
	case errors.Is(err, apperrors.ErrNotFound):
		return "failure_not_found"
	case errors.Is(err, apperrors.ErrLoanCompleted):
		return "failure_completed"
	default:
		return "failure_internal"
	}
}

// MakePayment applies one payment. The loan row is locked for the whole
// read, compute and write cycle so concurrent payments on the same loan
// are serialised.
func (s *loanServiceImpl) MakePayment(ctx context.Context, in PaymentInput) (result *PaymentResult, err error) {
	logger := s.logger.With("loanID", in.LoanID, "mode", in.Mode)
	logger.InfoContext(ctx, "Making payment", "amount", in.Amount)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		monitoring.RecordPayment("failure_internal")
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "Panic occurred during payment processing", "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		if err != nil {
			monitoring.RecordPayment(paymentStatusLabel(err))
			logger.ErrorContext(ctx, "Rolling back transaction due to error", "error", err)
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	current, err := s.repo.GetLoanForUpdate(ctx, tx, in.LoanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: cannot make payment, loan %s not found", apperrors.ErrNotFound, in.LoanID)
		}
		return nil, fmt.Errorf("could not load loan for payment: %w", err)
	}
	if current.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrLoanCompleted, in.LoanID)
	}

	due, err := InterestDue(current.PrincipalRemaining, current.InterestRatePercent)
	if err != nil {
		return nil, fmt.Errorf("%w: stored loan terms are invalid: %w", apperrors.ErrInvariantViolation, err)
	}

	alloc, err := Allocate(in.Amount, due, current.PrincipalRemaining, in.Mode, in.ManualSplit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	paymentDate := in.Date
	if paymentDate.IsZero() {
		paymentDate = now
	}

	updated, err := ApplyPayment(*current, alloc, paymentDate)
	if err != nil {
		return nil, err
	}

	if err = s.repo.UpdateLoanInTx(ctx, tx, &updated); err != nil {
		return nil, fmt.Errorf("could not update loan: %w", err)
	}

	payment, err := s.ledger.RecordPayment(ctx, tx, PaymentRecord{
		LoanID:          current.ID,
		Allocation:      alloc,
		PrincipalBefore: current.PrincipalRemaining,
		PrincipalAfter:  updated.PrincipalRemaining,
		Mode:            in.Mode,
		PaymentType:     in.PaymentType,
		Note:            in.Note,
		PaymentDate:     paymentDate,
		Timestamp:       now,
	})
	if err != nil {
		return nil, err
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("could not commit payment: %w", err)
	}

	monitoring.RecordPayment("success")
	monitoring.RecordAllocation(alloc.InterestPortion, alloc.PrincipalPortion)
	logger.InfoContext(ctx, "Payment processed successfully",
		"paymentID", payment.ID,
		"interest", alloc.InterestPortion.String(),
		"principal", alloc.PrincipalPortion.String(),
		"shortfall", alloc.InterestShortfall.String(),
		"excess", alloc.Excess.String(),
		"status", updated.Status,
	)

	s.afterPayment(ctx, current, &updated, payment)
	return &PaymentResult{Payment: payment, Loan: &updated}, nil
}

// afterPayment runs once the payment is committed. Failures here are logged only.
func (s *loanServiceImpl) afterPayment(ctx context.Context, before, after *Loan, payment *PaymentEvent) {
	if err := s.pub.PublishPaymentApplied(ctx, event.PaymentAppliedEvent{
		PaymentID:          payment.ID,
		LoanID:             after.ID,
		ClientID:           after.ClientID,
		AmountTotal:        payment.AmountTotal,
		AmountInterest:     payment.AmountInterest,
		AmountPrincipal:    payment.AmountPrincipal,
		InterestShortfall:  payment.InterestShortfall,
		AmountExcess:       payment.AmountExcess,
		PrincipalRemaining: after.PrincipalRemaining,
		LoanStatus:         string(after.Status),
		Timestamp:          payment.Timestamp,
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish payment applied event", "loanID", after.ID, "error", err)
	}

	if before.Status == after.Status {
		return
	}
	s.publishStatusChange(ctx, after, before.Status)

	if before.Status == StatusDelinquent {
		s.clearClientDelinquency(ctx, after.ClientID)
	}
}

func (s *loanServiceImpl) publishStatusChange(ctx context.Context, l *Loan, old Status) {
	if err := s.pub.PublishLoanStatusChanged(ctx, event.LoanStatusChangedEvent{
		LoanID:    l.ID,
		ClientID:  l.ClientID,
		OldStatus: string(old),
		NewStatus: string(l.Status),
		Timestamp: s.now(),
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish loan status change", "loanID", l.ID, "error", err)
	}
}

// clearClientDelinquency lifts the client flag once no loan of theirs is delinquent.
func (s *loanServiceImpl) clearClientDelinquency(ctx context.Context, clientID uuid.UUID) {
	status := StatusDelinquent
	remaining, err := s.repo.ListLoans(ctx, ListFilter{ClientID: &clientID, Status: &status})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check remaining delinquent loans", "clientID", clientID, "error", err)
		return
	}
	if len(remaining) > 0 {
		return
	}
	if err := s.clientService.UpdateDelinquency(ctx, clientID, false); err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear client delinquency", "clientID", clientID, "error", err)
	}
}

func (s *loanServiceImpl) MarkDelinquent(ctx context.Context, loanID uuid.UUID) (*Loan, error) {
	return s.markDelinquent(ctx, loanID, nil)
}

func (s *loanServiceImpl) MarkDelinquentIfOverdue(ctx context.Context, loanID uuid.UUID, graceDays int) (*Loan, error) {
	if graceDays < 0 {
		graceDays = 0
	}
	asOf := s.now()
	return s.markDelinquent(ctx, loanID, func(l *Loan) error {
		if l.Status == StatusActive && !l.IsOverdue(asOf, graceDays) {
			return fmt.Errorf("%w: loan %s is not overdue, next payment due %s",
				apperrors.ErrConflict, l.ID, l.DateNextPaymentDue.Format(time.DateOnly))
		}
		return nil
	})
}

// markDelinquent runs eligible, when set, on the locked row before changing it.
func (s *loanServiceImpl) markDelinquent(ctx context.Context, loanID uuid.UUID, eligible func(*Loan) error) (result *Loan, err error) {
	logger := s.logger.With("loanID", loanID)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.GetLoanForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
		}
		return nil, fmt.Errorf("could not load loan: %w", err)
	}

	if eligible != nil {
		if err = eligible(l); err != nil {
			return nil, err
		}
	}

	changed, err := l.MarkDelinquent()
	if err != nil {
		return nil, err
	}
	if !changed {
		logger.InfoContext(ctx, "Loan already delinquent")
		if err = s.repo.CommitTx(ctx, tx); err != nil {
			return nil, fmt.Errorf("could not commit transaction: %w", err)
		}
		return l, nil
	}

	if err = s.repo.UpdateLoanInTx(ctx, tx, l); err != nil {
		return nil, fmt.Errorf("could not update loan: %w", err)
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	logger.InfoContext(ctx, "Loan marked delinquent")
	s.publishStatusChange(ctx, l, StatusActive)
	if flagErr := s.clientService.UpdateDelinquency(ctx, l.ClientID, true); flagErr != nil {
		logger.ErrorContext(ctx, "Failed to flag client delinquent", "clientID", l.ClientID, "error", flagErr)
	}
	return l, nil
}

func (s *loanServiceImpl) ListOverdueLoanIDs(ctx context.Context, graceDays int) ([]uuid.UUID, error) {
	if graceDays < 0 {
		graceDays = 0
	}
	cutoff := s.now().AddDate(0, 0, -graceDays)
	ids, err := s.repo.ListOverdueLoanIDs(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue loans: %w", err)
	}
	return ids, nil
}
