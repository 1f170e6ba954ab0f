package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
)

const defaultWorkers = 8

// UpdateDelinquencyJob marks active loans whose next due date is more than
// graceDays in the past as delinquent. Client flags follow through the loan
// service.
type UpdateDelinquencyJob struct {
	loanService loan.LoanService
	graceDays   int
	workers     int
	logger      *slog.Logger
}

func NewUpdateDelinquencyJob(loanSvc loan.LoanService, graceDays int, logger *slog.Logger) *UpdateDelinquencyJob {
	if loanSvc == nil || logger == nil {
		panic("UpdateDelinquencyJob dependencies cannot be nil")
	}
	if graceDays < 0 {
		graceDays = 0
	}
	return &UpdateDelinquencyJob{
		loanService: loanSvc,
		graceDays:   graceDays,
		workers:     defaultWorkers,
		logger:      logger.With("job", "UpdateDelinquency"),
	}
}

func (j *UpdateDelinquencyJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting loan delinquency update job.", slog.Int("grace_days", j.graceDays))

	overdueIDs, err := j.loanService.ListOverdueLoanIDs(ctx, j.graceDays)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list overdue loans, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list overdue loans: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched overdue loan IDs.", slog.Int("count", len(overdueIDs)))

	if len(overdueIDs) == 0 {
		j.logger.InfoContext(ctx, "Loan delinquency update job finished.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var marked, skipped, errorCount atomic.Int32
	sem := make(chan struct{}, j.workers)

	for _, loanID := range overdueIDs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(id uuid.UUID) {
			defer wg.Done()
			defer func() { <-sem }()

			logCtx := j.logger.With(slog.String("loanID", id.String()))
			l, markErr := j.loanService.MarkDelinquentIfOverdue(ctx, id, j.graceDays)
			switch {
			case markErr == nil:
				marked.Add(1)
				monitoring.RecordDelinquencyMarked("marked")
				logCtx.DebugContext(ctx, "Loan marked delinquent.", slog.String("clientID", l.ClientID.String()))
			case errors.Is(markErr, apperrors.ErrNotFound),
				errors.Is(markErr, apperrors.ErrLoanCompleted),
				errors.Is(markErr, apperrors.ErrConflict):
				// The loan changed state or was paid after it was listed.
				skipped.Add(1)
				monitoring.RecordDelinquencyMarked("skipped")
				logCtx.WarnContext(ctx, "Loan no longer eligible for delinquency.", slog.Any("error", markErr))
			default:
				errorCount.Add(1)
				monitoring.RecordDelinquencyMarked("error")
				logCtx.ErrorContext(ctx, "Failed to mark loan delinquent", slog.Any("error", markErr))
			}
		}(loanID)
	}

	wg.Wait()
	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("total_overdue_loans", len(overdueIDs)),
		slog.Int("loans_marked_delinquent", int(marked.Load())),
		slog.Int("loans_skipped", int(skipped.Load())),
		slog.Int("errors_encountered", int(errorCount.Load())),
	)

	if n := errorCount.Load(); n > 0 {
		summaryLog.WarnContext(ctx, "Loan delinquency update job finished with errors.")
		return fmt.Errorf("job completed with %d errors", n)
	}
	if ctx.Err() != nil {
		summaryLog.WarnContext(ctx, "Loan delinquency update job interrupted.")
		return ctx.Err()
	}
	summaryLog.InfoContext(ctx, "Loan delinquency update job finished successfully.")
	return nil
}
