package event

import (
	"context"
	"log/slog"
)

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger.With("component", "NoopPublisher")}
}

func (p *NoopPublisher) drop(ctx context.Context, routingKey string) error {
	p.logger.DebugContext(ctx, "Event dropped, no broker configured", "routingKey", routingKey)
	return nil
}

func (p *NoopPublisher) PublishClientCreated(ctx context.Context, _ ClientCreatedEvent) error {
	return p.drop(ctx, RoutingKeyClientCreated)
}

func (p *NoopPublisher) PublishClientUpdated(ctx context.Context, _ ClientUpdatedEvent) error {
	return p.drop(ctx, RoutingKeyClientUpdated)
}

func (p *NoopPublisher) PublishPaymentApplied(ctx context.Context, _ PaymentAppliedEvent) error {
	return p.drop(ctx, RoutingKeyPaymentApplied)
}

func (p *NoopPublisher) PublishLoanStatusChanged(ctx context.Context, _ LoanStatusChangedEvent) error {
	return p.drop(ctx, RoutingKeyLoanStatusChanged)
}

func (p *NoopPublisher) PublishLoanRequestDecided(ctx context.Context, _ LoanRequestDecidedEvent) error {
	return p.drop(ctx, RoutingKeyLoanRequestDecided)
}
