package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange   string
	routingKey string
	msg        amqp.Publishing
	publishErr error
	closed     bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.routingKey = key
	c.msg = msg
	return c.publishErr
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func newTestPublisher(ch *fakeChannel, openErr error) *RabbitMQEventPublisher {
	return &RabbitMQEventPublisher{
		openChannel: func() (amqpChannel, error) {
			if openErr != nil {
				return nil, openErr
			}
			return ch, nil
		},
		exchangeName: "loan-engine",
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNewRabbitMQEventPublisher_Validation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewRabbitMQEventPublisher(nil, "loan-engine", logger)
	assert.Error(t, err)
}

func TestRabbitMQEventPublisher_PublishPaymentApplied(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch, nil)

	evt := PaymentAppliedEvent{
		PaymentID:          uuid.New(),
		LoanID:             uuid.New(),
		AmountTotal:        decimal.RequireFromString("1500.00"),
		AmountInterest:     decimal.RequireFromString("1000.00"),
		AmountPrincipal:    decimal.RequireFromString("500.00"),
		PrincipalRemaining: decimal.RequireFromString("9500.00"),
		LoanStatus:         "active",
		Timestamp:          time.Now(),
	}

	require.NoError(t, p.PublishPaymentApplied(context.Background(), evt))

	assert.Equal(t, "loan-engine", ch.exchange)
	assert.Equal(t, RoutingKeyPaymentApplied, ch.routingKey)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.True(t, ch.closed)

	var body map[string]any
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "9500", body["principalRemaining"])
	assert.Equal(t, evt.LoanID.String(), body["loanId"])
}

func TestRabbitMQEventPublisher_Errors(t *testing.T) {
	t.Run("channel cannot be opened", func(t *testing.T) {
		p := newTestPublisher(nil, errors.New("connection closed"))
		err := p.PublishClientCreated(context.Background(), ClientCreatedEvent{})
		assert.ErrorContains(t, err, "failed to open channel")
	})

	t.Run("publish fails", func(t *testing.T) {
		ch := &fakeChannel{publishErr: errors.New("nack")}
		p := newTestPublisher(ch, nil)
		err := p.PublishLoanStatusChanged(context.Background(), LoanStatusChangedEvent{})
		assert.ErrorContains(t, err, "failed to publish message")
		assert.Equal(t, RoutingKeyLoanStatusChanged, ch.routingKey)
		assert.True(t, ch.closed)
	})
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	assert.NoError(t, p.PublishClientCreated(ctx, ClientCreatedEvent{}))
	assert.NoError(t, p.PublishClientUpdated(ctx, ClientUpdatedEvent{}))
	assert.NoError(t, p.PublishPaymentApplied(ctx, PaymentAppliedEvent{}))
	assert.NoError(t, p.PublishLoanStatusChanged(ctx, LoanStatusChangedEvent{}))
	assert.NoError(t, p.PublishLoanRequestDecided(ctx, LoanRequestDecidedEvent{}))
}
