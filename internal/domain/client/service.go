package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loan-engine/internal/event"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
)

const clientNotFound = "Client not found by repository"

type ContactUpdate struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

type ClientService interface {
	CreateClient(ctx context.Context, name, phone, email, address string) (*Client, error)
	GetClient(ctx context.Context, clientID uuid.UUID) (*Client, error)
	ListClients(ctx context.Context, activeOnly bool) ([]*Client, error)
	UpdateClientContact(ctx context.Context, clientID uuid.UUID, update ContactUpdate) (*Client, error)
	UpdateDelinquency(ctx context.Context, clientID uuid.UUID, isDelinquent bool) error
	DeactivateClient(ctx context.Context, clientID uuid.UUID) error
	ReactivateClient(ctx context.Context, clientID uuid.UUID) error
}

var _ ClientService = (*clientService)(nil)

type clientService struct {
	repo   Repository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewClientService(repo Repository, pub event.EventPublisher, logger *slog.Logger) ClientService {
	if repo == nil {
		panic("client repository cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if pub == nil {
		pub = event.NewNoopPublisher(logger)
	}

	return &clientService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "clientService")),
	}
}

func NewClientEventPayload(c *Client) event.ClientEventPayload {
	if c == nil {
		return event.ClientEventPayload{}
	}
	return event.ClientEventPayload{
		ClientID:     c.ID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		IsDelinquent: c.IsDelinquent,
		Active:       c.Active,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (s *clientService) publishUpdated(ctx context.Context, c *Client) {
	evt := event.ClientUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   NewClientEventPayload(c),
	}
	if err := s.pub.PublishClientUpdated(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish client update event", "clientID", c.ID, slog.Any("error", err))
	}
}

func (s *clientService) CreateClient(ctx context.Context, name, phone, email, address string) (*Client, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, apperrors.NewValidationError("name", "client name cannot be empty")
	}
	if phone == "" {
		s.logger.WarnContext(ctx, "Validation failed: phone is empty", slog.String("name", name))
		return nil, apperrors.NewValidationError("phone", "client phone cannot be empty")
	}

	c := NewClient(name, phone, strings.TrimSpace(email), strings.TrimSpace(address))

	if err := s.repo.Save(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new client", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new client: %w", err)
	}

	createdEvent := event.ClientCreatedEvent{
		Timestamp: time.Now(),
		Payload:   NewClientEventPayload(c),
	}
	if pubErr := s.pub.PublishClientCreated(ctx, createdEvent); pubErr != nil {
		s.logger.ErrorContext(ctx, "Client created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Successfully created new client", "clientID", c.ID)
	return c, nil
}

func (s *clientService) GetClient(ctx context.Context, clientID uuid.UUID) (*Client, error) {
	c, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, clientNotFound, "clientID", clientID)
			return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
		}
		s.logger.ErrorContext(ctx, "Repository error finding client", "clientID", clientID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to get client %s: %w", clientID, err)
	}
	return c, nil
}

func (s *clientService) ListClients(ctx context.Context, activeOnly bool) ([]*Client, error) {
	clients, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing clients", slog.Bool("activeOnly", activeOnly), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved clients", slog.Int("count", len(clients)))
	return clients, nil
}

func (s *clientService) UpdateClientContact(ctx context.Context, clientID uuid.UUID, update ContactUpdate) (*Client, error) {
	c, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	changed := false
	apply := func(field string, dst *string, src *string, required bool) error {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if required && v == "" {
			return apperrors.NewValidationError(field, field+" cannot be empty")
		}
		if *dst != v {
			*dst = v
			changed = true
		}
		return nil
	}

	if err := apply("name", &c.Name, update.Name, true); err != nil {
		return nil, err
	}
	if err := apply("phone", &c.Phone, update.Phone, true); err != nil {
		return nil, err
	}
	if err := apply("email", &c.Email, update.Email, false); err != nil {
		return nil, err
	}
	if err := apply("address", &c.Address, update.Address, false); err != nil {
		return nil, err
	}

	if !changed {
		s.logger.InfoContext(ctx, "No contact change needed, skipping save", "clientID", clientID)
		return c, nil
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save client contact", "clientID", clientID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to save contact for client %s: %w", clientID, err)
	}

	s.publishUpdated(ctx, c)
	s.logger.InfoContext(ctx, "Successfully updated client contact", "clientID", clientID)
	return c, nil
}

func (s *clientService) UpdateDelinquency(ctx context.Context, clientID uuid.UUID, isDelinquent bool) error {
	return s.setFlag(ctx, clientID, "delinquency", func() error {
		return s.repo.SetDelinquencyStatus(ctx, clientID, isDelinquent)
	})
}

func (s *clientService) DeactivateClient(ctx context.Context, clientID uuid.UUID) error {
	return s.setFlag(ctx, clientID, "deactivate", func() error {
		return s.repo.SetActiveStatus(ctx, clientID, false)
	})
}

func (s *clientService) ReactivateClient(ctx context.Context, clientID uuid.UUID) error {
	return s.setFlag(ctx, clientID, "reactivate", func() error {
		return s.repo.SetActiveStatus(ctx, clientID, true)
	})
}

// setFlag runs a single column update and publishes the refreshed client.
func (s *clientService) setFlag(ctx context.Context, clientID uuid.UUID, op string, update func() error) error {
	logger := s.logger.With("clientID", clientID, "operation", op)

	if err := update(); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.WarnContext(ctx, clientNotFound)
			return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
		}
		logger.ErrorContext(ctx, "Repository error updating client", slog.Any("error", err))
		return fmt.Errorf("failed to %s client %s: %w", op, clientID, err)
	}

	updated, fetchErr := s.repo.FindByID(ctx, clientID)
	if fetchErr != nil {
		logger.ErrorContext(ctx, "Successfully updated client, but FAILED to re-fetch it for event publishing", slog.Any("error", fetchErr))
	} else {
		s.publishUpdated(ctx, updated)
	}

	logger.InfoContext(ctx, "Successfully updated client")
	return nil
}
