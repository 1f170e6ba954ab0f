package dto

import (
	"strings"
	"time"

	"loan-engine/internal/domain/client"
	"loan-engine/internal/pkg/apperrors"
)

type CreateClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func (r *CreateClientRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.NewValidationError("name", "name cannot be empty")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return apperrors.NewValidationError("phone", "phone cannot be empty")
	}
	return nil
}

// UpdateClientContactRequest only touches the fields that are present.
type UpdateClientContactRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateClientContactRequest) Validate() error {
	if r.Name == nil && r.Phone == nil && r.Email == nil && r.Address == nil {
		return apperrors.NewValidationError("", "at least one contact field is required")
	}
	return nil
}

func (r *UpdateClientContactRequest) ToContactUpdate() client.ContactUpdate {
	return client.ContactUpdate{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address}
}

type UpdateDelinquencyRequest struct {
	IsDelinquent bool `json:"isDelinquent"`
}

type ClientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	Address      string    `json:"address,omitempty"`
	IsDelinquent bool      `json:"isDelinquent"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewClientResponse(c *client.Client) ClientResponse {
	if c == nil {
		return ClientResponse{}
	}
	return ClientResponse{
		ID:           c.ID.String(),
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

func NewClientListResponse(clients []*client.Client) []ClientResponse {
	resp := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		resp = append(resp, NewClientResponse(c))
	}
	return resp
}
