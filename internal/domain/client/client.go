package client

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	IsDelinquent bool      `json:"isDelinquent"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewClient(name, phone, email, address string) *Client {
	now := time.Now()
	return &Client{
		ID:           uuid.New(),
		Name:         name,
		Phone:        phone,
		Email:        email,
		Address:      address,
		IsDelinquent: false,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (c *Client) SetDelinquencyStatus(isDelinquent bool) {
	if c.IsDelinquent != isDelinquent {
		c.IsDelinquent = isDelinquent
		c.UpdatedAt = time.Now()
	}
}

func (c *Client) Deactivate() {
	if c.Active {
		c.Active = false
		c.UpdatedAt = time.Now()
	}
}

func (c *Client) Reactivate() {
	if !c.Active {
		c.Active = true
		c.UpdatedAt = time.Now()
	}
}
