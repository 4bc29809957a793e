package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a CRM record; staff run trips on behalf of clients.
type Client struct {
	ID                  int64      `db:"id" json:"id"`
	ReferenceCode       string     `db:"reference_code" json:"reference_code"`
	Name                string     `db:"name" json:"name"`
	Email               *string    `db:"email" json:"email,omitempty"`
	Phone               *string    `db:"phone" json:"phone,omitempty"`
	Company             *string    `db:"company" json:"company,omitempty"`
	HomeCity            *string    `db:"home_city" json:"home_city,omitempty"`
	PreferredBudget     *string    `db:"preferred_budget" json:"preferred_budget,omitempty"`
	TravelStyle         *string    `db:"travel_style" json:"travel_style,omitempty"`
	DietaryRequirements *string    `db:"dietary_requirements" json:"dietary_requirements,omitempty"`
	Notes               *string    `db:"notes" json:"notes,omitempty"`
	Tags                *string    `db:"tags" json:"tags,omitempty"`
	CreatedByID         *uuid.UUID `db:"created_by_id" json:"created_by_id,omitempty"`
	IsDeleted           bool       `db:"is_deleted" json:"is_deleted"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// ClientProfile is the subset of client fields that feeds scout
// personalisation. Empty fields are omitted so prompts never mention them.
type ClientProfile struct {
	HomeCity            string `json:"home_city,omitempty"`
	PreferredBudget     string `json:"preferred_budget,omitempty"`
	TravelStyle         string `json:"travel_style,omitempty"`
	DietaryRequirements string `json:"dietary_requirements,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

func (c *Client) Profile() *ClientProfile {
	p := &ClientProfile{
		HomeCity:            deref(c.HomeCity),
		PreferredBudget:     deref(c.PreferredBudget),
		TravelStyle:         deref(c.TravelStyle),
		DietaryRequirements: deref(c.DietaryRequirements),
		Notes:               deref(c.Notes),
	}
	if *p == (ClientProfile{}) {
		return nil
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
