package models

import "time"

// Contact is a person record. The id is either durable (server-assigned) or
// temporary (offline create awaiting reconciliation).
type Contact struct {
	ID        string    `json:"id,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Birthday  string    `json:"birthday,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (c *Contact) EntityID() string          { return c.ID }
func (c *Contact) SetEntityID(id string)     { c.ID = id }
func (c *Contact) StampCreated(now time.Time) { c.CreatedAt = now }
func (c *Contact) Touch(now time.Time)       { c.UpdatedAt = now }

// Name returns a display name assembled from the name fields.
func (c *Contact) Name() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
