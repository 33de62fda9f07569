package models

import "time"

// Interaction is a logged touchpoint with a contact (call, meeting, message).
type Interaction struct {
	ID         string    `json:"id,omitempty"`
	ContactID  string    `json:"contact_id"`
	Kind       string    `json:"kind,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	OccurredAt string    `json:"occurred_at,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

func (i *Interaction) EntityID() string           { return i.ID }
func (i *Interaction) SetEntityID(id string)      { i.ID = id }
func (i *Interaction) StampCreated(now time.Time) { i.CreatedAt = now }
func (i *Interaction) Touch(now time.Time)        { i.UpdatedAt = now }
