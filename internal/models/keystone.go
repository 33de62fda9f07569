package models

import "time"

// Keystone is a significant dated event tied to a contact: a birthday, an
// anniversary, a deadline the user wants to be reminded about.
type Keystone struct {
	ID        string    `json:"id,omitempty"`
	ContactID string    `json:"contact_id"`
	Title     string    `json:"title"`
	Date      string    `json:"date,omitempty"`
	Recurring bool      `json:"recurring,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (k *Keystone) EntityID() string           { return k.ID }
func (k *Keystone) SetEntityID(id string)      { k.ID = id }
func (k *Keystone) StampCreated(now time.Time) { k.CreatedAt = now }
func (k *Keystone) Touch(now time.Time)        { k.UpdatedAt = now }
