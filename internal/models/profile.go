package models

import "time"

// Profile is the signed-in user's own record, kept as a singleton in the
// local store (keyed by user id) and cleared on logout.
type Profile struct {
	ID          string    `json:"id,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Timezone    string    `json:"timezone,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

func (p *Profile) EntityID() string           { return p.ID }
func (p *Profile) SetEntityID(id string)      { p.ID = id }
func (p *Profile) StampCreated(now time.Time) { p.CreatedAt = now }
func (p *Profile) Touch(now time.Time)        { p.UpdatedAt = now }
