package model

import "time"

// Profile is a household member. A profile can appear as a gift recipient,
// gifter, purchaser, or claimer; there is no separate account concept.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
