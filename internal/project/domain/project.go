package domain

import (
	"errors"
	"time"
)

// Project is the unit of access control. The creator has implicit full
// access to every module. Department is inherited from the creator's
// profile at creation time and immutable afterwards.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatorID  string    `json:"creator_id"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate validates the project for persistence.
func (p *Project) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.CreatorID == "" {
		return errors.New("creator is required")
	}
	return nil
}
