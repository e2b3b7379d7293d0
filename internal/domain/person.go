package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Person is a stored record carrying a PersonName
type Person struct {
	ID        string      `json:"id"`
	Name      *PersonName `json:"name"`
	Email     string      `json:"email,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewPerson creates a person with a fresh ID and timestamps
func NewPerson(name *PersonName, email string) *Person {
	now := time.Now().UTC()
	return &Person{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename replaces the name and bumps UpdatedAt
func (p *Person) Rename(name *PersonName) {
	p.Name = name
	p.UpdatedAt = time.Now().UTC()
}

// Validate checks the fields required for persistence
func (p *Person) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: person ID is required", ErrInvalidArgument)
	}
	if p.Name == nil {
		return fmt.Errorf("%w: person name is required", ErrInvalidArgument)
	}
	return nil
}
