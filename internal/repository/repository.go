package repository

import (
	"context"

	"nameofperson/internal/domain"
)

// PeopleRepository defines the data access methods for people
type PeopleRepository interface {
	// Read operations
	Get(ctx context.Context, id string) (*domain.Person, error)
	List(ctx context.Context) ([]domain.Person, error)

	// Write operations
	Create(ctx context.Context, person *domain.Person) error
	Update(ctx context.Context, person *domain.Person) error
	Delete(ctx context.Context, id string) error

	// Bulk operations
	ImportPeople(ctx context.Context, people []domain.Person) error

	// Close releases resources
	Close() error
}
