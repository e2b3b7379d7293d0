package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"

	"nameofperson/internal/codec"
	"nameofperson/internal/domain"
	"nameofperson/internal/repository"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PeopleService provides business logic for people records
type PeopleService struct {
	repo     repository.PeopleRepository
	eventBus *EventBus
}

// NewPeopleService creates a new people service. eventBus may be nil.
func NewPeopleService(repo repository.PeopleRepository, eventBus *EventBus) *PeopleService {
	return &PeopleService{
		repo:     repo,
		eventBus: eventBus,
	}
}

// ImportResult summarizes an import run
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Add parses fullName and stores a new person
func (s *PeopleService) Add(ctx context.Context, fullName, email string) (*domain.Person, error) {
	name, err := parseName(fullName)
	if err != nil {
		return nil, err
	}

	person := domain.NewPerson(name, strings.TrimSpace(email))
	if err := s.repo.Create(ctx, person); err != nil {
		return nil, err
	}

	log.Printf("Added person %s (%s)", person.ID, name.Full())
	s.eventBus.Publish(Event{
		Type:    EventPersonCreated,
		Payload: map[string]string{"person_id": person.ID, "name": name.Full()},
	})

	return person, nil
}

// Get retrieves a single person by ID
func (s *PeopleService) Get(ctx context.Context, id string) (*domain.Person, error) {
	return s.repo.Get(ctx, id)
}

// Rename replaces the name of an existing person
func (s *PeopleService) Rename(ctx context.Context, id, fullName string) (*domain.Person, error) {
	name, err := parseName(fullName)
	if err != nil {
		return nil, err
	}

	person, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var previous string
	if person.Name != nil {
		previous = person.Name.Full()
	}
	person.Rename(name)

	if err := s.repo.Update(ctx, person); err != nil {
		return nil, err
	}

	log.Printf("Renamed person %s: %q -> %q", id, previous, name.Full())
	s.eventBus.Publish(Event{
		Type:    EventPersonRenamed,
		Payload: map[string]string{"person_id": id, "from": previous, "to": name.Full()},
	})

	return person, nil
}

// Remove deletes a person
func (s *PeopleService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("Removed person %s", id)
	s.eventBus.Publish(Event{
		Type:    EventPersonDeleted,
		Payload: map[string]string{"person_id": id},
	})

	return nil
}

// List returns every person in alphabetical order of their sorted name.
// People without a usable name come last.
func (s *PeopleService) List(ctx context.Context) ([]domain.Person, error) {
	people, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortPeople(people)
	return people, nil
}

// FindByMention returns the people whose mentionable name matches handle.
// A leading @ is ignored.
func (s *PeopleService) FindByMention(ctx context.Context, handle string) ([]domain.Person, error) {
	handle = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
	if handle == "" {
		return nil, fmt.Errorf("%w: mention handle is required", domain.ErrInvalidArgument)
	}

	people, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Person, 0)
	for _, p := range people {
		if p.Name != nil && p.Name.Mentionable() == handle {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Export writes every person using the given exporter
func (s *PeopleService) Export(ctx context.Context, exporter codec.Exporter, w io.Writer) error {
	people, err := s.List(ctx)
	if err != nil {
		return err
	}
	if err := exporter.Export(people, w); err != nil {
		return fmt.Errorf("export %s: %w", exporter.Format(), err)
	}
	return nil
}

// Import reads people with the given importer and stores them in one batch.
// Entries without a name are skipped; entries without an ID get a new one.
func (s *PeopleService) Import(ctx context.Context, importer codec.Importer, r io.Reader) (ImportResult, error) {
	var result ImportResult

	parsed, err := importer.Parse(r)
	if err != nil {
		return result, fmt.Errorf("import %s: %w", importer.Format(), err)
	}

	people := make([]domain.Person, 0, len(parsed))
	for _, p := range parsed {
		if p.Name == nil {
			result.Skipped++
			continue
		}
		fresh := domain.NewPerson(p.Name, p.Email)
		if p.ID != "" {
			fresh.ID = p.ID
		}
		if !p.CreatedAt.IsZero() {
			fresh.CreatedAt = p.CreatedAt
		}
		if !p.UpdatedAt.IsZero() {
			fresh.UpdatedAt = p.UpdatedAt
		}
		people = append(people, *fresh)
	}

	if len(people) > 0 {
		if err := s.repo.ImportPeople(ctx, people); err != nil {
			return result, err
		}
	}
	result.Imported = len(people)

	log.Printf("Imported %d people from %s (%d skipped)", result.Imported, importer.Format(), result.Skipped)
	s.eventBus.Publish(Event{
		Type:    EventPeopleImported,
		Payload: result,
	})

	return result, nil
}

func parseName(fullName string) (*domain.PersonName, error) {
	name, err := domain.FromFull(fullName)
	if err != nil {
		return nil, err
	}
	if name == nil {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	return name, nil
}

// sortPeople orders people by collated sorted name, then by ID
func sortPeople(people []domain.Person) {
	col := collate.New(language.Und)

	slices.SortStableFunc(people, func(a, b domain.Person) int {
		switch {
		case a.Name == nil && b.Name == nil:
			return strings.Compare(a.ID, b.ID)
		case a.Name == nil:
			return 1
		case b.Name == nil:
			return -1
		}
		if c := col.CompareString(a.Name.Sorted(), b.Name.Sorted()); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
