package codec

import (
	"fmt"
	"time"

	"nameofperson/internal/domain"
)

// personRecord is the serialized form of a person shared by all codecs.
// The name travels as its full form and is split again with FromFull.
type personRecord struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

type document struct {
	People []personRecord `json:"people" yaml:"people"`
}

func toRecord(p domain.Person) personRecord {
	rec := personRecord{
		ID:        p.ID,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Name != nil {
		rec.Name = p.Name.Full()
	}
	return rec
}

// fromRecord converts a record back to a person. A blank name yields a nil
// Name; callers decide whether to keep such entries.
func fromRecord(rec personRecord) (domain.Person, error) {
	name, err := domain.FromFull(rec.Name)
	if err != nil {
		return domain.Person{}, fmt.Errorf("person %q: %w", rec.ID, err)
	}
	return domain.Person{
		ID:        rec.ID,
		Name:      name,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func toDocument(people []domain.Person) document {
	doc := document{People: make([]personRecord, 0, len(people))}
	for _, p := range people {
		doc.People = append(doc.People, toRecord(p))
	}
	return doc
}

func fromDocument(doc document) ([]domain.Person, error) {
	people := make([]domain.Person, 0, len(doc.People))
	for _, rec := range doc.People {
		p, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, nil
}
