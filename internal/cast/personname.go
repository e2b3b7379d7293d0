// Package cast converts between PersonName values and the two raw columns a
// storage layer keeps them in.
//
// A cast is registered once with a definition string such as
//
//	person_name:given_name,family_name
//
// and then reused for every read (Get) and write (Set). Omitted column names
// fall back to first_name and last_name.
package cast

import (
	"database/sql"
	"fmt"
	"strings"

	"nameofperson/internal/domain"
)

const (
	// Name is the identifier used in cast definitions
	Name = "person_name"

	DefaultFirstColumn = "first_name"
	DefaultLastColumn  = "last_name"
)

// Attributes holds raw column values keyed by column name.
//
// Get accepts nil, string, *string, []byte and sql.NullString values; any
// other type is treated as a missing value. Set only produces nil or string.
type Attributes map[string]any

// PersonNameCast maps a PersonName onto a first and a last name column
type PersonNameCast struct {
	firstColumn string
	lastColumn  string
}

// New creates a cast for the given columns. Blank column names use the
// defaults.
func New(firstColumn, lastColumn string) *PersonNameCast {
	firstColumn = strings.TrimSpace(firstColumn)
	lastColumn = strings.TrimSpace(lastColumn)
	if firstColumn == "" {
		firstColumn = DefaultFirstColumn
	}
	if lastColumn == "" {
		lastColumn = DefaultLastColumn
	}
	return &PersonNameCast{firstColumn: firstColumn, lastColumn: lastColumn}
}

// Default returns a cast over first_name and last_name
func Default() *PersonNameCast {
	return New("", "")
}

// Parse builds a cast from a definition string: "", "person_name" or
// "person_name:<first>,<last>". Arguments beyond the second are ignored.
func Parse(definition string) (*PersonNameCast, error) {
	definition = strings.TrimSpace(definition)
	if definition == "" {
		return Default(), nil
	}

	name, args, _ := strings.Cut(definition, ":")
	if strings.TrimSpace(name) != Name {
		return nil, fmt.Errorf("%w: unknown cast %q", domain.ErrInvalidArgument, name)
	}

	columns := make([]string, 2)
	if args != "" {
		for i, arg := range strings.Split(args, ",") {
			if i >= len(columns) {
				break
			}
			columns[i] = arg
		}
	}
	return New(columns[0], columns[1]), nil
}

// Using returns the definition string for a cast over the given columns
func Using(firstColumn, lastColumn string) string {
	return Name + ":" + firstColumn + "," + lastColumn
}

// FirstColumn returns the column holding the first name
func (c *PersonNameCast) FirstColumn() string {
	return c.firstColumn
}

// LastColumn returns the column holding the last name
func (c *PersonNameCast) LastColumn() string {
	return c.lastColumn
}

// Definition returns the definition string that recreates this cast
func (c *PersonNameCast) Definition() string {
	return Using(c.firstColumn, c.lastColumn)
}

// Get builds a PersonName from raw column values. It returns nil when the
// first name column is missing or blank.
func (c *PersonNameCast) Get(attrs Attributes) *domain.PersonName {
	first, ok := stringValue(attrs[c.firstColumn])
	if !ok || strings.TrimSpace(first) == "" {
		return nil
	}
	last, _ := stringValue(attrs[c.lastColumn])

	// first is non-blank, so construction cannot fail
	name, err := domain.NewPersonName(first, last)
	if err != nil {
		return nil
	}
	return name
}

// Set decomposes a value into raw column values. Accepted values are nil, a
// full name string (or pointer to one) and a PersonName. Blank strings clear
// both columns.
func (c *PersonNameCast) Set(value any) (Attributes, error) {
	switch v := value.(type) {
	case nil:
		return c.columns(nil), nil
	case string:
		return c.setFull(v)
	case *string:
		if v == nil {
			return c.columns(nil), nil
		}
		return c.setFull(*v)
	case *domain.PersonName:
		return c.columns(v), nil
	case domain.PersonName:
		return c.columns(&v), nil
	default:
		return nil, fmt.Errorf("%w: value must be nil, string, or PersonName, got: %T",
			domain.ErrInvalidArgument, value)
	}
}

func (c *PersonNameCast) setFull(full string) (Attributes, error) {
	name, err := domain.FromFull(full)
	if err != nil {
		return nil, err
	}
	return c.columns(name), nil
}

func (c *PersonNameCast) columns(name *domain.PersonName) Attributes {
	if name == nil {
		return Attributes{c.firstColumn: nil, c.lastColumn: nil}
	}

	var last any
	if name.HasLast() {
		last = name.Last()
	}
	return Attributes{c.firstColumn: name.First(), c.lastColumn: last}
}

// stringValue extracts a string from a raw column value
func stringValue(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case *string:
		if s == nil {
			return "", false
		}
		return *s, true
	case []byte:
		return string(s), true
	case sql.NullString:
		return s.String, s.Valid
	default:
		return "", false
	}
}
