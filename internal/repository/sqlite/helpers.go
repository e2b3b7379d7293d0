package sqlite

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"nameofperson/internal/cast"
	"nameofperson/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// toMillis stores timestamps as UTC unix milliseconds
func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ============================================================================
// Column Names
// ============================================================================

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// fixed columns of the people table; name columns may not reuse them
var reservedColumns = map[string]bool{
	"id":         true,
	"email":      true,
	"created_at": true,
	"updated_at": true,
}

// validateNameColumns checks the cast's columns before they are
// interpolated into SQL
func validateNameColumns(c *cast.PersonNameCast) error {
	first, last := c.FirstColumn(), c.LastColumn()
	for _, col := range []string{first, last} {
		if !identifierPattern.MatchString(col) {
			return fmt.Errorf("%w: invalid column name %q", domain.ErrInvalidArgument, col)
		}
		if reservedColumns[col] {
			return fmt.Errorf("%w: column name %q is reserved", domain.ErrInvalidArgument, col)
		}
	}
	if first == last {
		return fmt.Errorf("%w: first and last name columns must differ", domain.ErrInvalidArgument)
	}
	return nil
}

// ============================================================================
// Person Row Scanner
// ============================================================================
//
// CRITICAL: Column order must match between:
// - queries.columns
// - personRow.scanArgs()
// - personInsertArgs()

// personRow holds all columns from a people query for scanning
type personRow struct {
	ID        string
	FirstName sql.NullString
	LastName  sql.NullString
	Email     sql.NullString
	CreatedAt int64
	UpdatedAt int64
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match column order exactly:
// id, <first>, <last>, email, created_at, updated_at
func (r *personRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,        // 1
		&r.FirstName, // 2
		&r.LastName,  // 3
		&r.Email,     // 4
		&r.CreatedAt, // 5
		&r.UpdatedAt, // 6
	}
}

// toDomain converts the scanned row to a domain.Person, reading the name
// through the cast
func (r *personRow) toDomain(c *cast.PersonNameCast) *domain.Person {
	attrs := cast.Attributes{
		c.FirstColumn(): r.FirstName,
		c.LastColumn():  r.LastName,
	}
	return &domain.Person{
		ID:        r.ID,
		Name:      c.Get(attrs),
		Email:     nullToString(r.Email),
		CreatedAt: fromMillis(r.CreatedAt),
		UpdatedAt: fromMillis(r.UpdatedAt),
	}
}

// personInsertArgs prepares arguments for person INSERT
// Returns: id, <first>, <last>, email, created_at, updated_at
func personInsertArgs(c *cast.PersonNameCast, p *domain.Person) ([]interface{}, error) {
	attrs, err := c.Set(p.Name)
	if err != nil {
		return nil, fmt.Errorf("cast name: %w", err)
	}

	return []interface{}{
		p.ID,
		attrs[c.FirstColumn()],
		attrs[c.LastColumn()],
		stringToNull(p.Email),
		toMillis(p.CreatedAt),
		toMillis(p.UpdatedAt),
	}, nil
}

// queries holds SQL statements built for one set of name columns
type queries struct {
	columns string
	schema  string
	get     string
	list    string
	insert  string
	update  string
	delete  string
}

func buildQueries(c *cast.PersonNameCast) queries {
	first, last := c.FirstColumn(), c.LastColumn()
	columns := fmt.Sprintf(`id, "%s", "%s", email, created_at, updated_at`, first, last)

	return queries{
		columns: columns,
		schema: fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		"%s" TEXT,
		"%s" TEXT,
		email TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`, first, last),
		get:    fmt.Sprintf(`SELECT %s FROM people WHERE id = ?`, columns),
		list:   fmt.Sprintf(`SELECT %s FROM people ORDER BY "%s", "%s", id`, columns, last, first),
		insert: fmt.Sprintf(`INSERT INTO people (%s) VALUES (?, ?, ?, ?, ?, ?)`, columns),
		update: fmt.Sprintf(`UPDATE people SET "%s" = ?, "%s" = ?, email = ?, updated_at = ? WHERE id = ?`, first, last),
		delete: `DELETE FROM people WHERE id = ?`,
	}
}
