package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nameofperson/internal/cast"
	"nameofperson/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository implements repository.PeopleRepository using SQLite
type Repository struct {
	db     *sql.DB
	caster *cast.PersonNameCast
	q      queries
}

// New opens the SQLite database at dbPath and migrates the people table.
// Name columns come from caster; a nil caster uses the default columns.
func New(dbPath string, caster *cast.PersonNameCast) (*Repository, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	repo, err := NewWithDB(db, caster)
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := repo.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

// NewWithDB wraps an open database without migrating it
func NewWithDB(db *sql.DB, caster *cast.PersonNameCast) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if caster == nil {
		caster = cast.Default()
	}
	if err := validateNameColumns(caster); err != nil {
		return nil, err
	}

	return &Repository{
		db:     db,
		caster: caster,
		q:      buildQueries(caster),
	}, nil
}

// Migrate creates the people table and adds any name column the current
// cast expects but an older schema lacks
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.q.schema); err != nil {
		return fmt.Errorf("create people table: %w", err)
	}

	for _, col := range []string{r.caster.FirstColumn(), r.caster.LastColumn()} {
		if err := r.addColumnIfNotExists(ctx, "people", col, "TEXT"); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) addColumnIfNotExists(ctx context.Context, table, column, colType string) error {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan %s columns: %w", table, err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s columns: %w", table, err)
	}
	rows.Close()

	stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN "%s" %s`, table, column, colType)
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}

// Caster returns the cast used for the name columns
func (r *Repository) Caster() *cast.PersonNameCast {
	return r.caster
}

// Get retrieves a single person by ID
func (r *Repository) Get(ctx context.Context, id string) (*domain.Person, error) {
	var row personRow
	err := r.db.QueryRowContext(ctx, r.q.get, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query person: %w", err)
	}
	return row.toDomain(r.caster), nil
}

// List returns every person ordered by last then first name
func (r *Repository) List(ctx context.Context) ([]domain.Person, error) {
	rows, err := r.db.QueryContext(ctx, r.q.list)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	people := make([]domain.Person, 0)
	for rows.Next() {
		var row personRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, *row.toDomain(r.caster))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating people: %w", err)
	}

	return people, nil
}

// Create inserts a new person
func (r *Repository) Create(ctx context.Context, person *domain.Person) error {
	if err := person.Validate(); err != nil {
		return err
	}

	args, err := personInsertArgs(r.caster, person)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, r.q.insert, args...); err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	return nil
}

// Update writes the name and email of an existing person
func (r *Repository) Update(ctx context.Context, person *domain.Person) error {
	if err := person.Validate(); err != nil {
		return err
	}

	attrs, err := r.caster.Set(person.Name)
	if err != nil {
		return fmt.Errorf("cast name: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.q.update,
		attrs[r.caster.FirstColumn()],
		attrs[r.caster.LastColumn()],
		stringToNull(person.Email),
		toMillis(person.UpdatedAt),
		person.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return expectAffected(result, person.ID)
}

// Delete removes a person by ID
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.q.delete, id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return expectAffected(result, id)
}

// ImportPeople inserts people in a single transaction, replacing records
// that share an ID
func (r *Repository) ImportPeople(ctx context.Context, people []domain.Person) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, strings.Replace(r.q.insert, "INSERT INTO", "INSERT OR REPLACE INTO", 1))
	if err != nil {
		return fmt.Errorf("failed to prepare person statement: %w", err)
	}
	defer stmt.Close()

	for i := range people {
		person := &people[i]
		if err := person.Validate(); err != nil {
			return fmt.Errorf("person %d: %w", i, err)
		}
		args, err := personInsertArgs(r.caster, person)
		if err != nil {
			return fmt.Errorf("person %s: %w", person.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert person %s: %w", person.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func expectAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
