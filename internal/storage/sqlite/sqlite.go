// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface, using sqlx on top of database/sql.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded; we never call anything from it directly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/student-records-api/internal/config"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

const (
	driverName = "sqlite3"

	// memoryPath opens a private in-memory database.
	memoryPath = ":memory:"

	dirPermissions = 0750

	pingTimeout = 5 * time.Second
)

// schema is idempotent and safe to run on every startup.
//
// AUTOINCREMENT (rather than a bare INTEGER PRIMARY KEY) stops SQLite from
// handing the id of a deleted row to a new one.
const schema = `
	CREATE TABLE IF NOT EXISTS students (
		student_id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT    NOT NULL,
		last_name  TEXT    NOT NULL,
		dob        TEXT    NOT NULL,
		amount_due REAL    NOT NULL
	)
`

const selectColumns = "SELECT student_id, first_name, last_name, dob, amount_due FROM students"

// SQLite is the concrete implementation of storage.Storage.
// The wrapped *sqlx.DB is a connection pool and is safe for concurrent use.
type SQLite struct {
	db *sqlx.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database described by cfg, creates the students
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	path := cfg.StoragePath
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
			return nil, fmt.Errorf("sqlite.New: create directory: %w", err)
		}
	}

	// See https://github.com/mattn/go-sqlite3#connection-string
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		path, cfg.Database.BusyTimeout.Milliseconds())
	if cfg.Database.WALMode && path != memoryPath {
		dsn += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// SQLite allows one writer at a time. A single connection also keeps an
	// in-memory database alive for the life of the pool.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("sqlite.New: ping: %w", err)
	}

	s, err := NewWithDB(db)
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an already-open handle and ensures the schema exists.
func NewWithDB(db *sqlx.DB) (*SQLite, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sqlite: close: %w", err)
	}
	return nil
}

// CreateStudent inserts a new row and returns its auto-generated id.
func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (int64, error) {
	var id int64

	err := s.withTx(ctx, "CreateStudent", func(tx *sqlx.Tx) error {
		// Named parameters are bound from the db:"..." struct tags.
		result, err := tx.NamedExecContext(ctx,
			`INSERT INTO students (first_name, last_name, dob, amount_due)
			 VALUES (:first_name, :last_name, :dob, :amount_due)`,
			student,
		)
		if err != nil {
			return &storage.StoreError{Op: "CreateStudent: exec", Err: err}
		}

		id, err = result.LastInsertId()
		if err != nil {
			return &storage.StoreError{Op: "CreateStudent: last insert id", Err: err}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetStudentByID fetches exactly one student matched by primary key.
func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student

	err := s.db.GetContext(ctx, &student, selectColumns+" WHERE student_id = ? LIMIT 1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, &storage.StoreError{Op: "GetStudentByID: query", Err: err}
	}
	return student, nil
}

// GetStudents returns all students ordered by id.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	// Start from an empty (non-nil) slice so the JSON encoding is [] rather
	// than null when the table is empty.
	students := make([]types.Student, 0)

	if err := s.db.SelectContext(ctx, &students, selectColumns+" ORDER BY student_id"); err != nil {
		return nil, &storage.StoreError{Op: "GetStudents: query", Err: err}
	}
	return students, nil
}

// UpdateStudentByID replaces a student's data with the provided values.
func (s *SQLite) UpdateStudentByID(ctx context.Context, id int64, student types.Student) error {
	student.ID = id

	return s.withTx(ctx, "UpdateStudentByID", func(tx *sqlx.Tx) error {
		result, err := tx.NamedExecContext(ctx,
			`UPDATE students
			 SET first_name = :first_name, last_name = :last_name, dob = :dob, amount_due = :amount_due
			 WHERE student_id = :student_id`,
			student,
		)
		if err != nil {
			return &storage.StoreError{Op: "UpdateStudentByID: exec", Err: err}
		}
		return requireAffected(result, "UpdateStudentByID")
	})
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	return s.withTx(ctx, "DeleteStudentByID", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM students WHERE student_id = ?", id)
		if err != nil {
			return &storage.StoreError{Op: "DeleteStudentByID: exec", Err: err}
		}
		return requireAffected(result, "DeleteStudentByID")
	})
}

// CountStudents returns the number of rows in the students table.
func (s *SQLite) CountStudents(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM students"); err != nil {
		return 0, &storage.StoreError{Op: "CountStudents: query", Err: err}
	}
	return n, nil
}

// withTx runs fn inside a transaction and commits it. The transaction is
// rolled back if fn returns an error.
func (s *SQLite) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &storage.StoreError{Op: op + ": begin", Err: err}
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return &storage.StoreError{Op: op + ": rollback", Err: errors.Join(err, rbErr)}
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &storage.StoreError{Op: op + ": commit", Err: err}
	}
	return nil
}

func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return &storage.StoreError{Op: op + ": rows affected", Err: err}
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
