// Package storage defines the Storage interface: the contract any database
// backend must satisfy to hold student records.
//
// The service layer depends only on this interface, so a test can hand it
// an in-memory fake and production hands it the SQLite implementation.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records-api/internal/types"
)

// ErrNotFound is returned when no student has the requested id.
var ErrNotFound = errors.New("student not found")

// StoreError reports a failed persistence step (query, exec, commit).
// Op names the step, e.g. "CreateStudent: commit".
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Storage is the database contract.
//
// Every mutating call is committed as a single durable unit before it
// returns; there is no transaction scope spanning calls.
type Storage interface {
	// CreateStudent inserts a new student and returns the id the store
	// assigned. Ids are never reused, even after a delete.
	CreateStudent(ctx context.Context, student types.Student) (int64, error)

	// GetStudentByID returns ErrNotFound if no such student exists.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns every student. The slice is empty, never nil,
	// when the store is empty. Order is not part of the contract.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID replaces all mutable fields of an existing student.
	// The id in student is ignored. Returns ErrNotFound if nothing matched.
	UpdateStudentByID(ctx context.Context, id int64, student types.Student) error

	// DeleteStudentByID removes a student permanently.
	// Returns ErrNotFound if nothing matched.
	DeleteStudentByID(ctx context.Context, id int64) error

	// CountStudents returns the number of stored students.
	CountStudents(ctx context.Context) (int, error)

	Close() error
}
