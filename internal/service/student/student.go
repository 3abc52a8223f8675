// Package student implements the lifecycle of the Student resource:
// validating input, coordinating the store, and turning every result into
// an Outcome (a status code plus a JSON-ready body).
//
// The package knows nothing about net/http beyond the status constants;
// handlers only move bytes in and write the Outcome back out.
package student

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

// Client-facing messages.
const (
	MsgCreated  = "Student created successfully"
	MsgUpdated  = "Student updated successfully"
	MsgDeleted  = "Student deleted successfully"
	MsgNotFound = "Student not found"
	MsgInternal = "Internal server error"
)

// Outcome is the result of one operation, ready to be serialised.
type Outcome struct {
	Status int
	Body   any
}

// Input is an undecoded request body together with its declared type.
type Input struct {
	ContentType string
	Body        []byte
}

// Service runs the five CRUD operations against a storage.Storage.
type Service struct {
	store storage.Storage
	log   *slog.Logger
}

// NewService wires the service to its store. The store is shared for the
// life of the process.
func NewService(store storage.Storage, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Create validates in and persists a new student.
func (s *Service) Create(ctx context.Context, in Input) Outcome {
	student, err := parseInput(in)
	if err != nil {
		return s.failure(ctx, "create", "", err)
	}

	id, err := s.store.CreateStudent(ctx, student)
	if err != nil {
		return s.failure(ctx, "create", "", err)
	}

	s.log.InfoContext(ctx, "student created", slog.Int64("id", id))
	return message(http.StatusCreated, MsgCreated)
}

// List returns every student. An empty store yields an empty array.
func (s *Service) List(ctx context.Context) Outcome {
	students, err := s.store.GetStudents(ctx)
	if err != nil {
		return s.failure(ctx, "list", "", err)
	}
	if students == nil {
		students = []types.Student{}
	}
	return Outcome{Status: http.StatusOK, Body: students}
}

// Get returns the student with the given id.
func (s *Service) Get(ctx context.Context, rawID string) Outcome {
	student, err := s.lookup(ctx, rawID)
	if err != nil {
		return s.failure(ctx, "get", rawID, err)
	}
	return Outcome{Status: http.StatusOK, Body: student}
}

// Update replaces every field of an existing student.
//
// Existence is checked before the body is looked at, so an unknown id is
// reported as 404 even when the body is also invalid.
func (s *Service) Update(ctx context.Context, rawID string, in Input) Outcome {
	existing, err := s.lookup(ctx, rawID)
	if err != nil {
		return s.failure(ctx, "update", rawID, err)
	}

	replacement, err := parseInput(in)
	if err != nil {
		return s.failure(ctx, "update", rawID, err)
	}

	if err := s.store.UpdateStudentByID(ctx, existing.ID, replacement); err != nil {
		return s.failure(ctx, "update", rawID, err)
	}

	s.log.InfoContext(ctx, "student updated", slog.Int64("id", existing.ID))
	return message(http.StatusOK, MsgUpdated)
}

// Delete removes an existing student.
func (s *Service) Delete(ctx context.Context, rawID string) Outcome {
	existing, err := s.lookup(ctx, rawID)
	if err != nil {
		return s.failure(ctx, "delete", rawID, err)
	}

	if err := s.store.DeleteStudentByID(ctx, existing.ID); err != nil {
		return s.failure(ctx, "delete", rawID, err)
	}

	s.log.InfoContext(ctx, "student deleted", slog.Int64("id", existing.ID))
	return message(http.StatusOK, MsgDeleted)
}

// lookup resolves a path id. Anything that is not a stored id, including
// text that is not an integer at all, is storage.ErrNotFound.
func (s *Service) lookup(ctx context.Context, rawID string) (types.Student, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return types.Student{}, storage.ErrNotFound
	}
	return s.store.GetStudentByID(ctx, id)
}

func parseInput(in Input) (types.Student, error) {
	fields, err := types.DecodeFields(in.ContentType, in.Body)
	if err != nil {
		return types.Student{}, err
	}
	return types.Parse(fields)
}

// failure maps an error to its Outcome. Validation and not-found errors are
// the client's; anything else is logged and hidden behind a generic 500.
func (s *Service) failure(ctx context.Context, op, rawID string, err error) Outcome {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		s.log.DebugContext(ctx, "rejected student input",
			slog.String("op", op), slog.String("reason", verr.Error()))
		if verr.Kind == types.UnsupportedMediaType {
			return message(http.StatusUnsupportedMediaType, verr.Error())
		}
		return message(http.StatusBadRequest, verr.Error())

	case errors.Is(err, storage.ErrNotFound):
		s.log.DebugContext(ctx, "student not found",
			slog.String("op", op), slog.String("id", rawID))
		return message(http.StatusNotFound, MsgNotFound)

	default:
		s.log.ErrorContext(ctx, "student operation failed",
			slog.String("op", op),
			slog.String("id", rawID),
			slog.String("error", err.Error()))
		return message(http.StatusInternalServerError, MsgInternal)
	}
}

func message(status int, msg string) Outcome {
	return Outcome{Status: status, Body: response.Message(msg)}
}
