// Package student contains all HTTP handlers related to the Student resource.
//
// Handlers are built with the factory pattern: each exported function takes
// its dependencies once at startup and returns the http.HandlerFunc that
// runs on every request.
//
//	router.HandleFunc("POST /student", student.New(svc))
//
// The handlers only translate between HTTP and the service: they pull the
// path id and body off the request, call the service, and write the Outcome
// it returns.
package student

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	studentsvc "github.com/aanand-mishra/student-records-api/internal/service/student"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

// maxBodyBytes caps request bodies; a student record is a few dozen bytes.
const maxBodyBytes = 1 << 20

// Service is the subset of *studentsvc.Service the handlers need.
type Service interface {
	Create(ctx context.Context, in studentsvc.Input) studentsvc.Outcome
	List(ctx context.Context) studentsvc.Outcome
	Get(ctx context.Context, rawID string) studentsvc.Outcome
	Update(ctx context.Context, rawID string, in studentsvc.Input) studentsvc.Outcome
	Delete(ctx context.Context, rawID string) studentsvc.Outcome
}

// RegisterRoutes mounts the Student routes on router.
//
//	POST   /student       → create a new student
//	GET    /students      → list all students
//	GET    /student/{id}  → get one student by id
//	PUT    /student/{id}  → replace a student
//	DELETE /student/{id}  → delete a student
func RegisterRoutes(router *http.ServeMux, svc Service) {
	router.HandleFunc("POST /student", New(svc))
	router.HandleFunc("GET /students", GetList(svc))
	router.HandleFunc("GET /student/{id}", GetByID(svc))
	router.HandleFunc("PUT /student/{id}", Update(svc))
	router.HandleFunc("DELETE /student/{id}", Delete(svc))
}

// New handles POST /student.
//
// Request body (JSON):
//
//	{ "first_name": "Alice", "last_name": "Smith", "dob": "2000-01-01", "amount_due": 100.0 }
//
// Success response (201 Created):
//
//	{ "message": "Student created successfully" }
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "creating a student")

		in, ok := readInput(w, r)
		if !ok {
			return
		}
		write(w, svc.Create(r.Context(), in))
	}
}

// GetList handles GET /students.
// Returns [] (not null) when there are no students.
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "getting all students")
		write(w, svc.List(r.Context()))
	}
}

// GetByID handles GET /student/{id}.
//
// Success response (200 OK):
//
//	{ "student_id": 1, "first_name": "Alice", "last_name": "Smith", "dob": "2000-01-01", "amount_due": 100 }
//
// Any id that does not name a stored student, numeric or not, is a 404.
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.DebugContext(r.Context(), "getting a student", slog.String("id", id))
		write(w, svc.Get(r.Context(), id))
	}
}

// Update handles PUT /student/{id}. All four fields are required.
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.DebugContext(r.Context(), "updating a student", slog.String("id", id))

		in, ok := readInput(w, r)
		if !ok {
			return
		}
		write(w, svc.Update(r.Context(), id, in))
	}
}

// Delete handles DELETE /student/{id}.
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.DebugContext(r.Context(), "deleting a student", slog.String("id", id))
		write(w, svc.Delete(r.Context(), id))
	}
}

// readInput buffers the body. It writes the error response itself and
// reports false if the body could not be read.
func readInput(w http.ResponseWriter, r *http.Request) (studentsvc.Input, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteJSON(w, http.StatusRequestEntityTooLarge,
				response.Message("Request body too large"))
			return studentsvc.Input{}, false
		}
		response.WriteJSON(w, http.StatusBadRequest,
			response.Message("Could not read request body"))
		return studentsvc.Input{}, false
	}

	return studentsvc.Input{
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}, true
}

func write(w http.ResponseWriter, out studentsvc.Outcome) {
	if err := response.WriteJSON(w, out.Status, out.Body); err != nil {
		slog.Error("failed to write response", slog.String("error", err.Error()))
	}
}
