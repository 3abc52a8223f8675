package student

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records-api/internal/config"
	studentsvc "github.com/aanand-mishra/student-records-api/internal/service/student"
	"github.com/aanand-mishra/student-records-api/internal/storage/sqlite"
)

// newTestServer wires the real service and an in-memory SQLite store
// behind the production routes.
func newTestServer(t *testing.T) *http.ServeMux {
	t.Helper()

	store, err := sqlite.New(&config.Config{StoragePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	RegisterRoutes(mux, studentsvc.NewService(store, log))
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

type record struct {
	StudentID int64   `json:"student_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	DOB       string  `json:"dob"`
	AmountDue float64 `json:"amount_due"`
}

func list(t *testing.T, mux http.Handler) []record {
	t.Helper()
	w := do(t, mux, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out []record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const aliceBody = `{"first_name":"Alice","last_name":"Smith","dob":"2000-01-01","amount_due":100.0}`

func TestCreate(t *testing.T) {
	mux := newTestServer(t)

	w := do(t, mux, http.MethodPost, "/student", aliceBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Student created successfully"}`, w.Body.String())
	assert.Len(t, list(t, mux), 1)
}

func TestRoundTrip(t *testing.T) {
	mux := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/student", aliceBody).Code)
	students := list(t, mux)
	require.Len(t, students, 1)

	w := do(t, mux, http.MethodGet, "/student/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"student_id":1,"first_name":"Alice","last_name":"Smith","dob":"2000-01-01","amount_due":100}`,
		w.Body.String())

	again := do(t, mux, http.MethodGet, "/student/1", "")
	assert.Equal(t, w.Body.String(), again.Body.String())
}

func TestCreate_EachAddsExactlyOneRecord(t *testing.T) {
	mux := newTestServer(t)

	bodies := []string{
		aliceBody,
		`{"first_name":"Bob","last_name":"Johnson","dob":"2001-02-02","amount_due":200.0}`,
		`{"first_name":"Eva","last_name":"Jones","dob":"2004-05-05","amount_due":-3.25}`,
	}

	seen := make(map[int64]bool)
	for i, body := range bodies {
		require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/student", body).Code)

		students := list(t, mux)
		require.Len(t, students, i+1)

		newest := students[len(students)-1]
		assert.False(t, seen[newest.StudentID])
		seen[newest.StudentID] = true

		var want record
		require.NoError(t, json.Unmarshal([]byte(body), &want))
		want.StudentID = newest.StudentID
		assert.Equal(t, want, newest)
	}
}

func TestCreate_MissingFieldPersistsNothing(t *testing.T) {
	mux := newTestServer(t)

	w := do(t, mux, http.MethodPost, "/student", `{"first_name":"Alice","last_name":"Smith","dob":"2000-01-01"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing field: amount_due"}`, w.Body.String())
	assert.Empty(t, list(t, mux))
}

func TestCreate_BadDate(t *testing.T) {
	mux := newTestServer(t)

	w := do(t, mux, http.MethodPost, "/student", `{"first_name":"Alice","last_name":"Smith","dob":"not-a-date","amount_due":1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, list(t, mux))
}

func TestCreate_ContentType(t *testing.T) {
	mux := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/student", strings.NewReader(aliceBody))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Empty(t, list(t, mux))
}

func TestCreate_BodyTooLarge(t *testing.T) {
	mux := newTestServer(t)

	huge := `{"first_name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	w := do(t, mux, http.MethodPost, "/student", huge)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestList_Empty(t *testing.T) {
	mux := newTestServer(t)

	w := do(t, mux, http.MethodGet, "/students", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGet_NotFound(t *testing.T) {
	mux := newTestServer(t)

	for _, path := range []string{"/student/99999", "/student/abc", "/student/1e3"} {
		t.Run(path, func(t *testing.T) {
			w := do(t, mux, http.MethodGet, path, "")
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"message":"Student not found"}`, w.Body.String())
		})
	}
}

func TestUpdate(t *testing.T) {
	mux := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/student", aliceBody).Code)

	w := do(t, mux, http.MethodPut, "/student/1",
		`{"first_name":"Alicia","last_name":"Smythe","dob":"1999-12-31","amount_due":50.5}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Student updated successfully"}`, w.Body.String())

	got := do(t, mux, http.MethodGet, "/student/1", "")
	assert.JSONEq(t,
		`{"student_id":1,"first_name":"Alicia","last_name":"Smythe","dob":"1999-12-31","amount_due":50.5}`,
		got.Body.String())
}

func TestUpdate_NotFoundRegardlessOfBody(t *testing.T) {
	mux := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/student", aliceBody).Code)
	before := list(t, mux)

	for _, body := range []string{aliceBody, `{}`, `{"dob":"not-a-date"}`} {
		w := do(t, mux, http.MethodPut, "/student/99999", body)
		assert.Equal(t, http.StatusNotFound, w.Code, "body %s", body)
	}

	assert.Equal(t, before, list(t, mux))
}

func TestUpdate_InvalidBodyNoMutation(t *testing.T) {
	mux := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/student", aliceBody).Code)
	before := list(t, mux)

	w := do(t, mux, http.MethodPut, "/student/1",
		`{"first_name":"Alicia","last_name":"Smythe","dob":"not-a-date","amount_due":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, mux, http.MethodPut, "/student/1", `{"first_name":"Alicia"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing field: last_name"}`, w.Body.String())

	assert.Equal(t, before, list(t, mux))
}

func TestDelete(t *testing.T) {
	mux := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/student", aliceBody).Code)

	w := do(t, mux, http.MethodDelete, "/student/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Student deleted successfully"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/student/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodDelete, "/student/1", "").Code)

	// The freed id is not handed out again.
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/student", aliceBody).Code)
	students := list(t, mux)
	require.Len(t, students, 1)
	assert.Equal(t, int64(2), students[0].StudentID)
}

func TestDelete_NotFound(t *testing.T) {
	mux := newTestServer(t)

	w := do(t, mux, http.MethodDelete, "/student/99999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Student not found"}`, w.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestServer(t)

	w := do(t, mux, http.MethodPatch, "/student/1", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
