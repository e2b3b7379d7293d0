package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nameofperson/internal/domain"
	"nameofperson/internal/repository/sqlite"
	"nameofperson/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo, err := sqlite.New(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	svc := service.NewPeopleService(repo, nil)
	return NewRouter(NewPeopleHandler(svc, ""), nil)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPeopleCRUD(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/people", `{"name":"Jason Fried","email":"jason@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id := created["id"].(string)
	assert.Equal(t, "Jason Fried", created["name"])

	rec = do(t, h, http.MethodGet, "/api/people/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jason@example.com", decode[map[string]any](t, rec)["email"])

	rec = do(t, h, http.MethodPut, "/api/people/"+id, `{"name":"Jason  Fry"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jason Fry", decode[map[string]any](t, rec)["name"])

	rec = do(t, h, http.MethodGet, "/api/people", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/people?mention=@jasonf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/api/people/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/people/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode[ErrorResponse](t, rec).Error)
}

func TestCreatePersonErrors(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{"name":`},
		{"blank name", `{"name":"   "}`},
		{"missing name", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/people", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRenameMissingPerson(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPut, "/api/people/nobody", `{"name":"Foo Bar"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFormats(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/formats?name=David+Heinemeier+Hansson", "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[service.FormatReport](t, rec)
	assert.Equal(t, "DHH", report.Initials)
	assert.Equal(t, "D. Heinemeier Hansson", report.Abbreviated)
	assert.Equal(t, "davidh", report.Mentionable)

	rec = do(t, h, http.MethodGet, "/api/formats?name=", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPossessive(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		query  string
		status int
		want   string
	}{
		{"name=Foo+Bar", http.StatusOK, "Foo Bar's"},
		{"name=Foo+Bar&as=first", http.StatusOK, "Foo's"},
		{"name=James&as=last", http.StatusOK, "James'"},
		{"name=Foo&as=nickname", http.StatusBadRequest, ""},
		{"as=full", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/possessive?"+tt.query, "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.want != "" {
				assert.Equal(t, tt.want, decode[map[string]string](t, rec)["possessive"])
			}
		})
	}
}

func TestExportImport(t *testing.T) {
	src := newTestRouter(t)
	for _, body := range []string{`{"name":"Will St. Clair"}`, `{"name":"Baz"}`} {
		require.Equal(t, http.StatusCreated, do(t, src, http.MethodPost, "/api/people", body).Code)
	}

	rec := do(t, src, http.MethodGet, "/api/export?format=yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "name: Will St. Clair")

	dst := newTestRouter(t)
	imp := do(t, dst, http.MethodPost, "/api/import?format=yaml", rec.Body.String())
	require.Equal(t, http.StatusOK, imp.Code, imp.Body.String())
	assert.Equal(t, service.ImportResult{Imported: 2}, decode[service.ImportResult](t, imp))

	rec = do(t, dst, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"name": "Will St. Clair"`)
}

func TestImportErrors(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/import?format=csv", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/import", "{broken").Code)
}

func TestWriteServiceErrorMapping(t *testing.T) {
	h := &PeopleHandler{}

	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrInvalidArgument, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.writeServiceError(rec, "Failed", tt.err)
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
	}
}
