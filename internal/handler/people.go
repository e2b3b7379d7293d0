package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"nameofperson/internal/codec"
	"nameofperson/internal/domain"
	"nameofperson/internal/service"

	"github.com/go-chi/chi/v5"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// PeopleHandler handles people and name formatting requests
type PeopleHandler struct {
	svc           *service.PeopleService
	defaultFormat string
}

// NewPeopleHandler creates a new people handler. defaultFormat is used for
// export and import requests without a format parameter.
func NewPeopleHandler(svc *service.PeopleService, defaultFormat string) *PeopleHandler {
	if defaultFormat == "" {
		defaultFormat = "json"
	}
	return &PeopleHandler{svc: svc, defaultFormat: defaultFormat}
}

// PersonRequest is the body of create and rename requests
type PersonRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ListPeople returns every person, or the people matching ?mention=
func (h *PeopleHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	var (
		people []domain.Person
		err    error
	)
	if mention := r.URL.Query().Get("mention"); mention != "" {
		people, err = h.svc.FindByMention(r.Context(), mention)
	} else {
		people, err = h.svc.List(r.Context())
	}
	if err != nil {
		h.writeServiceError(w, "Failed to list people", err)
		return
	}

	writeJSON(w, people, http.StatusOK)
}

// CreatePerson stores a new person
func (h *PeopleHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req PersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	person, err := h.svc.Add(r.Context(), req.Name, req.Email)
	if err != nil {
		h.writeServiceError(w, "Failed to create person", err)
		return
	}

	writeJSON(w, person, http.StatusCreated)
}

// GetPerson returns a single person
func (h *PeopleHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get person", err)
		return
	}

	writeJSON(w, person, http.StatusOK)
}

// RenamePerson replaces the name of a person
func (h *PeopleHandler) RenamePerson(w http.ResponseWriter, r *http.Request) {
	var req PersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	person, err := h.svc.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.writeServiceError(w, "Failed to rename person", err)
		return
	}

	writeJSON(w, person, http.StatusOK)
}

// DeletePerson removes a person
func (h *PeopleHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to delete person", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFormats renders ?name= in every format
func (h *PeopleHandler) GetFormats(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}

	writeJSON(w, service.Formats(name), http.StatusOK)
}

// GetPossessive renders the possessive of ?name= in the ?as= format
func (h *PeopleHandler) GetPossessive(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}

	as := r.URL.Query().Get("as")
	if as == "" {
		as = string(domain.FormatFull)
	}
	format, err := domain.ParseNameFormat(as)
	if err != nil {
		writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	possessive, err := name.Possessive(format)
	if err != nil {
		writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]string{"format": string(format), "possessive": possessive}, http.StatusOK)
}

// Export writes every person in the requested format
func (h *PeopleHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, ok := h.codecParam(w, r)
	if !ok {
		return
	}

	if c.Format() == "yaml" {
		w.Header().Set("Content-Type", "application/x-yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	if err := h.svc.Export(r.Context(), c, w); err != nil {
		// headers are already sent
		log.Printf("Failed to export people: %v", err)
	}
}

// Import reads people from the request body
func (h *PeopleHandler) Import(w http.ResponseWriter, r *http.Request) {
	c, ok := h.codecParam(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Import(r.Context(), c, r.Body)
	if err != nil {
		writeError(w, "Failed to import people", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

func nameParam(w http.ResponseWriter, r *http.Request) (*domain.PersonName, bool) {
	name, err := domain.FromFull(r.URL.Query().Get("name"))
	if err == nil && name == nil {
		err = errors.New("name is required")
	}
	if err != nil {
		writeError(w, "Invalid name", err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return name, true
}

func (h *PeopleHandler) codecParam(w http.ResponseWriter, r *http.Request) (codec.Codec, bool) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = h.defaultFormat
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return c, true
}

// writeServiceError maps domain errors to status codes
func (h *PeopleHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
	default:
		log.Printf("%s: %v", msg, err)
		writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}
