package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validator.ValidationErrors{{Field: name, Message: name + " must be a number"}}
	}
	return v, nil
}

// pathID reads an id path parameter. An id that is not a UUID cannot name a
// stored row, so it yields notFound.
func pathID(r *http.Request, name string, notFound error) (string, error) {
	id := chi.URLParam(r, name)
	if !validator.IsValidUUID(id) {
		return "", notFound
	}
	return id, nil
}

// checkUUID rejects a supplied id that is not a UUID. Empty is left to the
// request's own validation.
func checkUUID(field, id string) error {
	if id == "" || validator.IsValidUUID(id) {
		return nil
	}
	return validator.ValidationErrors{{Field: field, Message: field + " must be a valid UUID"}}
}
