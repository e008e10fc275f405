package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cloakchat/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain taxonomy onto HTTP status codes. The
// error text is safe to echo; driver details never reach this layer.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity), errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrWeakCredential), errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrUnsafeContent), errors.Is(err, domain.ErrSelfReference):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthFailure):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	http.Error(w, err.Error(), status)
}
