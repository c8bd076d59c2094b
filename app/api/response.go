package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/specscart/catalog-api/models"
	"github.com/specscart/catalog-api/pkg/logger"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []models.FieldError `json:"details,omitempty"`
}

// MessageResponse acknowledges an operation without returning an entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorMessages are the client-facing texts for each error class of one resource.
type ErrorMessages struct {
	NotFound  string
	Duplicate string
	Failure   string
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteValidationError answers 400 with every failing field.
func WriteValidationError(w http.ResponseWriter, err *models.ValidationError) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Details: err.Fields})
}

// WriteStoreError answers err with the status of its class. Unexpected errors are
// logged and answered with msgs.Failure only.
func WriteStoreError(w http.ResponseWriter, r *http.Request, err error, msgs ErrorMessages) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr)
	case errors.Is(err, models.ErrProductNotFound), errors.Is(err, models.ErrCategoryNotFound):
		WriteError(w, http.StatusNotFound, msgs.NotFound)
	case errors.Is(err, models.ErrDuplicateKey):
		WriteError(w, http.StatusBadRequest, msgs.Duplicate)
	default:
		logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg(msgs.Failure)
		WriteError(w, http.StatusInternalServerError, msgs.Failure)
	}
}

// ReadJSON decodes a single JSON value from the request body into data.
func ReadJSON(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must have only a single json value")
	}
	return nil
}
