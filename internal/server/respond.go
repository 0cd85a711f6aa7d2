package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/abhisek/kidtimer/internal/logger"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tracker.ErrSessionActive),
		errors.Is(err, tracker.ErrNoActiveSession),
		errors.Is(err, store.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrActivityNotFound),
		errors.Is(err, tracker.ErrRewardNotFound),
		errors.Is(err, tracker.ErrLogNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrSessionTooShort):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tracker.ErrInvalidInput), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// not echoed to the client.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

var errBadRequest = errors.New("bad request")

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	err := decodeRequired(w, r, v, limit)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// decodeRequired is decode for endpoints where an empty body is an error.
// The returned error wraps both errBadRequest and io.EOF in that case.
func decodeRequired(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body: %w", errBadRequest, io.EOF)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
