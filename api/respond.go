package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/skyops/core/matching"
)

// errBadRequest marks malformed query parameters and bodies.
var errBadRequest = errors.New("bad request")

type panicError struct{ v any }

func (p panicError) Error() string { return fmt.Sprintf("panic: %v", p.v) }

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, matching.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, matching.ErrInvalidStatus), errors.Is(err, errBadRequest), errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, matching.ErrPartialAssignment):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server-side failures are
// reported to the monitor.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.mon.CaptureException(err, map[string]string{"route": r.URL.Path, "module": "api"})
		s.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeMessage(w, status, err.Error())
}

// decode reads a JSON body into dst and validates its struct tags.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return validate.Struct(dst)
}
