package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/padelpoint/tournament-system/repositories"
	"github.com/padelpoint/tournament-system/services"
)

type jsonResponse map[string]interface{}

// errorBody is the envelope every error response uses. Code is a stable
// machine-readable identifier; Message is for humans.
type errorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter: %q", param, raw)
	}
	return id, nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	if err = dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, body errorBody) {
	if err := writeJSON(w, status, jsonResponse{"error": body}, nil); err != nil {
		slog.Error("failed to write error response", "error", err, "path", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error", "error", err, "method", r.Method, "path", r.URL.Path)
	errorResponse(w, r, http.StatusInternalServerError, errorBody{
		Message: "the server encountered a problem and could not process your request",
	})
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, errorBody{Message: err.Error()})
}

// mapServiceErrorToHTTP translates service layer errors into HTTP responses.
// Business errors keep their code in the envelope; anything unrecognized is
// a 500 with a generic message.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	code := services.CodeFor(err)
	if code == "" {
		serverErrorResponse(w, r, err)
		return
	}

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, repositories.ErrDivisionNotFound),
		errors.Is(err, repositories.ErrMatchNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrDivisionHasMatches),
		errors.Is(err, services.ErrMatchAlreadyCompleted),
		errors.Is(err, repositories.ErrMatchCodeConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidMatchConfig),
		errors.Is(err, services.ErrInvalidScheduleParams):
		status = http.StatusUnprocessableEntity
	}

	errorResponse(w, r, status, errorBody{Code: code, Message: err.Error()})
}
