package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/numera-market/numera/internal/apperr"
)

// maxJSONBody bounds request bodies of JSON endpoints.
const maxJSONBody = 1 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message})
}

// writeError maps a tagged error to its status code and safe message.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	if apperr.Retryable(err) {
		w.Header().Set("Retry-After", "1")
	}
	jsonResponse(w, status, errorBody{Error: apperr.Message(err), Fields: apperr.FieldsOf(err)})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(target)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return apperr.Validation("decode", "request body required", nil)
	}
	return apperr.Validation("decode", "invalid request body", nil)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("path", "invalid id", map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}

// emptyIfNil keeps JSON lists as [] instead of null.
func emptyIfNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
