package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5/middleware" // For RequestID
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1_048_576

// WriteText writes a plain-text response. Extra headers are set before the status line.
func WriteText(w http.ResponseWriter, r *http.Request, status int, message string, headers ...http.Header) {
	for _, h := range headers {
		for k, vs := range h {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if status == http.StatusNoContent || message == "" {
		return
	}
	if _, err := io.WriteString(w, message); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// WriteHTML writes a rendered page with a 200 status.
func WriteHTML(w http.ResponseWriter, r *http.Request, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// ErrorResponse writes a plain-text error carrying the request ID when one is set.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		message = fmt.Sprintf("%s (request %s)", message, reqID)
	}
	WriteText(w, r, status, message)
}

// DecodeJSONBody reads and decodes a JSON request body safely. Unknown keys
// are rejected. When allowedKeys is given, top-level object keys must match
// one of them exactly (case-sensitive) and appear at most once.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}, allowedKeys ...string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		}
		return fmt.Errorf("error reading body: %w", err)
	}

	if len(allowedKeys) > 0 {
		if err = checkObjectKeys(data, allowedKeys); err != nil {
			return err
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err = dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q (wanted %s)", unmarshalTypeError.Field, unmarshalTypeError.Type)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			fieldName = strings.Trim(fieldName, `"`)
			return fmt.Errorf("body contains unknown key %q", fieldName)

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

		case errors.As(err, &invalidUnmarshalError):
			panic(fmt.Errorf("developer error: invalid argument passed to json.Unmarshal: %w", err))

		default:
			return fmt.Errorf("error decoding JSON body: %w", err)
		}
	}

	// Check for trailing data after the first JSON object
	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// checkObjectKeys rejects keys outside allowed and repeated keys. encoding/json
// matches struct fields case-insensitively and keeps the last duplicate, so
// both are caught here. Malformed input is left for the decoder to report.
func checkObjectKeys(data []byte, allowed []string) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}

	seen := make(map[string]struct{}, len(allowed))
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil
		}
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("body contains unknown key %q", key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("body contains duplicate key %q", key)
		}
		seen[key] = struct{}{}

		var skip json.RawMessage
		if err = dec.Decode(&skip); err != nil {
			return nil
		}
	}
	return nil
}
