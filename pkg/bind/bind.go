// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/nutritrack/config"
	"github.com/shashiranjanraj/nutritrack/pkg/validate"
)

// JSON decodes r.Body as a JSON object and validates it against dest's tags.
// The body is capped at MAX_BODY_BYTES (default 4 MB). An empty body is
// treated as {} so that required rules report missing fields.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed or too large.
func JSON(r *http.Request, dest any) (*validate.Errors, error) {
	data, err := decodeObject(http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes()))
	if err != nil {
		return nil, err
	}
	return validate.Payload(r.Context(), data, dest)
}

// MalformedError marks a body that could not be read as a JSON object.
type MalformedError struct{ Err error }

func (e *MalformedError) Error() string { return e.Err.Error() }
func (e *MalformedError) Unwrap() error { return e.Err }

func decodeObject(body io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &MalformedError{fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)}
		}
		return nil, &MalformedError{fmt.Errorf("read body: %w", err)}
	}

	data := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, &MalformedError{fmt.Errorf("invalid JSON: %w", err)}
	}
	return data, nil
}
