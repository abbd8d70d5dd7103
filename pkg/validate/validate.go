// Package validate provides Laravel-style validation of decoded JSON payloads.
//
// Rules are declared on the destination struct with a comma-separated
// `validate` tag and evaluated against the raw payload, so a field that was
// never sent can be told apart from one sent as null:
//
//	required            field must be present and non-empty
//	string              value must be a JSON string
//	email               value must be a valid email address
//	integer             JSON integer or integer string ("12")
//	numeric             any JSON number or numeric string
//	confirmed           value must equal the sibling <field>_confirmation
//	unique=table.column no row may already hold the value (needs a PresenceVerifier)
//
// Rules other than required are skipped when the field is absent. A failing
// required stops the remaining rules for that field; every other failure is
// collected.
//
// Example:
//
//	type RegisterInput struct {
//	    Name     string `json:"name"     validate:"required,string"`
//	    Email    string `json:"email"    validate:"required,string,email,unique=users.email"`
//	    Password string `json:"password" validate:"required,string,confirmed"`
//	}
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
)

// PresenceVerifier backs the unique rule.
type PresenceVerifier interface {
	Exists(ctx context.Context, table, column string, value any) (bool, error)
}

// ErrNoPresenceVerifier is returned when a unique rule runs without a verifier in the context.
var ErrNoPresenceVerifier = errors.New("validate: unique rule requires a PresenceVerifier")

type presenceKey struct{}

// WithPresenceVerifier stores p in ctx for the unique rule.
func WithPresenceVerifier(ctx context.Context, p PresenceVerifier) context.Context {
	return context.WithValue(ctx, presenceKey{}, p)
}

// Middleware makes p available to every request validated downstream.
func Middleware(p PresenceVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithPresenceVerifier(r.Context(), p)))
		})
	}
}

func presenceFrom(ctx context.Context) PresenceVerifier {
	p, _ := ctx.Value(presenceKey{}).(PresenceVerifier)
	return p
}

// ─── Errors ───────────────────────────────────────────────────────────────────

// Errors holds per-field failure messages in the order fields were checked.
type Errors struct {
	order  []string
	fields map[string][]string
}

// Add appends msg to field.
func (e *Errors) Add(field, msg string) {
	if e.fields == nil {
		e.fields = make(map[string][]string)
	}
	if _, ok := e.fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.fields[field] = append(e.fields[field], msg)
}

// Has reports whether field has at least one message.
func (e *Errors) Has(field string) bool {
	if e == nil {
		return false
	}
	return len(e.fields[field]) > 0
}

// Get returns the messages recorded for field.
func (e *Errors) Get(field string) []string {
	if e == nil {
		return nil
	}
	return e.fields[field]
}

// First returns the first message of the first failing field.
func (e *Errors) First() string {
	if e == nil || len(e.order) == 0 {
		return ""
	}
	return e.fields[e.order[0]][0]
}

// Map returns the field → messages view used in 422 bodies.
func (e *Errors) Map() map[string][]string {
	if e == nil {
		return map[string][]string{}
	}
	return e.fields
}

func (e *Errors) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Map())
}

func (e *Errors) Error() string { return e.First() }

// HasErrors reports whether errs carries any message.
func HasErrors(errs *Errors) bool { return errs != nil && len(errs.order) > 0 }

// ─── Public API ───────────────────────────────────────────────────────────────

// Payload validates data against the `validate` tags of dest. When every rule
// passes, the validated keys (and only those) are normalised and decoded into
// dest. The returned error is reserved for infrastructure failures such as a
// presence lookup that could not run.
func Payload(ctx context.Context, data map[string]any, dest any) (*Errors, error) {
	rt := reflect.TypeOf(dest)
	if rt == nil || rt.Kind() != reflect.Ptr || rt.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("validate: dest must be a pointer to struct, got %T", dest)
	}
	rt = rt.Elem()

	input := normaliseInput(data)
	errs := &Errors{}
	validated := make(map[string]any)

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		rules := strings.Split(tag, ",")
		value, present := input[name]

		for _, rule := range rules {
			key, param, _ := strings.Cut(strings.TrimSpace(rule), "=")
			if key != "required" && !present {
				continue
			}

			msg, err := applyRule(ctx, key, param, name, value, input)
			if err != nil {
				return nil, err
			}
			if msg == "" {
				continue
			}
			errs.Add(name, msg)
			if key == "required" {
				break
			}
		}

		if present && !errs.Has(name) {
			validated[name] = coerce(value, rules)
		}
	}

	if HasErrors(errs) {
		return errs, nil
	}

	raw, err := json.Marshal(validated)
	if err != nil {
		return nil, fmt.Errorf("validate: encode validated payload: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return nil, fmt.Errorf("validate: decode into %T: %w", dest, err)
	}
	return nil, nil
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(ctx context.Context, rule, param, field string, v any, input map[string]any) (string, error) {
	label := strings.ReplaceAll(field, "_", " ")

	switch rule {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", label), nil
		}

	case "string":
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("The %s field must be a string.", label), nil
		}

	case "email":
		s, _ := v.(string)
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return fmt.Sprintf("The %s field must be a valid email address.", label), nil
		}

	case "integer":
		if _, ok := toInt(v); !ok {
			return fmt.Sprintf("The %s field must be an integer.", label), nil
		}

	case "numeric":
		if _, ok := toFloat(v); !ok {
			return fmt.Sprintf("The %s field must be a number.", label), nil
		}

	case "confirmed":
		other, ok := input[field+"_confirmation"]
		if !ok || fmt.Sprint(other) != fmt.Sprint(v) {
			return fmt.Sprintf("The %s field confirmation does not match.", label), nil
		}

	case "unique":
		table, column, ok := strings.Cut(param, ".")
		if !ok {
			column = field
		}
		if !isScalar(v) {
			return "", nil
		}
		p := presenceFrom(ctx)
		if p == nil {
			return "", ErrNoPresenceVerifier
		}
		exists, err := p.Exists(ctx, table, column, v)
		if err != nil {
			return "", err
		}
		if exists {
			return fmt.Sprintf("The %s has already been taken.", label), nil
		}

	default:
		return "", fmt.Errorf("validate: unknown rule %q on %s", rule, field)
	}

	return "", nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// normaliseInput trims strings and turns empty strings into null. Password
// fields are left untouched.
func normaliseInput(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		s, ok := v.(string)
		if !ok || strings.Contains(k, "password") {
			out[k] = v
			continue
		}
		if s = strings.TrimSpace(s); s == "" {
			out[k] = nil
		} else {
			out[k] = s
		}
	}
	return out
}

// coerce converts integer and numeric strings into JSON numbers so they can
// be decoded into typed fields.
func coerce(v any, rules []string) any {
	for _, r := range rules {
		switch strings.TrimSpace(r) {
		case "integer":
			if n, ok := toInt(v); ok {
				return n
			}
		case "numeric":
			if f, ok := toFloat(v); ok {
				return f
			}
		}
	}
	return v
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, json.Number, float64, int64, int:
		return true
	}
	return false
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := strconv.ParseInt(t.String(), 10, 64)
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
	case int64:
		return t, true
	case int:
		return int64(t), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	}
	return 0, false
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}
