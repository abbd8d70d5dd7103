// Package testkit provides a JSON-scenario-driven REST API testing framework.
//
// A flow file is a JSON array of scenarios fired in order against one
// handler. Each scenario describes:
//   - The HTTP request to fire (method, URL, inline body or body file, headers)
//   - Expected HTTP status code
//   - Expected response body: a subset ("expect") or an exact file
//   - Values to capture from the response for later steps
//
// Captured values are substituted into later URLs, headers and bodies with
// {{name}} placeholders:
//
//	[
//	  {"name": "login", "requestMethod": "POST", "requestUrl": "/api/login",
//	   "body": {"email": "a@b.co", "password": "secret"},
//	   "expectedCode": 200, "capture": {"token": "token"}},
//	  {"name": "meals", "requestUrl": "/api/meals",
//	   "headers": {"Authorization": "Bearer {{token}}"},
//	   "expectedCode": 200, "expect": {"meals": []}}
//	]
//
// Example _test.go:
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, newHandler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Scenario describes a single REST API call and its assertions.
type Scenario struct {
	// Meta
	Name        string `json:"name"`
	Description string `json:"description"`

	// Request
	RequestMethod   string            `json:"requestMethod"`   // GET, POST, PUT, PATCH, DELETE
	RequestURL      string            `json:"requestUrl"`      // e.g. /api/meals/{{meal}}
	Body            json.RawMessage   `json:"body"`            // inline JSON request body
	RequestFileName string            `json:"requestFileName"` // path to JSON request body file (relative to scenario dir)
	Headers         map[string]string `json:"headers"`         // extra request headers

	// Response assertions
	ResponseFileName   string          `json:"responseFileName"`   // exact expected response JSON file
	Expect             json.RawMessage `json:"expect"`             // expected subset of the response body
	ExpectEmptyBody    bool            `json:"expectEmptyBody"`    // response body must be empty
	ExpectedCode       int             `json:"expectedCode"`       // expected HTTP status code
	ExpectedStatusCode int             `json:"expectedStatusCode"` // alias for expected HTTP status code

	// Capture maps a variable name to a dotted path in the response body,
	// e.g. {"meal": "meal.id", "first": "todayList.0.id"}.
	Capture map[string]string `json:"capture"`

	// resolved at load time, not in JSON
	dir string // directory of the scenario file
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadScenario reads and validates a single scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}
	return &s, nil
}

// LoadFlow reads an ordered array of scenarios from a JSON file.
func LoadFlow(path string) ([]*Scenario, error) {
	abs, data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var scenarios []*Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("testkit: parse flow %q: %w", abs, err)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("testkit: flow %q has no steps", abs)
	}

	dir := filepath.Dir(abs)
	for i, s := range scenarios {
		s.dir = dir
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: flow %q step %d: %w", abs, i, err)
		}
	}
	return scenarios, nil
}

func readFile(path string) (string, []byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}
	return abs, data, nil
}

// validate performs basic sanity checks and fills defaults.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = s.ExpectedStatusCode
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	s.RequestMethod = strings.ToUpper(s.RequestMethod)
	if len(s.Body) > 0 && s.RequestFileName != "" {
		return fmt.Errorf("body and requestFileName are mutually exclusive")
	}
	return nil
}

// RequestBody returns the raw request body, from the inline body or the
// request file. Returns nil when neither is set.
func (s *Scenario) RequestBody() ([]byte, error) {
	if len(s.Body) > 0 {
		return s.Body, nil
	}
	if p := s.RequestBodyPath(); p != "" {
		return os.ReadFile(p)
	}
	return nil, nil
}

// RequestBodyPath returns the absolute path to the request body file,
// resolved relative to the scenario file's directory.
// Returns "" when RequestFileName is not set.
func (s *Scenario) RequestBodyPath() string {
	return s.resolve(s.RequestFileName)
}

// ResponseBodyPath returns the absolute path to the expected response file.
// Returns "" when ResponseFileName is not set.
func (s *Scenario) ResponseBodyPath() string {
	return s.resolve(s.ResponseFileName)
}

func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
