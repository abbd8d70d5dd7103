// runner.go
//
// Run() executes a single scenario against an http.Handler.
// RunFlow() fires a flow file's scenarios in order, sharing captured values.
// RunDir() runs every flow file in a directory, each against a fresh handler.

package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// HandlerFactory builds an isolated handler (fresh database, fresh tokens)
// for one flow.
type HandlerFactory func(t *testing.T) http.Handler

// ─── Public API ───────────────────────────────────────────────────────────────

// Run executes a single scenario from a JSON file against the provided handler.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s, Vars{})
	})
}

// RunFlow executes the scenarios of a flow file in order. A failed step stops
// the flow since later steps usually depend on its captures.
func RunFlow(t *testing.T, handler http.Handler, flowPath string) Vars {
	t.Helper()

	steps, err := LoadFlow(flowPath)
	if err != nil {
		t.Fatalf("%v", err)
	}

	vars := Vars{}
	for _, s := range steps {
		if !t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s, vars)
		}) {
			t.Fatalf("testkit: step %q failed, skipping the rest of %s", s.Name, filepath.Base(flowPath))
		}
	}
	return vars
}

// RunDir discovers every *.json flow in dir and runs each as a t.Run subtest
// against its own handler from newHandler.
func RunDir(t *testing.T, newHandler HandlerFactory, dir string) {
	t.Helper()

	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		t.Fatalf("testkit: no flow files found in %q", dir)
	}

	for _, path := range entries {
		name := filepath.Base(path)
		t.Run(name[:len(name)-len(filepath.Ext(name))], func(t *testing.T) {
			RunFlow(t, newHandler(t), path)
		})
	}
}

// ─── Internal execution ───────────────────────────────────────────────────────

func runScenario(t *testing.T, handler http.Handler, s *Scenario, vars Vars) {
	t.Helper()

	// ── 1. Build request ──────────────────────────────────────────────────

	raw, err := s.RequestBody()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	var reqBody io.Reader
	if raw != nil {
		reqBody = bytes.NewReader([]byte(vars.Expand(string(raw))))
	}

	req := httptest.NewRequest(s.RequestMethod, vars.Expand(s.RequestURL), reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, vars.Expand(v))
	}

	// ── 2. Fire the request ───────────────────────────────────────────────

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	body := rec.Body.Bytes()

	// ── 3. Assert status code ─────────────────────────────────────────────

	AssertStatusCode(t, s, rec.Code, body)

	// ── 4. Assert response body ───────────────────────────────────────────

	if s.ExpectEmptyBody {
		AssertEmptyBody(t, s, body)
	}
	if len(s.Expect) > 0 {
		AssertJSONSubset(t, s, []byte(vars.Expand(string(s.Expect))), body)
	}
	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
		} else {
			AssertJSONBody(t, s, []byte(vars.Expand(string(expected))), body)
		}
	}

	// ── 5. Capture values for later steps ─────────────────────────────────

	if err := vars.Capture(body, s.Capture); err != nil {
		t.Errorf("[%s] %v\nbody: %s", s.Name, err, body)
	}
}

// ─── Debug helpers ────────────────────────────────────────────────────────────

// DumpScenario prints a human-readable summary of the scenario to w.
// Useful during test development to inspect what was loaded.
func DumpScenario(w io.Writer, s *Scenario) {
	fmt.Fprintf(w, "Scenario: %s\n", s.Name)
	fmt.Fprintf(w, "  %s %s → %d\n", s.RequestMethod, s.RequestURL, s.ExpectedCode)
	if len(s.Body) > 0 {
		fmt.Fprintf(w, "  body:         %s\n", s.Body)
	}
	fmt.Fprintf(w, "  requestFile:  %s\n", s.RequestFileName)
	fmt.Fprintf(w, "  responseFile: %s\n", s.ResponseFileName)
	for name, path := range s.Capture {
		fmt.Fprintf(w, "  capture: %s ← %s\n", name, path)
	}
}
