// suite.go
//
// Suite orchestration for data-driven REST API testing.

package testkit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// ConfigEntry represents a single flow in the master test_scenarios.json.
type ConfigEntry struct {
	ServiceName string `json:"serviceName"`
	FilePath    string `json:"filePath"`       // flow file, relative to the master config
	Skip        string `json:"skip,omitempty"` // non-empty skips the flow with this reason
}

// RunSuite executes the flows listed in a master JSON config file. Each flow
// gets its own handler from newHandler so state never leaks between flows.
func RunSuite(t *testing.T, masterConfigPath string, newHandler HandlerFactory) {
	t.Helper()

	absMasterPath, err := filepath.Abs(masterConfigPath)
	if err != nil {
		t.Fatalf("testkit: resolve master config path %q: %v", masterConfigPath, err)
	}

	data, err := os.ReadFile(absMasterPath)
	if err != nil {
		t.Fatalf("testkit: read master config %q: %v", absMasterPath, err)
	}

	var entries []ConfigEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("testkit: parse master config %q: %v", absMasterPath, err)
	}

	baseDir := filepath.Dir(absMasterPath)

	for _, entry := range entries {
		t.Run(entry.ServiceName, func(t *testing.T) {
			if entry.Skip != "" {
				t.Skip(entry.Skip)
			}
			flowPath := entry.FilePath
			if !filepath.IsAbs(flowPath) {
				flowPath = filepath.Join(baseDir, flowPath)
			}
			RunFlow(t, newHandler(t), flowPath)
		})
	}
}
