package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tokencheck/internal/testutil"
)

const (
	fixtureSchemas = "../../testdata/tokens"
	stylesDir      = "../../testdata/styles"
	suitesDir      = "../../testdata/suites"
)

// execute runs the root command with an empty config file so the
// repository's tokencheck.toml does not leak into tests.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "tokencheck.toml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o644))
	return executeWithConfig(t, cfg, args...)
}

func executeWithConfig(t *testing.T, cfg string, args ...string) (string, string, error) {
	t.Helper()
	opts := &RootOptions{IDs: testutil.NewFixedIDGenerator("run-1")}
	cmd := newRootCommand(opts)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

type response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
	RunID  string          `json:"run_id"`
}

func decodeResponse(t *testing.T, out string) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
