package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ghostDocument = `{
  "name": "Ghosts",
  "timestamp": "2024-03-01T12:00:00.000Z",
  "nodes": [
    {"id": "a", "type": "custom", "position": {"x": 0, "y": 0}, "data": {"label": "Ghost", "componentKey": "Ghost"}},
    {"id": "b", "type": "custom", "position": {"x": 10, "y": 20}, "data": {"label": "Timer", "componentKey": "Timer"}}
  ],
  "edges": [
    {"id": "e1", "source": "a", "target": "b", "animated": true},
    {"id": "e2", "source": "b", "target": "b", "animated": true},
    {"id": "e3", "source": "b", "target": "zzz", "animated": true}
  ]
}`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WORKFLOW_CONFIG", "")
	t.Setenv("LOG_LEVEL", "")

	var out bytes.Buffer
	root := NewRootCommand(io.Discard)
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestInspect(t *testing.T) {
	out, err := runCLI(t, "inspect", writeDoc(t, ghostDocument))
	require.NoError(t, err)

	assert.Contains(t, out, "Ghosts: 2 nodes, 3 edges, 1 unresolved")
	assert.Contains(t, out, `Component "Ghost" not found`)
	assert.Contains(t, out, "(10, 20)")
}

func TestInspect_Malformed(t *testing.T) {
	_, err := runCLI(t, "inspect", writeDoc(t, `{"foo": 1}`))
	assert.ErrorContains(t, err, "malformed document")
}

func TestCheck(t *testing.T) {
	path := writeDoc(t, ghostDocument)

	out, err := runCLI(t, "check", path)
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(out, "dangling"))
	assert.NotContains(t, out, "self-loop")

	out, err = runCLI(t, "check", "--strict", path)
	require.Error(t, err)
	assert.Contains(t, out, "self-loop\te2")
}

func TestCheck_Clean(t *testing.T) {
	out, err := runCLI(t, "check", writeDoc(t, `{"name":"Clean","nodes":[],"edges":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "Clean: ok\n", out)
}

func TestFilename(t *testing.T) {
	out, err := runCLI(t, "filename", "My Flow")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "my_flow_"))
	assert.True(t, strings.HasSuffix(out, ".json\n"))
}
