package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory workflow.Repository.
type memRepo struct {
	mu   sync.Mutex
	docs map[string]*workflow.Document
}

func newMemRepo() *memRepo { return &memRepo{docs: map[string]*workflow.Document{}} }

func (m *memRepo) CreateSchema(context.Context) error { return nil }
func (m *memRepo) DropSchema(context.Context) error   { return nil }

func (m *memRepo) SaveDocument(_ context.Context, id string, doc *workflow.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		id = "generated"
	}
	m.docs[id] = doc
	return id, nil
}

func (m *memRepo) GetDocument(_ context.Context, id string) (*workflow.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, workflow.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *memRepo) ListDocuments(context.Context) ([]workflow.DocumentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []workflow.DocumentInfo{}
	for id, d := range m.docs {
		out = append(out, workflow.DocumentInfo{ID: id, Name: d.Name, NodeCount: len(d.Nodes), EdgeCount: len(d.Edges)})
	}
	return out, nil
}

func (m *memRepo) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func newTestApp(t *testing.T, repo workflow.Repository) *fiber.App {
	t.Helper()
	reg := workflow.NewMapRegistry(
		workflow.Descriptor{Key: "Timer", Label: "Timer"},
		workflow.Descriptor{Key: "Logger", Label: "Logger"},
	)
	return newApp(reg, repo, log.New(io.Discard))
}

func do(t *testing.T, app *fiber.App, method, target, body string, session ...string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(session) > 0 {
		req.Header.Set(SessionHeader, session[0])
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestServer_DropConnectExportImport(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := do(t, app, "POST", "/workflow/drop",
		`{"componentKey":"Timer","clientX":220,"clientY":130,"originX":100,"originY":50}`)
	require.Equal(t, 201, resp.StatusCode, string(body))
	var a workflow.Node
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, workflow.Position{X: 120, Y: 80}, a.Position)
	assert.True(t, a.Resolved)

	resp, body = do(t, app, "POST", "/workflow/drop", `{"componentKey":"Logger","clientX":0,"clientY":0}`)
	require.Equal(t, 201, resp.StatusCode)
	var b workflow.Node
	require.NoError(t, json.Unmarshal(body, &b))

	resp, _ = do(t, app, "POST", "/workflow/connect",
		`{"source":"`+a.ID+`","sourceHandle":"bottom","target":"`+b.ID+`","targetHandle":"top"}`)
	require.Equal(t, 201, resp.StatusCode)

	resp, _ = do(t, app, "PUT", "/workflow/name", `{"name":"My Flow"}`)
	require.Equal(t, 204, resp.StatusCode)

	resp, exported := do(t, app, "GET", "/workflow/export", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "my_flow_")

	resp, body = do(t, app, "POST", "/workflow/import", string(exported), "fresh")
	require.Equal(t, 200, resp.StatusCode, string(body))
	var res workflow.ImportResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, workflow.ImportResult{Name: "My Flow", Nodes: 2, Edges: 1}, res)

	resp, body = do(t, app, "GET", "/workflow", "", "fresh")
	require.Equal(t, 200, resp.StatusCode)
	var view workflowView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, "My Flow", view.Name)
	assert.Len(t, view.Nodes, 2)
	assert.Len(t, view.Edges, 1)
}

func TestServer_Errors(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := do(t, app, "POST", "/workflow/drop", `{"componentKey":"Ghost"}`)
	assert.Equal(t, 422, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/workflow/import", `{"foo": 1}`)
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = do(t, app, "PATCH", "/workflow/nodes/nope", `{"x":1,"y":2}`)
	assert.Equal(t, 404, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/workflow/edges/nope", "")
	assert.Equal(t, 404, resp.StatusCode)
}

func TestServer_ClearNeedsConfirmation(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := do(t, app, "DELETE", "/workflow", "")
	assert.Equal(t, 204, resp.StatusCode, "empty canvas clears without asking")

	resp, _ = do(t, app, "POST", "/workflow/drop", `{"componentKey":"Timer"}`)
	require.Equal(t, 201, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/workflow", "")
	assert.Equal(t, 409, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/workflow?confirm=true", "")
	assert.Equal(t, 204, resp.StatusCode)

	_, body := do(t, app, "GET", "/workflow", "")
	assert.JSONEq(t, `{"name":"Untitled Workflow","nodes":[],"edges":[]}`, string(body))
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := do(t, app, "POST", "/workflow/drop", `{"componentKey":"Timer"}`, "alice")
	require.Equal(t, 201, resp.StatusCode)

	_, body := do(t, app, "GET", "/workflow", "", "bob")
	var view workflowView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Empty(t, view.Nodes)
}

func TestServer_Archive(t *testing.T) {
	repo := newMemRepo()
	app := newTestApp(t, repo)

	resp, _ := do(t, app, "POST", "/workflow/drop", `{"componentKey":"Timer"}`)
	require.Equal(t, 201, resp.StatusCode)

	resp, body := do(t, app, "POST", "/archive?id=saved", "")
	require.Equal(t, 201, resp.StatusCode)
	assert.JSONEq(t, `{"id":"saved"}`, string(body))

	resp, body = do(t, app, "POST", "/archive/saved/load", "", "other")
	require.Equal(t, 200, resp.StatusCode, string(body))

	_, body = do(t, app, "GET", "/workflow", "", "other")
	var view workflowView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Len(t, view.Nodes, 1)

	resp, _ = do(t, app, "GET", "/archive/missing", "")
	assert.Equal(t, 404, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/archive/saved", "")
	assert.Equal(t, 204, resp.StatusCode)
	_, body = do(t, app, "GET", "/archive", "")
	assert.JSONEq(t, `[]`, string(body))
}

func TestServer_Components(t *testing.T) {
	app := newTestApp(t, nil)
	_, body := do(t, app, "GET", "/components", "")
	var got []workflow.Descriptor
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Logger", got[0].Key)
	assert.Equal(t, "Timer", got[1].Key)
}

func TestServer_EndSession(t *testing.T) {
	reg := workflow.NewMapRegistry(workflow.Descriptor{Key: "Timer"})
	app, eds := newAppWithEditors(reg, nil, log.New(io.Discard))

	resp, _ := do(t, app, "POST", "/workflow/drop", `{"componentKey":"Timer"}`, "temp")
	require.Equal(t, 201, resp.StatusCode)
	require.Equal(t, 1, eds.len())

	resp, _ = do(t, app, "DELETE", "/session", "", "temp")
	assert.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, 0, eds.len())

	resp, _ = do(t, app, "DELETE", "/session", "", "temp")
	assert.Equal(t, 404, resp.StatusCode)

	_, body := do(t, app, "GET", "/workflow", "", "temp")
	var view workflowView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Empty(t, view.Nodes)
}
