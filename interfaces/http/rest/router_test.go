package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/coltranesx/Project-Area/application/commands/bus"
	cmdhandlers "github.com/coltranesx/Project-Area/application/commands/handlers"
	"github.com/coltranesx/Project-Area/application/editor"
	"github.com/coltranesx/Project-Area/application/ports"
	querybus "github.com/coltranesx/Project-Area/application/queries/bus"
	queryhandlers "github.com/coltranesx/Project-Area/application/queries/handlers"
	"github.com/coltranesx/Project-Area/domain/config"
	"github.com/coltranesx/Project-Area/infrastructure/persistence/kv"
	"github.com/coltranesx/Project-Area/infrastructure/storage"
	"github.com/coltranesx/Project-Area/interfaces/http/rest/middleware"
	apperrors "github.com/coltranesx/Project-Area/pkg/errors"
	"github.com/coltranesx/Project-Area/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, ports.Notice) {}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()

	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	collector := observability.NewCollector("test")
	registry := editor.NewRegistry(kv.NewMemory(), files, nopNotifier{}, nil, collector, config.DefaultEditorSettings(), logger)
	t.Cleanup(func() { registry.Close() })

	commandBus := bus.NewCommandBus(bus.LoggingMiddleware(logger))
	require.NoError(t, cmdhandlers.NewEditorHandlers(registry, logger).Register(commandBus))
	queryBus := querybus.NewQueryBus()
	require.NoError(t, queryhandlers.NewEditorQueries(registry).Register(queryBus))

	router := NewRouter(commandBus, queryBus, apperrors.NewErrorHandler(logger, false), Options{Metrics: collector}, logger)
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, workspace string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if workspace != "" {
		req.Header.Set(middleware.WorkspaceHeader, workspace)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func documentOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	doc, ok := body["document"].(map[string]any)
	require.True(t, ok, "response has no document: %v", body)
	return doc
}

func upload(t *testing.T, srv *httptest.Server, workspace, name, mediaType string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	header.Set("Content-Type", mediaType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/document/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.WorkspaceHeader, workspace)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	do(t, srv, http.MethodGet, "/api/v1/document", "", nil)
	resp = do(t, srv, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "test_http_requests_total")
}

func TestGetDocumentServesSeed(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/v1/document", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "default", body["workspaceId"])
	doc := documentOf(t, body)
	assert.Equal(t, "Yeni Proje", doc["projectName"])
	assert.Len(t, doc["nodes"], 2)
	assert.Len(t, doc["edges"], 1)
}

func TestNodeLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/v1/nodes", "w1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	node := decodeBody(t, resp)["node"].(map[string]any)
	id := node["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Yeni Başlık", node["data"].(map[string]any)["title"])

	resp = do(t, srv, http.MethodPatch, "/api/v1/nodes/"+id+"/title", "w1", map[string]string{"text": "Son"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodPatch, "/api/v1/nodes/"+id+"/label", "w1", map[string]string{"text": "Bitiş"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/nodes/"+id, "w1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["node"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "Son", data["title"])
	assert.Equal(t, "Bitiş", data["label"])

	long := strings.Repeat("a", 10001)
	resp = do(t, srv, http.MethodPatch, "/api/v1/nodes/"+id+"/title", "w1", map[string]string{"text": long})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, srv, http.MethodGet, "/api/v1/nodes/"+id, "w1", nil)
	assert.Equal(t, long, decodeBody(t, resp)["node"].(map[string]any)["data"].(map[string]any)["title"])

	resp = do(t, srv, http.MethodPost, "/api/v1/nodes/2/cycle-color", "w1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/nodes/missing", "w1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Other workspaces are untouched.
	resp = do(t, srv, http.MethodGet, "/api/v1/document", "w2", nil)
	assert.Len(t, documentOf(t, decodeBody(t, resp))["nodes"], 2)
}

func TestChangesAndConnections(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/v1/changes/nodes", "", []map[string]any{
		{"type": "select", "id": "1", "selected": true},
		{"type": "position", "id": "2", "position": map[string]float64{"x": 10, "y": 20}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, decodeBody(t, resp)["applied"])

	resp = do(t, srv, http.MethodPost, "/api/v1/nodes/delete-selected", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decodeBody(t, resp)["removed"])

	resp = do(t, srv, http.MethodPost, "/api/v1/connections", "", map[string]string{"source": "2", "target": "2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/v1/connections", "", map[string]string{"source": "2", "target": "2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["created"])

	resp = do(t, srv, http.MethodPost, "/api/v1/connections", "", map[string]string{"source": "2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/v1/changes/edges", "", []map[string]any{
		{"type": "remove", "id": "reactflow__edge-2-2"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decodeBody(t, resp)["applied"])
}

func TestRenameAndSave(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPut, "/api/v1/document/name", "", map[string]string{"name": "Oyun"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Oyun", documentOf(t, decodeBody(t, resp))["projectName"])

	long := strings.Repeat("x", 501)
	resp = do(t, srv, http.MethodPut, "/api/v1/document/name", "", map[string]string{"name": long})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, long, documentOf(t, decodeBody(t, resp))["projectName"])

	resp = do(t, srv, http.MethodPut, "/api/v1/document/name", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/v1/document/save", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestExportAndImport(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPut, "/api/v1/document/name", "w1", map[string]string{"name": "Yedek"})

	resp := do(t, srv, http.MethodPost, "/api/v1/document/export", "w1", map[string]string{"fileName": ""})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/v1/document/export", "w1", map[string]string{"fileName": "yedek"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="yedek.json"`)
	var exported bytes.Buffer
	_, err := exported.ReadFrom(resp.Body)
	require.NoError(t, err)

	resp = upload(t, srv, "w2", "yedek.json", "application/json", exported.Bytes())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Yedek", documentOf(t, decodeBody(t, resp))["projectName"])

	resp = upload(t, srv, "w2", "bozuk.json", "application/json", []byte(`{"nodes": []}`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = upload(t, srv, "w2", "resim.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Failed imports leave the document alone.
	resp = do(t, srv, http.MethodGet, "/api/v1/document", "w2", nil)
	assert.Equal(t, "Yedek", documentOf(t, decodeBody(t, resp))["projectName"])
}

func TestImportWithoutFileIsCancelled(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "empty"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/document/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestReset(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/v1/nodes", "", nil)

	resp := do(t, srv, http.MethodPost, "/api/v1/document/reset", "", map[string]bool{"confirm": false})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/document", "", nil)
	assert.Len(t, documentOf(t, decodeBody(t, resp))["nodes"], 3)

	resp = do(t, srv, http.MethodPost, "/api/v1/document/reset", "", map[string]bool{"confirm": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, documentOf(t, decodeBody(t, resp))["nodes"], 2)
}

func TestWorkspaceHeaderValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/v1/document", "a:b", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListWorkspaces(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodGet, "/api/v1/document", "b", nil)
	do(t, srv, http.MethodGet, "/api/v1/document", "a", nil)

	resp := do(t, srv, http.MethodGet, "/api/v1/workspaces", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"a", "b"}, decodeBody(t, resp)["workspaces"])
}

