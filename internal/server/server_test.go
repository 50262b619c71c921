package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/internal/workspace"
	mosaicerrors "github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/mosaic"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *workspace.Workspace) {
	t.Helper()
	logger := log.New(io.Discard)
	ws, err := workspace.Open(context.Background(), store.NewMemoryStore(), "test", logger)
	if err != nil {
		t.Fatal(err)
	}
	tree := mosaic.HorizontalTree(
		mosaic.Leaf("sidebar"),
		mosaic.VerticalTree(mosaic.Leaf("editor"), mosaic.Leaf("console"), 60),
		25,
	)
	if err := ws.Replace(context.Background(), tree); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(ws, logger).Handler())
	t.Cleanup(srv.Close)
	return srv, ws
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func decodeError(t *testing.T, data []byte) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode error body %s: %v", data, err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	status, body := do(t, srv, http.MethodGet, "/healthz", "")
	if status != http.StatusOK || !strings.Contains(string(body), "ok") {
		t.Errorf("GET /healthz = %d %s", status, body)
	}
}

func TestReadRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := do(t, srv, http.MethodGet, "/layout/tiles", "")
	var tiles []mosaic.TileID
	if err := json.Unmarshal(body, &tiles); err != nil || status != http.StatusOK {
		t.Fatalf("GET /layout/tiles = %d %s", status, body)
	}
	if !slices.Equal(tiles, []mosaic.TileID{"sidebar", "editor", "console"}) {
		t.Errorf("tiles = %v", tiles)
	}

	status, body = do(t, srv, http.MethodGet, "/layout/tree", "")
	var tree mosaic.Tree
	if err := json.Unmarshal(body, &tree); err != nil || status != http.StatusOK {
		t.Fatalf("GET /layout/tree = %d %s", status, body)
	}
	if tree.SplitPercentage != 25 || len(tree.Tiles()) != 3 {
		t.Errorf("tree = %+v", tree)
	}

	status, body = do(t, srv, http.MethodGet, "/layout", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"next_id":5`) {
		t.Errorf("GET /layout = %d %s", status, body)
	}
}

func TestMutationRoutes(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		wantCode  int
		wantTiles []mosaic.TileID
	}{
		{"split", http.MethodPost, "/layout/split", `{"tile":"editor","direction":"vertical","new_tile":"preview","percentage":70}`,
			http.StatusOK, []mosaic.TileID{"sidebar", "editor", "preview", "console"}},
		{"close", http.MethodPost, "/layout/close", `{"tile":"sidebar"}`,
			http.StatusOK, []mosaic.TileID{"editor", "console"}},
		{"resize", http.MethodPost, "/layout/resize", `{"node":"node_0","percentage":40}`,
			http.StatusOK, []mosaic.TileID{"sidebar", "editor", "console"}},
		{"move", http.MethodPost, "/layout/move", `{"dragged":"sidebar","target":"console","zone":"right"}`,
			http.StatusOK, []mosaic.TileID{"editor", "console", "sidebar"}},
		{"lock", http.MethodPost, "/layout/lock", `{"node":"editor","locked":true}`,
			http.StatusOK, []mosaic.TileID{"sidebar", "editor", "console"}},
		{"replace tree", http.MethodPut, "/layout/tree", `{"Split":{"direction":"Vertical","first":{"Leaf":"a"},"second":{"Leaf":"b"},"split_percentage":30}}`,
			http.StatusOK, []mosaic.TileID{"a", "b"}},
		{"replace with null", http.MethodPut, "/layout/tree", `null`,
			http.StatusOK, []mosaic.TileID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, ws := newTestServer(t)
			status, body := do(t, srv, tt.method, tt.path, tt.body)
			if status != tt.wantCode {
				t.Fatalf("%s %s = %d %s", tt.method, tt.path, status, body)
			}
			var resp mutationResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(resp.Tiles, tt.wantTiles) {
				t.Errorf("response tiles = %v, want %v", resp.Tiles, tt.wantTiles)
			}
			if !slices.Equal(ws.Tiles(), tt.wantTiles) {
				t.Errorf("workspace tiles = %v, want %v", ws.Tiles(), tt.wantTiles)
			}
		})
	}
}

func TestResizeReportsClampedPercentage(t *testing.T) {
	srv, _ := newTestServer(t)
	_, body := do(t, srv, http.MethodPost, "/layout/resize", `{"node":"node_0","percentage":95}`)
	var resp mutationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Percentage == nil || *resp.Percentage != mosaic.SplitMaxPercentage {
		t.Errorf("percentage = %v, want 80", resp.Percentage)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   mosaicerrors.Code
	}{
		{"unknown tile", http.MethodPost, "/layout/close", `{"tile":"edtor"}`, http.StatusNotFound, mosaicerrors.ErrCodeNotFound},
		{"self move", http.MethodPost, "/layout/move", `{"dragged":"editor","target":"editor","zone":"top"}`, http.StatusBadRequest, mosaicerrors.ErrCodeInvalidOperation},
		{"bad zone", http.MethodPost, "/layout/move", `{"dragged":"editor","target":"console","zone":"middle"}`, http.StatusBadRequest, mosaicerrors.ErrCodeInvalidInput},
		{"bad direction", http.MethodPost, "/layout/split", `{"tile":"editor","direction":"diagonal"}`, http.StatusBadRequest, mosaicerrors.ErrCodeInvalidInput},
		{"missing percentage", http.MethodPost, "/layout/resize", `{"node":"node_0"}`, http.StatusBadRequest, mosaicerrors.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/layout/close", `{"tile":"editor","force":true}`, http.StatusBadRequest, mosaicerrors.ErrCodeInvalidInput},
		{"bad tree", http.MethodPut, "/layout/tree", `{"Split":{"direction":"Vertical","first":{"Leaf":"a"}}}`, http.StatusBadRequest, mosaicerrors.ErrCodeInvalidInput},
		{"bad snapshot", http.MethodPut, "/layout", `{"nodes":{},"root":"node_1","next_id":0}`, http.StatusBadRequest, mosaicerrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			status, body := do(t, srv, tt.method, tt.path, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", status, tt.wantStatus, body)
			}
			if got := decodeError(t, body); got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}

	t.Run("locked close", func(t *testing.T) {
		srv, _ := newTestServer(t)
		do(t, srv, http.MethodPost, "/layout/lock", `{"node":"editor","locked":true}`)
		status, body := do(t, srv, http.MethodPost, "/layout/close", `{"tile":"editor"}`)
		if status != http.StatusConflict || decodeError(t, body).Code != mosaicerrors.ErrCodeLocked {
			t.Errorf("close locked = %d %s", status, body)
		}
	})

	t.Run("suggestions", func(t *testing.T) {
		srv, _ := newTestServer(t)
		_, body := do(t, srv, http.MethodPost, "/layout/close", `{"tile":"consol"}`)
		if got := decodeError(t, body).Suggestions; !slices.Equal(got, []string{"console"}) {
			t.Errorf("suggestions = %v", got)
		}
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	srv, ws := newTestServer(t)
	_, snapshot := do(t, srv, http.MethodGet, "/layout", "")

	if status, _ := do(t, srv, http.MethodDelete, "/layout", ""); status != http.StatusNoContent {
		t.Fatalf("DELETE /layout = %d", status)
	}
	if len(ws.Tiles()) != 0 {
		t.Fatal("layout not cleared")
	}

	if status, body := do(t, srv, http.MethodPut, "/layout", string(snapshot)); status != http.StatusOK {
		t.Fatalf("PUT /layout = %d %s", status, body)
	}
	_, restored := do(t, srv, http.MethodGet, "/layout", "")
	if string(restored) != string(snapshot) {
		t.Errorf("restored snapshot differs:\n%s\n%s", restored, snapshot)
	}
}

type recordingHTTPHooks struct {
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestInstrumentEmitsHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv, _ := newTestServer(t)
	do(t, srv, http.MethodGet, "/healthz", "")
	do(t, srv, http.MethodPost, "/layout/close", `{"tile":"ghost"}`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if !slices.Equal(hooks.statuses, []int{http.StatusOK, http.StatusNotFound}) {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}

func TestServe_Shutdown(t *testing.T) {
	ws, err := workspace.Open(context.Background(), store.NewMemoryStore(), "test", log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(ws, log.New(io.Discard)).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
