package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dockgrid/dockgrid/pkg/cache"
	"github.com/dockgrid/dockgrid/pkg/manifest"
	"github.com/dockgrid/dockgrid/pkg/pipeline"
	"github.com/dockgrid/dockgrid/pkg/session"
	"github.com/dockgrid/dockgrid/pkg/snapshot"
)

const testManifest = `
name = "test layout"

grid = [
    ["left", "main", "right"],
    ["left", "",     "right"],
]

[panes.main]
expand_vertical = true
fill_detached   = true
limit_left      = 1
limit_right     = 1
`

func newTestServer(t *testing.T) *server {
	t.Helper()

	def, reg, meta, err := manifest.Parse([]byte(testManifest))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	logger := log.NewWithOptions(io.Discard, log.Options{})
	return &server{
		def:    def,
		reg:    reg,
		meta:   meta,
		hash:   cache.Hash([]byte(testManifest)),
		runner: pipeline.NewRunner(nil, nil, logger),
		store:  session.NewMemoryStore(),
		logger: logger,
	}
}

func TestServeHealth(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestServeLayout(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/layout")
	if err != nil {
		t.Fatalf("GET /api/layout error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	// A session cookie is issued on first contact
	var found bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("response should set a session cookie")
	}

	var snap snapshot.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Panes) != 3 {
		t.Errorf("Panes = %d, want 3", len(snap.Panes))
	}
	if snap.Rows != 2 || snap.Cols != 3 {
		t.Errorf("grid = %dx%d, want 2x3", snap.Rows, snap.Cols)
	}
}

func TestServeDetachAttach(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).routes())
	defer srv.Close()

	jar := newCookieClient(t, srv)

	// Detach left
	resp, err := jar.Post(srv.URL+"/api/panes/left/detach", "", nil)
	if err != nil {
		t.Fatalf("POST detach error = %v", err)
	}
	var snap snapshot.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	resp.Body.Close()

	if len(snap.Detached) != 1 || snap.Detached[0] != "left" {
		t.Fatalf("Detached = %v, want [left]", snap.Detached)
	}

	// main claimed the vacancy
	placements := snap.Placements()
	main := placements["main"]
	if main.Col != 0 || main.ColSpan != 2 {
		t.Errorf(`Placements["main"] = %v, want col 0 span 2`, main)
	}

	// Attach restores the original layout
	resp, err = jar.Post(srv.URL+"/api/panes/left/attach", "", nil)
	if err != nil {
		t.Fatalf("POST attach error = %v", err)
	}
	snap = snapshot.Snapshot{}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	resp.Body.Close()

	if len(snap.Detached) != 0 {
		t.Errorf("Detached = %v, want empty", snap.Detached)
	}
}

func TestServeDetachUnknownPane(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/panes/nope/detach", "", nil)
	if err != nil {
		t.Fatalf("POST detach error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestServeReset(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).routes())
	defer srv.Close()

	jar := newCookieClient(t, srv)

	if _, err := jar.Post(srv.URL+"/api/panes/left/detach", "", nil); err != nil {
		t.Fatalf("POST detach error = %v", err)
	}

	resp, err := jar.Post(srv.URL+"/api/reset", "", nil)
	if err != nil {
		t.Fatalf("POST reset error = %v", err)
	}
	defer resp.Body.Close()

	var snap snapshot.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Detached) != 0 {
		t.Errorf("Detached after reset = %v, want empty", snap.Detached)
	}
}

func TestServeSVG(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/svg")
	if err != nil {
		t.Fatalf("GET /api/svg error = %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 || body[0] != '<' {
		t.Error("body should be an SVG document")
	}
}

func TestServeIndex(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "test layout") {
		t.Error("index page should contain the manifest name")
	}
	if !strings.Contains(string(body), "<svg") {
		t.Error("index page should embed the layout SVG")
	}
}

// newCookieClient returns an http.Client that keeps session cookies
// between requests.
func newCookieClient(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()
	client := srv.Client()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client.Jar = jar
	return client
}

func TestServeCommandFlags(t *testing.T) {
	cmd := New(io.Discard, LogInfo).serveCommand()

	tests := []struct {
		flag string
		def  string
	}{
		{"addr", ":8080"},
		{"no-cache", "false"},
		{"redis-addr", ""},
		{"mongo-uri", ""},
		{"session-dir", ""},
	}
	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("serve has no --%s flag", tt.flag)
			continue
		}
		if f.DefValue != tt.def {
			t.Errorf("--%s default = %q, want %q", tt.flag, f.DefValue, tt.def)
		}
	}
}

func TestServeFileSessionStore(t *testing.T) {
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	s := newTestServer(t)
	s.store = store

	srv := httptest.NewServer(s.routes())
	defer srv.Close()

	jar := newCookieClient(t, srv)

	resp, err := jar.Post(srv.URL+"/api/panes/left/detach", "", nil)
	if err != nil {
		t.Fatalf("POST detach error = %v", err)
	}
	resp.Body.Close()

	// The detached set survives the next request through the file store.
	resp, err = jar.Get(srv.URL + "/api/layout")
	if err != nil {
		t.Fatalf("GET layout error = %v", err)
	}
	var snap snapshot.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	resp.Body.Close()

	if len(snap.Detached) != 1 || snap.Detached[0] != "left" {
		t.Errorf("Detached = %v, want [left]", snap.Detached)
	}
}
