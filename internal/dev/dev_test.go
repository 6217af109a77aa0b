package dev

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vcrobe/nojs-elements/internal/config"
	"github.com/vcrobe/nojs-elements/internal/errors"
)

func TestFindWasmExec(t *testing.T) {
	tests := []struct {
		name string
		dir  string
	}{
		{"lib layout", filepath.Join("lib", "wasm")},
		{"misc layout", filepath.Join("misc", "wasm")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goroot := t.TempDir()
			want := filepath.Join(goroot, tt.dir, WasmExecFile)
			if err := os.MkdirAll(filepath.Dir(want), 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(want, []byte("// go"), 0644); err != nil {
				t.Fatal(err)
			}

			got, err := FindWasmExec(goroot)
			if err != nil {
				t.Fatalf("FindWasmExec error: %v", err)
			}
			if got != want {
				t.Errorf("Expected %q, got %q", want, got)
			}
		})
	}
}

func TestFindWasmExecMissing(t *testing.T) {
	_, err := FindWasmExec(t.TempDir())

	if !errors.HasCode(err, "E021") {
		t.Errorf("Expected E021, got %v", err)
	}
}

func TestPrepareWritesSupportFiles(t *testing.T) {
	goroot := t.TempDir()
	src := filepath.Join(goroot, "lib", "wasm", WasmExecFile)
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("// wasm_exec"), 0644); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	c := NewCompiler(CompilerConfig{OutputDir: out, GOROOT: goroot, Title: "demo"})

	if err := c.Prepare(context.Background(), true); err != nil {
		t.Fatalf("Prepare error: %v", err)
	}

	copied, err := os.ReadFile(filepath.Join(out, WasmExecFile))
	if err != nil || string(copied) != "// wasm_exec" {
		t.Errorf("Expected wasm_exec.js to be copied, got %q (%v)", copied, err)
	}
	page, err := os.ReadFile(filepath.Join(out, IndexFile))
	if err != nil {
		t.Fatalf("index.html missing: %v", err)
	}
	for _, want := range []string{"<title>demo</title>", `fetch("main.wasm")`, ReloadPath} {
		if !bytes.Contains(page, []byte(want)) {
			t.Errorf("Expected index.html to contain %q", want)
		}
	}
}

func TestBuildArgs(t *testing.T) {
	c := NewCompiler(CompilerConfig{
		OutputDir: "out",
		Entry:     "./cmd/helloworld",
		Tags:      []string{"dev", "extra"},
		LDFlags:   "-X main.variant=script",
	})

	got := strings.Join(c.buildArgs(), " ")

	want := "build -o " + filepath.Join("out", "main.wasm") + " -tags dev,extra -ldflags -X main.variant=script ./cmd/helloworld"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestInjectReloadClient(t *testing.T) {
	page, err := RenderIndex(IndexData{Title: "demo"})
	if err != nil {
		t.Fatalf("RenderIndex error: %v", err)
	}

	injected, err := InjectReloadClient(page)
	if err != nil {
		t.Fatalf("InjectReloadClient error: %v", err)
	}

	s := string(injected)
	script := strings.Index(s, ReloadPath)
	body := strings.Index(s, "</body>")
	if script < 0 || body < 0 || script > body {
		t.Errorf("Expected reload client inside body, got:\n%s", s)
	}

	again, err := InjectReloadClient(injected)
	if err != nil {
		t.Fatalf("second InjectReloadClient error: %v", err)
	}
	if strings.Count(string(again), ReloadPath) != 1 {
		t.Error("Expected reload client to be injected once")
	}
}

func TestReloadServerBroadcast(t *testing.T) {
	rs := NewReloadServer(nil)
	srv := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return rs.ClientCount() == 1 })

	rs.NotifyError("boom")
	rs.NotifyReload()

	for _, want := range []ReloadMessage{
		{Type: ReloadTypeError, Error: "boom"},
		{Type: ReloadTypeFull},
	} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got ReloadMessage
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("ReadJSON error: %v", err)
		}
		if got != want {
			t.Errorf("Expected %+v, got %+v", want, got)
		}
	}

	conn.Close()
	waitFor(t, func() bool { return rs.ClientCount() == 0 })
}

func newTestServer(t *testing.T, reload bool) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.New()
	cfg.Dev.Reload = &reload
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	out := cfg.OutputPath()
	if err := os.MkdirAll(out, 0755); err != nil {
		t.Fatal(err)
	}
	page, err := RenderIndex(IndexData{Title: "demo"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(out, IndexFile), page, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(out, "main.wasm"), []byte("\x00asm"), 0644); err != nil {
		t.Fatal(err)
	}
	return NewServer(ServerOptions{Config: cfg}), out
}

func TestServerHandler(t *testing.T) {
	s, _ := newTestServer(t, true)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	t.Run("index has reload client", func(t *testing.T) {
		body, resp := get(t, srv.URL+"/")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, ReloadPath) {
			t.Error("Expected reload client in index page")
		}
	})

	t.Run("wasm content type", func(t *testing.T) {
		_, resp := get(t, srv.URL+"/main.wasm")
		if ct := resp.Header.Get("Content-Type"); ct != "application/wasm" {
			t.Errorf("Expected application/wasm, got %q", ct)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		body, resp := get(t, srv.URL+"/metrics")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, `wcdev_http_requests_total{method="GET",status="200"}`) {
			t.Errorf("Expected request counter in metrics, got:\n%s", body)
		}
	})
}

func TestServerHandlerWithoutReload(t *testing.T) {
	s, _ := newTestServer(t, false)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	body, _ := get(t, srv.URL+"/")
	if strings.Contains(body, ReloadPath) {
		t.Error("Expected no reload client when reload is disabled")
	}
	_, resp := get(t, srv.URL+ReloadPath)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for reload endpoint, got %d", resp.StatusCode)
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "components")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	w := NewWatcher(WatcherConfig{Paths: []string{dir}, Debounce: 20 * time.Millisecond})
	changes := make(chan Change, 10)
	w.OnChange(func(c Change) { changes <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	file := filepath.Join(sub, "hello.go")
	if err := os.WriteFile(file, []byte("package components"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		if c.Type != ChangeGo || c.Path != file {
			t.Errorf("Expected Go change for %q, got %+v", file, c)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for change")
	}
}

func TestShouldIgnore(t *testing.T) {
	w := NewWatcher(WatcherConfig{})
	tests := map[string]bool{
		"/p/components/hello.go":      false,
		"/p/components/hello_test.go": true,
		"/p/dist/main.wasm":           true,
		"/p/.git/HEAD":                true,
		"/p/zz_components_gen.go":     true,
		"/p/README.md":                false,
	}
	for path, want := range tests {
		if got := w.shouldIgnore(path); got != want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", path, got, want)
		}
	}
}

func get(t *testing.T, url string) (string, *http.Response) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body), resp
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
