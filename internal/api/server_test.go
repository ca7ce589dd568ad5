package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kerbworks/scenic/catalog"
	"github.com/kerbworks/scenic/internal/runner"
)

const testDefinitionYAML = `
id: kerbside-parking-exit
scenario: parking-exit
name: Kerbside parking exit
trigger_points:
  - location: {x: 30, y: 0, z: 0}
`

func startTestServer(t *testing.T, store runner.StateStore, opts ...Option) *Server {
	t.Helper()
	s := NewServer("127.0.0.1:0", store, opts...)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Shutdown(ctx)
	})
	return s
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, body
}

func TestHealthEndpoint(t *testing.T) {
	s := startTestServer(t, runner.NopStore{})
	status, body := get(t, "http://"+s.Addr()+"/healthz")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var health map[string]any
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != string(StatusReady) {
		t.Fatalf("unexpected health payload: %v", health)
	}
}

func TestRunEndpointReflectsStore(t *testing.T) {
	repo := runner.NewRepository(t.TempDir())
	s := startTestServer(t, repo)

	status, _ := get(t, "http://"+s.Addr()+"/v1/run")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 before any run, got %d", status)
	}

	saved := runner.State{
		RunID:      "run-1",
		ScenarioID: "parking-exit",
		Status:     runner.StatusRunning,
		Ticks:      40,
		SimTime:    2.0,
	}
	if err := repo.Save(saved); err != nil {
		t.Fatalf("save state: %v", err)
	}

	status, body := get(t, "http://"+s.Addr()+"/v1/run")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var state runner.State
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.RunID != "run-1" || state.Ticks != 40 {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestScenariosEndpointListsCatalog(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(testDefinitionYAML), 0644); err != nil {
		t.Fatal(err)
	}
	idx, err := catalog.Discover([]string{dir})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	s := startTestServer(t, runner.NopStore{}, WithCatalog(idx))

	status, body := get(t, "http://"+s.Addr()+"/v1/scenarios")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var list []map[string]any
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0]["id"] != "kerbside-parking-exit" {
		t.Fatalf("unexpected list: %v", list)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := runner.NewMetrics()
	s := startTestServer(t, runner.NopStore{}, WithMetrics(metrics))

	status, body := get(t, "http://"+s.Addr()+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), "scenic_ticks_total") {
		t.Fatalf("expected scenic metrics in payload")
	}
}

func TestDoubleStartFails(t *testing.T) {
	s := startTestServer(t, runner.NopStore{})
	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("expected second start to fail")
	}
}
