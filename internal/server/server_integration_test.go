package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/roitrack/internal/store"
)

func TestAPI_RunWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	run := &store.Run{ID: "run-1", Algorithm: "CSRT", Source: "bear.mp4", Output: "out.txt"}
	if err := s.Runs().Create(run); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Frames().Create(run.ID, []store.Frame{{FrameID: 2, X: 1, Y: 2, W: 3, H: 4, OK: true}}); err != nil {
		t.Fatalf("Frames().Create() error = %v", err)
	}

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. List runs
	resp, err := client.Get(ts.URL + "/api/runs")
	if err != nil {
		t.Fatalf("GET /api/runs error = %v", err)
	}
	var list struct {
		Runs []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"runs"`
	}
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()

	if len(list.Runs) != 1 || list.Runs[0].ID != "run-1" || list.Runs[0].Status != "running" {
		t.Fatalf("runs = %+v", list.Runs)
	}

	// 2. Fetch the result file
	resp, err = client.Get(ts.URL + "/api/runs/run-1/result.txt")
	if err != nil {
		t.Fatalf("GET result.txt error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET result.txt status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// 3. Delete the run
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/runs/run-1", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	// 4. Frames are gone with the run
	frames, err := s.Frames().GetByRunID("run-1")
	if err != nil {
		t.Fatalf("GetByRunID() error = %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("frames after delete = %d, want 0", len(frames))
	}
}

func TestServer_ListenAndServe_Shutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve a port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(Config{}).ListenAndServe(ctx, addr)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/api/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not come up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
