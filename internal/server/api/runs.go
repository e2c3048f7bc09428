// Package api provides HTTP API handlers for browsing tracking run history.
package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/roitrack/internal/results"
	"github.com/ayusman/roitrack/internal/store"
)

// RunHandler handles HTTP requests for run resources.
type RunHandler struct {
	store *store.Store
}

// NewRunHandler creates a new RunHandler with the given store.
func NewRunHandler(s *store.Store) *RunHandler {
	return &RunHandler{store: s}
}

// ServeHTTP routes requests to the matching method.
// Expected paths: /api/runs, /api/runs/{id}, /api/runs/{id}/frames and
// /api/runs/{id}/result.txt.
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/runs")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "frames":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.frames(w, r, id)
	case "result.txt":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.resultFile(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type runResponse struct {
	ID         string  `json:"id"`
	Algorithm  string  `json:"algorithm"`
	Source     string  `json:"source"`
	Output     string  `json:"output"`
	Status     string  `json:"status"`
	Frames     int     `json:"frames"`
	Failures   int     `json:"failures"`
	MeanFPS    float64 `json:"mean_fps"`
	StartedAt  string  `json:"started_at"`
	FinishedAt string  `json:"finished_at,omitempty"`
}

type listRunsResponse struct {
	Runs []runResponse `json:"runs"`
}

type frameResponse struct {
	FrameID int  `json:"frame_id"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	W       int  `json:"w"`
	H       int  `json:"h"`
	OK      bool `json:"ok"`
}

type listFramesResponse struct {
	RunID  string          `json:"run_id"`
	Frames []frameResponse `json:"frames"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(run *store.Run) runResponse {
	resp := runResponse{
		ID:        run.ID,
		Algorithm: run.Algorithm,
		Source:    run.Source,
		Output:    run.Output,
		Status:    string(run.Status),
		Frames:    run.Frames,
		Failures:  run.Failures,
		MeanFPS:   run.MeanFPS,
		StartedAt: run.StartedAt.Format(time.RFC3339),
	}
	if !run.FinishedAt.IsZero() {
		resp.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/runs, newest first.
func (h *RunHandler) list(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.Runs().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	response := listRunsResponse{
		Runs: make([]runResponse, 0, len(runs)),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toResponse(run))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/runs/{id}.
func (h *RunHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	run, ok := h.lookup(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResponse(run))
}

// delete handles DELETE /api/runs/{id}. Frames go with the run.
func (h *RunHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Runs().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete run")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// frames handles GET /api/runs/{id}/frames.
func (h *RunHandler) frames(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.lookup(w, id); !ok {
		return
	}

	frames, err := h.store.Frames().GetByRunID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get frames")
		return
	}

	response := listFramesResponse{
		RunID:  id,
		Frames: make([]frameResponse, 0, len(frames)),
	}
	for _, f := range frames {
		response.Frames = append(response.Frames, frameResponse{
			FrameID: f.FrameID, X: f.X, Y: f.Y, W: f.W, H: f.H, OK: f.OK,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// resultFile handles GET /api/runs/{id}/result.txt, rebuilding the result
// file of the run from its stored frames.
func (h *RunHandler) resultFile(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.lookup(w, id); !ok {
		return
	}

	frames, err := h.store.Frames().GetByRunID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get frames")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".txt"))

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, results.Header)
	for _, f := range frames {
		rec := results.Record{FrameID: f.FrameID, OK: f.OK}
		if f.OK {
			rec.Box = image.Rect(f.X, f.Y, f.X+f.W, f.Y+f.H)
		}
		fmt.Fprintln(bw, rec.String())
	}
	bw.Flush()
}

// lookup fetches a run and writes the error response when it fails.
func (h *RunHandler) lookup(w http.ResponseWriter, id string) (*store.Run, bool) {
	run, err := h.store.Runs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Run not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get run")
		return nil, false
	}
	return run, true
}
