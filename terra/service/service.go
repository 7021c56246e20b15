// Package service exposes the engine's generation jobs over a small HTTP
// API: submit parameters, poll status, download the exported result. The
// studio frontend is its only intended client.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/terraforge/engine/terra"
	"github.com/terraforge/engine/terra/export"
	"github.com/terraforge/engine/terra/job"
	"github.com/terraforge/engine/terra/store"
)

// Config contains options for the HTTP front of an engine.
type Config struct {
	// Log is the logger requests are reported to. If nil, Log is set to
	// slog.Default().
	Log *slog.Logger
	// Engine is the engine jobs are submitted to. It must not be nil.
	Engine *terra.Engine
	// Addr is the listen address, for example ":8473".
	Addr string
}

// Server serves the job API. Create one with Config.New, start it with
// Listen and stop it with Close.
type Server struct {
	log    *slog.Logger
	engine *terra.Engine
	http   *http.Server
}

// New creates a Server from the configuration. It does not start listening.
func (c Config) New() *Server {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	if c.Engine == nil {
		panic("service: config requires an engine")
	}
	s := &Server{
		log:    c.Log.With("component", "api"),
		engine: c.Engine,
	}
	s.http = &http.Server{
		Addr:         c.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}
	return s
}

// Handler returns the API routes. Exposed so tests and embedders can mount
// the API without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/jobs", s.submit)
	mux.HandleFunc("GET /v1/jobs", s.list)
	mux.HandleFunc("GET /v1/jobs/{id}", s.status)
	mux.HandleFunc("GET /v1/jobs/{id}/result", s.result)
	mux.HandleFunc("GET /v1/presets", s.presets)
	return mux
}

// Listen blocks serving the API until Close is called.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("service: listening on %s: %w", s.http.Addr, err)
	}
	s.log.Info("serving terrain API", "addr", ln.Addr())
	if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the listener and waits for in-flight requests.
func (s *Server) Close() error {
	return s.http.Close()
}

// submitRequest is the job submission payload: generation parameters plus an
// optional map selection that overrides Width/Height.
type submitRequest struct {
	terra.Params
	// BBox is the studio's map selection [minX, minY, maxX, maxY] in
	// projected metres. When present, CellSize must be positive and the grid
	// dimensions are derived from the selection.
	BBox     *[4]float64 `json:"bbox,omitempty"`
	CellSize float64     `json:"cellSize,omitempty"`
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	params := req.Params
	if req.BBox != nil {
		region := terra.NewRegion(req.BBox[0], req.BBox[1], req.BBox[2], req.BBox[3])
		width, height, err := region.Grid(req.CellSize)
		if err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
		params.Width, params.Height = width, height
	}
	id, err := s.engine.Submit(params)
	switch {
	case errors.Is(err, job.ErrQueueFull):
		s.fail(w, http.StatusServiceUnavailable, err)
		return
	case err != nil:
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	s.log.Info("job submitted", "job", id, "size", fmt.Sprintf("%dx%d", params.Width, params.Height))
	s.reply(w, http.StatusAccepted, map[string]any{"id": id})
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	s.reply(w, http.StatusOK, s.engine.Jobs())
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.job(w, r)
	if !ok {
		return
	}
	s.reply(w, http.StatusOK, snap)
}

func (s *Server) result(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.job(w, r)
	if !ok {
		return
	}
	switch snap.Status {
	case job.StatusDone:
	case job.StatusFailed:
		s.fail(w, http.StatusConflict, fmt.Errorf("job failed: %s", snap.Err))
		return
	default:
		s.fail(w, http.StatusConflict, errors.New("job has not finished"))
		return
	}

	format := export.FormatPNG16
	if name := r.URL.Query().Get("format"); name != "" {
		var err error
		if format, err = export.ParseFormat(name); err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
	}
	m, width, height, err := s.engine.Result(snap.Key)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", snap.ID.String()+format.Extension()))
	if err := export.Encode(w, format, m, width, height); err != nil {
		s.log.Error("encoding result", "job", snap.ID, "err", err)
	}
}

func (s *Server) presets(w http.ResponseWriter, _ *http.Request) {
	p := s.engine.Presets()
	if p == nil {
		s.reply(w, http.StatusOK, []string{})
		return
	}
	s.reply(w, http.StatusOK, p.Names())
}

// job resolves the {id} path value to a job snapshot, writing the error
// response itself when resolution fails.
func (s *Server) job(w http.ResponseWriter, r *http.Request) (job.Snapshot, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid job id: %w", err))
		return job.Snapshot{}, false
	}
	snap, ok := s.engine.Job(id)
	if !ok {
		s.fail(w, http.StatusNotFound, errors.New("unknown job"))
		return job.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) reply(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encoding response", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, code int, err error) {
	if code >= 500 {
		s.log.Error("request failed", "code", code, "err", err)
	} else {
		s.log.Debug("request rejected", "code", code, "err", err)
	}
	s.reply(w, code, map[string]string{"error": err.Error()})
}
