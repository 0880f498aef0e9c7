package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hupe1980/textmesh/core"
	"github.com/hupe1980/textmesh/engine"
	"github.com/hupe1980/textmesh/logging"
	"github.com/hupe1980/textmesh/room"
	"github.com/hupe1980/textmesh/state"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configure the Server.
type Options struct {
	// Store persists conversation state for session based requests. When nil,
	// requests must carry inline state (or none).
	Store core.StateStore
	// Logger receives request level log records.
	Logger logging.Logger
}

// Server hosts one entry function behind an HTTP API.
type Server struct {
	engine  *engine.Engine
	entry   room.EntryFunc
	store   core.StateStore
	logger  logging.Logger
	metrics *Metrics
}

// New constructs a Server around an engine and entry function.
func New(eng *engine.Engine, entry room.EntryFunc, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger: logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Server{
		engine:  eng,
		entry:   entry,
		store:   opts.Store,
		logger:  opts.Logger,
		metrics: NewMetrics(),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	r.Post("/v1/execute", s.handleExecute)

	return r
}

// executeRequest is the wire form of an execution request.
type executeRequest struct {
	JobID     string          `json:"job_id,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	UserInput string          `json:"user_input"`
	State     json.RawMessage `json:"state,omitempty"`
	TimeoutMs int64           `json:"timeout_ms,omitempty"`
}

// executeResponse is the wire form of an execution result.
type executeResponse struct {
	JobID            string          `json:"job_id"`
	SessionID        string          `json:"session_id,omitempty"`
	Status           core.Status     `json:"status"`
	ResponseText     string          `json:"response_text"`
	State            json.RawMessage `json:"state,omitempty"`
	Error            string          `json:"error,omitempty"`
	ProcessingTimeMs float64         `json:"processing_time_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	if err := validateExecuteBody(raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var body executeRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	conv, err := s.resolveState(r, body)
	if err != nil {
		var decodeErr *core.DecodeError
		if errors.As(err, &decodeErr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("state load failed", "session_id", body.SessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load session state"})
		return
	}

	req := core.Request{
		JobID:     body.JobID,
		UserInput: body.UserInput,
		State:     conv,
	}
	if req.JobID == "" {
		req.JobID = core.NewID()
	}

	var execOpts []func(o *engine.ExecuteOptions)
	if body.TimeoutMs > 0 {
		execOpts = append(execOpts, func(o *engine.ExecuteOptions) {
			o.Timeout = time.Duration(body.TimeoutMs) * time.Millisecond
		})
	}

	res := s.engine.Execute(r.Context(), s.entry, req, execOpts...)

	s.metrics.ObserveJob(string(res.Status), res.ProcessingTimeMs/1000)
	s.logger.Info("job finished",
		"job_id", res.JobID,
		"status", res.Status,
		"processing_time_ms", res.ProcessingTimeMs,
	)

	if body.SessionID != "" && s.store != nil && res.Status == core.StatusSuccess {
		if err := s.store.Save(r.Context(), body.SessionID, res.UpdatedState); err != nil {
			s.logger.Error("state save failed", "session_id", body.SessionID, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save session state"})
			return
		}
	}

	resp := executeResponse{
		JobID:            res.JobID,
		SessionID:        body.SessionID,
		Status:           res.Status,
		ResponseText:     res.ResponseText,
		Error:            res.Error,
		ProcessingTimeMs: res.ProcessingTimeMs,
	}
	if res.UpdatedState != nil {
		encoded, err := state.Encode(res.UpdatedState)
		if err != nil {
			s.logger.Error("state encode failed", "job_id", res.JobID, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to encode state"})
			return
		}
		resp.State = encoded
	}

	writeJSON(w, http.StatusOK, resp)
}

// resolveState picks the conversation for a request: inline state wins, then
// the session store, then a fresh conversation.
func (s *Server) resolveState(r *http.Request, body executeRequest) (*core.Conversation, error) {
	if len(body.State) > 0 {
		return state.Decode(body.State)
	}

	if body.SessionID != "" && s.store != nil {
		conv, err := s.store.Load(r.Context(), body.SessionID)
		if err != nil {
			if errors.Is(err, core.ErrConversationNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return conv, nil
	}

	return nil, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
