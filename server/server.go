// Package server exposes the news agent over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/kataras/golog"
	"github.com/smallnest/langgraphgo/graph"
	"github.com/tmc/langchaingo/tools"

	"github.com/smallnest/newsagent/agent"
	"github.com/smallnest/newsagent/config"
	"github.com/smallnest/newsagent/provider"
	"github.com/smallnest/newsagent/speech"
)

const (
	serviceName    = "news-aggregator-agent"
	serviceVersion = "1.0.0"
)

// Server routes HTTP requests to the agent and the transcriber.
type Server struct {
	cfg         *config.Config
	store       graph.CheckpointStore
	transcriber *speech.Transcriber
	handler     http.Handler

	// buildTools assembles the tool set for one request; swapped by tests.
	buildTools func() ([]tools.Tool, error)
}

// New creates a server sharing one checkpoint store across requests so
// conversation threads persist between calls.
func New(cfg *config.Config, store graph.CheckpointStore, transcriber *speech.Transcriber, buildTools func() ([]tools.Tool, error)) *Server {
	s := &Server{
		cfg:         cfg,
		store:       store,
		transcriber: transcriber,
		buildTools:  buildTools,
	}
	s.handler = corsMiddleware(s.routes())
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/query", s.handleQuery).Methods(http.MethodPost)
	r.HandleFunc("/transcribe", s.handleTranscribe).Methods(http.MethodPost)
	return r
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe blocks serving HTTP until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		golog.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		golog.Errorf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error":     msg,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "News Aggregator Agent API",
		"version":     serviceVersion,
		"description": "AI-powered news aggregation from multiple reputable sources",
		"endpoints": map[string]string{
			"/query":      "POST - Query the news agent",
			"/transcribe": "POST - Transcribe an audio file",
			"/health":     "GET - Health check",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   serviceName,
	})
}

type queryRequest struct {
	Question      string `json:"question"`
	ModelProvider string `json:"model_provider"`
	ThreadID      string `json:"thread_id"`
	AudioFilePath string `json:"audio_file_path"`
	Language      string `json:"language"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question := req.Question

	// Spoken queries are transcribed first, then routed like text.
	if req.AudioFilePath != "" {
		if _, err := os.Stat(req.AudioFilePath); err != nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("audio file not found at %s", req.AudioFilePath))
			return
		}
		result := s.transcriber.TranscribeFile(r.Context(), req.AudioFilePath, req.Language)
		if !result.Success {
			writeError(w, http.StatusBadRequest, result.Error)
			return
		}
		question = result.Text
	}

	if question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	providerName := req.ModelProvider
	if providerName == "" {
		providerName = s.cfg.DefaultModelProvider
	}

	golog.Infof("processing query via %s: %s", providerName, question)

	model, err := provider.Load(providerName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	agentTools, err := s.buildTools()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	builder, err := agent.NewGraphBuilder(s.cfg, model, agentTools, agent.WithStore(s.store))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := builder.RunWithMemory(r.Context(), question, req.ThreadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":         result.Response,
		"thread_id":      result.ThreadID,
		"timestamp":      result.Timestamp.Format(time.RFC3339),
		"model_provider": providerName,
		"memory_enabled": result.MemoryEnabled,
	})
}

type transcribeRequest struct {
	AudioFilePath string `json:"audio_file_path"`
	Language      string `json:"language"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AudioFilePath == "" {
		writeError(w, http.StatusBadRequest, "audio_file_path is required")
		return
	}
	if _, err := os.Stat(req.AudioFilePath); err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("audio file not found at %s", req.AudioFilePath))
		return
	}
	if req.Language != "" {
		if err := s.transcriber.ValidateLanguage(req.Language); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result := s.transcriber.TranscribeFile(r.Context(), req.AudioFilePath, req.Language)
	if !result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"transcription": "",
			"success":       false,
			"error":         result.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transcription": result.Text,
		"success":       true,
		"engine":        result.Engine,
		"confidence":    result.Confidence,
		"language":      result.Language,
	})
}
