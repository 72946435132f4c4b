package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sokinpui/spark.go/internal/broker"
	"github.com/sokinpui/spark.go/internal/color"
	"github.com/sokinpui/spark.go/internal/metrics"
	"github.com/sokinpui/spark.go/internal/models"
	"github.com/sokinpui/spark.go/internal/render"
	"github.com/sokinpui/spark.go/internal/strategy"
	"github.com/sokinpui/spark.go/model"
)

const (
	routeStrategy = "/api/strategy"

	// ClientIDHeader identifies the caller for the single-flight guard.
	ClientIDHeader = "X-Client-ID"

	// KindInFlight is reported when the caller already has a request running.
	KindInFlight   = "in_flight"
	KindBadRequest = "bad_request"

	genericFailure = "Failed to architect workflow. Please try again."
	maxBodyBytes   = 1 << 20
)

type StrategyResponse struct {
	TaskID string `json:"task_id"`
	Text   string `json:"text"`
	HTML   string `json:"html"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type HTTPServer struct {
	broker      broker.Broker
	llmRegistry *model.Registry
	flight      *strategy.Flight
}

// NewHTTPServer serves blueprint requests through b. llmRegistry backs
// GET /models and may be nil.
func NewHTTPServer(b broker.Broker, llmRegistry *model.Registry) *HTTPServer {
	return &HTTPServer{
		broker:      b,
		llmRegistry: llmRegistry,
		flight:      strategy.NewFlight(),
	}
}

func (s *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST "+routeStrategy, s.handleStrategy)
	mux.HandleFunc("GET /models", s.handleListModels)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
}

// Handler returns a mux with every route registered.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

func (s *HTTPServer) handleListModels(w http.ResponseWriter, r *http.Request) {
	modelCodes := []string{}
	if s.llmRegistry != nil {
		modelCodes = s.llmRegistry.ListModels()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"models": modelCodes})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategy.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, KindBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, http.StatusBadRequest, KindBadRequest, err.Error())
		return
	}

	taskID := uuid.New().String()
	clientID := callerKey(r)
	log.Printf("-> %s from %s, assigned task_id: %s", color.BlueString("Received request"), clientID, taskID)

	release, err := s.flight.Acquire(clientID)
	if err != nil {
		s.failFor(w, taskID, err)
		return
	}

	text, err := s.dispatch(r.Context(), &models.StrategyTask{
		TaskID:     taskID,
		ClientID:   clientID,
		Task:       req.Task,
		Stack:      req.Stack,
		EnqueuedAt: time.Now().UTC(),
	}, release)
	if err != nil {
		s.failFor(w, taskID, err)
		return
	}

	log.Printf("<- %s for task_id: %s", color.GreenString("Finished request"), taskID)
	metrics.IncHTTPRequest(routeStrategy, http.StatusOK)
	writeJSON(w, http.StatusOK, StrategyResponse{
		TaskID: taskID,
		Text:   text,
		HTML:   render.HTML(text),
	})
}

// dispatch hands the task to a worker and waits for its single result.
// release is called once the task has resolved, which may be after dispatch
// returns if the client goes away while the task is queued or running.
func (s *HTTPServer) dispatch(ctx context.Context, task *models.StrategyTask, release func()) (string, error) {
	results, unsubscribe, err := s.broker.Subscribe(ctx, task.TaskID)
	if err != nil {
		release()
		return "", &strategy.Error{Kind: strategy.KindServiceUnavailable, Err: err}
	}

	if err := s.broker.Enqueue(ctx, task); err != nil {
		unsubscribe()
		release()
		return "", &strategy.Error{Kind: strategy.KindServiceUnavailable, Err: err}
	}

	select {
	case res, ok := <-results:
		unsubscribe()
		release()
		if !ok {
			return "", &strategy.Error{Kind: strategy.KindServiceUnavailable, Err: broker.ErrClosed}
		}
		return resultText(res)
	case <-ctx.Done():
		go func() {
			<-results
			unsubscribe()
			release()
			log.Printf("Abandoned task %s resolved; caller %s may submit again", task.TaskID, task.ClientID)
		}()
		return "", ctx.Err()
	}
}

func resultText(res *models.TaskResult) (string, error) {
	if !res.Failed() {
		return res.Text, nil
	}
	kind, ok := strategy.ParseKind(res.Kind)
	if !ok {
		kind = strategy.KindServiceUnavailable
	}
	return "", &strategy.Error{Kind: kind, Err: errors.New(res.Error)}
}

func (s *HTTPServer) failFor(w http.ResponseWriter, taskID string, err error) {
	if errors.Is(err, strategy.ErrInFlight) {
		metrics.IncInFlightRejection()
		s.fail(w, http.StatusConflict, KindInFlight, err.Error())
		return
	}
	if errors.Is(err, context.Canceled) {
		log.Printf("Client went away before task %s finished", taskID)
		return
	}

	kind, _ := strategy.KindOf(err)
	status := http.StatusBadGateway
	if kind == strategy.KindConfigurationMissing {
		status = http.StatusInternalServerError
	} else {
		kind = strategy.KindServiceUnavailable
	}
	log.Printf("<- %s for task_id %s: %v", color.RedString("Failed request"), taskID, err)
	s.fail(w, status, kind.String(), genericFailure)
}

func (s *HTTPServer) fail(w http.ResponseWriter, status int, kind, msg string) {
	metrics.IncHTTPRequest(routeStrategy, status)
	writeJSON(w, status, ErrorResponse{Error: msg, Kind: kind})
}

func callerKey(r *http.Request) string {
	if id := r.Header.Get(ClientIDHeader); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
