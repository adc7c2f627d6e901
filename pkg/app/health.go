package app

import (
	"context"
	"net/http"
	"time"

	httputil "salas/pkg/http"
	"salas/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const readyProbeTimeout = 2 * time.Second

type HealthResponse struct {
	Status    string `json:"status"`
	Backend   string `json:"backend,omitempty"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
}

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// HealthHandler serves liveness and readiness probes. A nil db means the
// in-memory backend, which is ready as soon as the process is.
type HealthHandler struct {
	db  Pinger
	log *logger.Logger
}

func NewHealthHandler(db Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.write(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.db == nil {
		h.write(w, http.StatusOK, HealthResponse{Status: "ready", Backend: "memory"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
	defer cancel()

	started := time.Now()
	err := h.db.Ping(ctx, readpref.Primary())
	latency := time.Since(started).Milliseconds()
	if err != nil {
		h.log.Warn("Readiness probe failed", "backend", "mongo", "latency_ms", latency, "error", err)
		h.write(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Backend: "mongo"})
		return
	}
	h.write(w, http.StatusOK, HealthResponse{Status: "ready", Backend: "mongo", LatencyMS: latency})
}

func (h *HealthHandler) write(w http.ResponseWriter, status int, body HealthResponse) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("Failed to write probe response", "status", status, "error", err)
	}
}
