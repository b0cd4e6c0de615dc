// Package server exposes the operational HTTP surface: health, manual job
// triggers, and retry-ledger inspection. It is a control plane, not a data
// API; record data only moves through the datastore.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"multi-unit-enrichment/internal/processor"
	"multi-unit-enrichment/internal/retry"
	"multi-unit-enrichment/pkg/config"
	apperrors "multi-unit-enrichment/pkg/errors"
	"multi-unit-enrichment/pkg/health"
	"multi-unit-enrichment/pkg/logging"
)

const serviceName = "multi-unit-enrichment"

type Server struct {
	cfg    *config.Config
	runner *processor.JobRunner
	ledger *retry.Ledger
	health *health.Registry
	log    *logging.Logger
}

func New(cfg *config.Config, runner *processor.JobRunner, ledger *retry.Ledger, reg *health.Registry, log *logging.Logger) *Server {
	return &Server{
		cfg:    cfg,
		runner: runner,
		ledger: ledger,
		health: reg,
		log:    log.WithComponent("server"),
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.healthHandler).Methods("GET")
	router.HandleFunc("/run-job", s.runJobHandler).Methods("GET")
	router.HandleFunc("/records/{id}/run", s.runRecordHandler).Methods("POST")
	router.HandleFunc("/retry-state", s.retryStateHandler).Methods("GET")
	router.HandleFunc("/retry-state/{id}/reset", s.resetRetryHandler).Methods("POST")
	return router
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != health.StatusHealthy {
		status = http.StatusServiceUnavailable
	}

	body := struct {
		Service string `json:"service"`
		health.Report
		Settings map[string]any `json:"settings"`
	}{
		Service:  serviceName,
		Report:   report,
		Settings: s.settings(),
	}
	writeJSON(w, status, body)
}

func (s *Server) settings() map[string]any {
	if s.cfg == nil {
		return nil
	}
	return map[string]any{
		"schedule":           s.cfg.Schedule,
		"max_retry_attempts": s.cfg.MaxRetryAttempts,
		"retry_reset_days":   s.cfg.RetryResetDays,
		"record_delay_ms":    s.cfg.RecordDelay.Milliseconds(),
		"api_rate_per_sec":   s.cfg.APIRatePerSecond,
	}
}

// runJobHandler runs a full job and returns its summary. A run can take
// minutes; the run keeps going even if the caller disconnects.
func (s *Server) runJobHandler(w http.ResponseWriter, r *http.Request) {
	s.log.Info("manual job run requested")

	summary, err := s.runner.Run(context.Background())
	if err != nil {
		var bizErr *apperrors.BizError
		status := http.StatusInternalServerError
		if errors.As(err, &bizErr) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]any{
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "job finished",
		"summary": summary,
	})
}

func (s *Server) runRecordHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	res, err := s.runner.RunRecord(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"record_id": id,
			"error":     err.Error(),
		})
		return
	}

	body := map[string]any{
		"record_id": id,
		"status":    statusLabel(res.Status),
	}
	if res.Err != nil {
		body["error"] = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) retryStateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"records": s.ledger.Snapshot(),
	})
}

func (s *Server) resetRetryHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.ledger.Reset(id)
	s.log.Info("retry state reset", logging.String("record_id", id))
	writeJSON(w, http.StatusOK, map[string]any{
		"record_id": id,
		"message":   "retry state cleared",
	})
}

func statusLabel(st processor.Status) string {
	switch st {
	case processor.StatusWritten:
		return "written"
	case processor.StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
