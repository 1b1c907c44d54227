package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusDegraded HealthStatus = "degraded"
)

type ComponentStatus string

const (
	ComponentStatusUp   ComponentStatus = "up"
	ComponentStatusDown ComponentStatus = "down"
)

// Health is the full health check response.
type Health struct {
	Status        HealthStatus               `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	UptimeSec     float64                    `json:"uptime_sec"`
	StagedFiles   int                        `json:"staged_files"`
	MergeInFlight bool                       `json:"merge_in_flight"`
	Components    map[string]ComponentHealth `json:"components"`
}

// ComponentHealth is the health of a single dependency.
type ComponentHealth struct {
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LatencyMs float64         `json:"latency_ms,omitempty"`
}

// handleHealth reports process state plus a best-effort reachability
// probe of the merge service. An unreachable service degrades the
// report but keeps the status code at 200: the list operations keep
// working without it.
func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := Health{
		Timestamp:     time.Now().UTC(),
		UptimeSec:     time.Since(a.started).Seconds(),
		StagedFiles:   a.staging.Len(),
		MergeInFlight: a.staging.Busy(),
		Components: map[string]ComponentHealth{
			"merge_service": a.checkMergeService(r.Context()),
		},
	}

	health.Status = HealthStatusHealthy
	for _, c := range health.Components {
		if c.Status == ComponentStatusDown {
			health.Status = HealthStatusDegraded
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

func (a *app) checkMergeService(ctx context.Context) ComponentHealth {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := a.merge.Ping(ctx); err != nil {
		return ComponentHealth{
			Status:  ComponentStatusDown,
			Message: "merge service unreachable: " + err.Error(),
		}
	}
	return ComponentHealth{
		Status:    ComponentStatusUp,
		LatencyMs: float64(time.Since(start).Milliseconds()),
	}
}

// handleMetrics dumps the counter snapshot.
func (a *app) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a.metrics.Snapshot())
}
