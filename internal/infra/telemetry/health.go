package telemetry

import "sync"

// HealthReport is the payload served on /healthz.
type HealthReport struct {
	Status string            `json:"status"`
	Detail map[string]string `json:"detail,omitempty"`
}

// HealthTracker aggregates component readiness into one report.
type HealthTracker struct {
	mu         sync.RWMutex
	components map[string]string
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{components: make(map[string]string)}
}

// SetComponent records a component state; "ok" marks it healthy,
// anything else degrades the overall status.
func (h *HealthTracker) SetComponent(name, state string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[name] = state
}

func (h *HealthTracker) Report() HealthReport {
	h.mu.RLock()
	defer h.mu.RUnlock()

	report := HealthReport{Status: "ok"}
	if len(h.components) == 0 {
		return report
	}
	report.Detail = make(map[string]string, len(h.components))
	for name, state := range h.components {
		report.Detail[name] = state
		if state != "ok" {
			report.Status = "degraded"
		}
	}
	return report
}
