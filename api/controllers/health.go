package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/PHRJr/BuritisProject/api/responses"
	"github.com/PHRJr/BuritisProject/pkg/config"
	"github.com/PHRJr/BuritisProject/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency probed by HealthReady.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Buritis-Env", cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and answers 503 when any is down.
func HealthReady(cfg *config.Config, checks map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Buritis-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = "down"
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "dependency", name), "health.ready.failed", err)
				}
				continue
			}
			results[name] = "up"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "unavailable"
		}
		responses.WriteJSON(w, status, map[string]any{"status": state, "checks": results})
	}
}
