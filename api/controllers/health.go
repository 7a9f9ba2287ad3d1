package controllers

import (
	"context"
	"net/http"

	"github.com/retailops/arledger/api/responses"
	"github.com/retailops/arledger/pkg/config"
	"github.com/retailops/arledger/pkg/logger"
	"github.com/retailops/arledger/pkg/redis"
)

const envHeader = "X-ARLedger-Env"

// DBPinger reports whether the database is reachable.
type DBPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the database and, when configured, redis.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP DBPinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		checks := map[string]string{"db": "ok"}
		ready := true

		if dbP == nil {
			checks["db"] = "unconfigured"
			ready = false
		} else if err := dbP.Ping(ctx); err != nil {
			checks["db"] = "unreachable"
			ready = false
			if logg != nil {
				logg.Error(ctx, "health: db ping failed", err)
			}
		}

		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(ctx); err != nil {
				checks["redis"] = "unreachable"
				if logg != nil {
					logg.Error(ctx, "health: redis ping failed", err)
				}
				// the dashboard cache is optional; redis trouble degrades,
				// it does not fail readiness
			}
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{"status": state, "checks": checks})
	}
}
