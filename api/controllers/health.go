package controllers

import (
	"context"
	"net/http"

	"github.com/amirdashti/darchin-backend/api/responses"
	"github.com/amirdashti/darchin-backend/pkg/config"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

// pinger is the health check surface a backing service exposes.
type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Darchin-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database and redis both answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, database, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Darchin-Env", cfg.App.Env)

		checks := map[string]string{"database": "ok", "redis": "ok"}
		healthy := true

		if database == nil || database.Ping(r.Context()) != nil {
			checks["database"] = "unreachable"
			healthy = false
		}
		if cache == nil || cache.Ping(r.Context()) != nil {
			checks["redis"] = "unreachable"
			healthy = false
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "backing service unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
