package http

import (
	"context"
	"github.com/redis/go-redis/v9"
	"log/slog"
	"net/http"
	"repair-ticket/common"
	"repair-ticket/common/constant"
	"repair-ticket/common/contract"
	"time"
)

const healthCheckTimeout = 2 * time.Second

type HealthHttp struct {
	Db    contract.DbConn
	Cache *redis.Client
}

func RegisterHealthHttp(mux *http.ServeMux, db contract.DbConn, cache *redis.Client) *HealthHttp {
	in := &HealthHttp{Db: db, Cache: cache}

	mux.HandleFunc("GET /health", in.health)

	return in
}

func (in HealthHttp) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := map[string]string{"database": "ok", "cache": "ok"}
	healthy := true

	if err := in.Db.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "database ping failed", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		status["database"] = "unavailable"
		healthy = false
	}

	if err := in.Cache.Ping(ctx).Err(); err != nil {
		slog.WarnContext(ctx, "cache ping failed", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		status["cache"] = "unavailable"
		healthy = false
	}

	if !healthy {
		writeJSONResponse(w, http.StatusServiceUnavailable, status)
		return
	}

	writeJSONResponse(w, http.StatusOK, status)
}
