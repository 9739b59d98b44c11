package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sara-n6/HoMee/core"
	"github.com/sara-n6/HoMee/pkg/res"
)

func NewHealthCheckHandler(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res.Json(w, map[string]any{"message": "Success Health Check!"}, http.StatusOK)
	}
}

func NewPingHandler(log *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		out := map[string]string{}
		code := http.StatusOK

		if err := svc.Ping(ctx); err != nil {
			log.Warn("ping failed", "service", "db", "error", err)
			out["db"] = "down"
			code = http.StatusServiceUnavailable
		} else {
			out["db"] = "ok"
		}

		res.Json(w, map[string]any{"services": out}, code)
	}
}
