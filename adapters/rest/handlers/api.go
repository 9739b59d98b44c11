package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sara-n6/HoMee/adapters/rest"
	"github.com/sara-n6/HoMee/core"
)

func Register(mux *http.ServeMux, log *slog.Logger, svc *core.Service, auth core.Authenticator, timeout time.Duration) {
	// health
	mux.Handle("GET /api/v1/health_check", NewHealthCheckHandler(log))
	mux.Handle("GET /api/v1/ping", NewPingHandler(log, svc, timeout))

	// public feed
	mux.Handle("GET /api/v1/tasks", NewListPublishedHandler(log, svc, timeout))
	mux.Handle("GET /api/v1/tasks/{id}", NewGetPublishedHandler(log, svc, timeout))

	// owner-scoped, behind the identity headers
	requireUser := func(h http.Handler) http.Handler {
		return rest.WithAuth(log, auth, h)
	}

	mux.Handle("POST /api/v1/current/tasks", requireUser(NewCreateTaskHandler(log, svc, timeout)))
	mux.Handle("GET /api/v1/current/tasks", requireUser(NewListTasksHandler(log, svc, timeout)))
	mux.Handle("GET /api/v1/current/tasks/{id}", requireUser(NewGetTaskHandler(log, svc, timeout)))
	mux.Handle("PATCH /api/v1/current/tasks/batch_complete", requireUser(NewBatchCompleteHandler(log, svc, timeout)))
	mux.Handle("PATCH /api/v1/current/tasks/{id}", requireUser(NewPatchTaskHandler(log, svc, timeout)))
	mux.Handle("DELETE /api/v1/current/tasks/{id}", requireUser(NewDeleteTaskHandler(log, svc, timeout)))
}
