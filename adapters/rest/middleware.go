package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sara-n6/HoMee/core"
	"github.com/sara-n6/HoMee/pkg/res"
)

type ctxKey int

const (
	userCtxKey ctxKey = iota
	requestIDCtxKey
)

// WithRequestID tags every request with a uuid, echoed in the X-Request-Id
// response header.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		ctx := context.WithValue(r.Context(), requestIDCtxKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// WithAuth resolves the devise-token-auth style headers (access-token, client,
// uid) into the current user and rejects the request otherwise.
func WithAuth(log *slog.Logger, auth core.Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := core.Identity{
			AccessToken: r.Header.Get("access-token"),
			Client:      r.Header.Get("client"),
			UID:         r.Header.Get("uid"),
		}

		user, err := auth.Resolve(r.Context(), ident)
		if err != nil {
			log.Debug("auth failed", "request_id", RequestID(r.Context()), "error", err)
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func CurrentUser(ctx context.Context) (core.User, bool) {
	u, ok := ctx.Value(userCtxKey).(core.User)
	return u, ok
}
