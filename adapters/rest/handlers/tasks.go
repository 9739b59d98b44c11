package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sara-n6/HoMee/adapters/rest"
	"github.com/sara-n6/HoMee/core"
	"github.com/sara-n6/HoMee/pkg/res"
)

// Public feed handlers. No identity required, published tasks only.

func NewListPublishedHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if v := r.URL.Query().Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				res.Error(w, "invalid page", http.StatusBadRequest)
				return
			}
			page = n
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		p, err := svc.ListPublished(ctx, page)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.ToTaskPageOut(p, time.Now()), http.StatusOK)
	}
}

func NewGetPublishedHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id <= 0 {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.GetPublished(ctx, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.ToTaskOut(t, time.Now()), http.StatusOK)
	}
}
