package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sara-n6/HoMee/adapters/rest"
	"github.com/sara-n6/HoMee/core"
	"github.com/sara-n6/HoMee/pkg/res"
)

// Handlers for /current/tasks. WithAuth has already resolved the caller, so a
// missing context user means a wiring bug, not a client mistake.

func currentUser(w http.ResponseWriter, r *http.Request) (core.User, bool) {
	u, ok := rest.CurrentUser(r.Context())
	if !ok {
		res.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return u, ok
}

// NewCreateTaskHandler is idempotent per owner: it hands back the existing
// unsaved task when there is one instead of creating a second.
func NewCreateTaskHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.CreateUnsaved(ctx, user.ID)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.ToTaskOut(t, time.Now()), http.StatusOK)
	}
}

func NewListTasksHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		var f core.ListFilter
		switch r.URL.Query().Get("state") {
		case "":
		case "in_progress":
			f.InProgress = true
		default:
			res.Error(w, "invalid state", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		tasks, err := svc.ListForOwner(ctx, user.ID, f)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.ToTaskListOut(tasks, time.Now()), http.StatusOK)
	}
}

func NewGetTaskHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id <= 0 {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.Get(ctx, user.ID, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.ToTaskOut(t, time.Now()), http.StatusOK)
	}
}

func NewPatchTaskHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id <= 0 {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var in rest.PatchTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var p core.TaskPatch
		p.Title = in.Title
		p.Body = in.Body

		if in.Status != nil {
			st, ok := core.ParseStatus(*in.Status)
			if !ok {
				res.Error(w, "invalid status", http.StatusBadRequest)
				return
			}
			p.Status = &st
		}
		if in.EndDate != nil {
			d, err := time.Parse("2006-01-02", *in.EndDate)
			if err != nil {
				res.Error(w, "invalid end_date", http.StatusBadRequest)
				return
			}
			p.EndDate = &d
		}
		if in.CompletedDate != nil {
			d, err := time.Parse("2006-01-02", *in.CompletedDate)
			if err != nil {
				res.Error(w, "invalid completed_date", http.StatusBadRequest)
				return
			}
			p.CompletedDate = &d
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.Update(ctx, user.ID, id, p)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, rest.ToTaskOut(t, time.Now()), http.StatusOK)
	}
}

func NewBatchCompleteHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		var in rest.BatchCompleteIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.BatchComplete(ctx, user.ID, in.IDs); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.NoContent(w)
	}
}

func NewDeleteTaskHandler(_ *slog.Logger, svc *core.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id <= 0 {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.Delete(ctx, user.ID, id); err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.NoContent(w)
	}
}
