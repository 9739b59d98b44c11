package rest

import (
	"errors"
	"net/http"

	"github.com/sara-n6/HoMee/core"
	"github.com/sara-n6/HoMee/pkg/res"
)

func WriteErr(w http.ResponseWriter, err error) {
	var ve *core.ValidationError

	switch {
	case errors.As(err, &ve):
		res.Json(w, map[string]any{"error": ve.Message, "field": ve.Field}, http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrBadArguments):
		res.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrTaskNotFound), errors.Is(err, core.ErrUserNotFound):
		// a task owned by someone else is indistinguishable from a missing one
		res.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, core.ErrUnsavedExists):
		res.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, core.ErrUnauthorized):
		res.Error(w, "unauthorized", http.StatusUnauthorized)
	default:
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}
