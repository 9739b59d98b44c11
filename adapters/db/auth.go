package db

import (
	"context"
	"errors"

	"github.com/sara-n6/HoMee/core"
)

// Resolve maps the token-header triple to a user row. Token signatures are
// checked upstream by the auth provider; an incomplete triple or an unknown
// uid is rejected here.
func (db *DB) Resolve(ctx context.Context, ident core.Identity) (core.User, error) {
	if ident.AccessToken == "" || ident.Client == "" || ident.UID == "" {
		return core.User{}, core.ErrUnauthorized
	}

	u, err := db.GetUserByUID(ctx, ident.UID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return core.User{}, core.ErrUnauthorized
		}
		return core.User{}, err
	}
	return u, nil
}
