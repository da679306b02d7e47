package handler

import (
	"context"
	"net/http"

	"github.com/sdsdc/bibliotheque/data"
)

// contextKey is a custom key type to avoid collisions with context values
// set by other packages.
type contextKey string

const userContextKey = contextKey("user")

// contextSetUser returns a copy of the request with the given User stored in
// its context. The authenticate middleware sets either a real user or the
// anonymous one, so downstream handlers never see a missing value.
func (h *Handler) contextSetUser(r *http.Request, user *data.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser retrieves the User from the request context. A missing
// value means the middleware chain is miswired, which is a programmer error.
func (h *Handler) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(userContextKey).(*data.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}
