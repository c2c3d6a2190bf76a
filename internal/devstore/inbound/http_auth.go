package inbound

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/usecase"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
	"github.com/stepski011/DevStore/internal/pkg/pkglog"
	"github.com/stepski011/DevStore/internal/pkg/pkgrouter"
)

const cookieName = "token"

type actorContextKey struct{}

func withActor(ctx context.Context, a usecase.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, a)
}

// actorFrom returns the caller set by protect. Routes without protect see the
// zero Actor.
func actorFrom(ctx context.Context) usecase.Actor {
	a, _ := ctx.Value(actorContextKey{}).(usecase.Actor)
	return a
}

// protect resolves the bearer token, or the token cookie, to the calling user.
func (h *HTTPEndpoint) protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.uc.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			pkgrouter.WriteError(r.Context(), w, err)
			return
		}

		ctx := pkglog.SetUserID(r.Context(), user.ID)
		ctx = withActor(ctx, usecase.Actor{ID: user.ID, Role: user.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authorize(roles ...entity.Role) pkgrouter.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := actorFrom(r.Context())
			if !slices.Contains(roles, actor.Role) {
				err := pkgerror.NewBusiness(
					fmt.Sprintf("User role %s is not authorized to access this route", actor.Role), pkgerror.CodeForbidden)
				pkgrouter.WriteError(r.Context(), w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "none" {
		return c.Value
	}
	return ""
}
