package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/session"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/storage"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	trailUser   contextKey = "trail_user"
)

// trailUsername is placed into the context by the trail middleware so the
// inner session middleware can report who the request resolved to.
type trailUsername struct {
	value string
}

func trailUserFrom(ctx context.Context) *trailUsername {
	holder, _ := ctx.Value(trailUser).(*trailUsername)
	return holder
}

func identityFrom(ctx context.Context) (*session.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*session.Identity)
	return identity, ok
}

func actorFrom(ctx context.Context) storage.Actor {
	identity, ok := identityFrom(ctx)
	if !ok {
		return storage.Actor{}
	}
	return storage.Actor{Username: identity.Username, Role: identity.Role}
}

// sessionToken pulls the session cookie; returns uuid.Nil when absent or
// malformed.
func sessionToken(r *http.Request) uuid.UUID {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return uuid.Nil
	}
	token, err := uuid.Parse(cookie.Value)
	if err != nil {
		return uuid.Nil
	}
	return token
}

func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == uuid.Nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		identity, err := s.sessions.Resolve(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if holder := trailUserFrom(r.Context()); holder != nil {
			holder.value = identity.Username
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok || identity.Role != "admin" {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
