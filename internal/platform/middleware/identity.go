package middleware

import (
	"log/slog"
	"net/http"

	"hackhub/pkg/requestcontext"
)

// Identity headers set by the authenticating proxy. Token verification is
// the proxy's job; by the time a request reaches this process the identity
// is assumed given.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

// Identity forwards the upstream-authenticated caller into the request
// context. Requests without a usable identity are rejected before reaching
// a handler.
func Identity(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := r.Header.Get(HeaderActorID)
			role := requestcontext.Role(r.Header.Get(HeaderActorRole))
			if actorID == "" || !role.IsValid() {
				logger.WarnContext(r.Context(), "request without forwarded identity",
					"request_id", GetRequestID(r.Context()),
					"path", r.URL.Path,
				)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := requestcontext.WithActor(r.Context(), actorID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to the given roles. Admins pass every gate.
func RequireRole(roles ...requestcontext.Role) func(http.Handler) http.Handler {
	allowed := make(map[requestcontext.Role]bool, len(roles)+1)
	for _, r := range roles {
		allowed[r] = true
	}
	allowed[requestcontext.RoleAdmin] = true

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[requestcontext.ActorRole(r.Context())] {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
