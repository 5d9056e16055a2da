package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "hotelbooking/pkg/errors"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/identity"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const bearerPrefix = "Bearer "

// DefaultPublicPaths are served without looking at the Authorization header.
var DefaultPublicPaths = []string{
	"/auth/",
	"/rooms/all",
	"/rooms/types",
	"/rooms/room-by-id/",
	"/rooms/available-rooms-by-date-and-type",
	"/bookings/get-by-confirmation-code/",
	"/swagger/",
	"/v3/api-docs",
}

type TokenVerifier interface {
	ExtractSubject(token string) (string, error)
	IsValid(token, email string) bool
}

// IdentityStore resolves a token subject to a stored user.
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// Authentication attaches the caller's identity to the request context when a
// valid bearer token is presented. It never rejects a request: routes that need
// an identity are wrapped with RequireAuthority.
func Authentication(verifier TokenVerifier, store IdentityStore, publicPaths []string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path, publicPaths) {
				next.ServeHTTP(w, r)
				return
			}

			if id := authenticate(r, verifier, store, log); id != nil {
				r = r.WithContext(identity.NewContext(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(r *http.Request, verifier TokenVerifier, store IdentityStore, log *logger.Logger) *identity.Identity {
	if id, ok := identity.FromContext(r.Context()); ok {
		return id
	}

	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil
	}

	email, err := verifier.ExtractSubject(raw)
	if err != nil {
		log.Debug("Ignoring unverifiable bearer token",
			"request_id", RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		return nil
	}

	user, err := store.FindByEmail(r.Context(), email)
	if err != nil || user == nil {
		log.Debug("Bearer token subject not resolvable",
			"request_id", RequestID(r.Context()),
			"error", err,
		)
		return nil
	}

	if !verifier.IsValid(raw, user.Email) {
		log.Debug("Bearer token rejected",
			"request_id", RequestID(r.Context()),
			"user_id", user.ID,
		)
		return nil
	}

	return identity.FromUser(user)
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	return raw, raw != ""
}

func isPublicPath(path string, publicPaths []string) bool {
	for _, prefix := range publicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequireAuthority lets the request through only when the context identity holds
// one of roles. No identity yields 401, the wrong role 403.
func RequireAuthority(next httprouter.Handle, roles ...model.Role) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			_ = httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
			return
		}
		if len(roles) > 0 && !id.HasAuthority(roles...) {
			_ = httputil.WriteError(w, apperrors.Forbidden("You do not have permission to access this resource"))
			return
		}
		next(w, r, ps)
	}
}

// RequireAuthenticated admits any identified caller.
func RequireAuthenticated(next httprouter.Handle) httprouter.Handle {
	return RequireAuthority(next)
}
