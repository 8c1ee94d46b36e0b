package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Skryldev/jobly/auth"
)

// ─────────────────────────────────────────────────────────────────────────────
// Request logging / recovery
// ─────────────────────────────────────────────────────────────────────────────

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				s.logger.ErrorContext(r.Context(), "api: handler panicked", "panic", p, "path", r.URL.Path)
				s.renderError(w, r, errorf(http.StatusInternalServerError, "Internal Server Error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Authentication
// ─────────────────────────────────────────────────────────────────────────────

type claimsKey struct{}

// claimsFrom returns the verified caller, or nil for anonymous requests.
func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}

// bearerToken reads the token from "Authorization: Bearer" or, failing that,
// the _token query parameter.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("_token")
}

// authenticate attaches the caller's claims to the context. A missing or
// invalid token leaves the request anonymous; the route guards decide.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := s.issuer.Verify(token)
		if err != nil {
			s.logger.DebugContext(r.Context(), "api: token rejected", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func (s *Server) loggedIn(h handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		if claimsFrom(r.Context()) == nil {
			return errUnauthorized
		}
		return h(w, r)
	}
}

func (s *Server) admin(h handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		if c := claimsFrom(r.Context()); c == nil || !c.IsAdmin {
			return errUnauthorized
		}
		return h(w, r)
	}
}

// sameUser admits only the user named by the {username} path segment.
func (s *Server) sameUser(h handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		if c := claimsFrom(r.Context()); c == nil || c.Username != r.PathValue("username") {
			return errUnauthorized
		}
		return h(w, r)
	}
}
