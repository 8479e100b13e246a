package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Skipper decides which requests bypass authentication entirely.
type Skipper func(r *http.Request) bool

// Middleware enforces bearer-token authentication on incoming requests.
type Middleware struct {
	cfg  Config
	skip Skipper
}

// NewMiddleware constructs Middleware with validation config. A nil skipper
// protects every route.
func NewMiddleware(cfg Config, skip Skipper) Middleware {
	if skip == nil {
		skip = func(*http.Request) bool { return false }
	}
	return Middleware{cfg: cfg, skip: skip}
}

// Wrap attaches authentication handling to an http.Handler. Requests with a
// valid access token proceed with claims in context; everything else gets a
// 401.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skip(r) || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == header {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := ParseAccess(token, m.cfg)
		if err != nil {
			unauthorized(w, "invalid bearer token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"type":   "unauthorized",
		"detail": detail,
	})
}
