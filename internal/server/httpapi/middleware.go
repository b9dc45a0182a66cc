package httpapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/feedbackboard/internal/server/auth"
	"github.com/dmitrijs2005/feedbackboard/internal/server/identity"
)

const requestIDHeader = "X-Request-Id"

// requestIDMiddleware tags every request with an id for log correlation. An
// id supplied by the client is kept, otherwise a new one is generated.
func (s *HTTPServer) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		s.logger.Debug(r.Context(), "request", "request_id", requestID, "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r)
	})
}

// sessionTokenMiddleware resolves a bearer session token into the identity
// context. A missing or invalid token leaves the request anonymous; the
// guard rejects anonymous callers on protected routes.
func (s *HTTPServer) sessionTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			username, err := auth.GetUsernameFromToken(token, s.jwtSecret)
			if err == nil {
				r = r.WithContext(identity.WithUsername(r.Context(), username))
			}
		}

		next.ServeHTTP(w, r)
	})
}
