// Package httpapi exposes the feedback board over a JSON HTTP API. It is the
// outer surface that resolves session tokens into the identity context and
// consults the authorization guard before every protected operation.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/feedbackboard/internal/logging"
	"github.com/dmitrijs2005/feedbackboard/internal/server/authz"
	"github.com/dmitrijs2005/feedbackboard/internal/server/services"
)

type HTTPServer struct {
	address       string
	logger        logging.Logger
	users         *services.UserService
	feedback      *services.FeedbackService
	guard         *authz.Guard
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, fs *services.FeedbackService, g *authz.Guard, secretKey string, tokenValidity time.Duration) (*HTTPServer, error) {
	return &HTTPServer{
		address:       a,
		logger:        l.With("module", "http_server"),
		users:         us,
		feedback:      fs,
		guard:         g,
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
	}, nil
}

// routes registers every endpoint on a fresh mux. Method and path matching is
// done by the mux patterns; handlers only see requests that already matched.
func (s *HTTPServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/users/{username}", s.handleGetUser)
	mux.HandleFunc("DELETE /api/users/{username}", s.handleDeleteUser)
	mux.HandleFunc("POST /api/users/{username}/feedback", s.handleCreateFeedback)

	mux.HandleFunc("PUT /api/feedback/{id}", s.handleUpdateFeedback)
	mux.HandleFunc("DELETE /api/feedback/{id}", s.handleDeleteFeedback)

	// Admin listings keep the username in the path: the caller must be that
	// user and that user must hold the admin role.
	mux.HandleFunc("GET /api/users/{username}/all_users", s.handleListUsers)
	mux.HandleFunc("GET /api/users/{username}/all_feedback", s.handleListFeedback)

	return s.requestIDMiddleware(s.sessionTokenMiddleware(mux))
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
