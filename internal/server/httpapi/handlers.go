package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/feedbackboard/internal/common"
	"github.com/dmitrijs2005/feedbackboard/internal/server/auth"
	"github.com/dmitrijs2005/feedbackboard/internal/server/models"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type userResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
}

type feedbackRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type feedbackResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Username string `json:"username"`
}

type userWithFeedbackResponse struct {
	User     userResponse       `json:"user"`
	Feedback []feedbackResponse `json:"feedback"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}

func toFeedbackResponse(fb *models.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:       fb.ID,
		Title:    fb.Title,
		Content:  fb.Content,
		Username: fb.Username,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError translates domain errors into HTTP status codes. Anything not
// matched is a 500 with a generic message so internals do not leak.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	msg := err.Error()

	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateKey):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		msg = "internal error"
		s.logger.Error(r.Context(), err.Error())
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrValidation
	}
	return nil
}

// handleRegister creates a user and, like a fresh login, returns a session
// token for it.
func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Password, req.Email, req.FirstName, req.LastName, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.Username)
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, Username: user.Username})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, Username: user.Username})
}

// handleGetUser returns the user's profile together with their feedback.
// Only the user themselves may view it.
func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	if err := s.guard.RequireSelf(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.GetByUsername(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	notes, err := s.feedback.ListByOwner(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := userWithFeedbackResponse{
		User:     toUserResponse(user),
		Feedback: make([]feedbackResponse, 0, len(notes)),
	}
	for _, fb := range notes {
		resp.Feedback = append(resp.Feedback, toFeedbackResponse(fb))
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteUser removes the account and all of its feedback. Only the
// user themselves may do it.
func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	if err := s.guard.RequireSelf(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.users.Delete(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "User deleted", "username", username)
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	if err := s.guard.RequireSelf(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req feedbackRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.feedback.Create(r.Context(), req.Title, req.Content, username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFeedbackResponse(created))
}

// feedbackFromPath loads the note named by the {id} path segment and checks
// that the caller owns it. Used by the update and delete handlers.
func (s *HTTPServer) feedbackFromPath(r *http.Request) (*models.Feedback, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return nil, common.ErrNotFound
	}

	fb, err := s.feedback.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.RequireOwner(r.Context(), fb); err != nil {
		return nil, err
	}

	return fb, nil
}

func (s *HTTPServer) handleUpdateFeedback(w http.ResponseWriter, r *http.Request) {

	fb, err := s.feedbackFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req feedbackRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.feedback.Update(r.Context(), fb.ID, req.Title, req.Content); err != nil {
		s.writeError(w, r, err)
		return
	}

	fb.Title = req.Title
	fb.Content = req.Content
	writeJSON(w, http.StatusOK, toFeedbackResponse(fb))
}

func (s *HTTPServer) handleDeleteFeedback(w http.ResponseWriter, r *http.Request) {

	fb, err := s.feedbackFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.feedback.Delete(r.Context(), fb.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	if err := s.guard.RequireAdmin(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}

	users, err := s.users.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	if err := s.guard.RequireAdmin(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}

	notes, err := s.feedback.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]feedbackResponse, 0, len(notes))
	for _, fb := range notes {
		resp = append(resp, toFeedbackResponse(fb))
	}

	writeJSON(w, http.StatusOK, resp)
}
