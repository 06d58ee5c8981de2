package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/server/accounts"
	"github.com/dmitrijs2005/accountd/internal/server/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerResponse struct {
	models.Projection
	Token string `json:"token"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type directoryResponse struct {
	TotalCount int64               `json:"total_count"`
	AppUsers   []models.Projection `json:"app_users"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.logger.Info(ctx, "Registration request")

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}

	// Request-shape checks before the core sees the candidate.
	for _, p := range []struct{ name, value string }{
		{"username", req.Username},
		{"email", req.Email},
		{"password", req.Password},
	} {
		if p.value == "" {
			s.writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Request body property is required: %q.", p.name))
			return
		}
	}

	if req.Role == "" {
		req.Role = string(models.RoleMember)
	}

	cand := accounts.Candidate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	}

	registered, res, err := s.service.Register(ctx, cand)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "error", err.Error())
		s.writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !res.Passed {
		s.writeMessage(w, res.Status, res.Message)
		return
	}

	s.logger.Info(ctx, "Registered", "username", registered.Account.Username)
	s.writeJSON(w, http.StatusOK, registerResponse{Projection: registered.Account, Token: registered.Token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}
	if req.Username == "" {
		s.writeMessage(w, http.StatusBadRequest, "Request missing username.")
		return
	}
	if req.Password == "" {
		s.writeMessage(w, http.StatusBadRequest, "Request missing password.")
		return
	}

	session, res, err := s.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Error(ctx, "login failed", "error", err.Error())
		s.writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !res.Passed {
		s.writeMessage(w, res.Status, res.Message)
		return
	}

	// Success body is the bare token string.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(session.Token))
}

func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dir, err := s.service.Directory(ctx)
	if err != nil {
		s.logger.Error(ctx, "directory listing failed", "error", err.Error())
		s.writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, directoryResponse{TotalCount: dir.TotalCount, AppUsers: dir.Accounts})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		s.writeMessage(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	projection, err := s.service.AccountByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		s.writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, projection)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, messageResponse{Message: message})
}
