package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/session"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Backend is running",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, identity, err := s.sessions.Login(r.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			actor := storage.Actor{Username: loginRequest.Username}
			details := fmt.Sprintf("Failed login attempt for username: %s", loginRequest.Username)
			if auditErr := s.service.AppendAudit(r.Context(), storage.ActionLoginFailed, actor, details); auditErr != nil {
				s.logger.Error("failed to record login audit entry", zap.Error(auditErr))
			}
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error("login failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(session.TTL),
	})

	actor := storage.Actor{Username: identity.Username, Role: identity.Role}
	details := fmt.Sprintf("User %s logged in successfully", identity.Username)
	if auditErr := s.service.AppendAudit(r.Context(), storage.ActionLoginSuccess, actor, details); auditErr != nil {
		s.logger.Error("failed to record login audit entry", zap.Error(auditErr))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"user": identity})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token != uuid.Nil {
		identity, err := s.sessions.Resolve(r.Context(), token)

		if logoutErr := s.sessions.Logout(r.Context(), token); logoutErr != nil {
			s.logger.Error("logout failed", zap.Error(logoutErr))
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if err == nil {
			actor := storage.Actor{Username: identity.Username, Role: identity.Role}
			details := fmt.Sprintf("User %s logged out", identity.Username)
			if auditErr := s.service.AppendAudit(r.Context(), storage.ActionLogout, actor, details); auditErr != nil {
				s.logger.Error("failed to record logout audit entry", zap.Error(auditErr))
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   session.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) handleCheckSession(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == uuid.Nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"logged_in": false})
		return
	}

	identity, err := s.sessions.Resolve(r.Context(), token)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"logged_in": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"logged_in": true,
		"user":      identity,
	})
}

func (s *Server) handleSubmitReturn(w http.ResponseWriter, r *http.Request) {
	var returnRequest struct {
		OrderID string `json:"order_id"`
		Reason  string `json:"reason"`
	}

	if err := json.NewDecoder(r.Body).Decode(&returnRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := s.service.SubmitReturn(r.Context(), actorFrom(r.Context()), returnRequest.OrderID, returnRequest.Reason)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListMyReturns(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())

	returns, err := s.service.ListUserReturns(r.Context(), actor.Username)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, returns)
}

func (s *Server) handleListAllReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := s.service.ListAllReturns(r.Context())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, returns)
}

func (s *Server) handleGetReturn(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ret, err := s.service.GetReturn(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ret)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.Approve)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.Reject)
}

func (s *Server) handleCompleteRefund(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.service.CompleteRefund)
}

type transitionCall func(ctx context.Context, actor storage.Actor, id string) (*storage.ReturnRequest, error)

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, call transitionCall) {
	id := mux.Vars(r)["id"]

	updated, err := call(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid value for 'limit' parameter")
			return
		}
	}
	order := r.URL.Query().Get("order")

	logs, err := s.service.ListAuditLogs(r.Context(), limit, order)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, logs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.GetStats(r.Context())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSuspiciousUsers(w http.ResponseWriter, r *http.Request) {
	threshold := 0
	if thresholdStr := r.URL.Query().Get("threshold"); thresholdStr != "" {
		var err error
		threshold, err = strconv.Atoi(thresholdStr)
		if err != nil || threshold <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'threshold' parameter")
			return
		}
	}

	users, err := s.service.GetSuspiciousUsers(r.Context(), threshold)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// respondDomainError maps each domain error to its status code; anything
// unrecognized is an internal error and the detail stays out of the
// response.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrUserNotFound):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "Return not found")
	case errors.Is(err, storage.ErrDuplicateReturn):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrInvalidState):
		respondError(w, http.StatusUnprocessableEntity, "Already processed")
	case errors.Is(err, storage.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, err.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
