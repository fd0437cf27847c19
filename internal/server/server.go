//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/session"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/storage"
)

type Service interface {
	SubmitReturn(ctx context.Context, actor storage.Actor, orderID, reason string) (*storage.ReturnRequest, error)
	ListUserReturns(ctx context.Context, username string) ([]storage.ReturnRequest, error)
	ListAllReturns(ctx context.Context) ([]storage.ReturnRequest, error)
	GetReturn(ctx context.Context, id string) (*storage.ReturnRequest, error)
	Approve(ctx context.Context, actor storage.Actor, id string) (*storage.ReturnRequest, error)
	Reject(ctx context.Context, actor storage.Actor, id string) (*storage.ReturnRequest, error)
	CompleteRefund(ctx context.Context, actor storage.Actor, id string) (*storage.ReturnRequest, error)
	AppendAudit(ctx context.Context, action string, actor storage.Actor, details string) error
	ListAuditLogs(ctx context.Context, limit int, order string) ([]storage.AuditLogEntry, error)
	GetStats(ctx context.Context) (*storage.SystemStats, error)
	GetSuspiciousUsers(ctx context.Context, threshold int) ([]storage.SuspiciousUser, error)
}

type Sessions interface {
	Login(ctx context.Context, username, password string) (uuid.UUID, *session.Identity, error)
	Resolve(ctx context.Context, token uuid.UUID) (*session.Identity, error)
	Logout(ctx context.Context, token uuid.UUID) error
}

type Server struct {
	service  Service
	sessions Sessions
	logger   *zap.Logger
	server   *http.Server
	Trail    *RequestTrail
}

func New(service Service, sessions Sessions, logger *zap.Logger) *Server {
	trail := NewRequestTrail(2, 5, 500*time.Millisecond, logger)
	return &Server{
		service:  service,
		sessions: sessions,
		logger:   logger,
		Trail:    trail,
	}
}

func (s *Server) Run(ctx context.Context, port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.Trail.Start(ctx)

	s.logger.Info("server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	s.Trail.Shutdown(ctx)
	s.logger.Info("server shutdown completed")
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.trailMiddleware)

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/check-session", s.handleCheckSession).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.sessionMiddleware)
	authed.HandleFunc("/returns", s.handleSubmitReturn).Methods(http.MethodPost)
	authed.HandleFunc("/returns/my", s.handleListMyReturns).Methods(http.MethodGet)

	admin := api.NewRoute().Subrouter()
	admin.Use(s.sessionMiddleware, s.adminMiddleware)
	admin.HandleFunc("/returns/all", s.handleListAllReturns).Methods(http.MethodGet)
	admin.HandleFunc("/returns/{id}/approve", s.handleApprove).Methods(http.MethodPut)
	admin.HandleFunc("/returns/{id}/reject", s.handleReject).Methods(http.MethodPut)
	admin.HandleFunc("/returns/{id}/refund", s.handleCompleteRefund).Methods(http.MethodPut)
	admin.HandleFunc("/returns/{id}", s.handleGetReturn).Methods(http.MethodGet)
	admin.HandleFunc("/admin/audit-logs", s.handleAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/admin/stats", s.handleStats).Methods(http.MethodGet)
	admin.HandleFunc("/admin/suspicious-users", s.handleSuspiciousUsers).Methods(http.MethodGet)

	return router
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
