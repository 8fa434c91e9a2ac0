// internal/api/server.go

// Package api exposes the HTTP surface. Request and response bodies use
// camelCase; the stored document model is mapped explicitly at this
// boundary and never leaks through.
package api

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"roi-navigator/internal/common/auth"
	"roi-navigator/internal/common/logger"
	"roi-navigator/internal/common/metrics"
	"roi-navigator/internal/common/observability"
	"roi-navigator/internal/models"
)

// ProjectStore is the persistence surface the handlers need.
type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, ownerUID string, limit int) ([]*models.Project, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

// SettingsWriter persists the global rate document.
type SettingsWriter interface {
	PutGlobalRates(ctx context.Context, cfg *models.GlobalRateConfig) error
}

// RateSource serves the active rate document.
type RateSource interface {
	Current(ctx context.Context) (*models.GlobalRateConfig, error)
	Invalidate(ctx context.Context) error
}

// IdentityProvider is the admin surface of the user directory.
type IdentityProvider interface {
	ListUsers(ctx context.Context, first, max int) ([]auth.User, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
	SetBlocked(ctx context.Context, userID string, blocked bool) (*auth.User, error)
	ResetPassword(ctx context.Context, userID, tempPassword string) error
}

// CredentialMailer delivers reset credentials out of band.
type CredentialMailer interface {
	SendTemporaryPassword(ctx context.Context, toEmail, tempPassword string) error
}

// Pinger reports backing-store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the handler dependencies and routes requests.
type Server struct {
	projects ProjectStore
	settings SettingsWriter
	rates    RateSource
	identity IdentityProvider
	mailer   CredentialMailer
	db       Pinger
	obs      *observability.Observability
	logger   logger.Logger
}

// NewServer wires the HTTP handlers.
func NewServer(
	projects ProjectStore,
	settings SettingsWriter,
	rates RateSource,
	identity IdentityProvider,
	mailer CredentialMailer,
	db Pinger,
	obs *observability.Observability,
	log logger.Logger,
) *Server {
	return &Server{
		projects: projects,
		settings: settings,
		rates:    rates,
		identity: identity,
		mailer:   mailer,
		db:       db,
		obs:      obs,
		logger:   log,
	}
}

// Handler is the fasthttp entry point.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()

	s.route(ctx)

	method := string(ctx.Method())
	path := routeLabel(string(ctx.Path()))
	status := strconv.Itoa(ctx.Response.StatusCode())
	elapsed := time.Since(start)

	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
	if s.obs != nil {
		s.obs.RecordRequestProcessed(ctx, status)
		s.obs.RecordRequestDuration(ctx, elapsed, status)
	}

	s.logger.Info("Request handled", map[string]interface{}{
		"method":      method,
		"path":        string(ctx.Path()),
		"status":      ctx.Response.StatusCode(),
		"duration_ms": elapsed.Milliseconds(),
	})
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	switch {
	case path == "/api/health" && method == fasthttp.MethodGet:
		s.handleHealth(ctx)

	case path == "/api/projects" && method == fasthttp.MethodPost:
		s.handleCreateProject(ctx)
	case path == "/api/projects" && method == fasthttp.MethodGet:
		s.handleListProjects(ctx)
	case path == "/api/projects/preview" && method == fasthttp.MethodPost:
		s.handlePreviewProject(ctx)
	case strings.HasPrefix(path, "/api/projects/"):
		id := strings.TrimPrefix(path, "/api/projects/")
		if id == "" || strings.Contains(id, "/") {
			respondNotFound(ctx)
			return
		}
		switch method {
		case fasthttp.MethodGet:
			s.handleGetProject(ctx, id)
		case fasthttp.MethodPut:
			s.handleUpdateProject(ctx, id)
		case fasthttp.MethodDelete:
			s.handleDeleteProject(ctx, id)
		default:
			respondMethodNotAllowed(ctx)
		}

	case path == "/api/settings" && method == fasthttp.MethodGet:
		s.handleGetSettings(ctx)
	case path == "/api/settings" && method == fasthttp.MethodPut:
		s.handlePutSettings(ctx)

	case path == "/api/users" && method == fasthttp.MethodGet:
		s.handleListUsers(ctx)
	case path == "/api/users/reset-password" && method == fasthttp.MethodPost:
		s.handleResetPassword(ctx)
	case strings.HasPrefix(path, "/api/users/") && strings.HasSuffix(path, "/block") && method == fasthttp.MethodPut:
		uid := strings.TrimSuffix(strings.TrimPrefix(path, "/api/users/"), "/block")
		if uid == "" || strings.Contains(uid, "/") {
			respondNotFound(ctx)
			return
		}
		s.handleBlockUser(ctx, uid)

	default:
		respondNotFound(ctx)
	}
}

// routeLabel collapses ID-bearing paths and unknown paths so metric
// cardinality stays bounded no matter what is requested.
func routeLabel(path string) string {
	switch {
	case path == "/api/health",
		path == "/api/projects",
		path == "/api/projects/preview",
		path == "/api/settings",
		path == "/api/users",
		path == "/api/users/reset-password":
		return path
	case strings.HasPrefix(path, "/api/projects/"):
		return "/api/projects/:id"
	case strings.HasPrefix(path, "/api/users/") && strings.HasSuffix(path, "/block"):
		return "/api/users/:uid/block"
	default:
		return "unmatched"
	}
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	status := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			respondSuccess(ctx, fasthttp.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	respondSuccess(ctx, fasthttp.StatusOK, status)
}
