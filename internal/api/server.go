package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/daystar/grant-hub/internal/db"
	"github.com/daystar/grant-hub/internal/ingest"
)

// Server exposes stored grants over HTTP and lets admins trigger pipeline
// runs.
type Server struct {
	Store       *db.Store
	Runner      *ingest.Runner
	Echo        *echo.Echo
	adminSecret string

	// One pipeline run at a time.
	jobMu      sync.Mutex
	runningJob *backgroundJob
}

type backgroundJob struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"` // running, completed, failed
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at,omitempty"`
	Result    *ingest.Stats `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// NewServer builds the HTTP server. The runner may be nil when the service
// is deployed read-only.
func NewServer(store *db.Store, runner *ingest.Runner, adminSecret string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Admin-Secret"},
	}))

	s := &Server{
		Store:       store,
		Runner:      runner,
		Echo:        e,
		adminSecret: adminSecret,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.GET("/grants", s.handleListGrants)
	api.GET("/schools", s.handleListSchools)

	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/pipeline/run", s.handleRunPipeline)
	admin.GET("/pipeline/status", s.handlePipelineStatus)
}

// Start blocks serving HTTP on the given port.
func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleListGrants(c echo.Context) error {
	school := c.QueryParam("school")
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
		}
		limit = n
	}

	grants, err := s.Store.ListGrants(c.Request().Context(), school, limit)
	if err != nil {
		log.Printf("Failed to list grants: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list grants"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"count":  len(grants),
		"grants": grants,
	})
}

func (s *Server) handleListSchools(c echo.Context) error {
	schools, err := s.Store.ListSchools(c.Request().Context())
	if err != nil {
		log.Printf("Failed to list schools: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list schools"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"count":   len(schools),
		"schools": schools,
	})
}

// handleRunPipeline kicks off a background pipeline run. Only one run may
// be in flight; a second trigger while one is running gets 409.
func (s *Server) handleRunPipeline(c echo.Context) error {
	if s.Runner == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "pipeline not configured"})
	}

	s.jobMu.Lock()
	if s.runningJob != nil && s.runningJob.Status == "running" {
		id := s.runningJob.ID
		s.jobMu.Unlock()
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "a pipeline run is already in progress",
			"id":    id,
		})
	}

	job := &backgroundJob{
		ID:        uuid.NewString(),
		Status:    "running",
		StartedAt: time.Now(),
	}
	s.runningJob = job
	s.jobMu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		stats, err := s.Runner.Run(ctx)

		s.jobMu.Lock()
		defer s.jobMu.Unlock()
		job.EndedAt = time.Now()
		if err != nil {
			job.Status = "failed"
			job.Error = err.Error()
			log.Printf("Pipeline job %s failed: %v", job.ID, err)
			return
		}
		job.Status = "completed"
		job.Result = &stats
	}()

	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "pipeline run started",
		"id":      job.ID,
	})
}

func (s *Server) handlePipelineStatus(c echo.Context) error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if s.runningJob == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no pipeline run recorded"})
	}
	return c.JSON(http.StatusOK, s.runningJob)
}

// adminMiddleware accepts the admin secret via X-Admin-Secret or a Bearer
// token. Reject by default when no secret is configured.
func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.adminSecret == "" {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "server admin configuration error"})
		}

		if c.Request().Header.Get("X-Admin-Secret") == s.adminSecret {
			return next(c)
		}
		authHeader := c.Request().Header.Get("Authorization")
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == s.adminSecret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized admin access"})
	}
}
