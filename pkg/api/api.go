// Package api serves the REST surface: the analyze endpoint plus read-only
// views over the tool cache, with permissive CORS for the content site.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/saaslens/saaslens/pkg/analyzer"
	"github.com/saaslens/saaslens/pkg/models"
	"github.com/saaslens/saaslens/pkg/storage"
)

// statusByKind maps analysis failure kinds to HTTP status codes. Only bad
// input is the caller's fault; everything else is a server error.
var statusByKind = map[analyzer.Kind]int{
	analyzer.KindBadInput:   http.StatusBadRequest,
	analyzer.KindConfig:     http.StatusInternalServerError,
	analyzer.KindTransport:  http.StatusInternalServerError,
	analyzer.KindFormat:     http.StatusInternalServerError,
	analyzer.KindValidation: http.StatusInternalServerError,
	analyzer.KindStorage:    http.StatusInternalServerError,
}

type AnalyzeRequest struct {
	Query string `json:"query"`
}

type Server struct {
	router   *gin.Engine
	store    storage.Storage
	analyzer *analyzer.Analyzer
	logger   zerolog.Logger
	name     string
	version  string
}

func New(name, version string, store storage.Storage, an *analyzer.Analyzer, logger zerolog.Logger, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:   gin.New(),
		store:    store,
		analyzer: an,
		logger:   logger.With().Str("component", "api").Logger(),
		name:     name,
		version:  version,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.corsMiddleware())

	s.router.GET("/", s.handleInfo)
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/api/analyze", s.handleAnalyze)
	s.router.GET("/api/tools", s.handleListTools)
	s.router.GET("/api/tools/:id", s.handleGetTool)

	return s
}

// Handler returns the router for mounting in an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Mount attaches an extra handler, used for the MCP endpoint.
func (s *Server) Mount(path string, h http.Handler) {
	s.router.Any(path, gin.WrapH(h))
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.name,
		"version": s.version,
		"endpoints": gin.H{
			"analyze": "/api/analyze",
			"tools":   "/api/tools",
			"mcp":     "/mcp",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	start := time.Now()

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter"})
		return
	}

	result, err := s.analyzer.Analyze(c.Request.Context(), req.Query)
	s.logRequest(req, result, err, time.Since(start))

	if err != nil {
		kind := analyzer.KindOf(err)
		status := statusByKind[kind]
		if status == http.StatusBadRequest {
			c.JSON(status, gin.H{"error": "Missing query parameter"})
			return
		}
		s.logger.Error().Err(err).Str("kind", kind.String()).Str("query", req.Query).Msg("analysis failed")
		c.JSON(status, gin.H{"error": "Analysis failed", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListTools(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)
	if limit < 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	tools, total, err := s.store.GetTools(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Listing failed", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"tools":  tools,
	})
}

func (s *Server) handleGetTool(c *gin.Context) {
	tool, err := s.store.GetTool(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tool not found"})
		return
	}
	c.JSON(http.StatusOK, tool)
}

// logRequest writes the audit row asynchronously, after the fact, so the
// response is never delayed by the insert.
func (s *Server) logRequest(req AnalyzeRequest, result *analyzer.Result, err error, elapsed time.Duration) {
	inputJSON, _ := json.Marshal(req)
	log := &models.RequestLog{
		Source:     models.SourceREST,
		Operation:  "analyze",
		InputJSON:  string(inputJSON),
		DurationMs: elapsed.Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		log.ErrorMessage = err.Error()
	} else if result != nil {
		outputJSON, _ := json.Marshal(result)
		log.OutputJSON = string(outputJSON)
		log.CacheHit = result.CacheHit
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.CreateRequestLog(ctx, log); err != nil {
			s.logger.Warn().Err(err).Msg("failed to write request log")
		}
	}()
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
