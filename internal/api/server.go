package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mmwwxz/website-scanner/internal/config"
	"github.com/mmwwxz/website-scanner/internal/logger"
	"github.com/mmwwxz/website-scanner/pkg/types"
)

// Scanner runs one reconnaissance scan against a target. Satisfied by
// *scanner.Engine; tests substitute a stub.
type Scanner interface {
	Scan(ctx context.Context, rawTarget, outputFilename string) (*types.ScanReport, error)
}

// Server is the web front-end: the scan form UI, the JSON API, and report
// downloads, all backed by a single scan engine.
type Server struct {
	router    *gin.Engine
	scanner   Scanner
	reportDir string
	logger    *logger.Logger
}

// NewServer builds the router with all routes and middleware registered.
// reportDir is where the engine's report writer places files; downloads are
// served from there and nowhere else.
func NewServer(sc Scanner, reportDir string, rateLimit config.RateLimitConfig, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.WithComponent("api")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggingMiddleware(log))
	router.SetHTMLTemplate(pageTemplates)

	s := &Server{
		router:    router,
		scanner:   sc,
		reportDir: reportDir,
		logger:    log,
	}

	// One shared limiter handler so the form and the JSON API draw from the
	// same per-IP buckets.
	limit := RateLimitMiddleware(rateLimit)

	router.GET("/", s.handleIndex)
	router.POST("/scan", limit, s.handleScanForm)
	router.GET("/download/:filename", s.handleDownload)
	router.GET("/health", s.handleHealth)

	v1 := router.Group("/api/v1")
	{
		v1.Use(limit)
		v1.POST("/scan", s.handleScanAPI)
	}

	return s
}

// Router exposes the gin engine for mounting into an http.Server.
func (s *Server) Router() *gin.Engine {
	return s.router
}
