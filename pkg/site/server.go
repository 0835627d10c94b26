// Package site serves the portfolio document, the generated resume and the
// contact relay over HTTP.
package site

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikogura/portfolio/pkg/contact"
	"github.com/nikogura/portfolio/pkg/portfolio"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	dataPath    = portfolio.DefaultDataPath
	metricsPath = "/metrics"
)

// Options configures a Server.
type Options struct {
	// Loader supplies the document. It should already be started.
	Loader *portfolio.Loader
	// DataFile is served verbatim at /data/portfolio_structured.json when set.
	DataFile string
	// Relay receives contact form submissions.
	Relay contact.Relay
	// Registry collects the site metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	// BaseContext outlives single requests and bounds reload attempts.
	BaseContext context.Context
}

// Server is the portfolio web site.
type Server struct {
	loader   *portfolio.Loader
	dataFile string
	relay    contact.Relay
	metrics  *Metrics
	ctx      context.Context
	engine   *gin.Engine
}

// New builds the router.
func New(opts Options) (server *Server, err error) {
	if opts.Loader == nil {
		err = errors.New("site requires a portfolio loader")
		return server, err
	}

	if opts.Relay == nil {
		err = errors.New("site requires a contact relay")
		return server, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	ctx := opts.BaseContext
	if ctx == nil {
		ctx = context.Background()
	}

	var metrics *Metrics
	metrics, err = NewMetrics(reg)
	if err != nil {
		return server, err
	}

	server = &Server{
		loader:   opts.Loader,
		dataFile: opts.DataFile,
		relay:    opts.Relay,
		metrics:  metrics,
		ctx:      ctx,
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())

	engine.GET(dataPath, server.handleData)
	engine.GET("/resume/download", server.handleDownload)
	engine.GET("/resume/preview", server.handlePreview)
	engine.GET("/api/skills", server.handleSkills)
	engine.GET("/api/skills/:category", server.handleSkillCategory)
	engine.GET("/api/projects/:index/metrics", server.handleProjectMetrics)
	engine.GET("/api/blog", server.handleBlog)
	engine.GET("/api/stats", server.handleStats)
	engine.POST("/contact", server.handleContact)
	engine.POST("/admin/reload", server.handleReload)
	engine.GET("/healthz", server.handleHealth)
	engine.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	server.engine = engine
	return server, err
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() (handler http.Handler) {
	handler = s.engine
	return handler
}

// document writes a 503 or 500 response and returns false unless the loader
// is ready.
func (s *Server) document(c *gin.Context) (doc *portfolio.Document, ok bool) {
	doc, ok = s.loader.Document()
	if ok {
		return doc, ok
	}

	if s.loader.State() == portfolio.StateFailed {
		c.JSON(http.StatusInternalServerError, gin.H{"error": loadError(s.loader)})
		return doc, ok
	}

	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "loading"})
	return doc, ok
}

func loadError(loader *portfolio.Loader) (msg string) {
	msg = "failed to load portfolio data"
	if err := loader.Err(); err != nil {
		msg = err.Error()
	}
	return msg
}
