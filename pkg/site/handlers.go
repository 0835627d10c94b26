package site

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nikogura/portfolio/pkg/contact"
	"github.com/nikogura/portfolio/pkg/portfolio"
	"github.com/nikogura/portfolio/pkg/resume"
	"github.com/nikogura/portfolio/pkg/sink"
	"github.com/pkg/errors"
)

func (s *Server) handleData(c *gin.Context) {
	if s.dataFile == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data file configured"})
		return
	}

	c.File(s.dataFile)
}

func (s *Server) handleDownload(c *gin.Context) {
	doc, ok := s.document(c)
	if !ok {
		return
	}

	text, err := resume.Generate(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", sink.ContentDisposition(resume.Filename(doc.PersonalInfo.Name)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
	s.metrics.deliveries.WithLabelValues(SinkDownload).Inc()
}

func (s *Server) handlePreview(c *gin.Context) {
	doc, ok := s.document(c)
	if !ok {
		return
	}

	text, err := resume.Generate(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page, err := sink.Preview(resume.Title(doc.PersonalInfo.Name), text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	s.metrics.deliveries.WithLabelValues(SinkPreview).Inc()
}

func (s *Server) handleSkills(c *gin.Context) {
	doc, ok := s.document(c)
	if !ok {
		return
	}

	names := doc.TechnicalSkills.Names()
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": names,
		"default":    doc.TechnicalSkills.Default(),
	})
}

func (s *Server) handleSkillCategory(c *gin.Context) {
	doc, ok := s.document(c)
	if !ok {
		return
	}

	name := c.Param("category")
	tiers, found := doc.TechnicalSkills.Get(name)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown skill category"})
		return
	}

	levels := tiers.Levels()
	if levels == nil {
		levels = []portfolio.SkillLevel{}
	}

	c.JSON(http.StatusOK, gin.H{
		"category": name,
		"skills":   levels,
	})
}

func (s *Server) handleProjectMetrics(c *gin.Context) {
	doc, ok := s.document(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project index must be a number"})
		return
	}

	if index < 0 || index >= len(doc.PersonalProjects) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such project"})
		return
	}

	project := doc.PersonalProjects[index]
	entries := project.Metrics.Entries()
	if entries == nil {
		entries = []portfolio.MetricEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project.Name,
		"metrics": entries,
	})
}

func (s *Server) handleBlog(c *gin.Context) {
	doc, ok := s.document(c)
	if !ok {
		return
	}

	posts := doc.BlogPosts
	if posts == nil {
		posts = []portfolio.BlogPost{}
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// handleStats returns summary_stats exactly as stored in the document.
func (s *Server) handleStats(c *gin.Context) {
	doc, ok := s.document(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, doc.SummaryStats)
}

// handleContact accepts a JSON or form-encoded body. Each request gets its own
// controller so concurrent visitors do not share field state.
func (s *Server) handleContact(c *gin.Context) {
	var form contact.Form
	err := c.ShouldBind(&form)
	if err != nil {
		s.metrics.submissions.WithLabelValues(ResultInvalid).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"status": contact.StatusError.String(), "message": "invalid form body"})
		return
	}

	controller := contact.NewController(s.relay)
	controller.Fill(form)

	err = controller.Submit(c.Request.Context())

	status := http.StatusOK
	result := ResultSuccess
	switch {
	case errors.Is(err, contact.ErrMissingField):
		status = http.StatusBadRequest
		result = ResultInvalid
	case err != nil:
		status = http.StatusBadGateway
		result = ResultFailed
	}

	s.metrics.submissions.WithLabelValues(result).Inc()
	c.JSON(status, gin.H{
		"status":  controller.Status().String(),
		"message": controller.Message(),
	})
}

func (s *Server) handleReload(c *gin.Context) {
	err := s.loader.Retry(s.ctx)
	if errors.Is(err, portfolio.ErrNotFailed) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "state": s.loader.State().String()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"state": s.loader.State().String()})
}

func (s *Server) handleHealth(c *gin.Context) {
	state := s.loader.State()

	switch state {
	case portfolio.StateReady:
		c.JSON(http.StatusOK, gin.H{"state": state.String()})
	case portfolio.StateFailed:
		c.JSON(http.StatusInternalServerError, gin.H{"state": state.String(), "error": loadError(s.loader)})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"state": state.String()})
	}
}
