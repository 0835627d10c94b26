package site

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Delivery and submission label values.
const (
	SinkDownload = "download"
	SinkPreview  = "preview"

	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
)

// Metrics holds the site's Prometheus collectors.
type Metrics struct {
	deliveries  *prometheus.CounterVec
	submissions *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (m *Metrics, err error) {
	m = &Metrics{
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_resume_deliveries_total",
				Help: "Resume documents handed to a sink.",
			},
			[]string{"sink"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_contact_submissions_total",
				Help: "Contact form submissions by outcome.",
			},
			[]string{"result"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
	}

	for _, c := range []prometheus.Collector{m.deliveries, m.submissions, m.requests} {
		err = reg.Register(c)
		if err != nil {
			err = errors.Wrap(err, "failed to register metric")
			return nil, err
		}
	}

	return m, err
}

// Middleware counts every request except scrapes of /metrics.
func (m *Metrics) Middleware() (handler gin.HandlerFunc) {
	handler = func(c *gin.Context) {
		if c.Request.URL.Path == metricsPath {
			c.Next()
			return
		}

		c.Next()

		// route pattern keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
	return handler
}
