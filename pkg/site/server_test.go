package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nikogura/portfolio/pkg/contact"
	"github.com/nikogura/portfolio/pkg/portfolio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../portfolio/testdata/portfolio_structured.json"

type mockRelay struct {
	mock.Mock
}

func (m *mockRelay) Send(ctx context.Context, form contact.Form) (err error) {
	args := m.Called(ctx, form)
	err = args.Error(0)
	return err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func readyLoader(t *testing.T) (loader *portfolio.Loader) {
	t.Helper()
	loader = portfolio.NewLoader(fixturePath, portfolio.WithMinDisplay(0))
	loader.Start(context.Background())

	_, err := loader.Wait(context.Background())
	require.NoError(t, err)
	return loader
}

func failedLoader(t *testing.T) (loader *portfolio.Loader) {
	t.Helper()
	loader = portfolio.NewLoader("missing.json",
		portfolio.WithMinDisplay(0),
		portfolio.WithLogFunc(func(string, ...interface{}) {}),
	)
	loader.Start(context.Background())

	_, err := loader.Wait(context.Background())
	require.Error(t, err)
	return loader
}

func newServer(t *testing.T, loader *portfolio.Loader, relay contact.Relay) (server *Server) {
	t.Helper()
	if relay == nil {
		relay = &mockRelay{}
	}

	server, err := New(Options{
		Loader:   loader,
		DataFile: fixturePath,
		Relay:    relay,
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return server
}

func do(server *Server, req *http.Request) (rec *httptest.ResponseRecorder) {
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresLoaderAndRelay(t *testing.T) {
	_, err := New(Options{Relay: &mockRelay{}})
	assert.Error(t, err)

	_, err = New(Options{Loader: portfolio.NewLoader("x")})
	assert.Error(t, err)
}

func TestRoutesWhileLoading(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	loader := portfolio.NewLoader("blocked", portfolio.WithMinDisplay(0), portfolio.WithFetchFunc(
		func(ctx context.Context, source string) (doc portfolio.Document, err error) {
			<-release
			return doc, err
		}))
	loader.Start(context.Background())

	server := newServer(t, loader, nil)

	for _, path := range []string{"/resume/download", "/resume/preview", "/api/skills", "/api/skills/Containers", "/api/projects/0/metrics", "/api/blog", "/api/stats"} {
		t.Run(path, func(t *testing.T) {
			rec := do(server, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.JSONEq(t, `{"error":"loading"}`, rec.Body.String())
		})
	}

	rec := do(server, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"state":"loading"}`, rec.Body.String())
}

func TestRoutesWhenFailed(t *testing.T) {
	server := newServer(t, failedLoader(t), nil)

	rec := do(server, httptest.NewRequest(http.MethodGet, "/resume/download", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(server, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "failed", body["state"])
	assert.NotEmpty(t, body["error"])
}

func TestReload(t *testing.T) {
	t.Run("conflict when ready", func(t *testing.T) {
		server := newServer(t, readyLoader(t), nil)

		rec := do(server, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("retries after failure", func(t *testing.T) {
		loader := failedLoader(t)
		server := newServer(t, loader, nil)

		rec := do(server, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)

		_, err := loader.Wait(context.Background())
		assert.Error(t, err, "source is still missing")
		assert.Equal(t, portfolio.StateFailed, loader.State())
	})
}

func TestHealthReady(t *testing.T) {
	server := newServer(t, readyLoader(t), nil)

	rec := do(server, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"ready"}`, rec.Body.String())
}

func TestData(t *testing.T) {
	server := newServer(t, readyLoader(t), nil)

	rec := do(server, httptest.NewRequest(http.MethodGet, "/data/portfolio_structured.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := portfolio.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Test User", doc.PersonalInfo.Name)
}

func TestDownload(t *testing.T) {
	server := newServer(t, readyLoader(t), nil)

	rec := do(server, httptest.NewRequest(http.MethodGet, "/resume/download", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=Test_User_Resume.txt", rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "TEST USER\n"))
	assert.Contains(t, rec.Body.String(), "WORK EXPERIENCE")

	assert.Equal(t, float64(1), testutil.ToFloat64(server.metrics.deliveries.WithLabelValues(SinkDownload)))
}

func TestPreview(t *testing.T) {
	server := newServer(t, readyLoader(t), nil)

	rec := do(server, httptest.NewRequest(http.MethodGet, "/resume/preview", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Test User - Resume</title>")
	assert.Contains(t, rec.Body.String(), "<pre>")

	assert.Equal(t, float64(1), testutil.ToFloat64(server.metrics.deliveries.WithLabelValues(SinkPreview)))
}

func TestSkills(t *testing.T) {
	server := newServer(t, readyLoader(t), nil)

	rec := do(server, httptest.NewRequest(http.MethodGet, "/api/skills", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":["Cloud Platforms","Containers","Languages"],"default":"Cloud Platforms"}`, rec.Body.String())

	rec = do(server, httptest.NewRequest(http.MethodGet, "/api/skills/"+url.PathEscape("Cloud Platforms"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category":"Cloud Platforms","skills":[
		{"skill":"AWS","level":95},
		{"skill":"Azure","level":80},
		{"skill":"GCP","level":65}]}`, rec.Body.String())

	rec = do(server, httptest.NewRequest(http.MethodGet, "/api/skills/Databases", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectMetrics(t *testing.T) {
	server := newServer(t, readyLoader(t), nil)

	rec := do(server, httptest.NewRequest(http.MethodGet, "/api/projects/0/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"project":"Infra Kit","metrics":[
		{"key":"setup_time_reduction","label":"Setup Time Reduction","value":"80%"},
		{"key":"manual_intervention_reduction","label":"Manual Intervention Reduction","value":"90%"}]}`, rec.Body.String())

	rec = do(server, httptest.NewRequest(http.MethodGet, "/api/projects/7/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(server, httptest.NewRequest(http.MethodGet, "/api/projects/first/metrics", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlog(t *testing.T) {
	server := newServer(t, readyLoader(t), nil)

	rec := do(server, httptest.NewRequest(http.MethodGet, "/api/blog", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"posts":[{
		"title":"Terraform at Small Scale",
		"description":"What worked for us.",
		"publication_date":"2024-03-01",
		"tags":["terraform","aws"],
		"url":"https://example.com/terraform",
		"read_time":"5 min"}]}`, rec.Body.String())
}

func TestBlogEmpty(t *testing.T) {
	loader := portfolio.NewLoader("in-memory", portfolio.WithMinDisplay(0), portfolio.WithFetchFunc(
		func(ctx context.Context, source string) (doc portfolio.Document, err error) {
			doc = portfolio.Document{PersonalInfo: &portfolio.PersonalInfo{Name: "Test User"}}
			return doc, err
		}))
	loader.Start(context.Background())
	_, err := loader.Wait(context.Background())
	require.NoError(t, err)

	server := newServer(t, loader, nil)

	rec := do(server, httptest.NewRequest(http.MethodGet, "/api/blog", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"posts":[]}`, rec.Body.String())
}

func TestStats(t *testing.T) {
	server := newServer(t, readyLoader(t), nil)

	// Counters come back as stored, even where they disagree with the document.
	rec := do(server, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"total_experience_years":"2+",
		"total_projects":5,
		"key_technologies":20,
		"certifications_count":4,
		"aws_certifications_count":4,
		"blog_posts_count":1}`, rec.Body.String())
}

func TestContact(t *testing.T) {
	form := contact.Form{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Message: "Hello"}

	t.Run("json success", func(t *testing.T) {
		relay := &mockRelay{}
		relay.On("Send", mock.Anything, form).Return(nil).Once()
		server := newServer(t, readyLoader(t), relay)

		body, err := json.Marshal(form)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		rec := do(server, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp["status"])
		assert.Equal(t, contact.SuccessMessage, resp["message"])

		relay.AssertExpectations(t)
		assert.Equal(t, float64(1), testutil.ToFloat64(server.metrics.submissions.WithLabelValues(ResultSuccess)))
	})

	t.Run("form encoded relay failure", func(t *testing.T) {
		relay := &mockRelay{}
		relay.On("Send", mock.Anything, form).Return(errors.New("relay down")).Once()
		server := newServer(t, readyLoader(t), relay)

		values := url.Values{}
		values.Set("name", form.Name)
		values.Set("email", form.Email)
		values.Set("subject", form.Subject)
		values.Set("message", form.Message)

		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := do(server, req)
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp["status"])
		assert.Equal(t, contact.FailureMessage, resp["message"])

		relay.AssertExpectations(t)
	})

	t.Run("missing field never reaches relay", func(t *testing.T) {
		relay := &mockRelay{}
		server := newServer(t, readyLoader(t), relay)

		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{"name":"Ann"}`))
		req.Header.Set("Content-Type", "application/json")

		rec := do(server, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		relay.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		assert.Equal(t, float64(1), testutil.ToFloat64(server.metrics.submissions.WithLabelValues(ResultInvalid)))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	server := newServer(t, readyLoader(t), nil)

	do(server, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	do(server, httptest.NewRequest(http.MethodGet, "/api/skills/Containers", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(server.metrics.requests.WithLabelValues("GET", "/healthz", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(server.metrics.requests.WithLabelValues("GET", "/api/skills/:category", "200")))

	rec := do(server, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio_http_requests_total")

	// scrapes are not counted
	assert.Equal(t, float64(0), testutil.ToFloat64(server.metrics.requests.WithLabelValues("GET", "/metrics", "200")))
}
