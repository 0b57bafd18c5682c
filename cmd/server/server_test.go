package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/config"
	apperrors "github.com/ZanzyTHEbar/date-decision-simulator/internal/errors"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/monitoring"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/ratelimit"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/resilience"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/resources"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "8080", Mode: "test", ShutdownTimeout: time.Second},
		Log:       config.LogConfig{Level: "error"},
		Artifacts: config.ArtifactsConfig{Source: config.SourceFile, Dir: "../../data", Model: "dating_model.json", Baseline: "baseline.csv"},
		RateLimit: config.RateLimitConfig{PerMinute: 120, BurstMultiplier: 2},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:8080"}},
		Chart:     config.ChartConfig{AssetsHost: "https://go-echarts.github.io/go-echarts-assets/assets/"},
	}
}

type testServer struct {
	router  *gin.Engine
	metrics *monitoring.Metrics
	logs    *bytes.Buffer
}

func newTestServer(t testing.TB, cfg *config.Config, loadErr error) *testServer {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := monitoring.NewLoggerTo(logs, slog.LevelError)
	metrics := monitoring.NewMetrics()
	limiter := ratelimit.NewRateLimiter(nil, ratelimit.Config{
		IPLimitPerMin:   cfg.RateLimit.PerMinute,
		BurstMultiplier: cfg.RateLimit.BurstMultiplier,
		CleanupInterval: time.Hour,
	}, metrics)
	t.Cleanup(limiter.Close)

	var res *resources.Resources
	location := ""
	if loadErr == nil {
		source, err := newSource(cfg.Artifacts)
		require.NoError(t, err)
		clf, baseline, err := resources.NewLoader(source, cfg.Artifacts.Model, cfg.Artifacts.Baseline, logger.Logger).
			Load(context.Background())
		require.NoError(t, err)
		res = &resources.Resources{Classifier: clf, Baseline: baseline}
	} else {
		location = "../../data/" + apperrors.ToAppError(loadErr).Artifact
	}

	a := newApp(cfg, logger, metrics, limiter, res, loadErr, location)
	return &testServer{router: a.router(), metrics: metrics, logs: logs}
}

func (s *testServer) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.RemoteAddr = "192.0.2.1:4000"
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodePrediction(t *testing.T, w *httptest.ResponseRecorder) types.PredictResponse {
	t.Helper()
	var resp types.PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{name: "GET /health returns OK status", method: http.MethodGet, expectedStatus: http.StatusOK},
		{name: "POST /health not found", method: http.MethodPost, expectedStatus: http.StatusNotFound},
		{name: "DELETE /health not found", method: http.MethodDelete, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, "/health", "", "")
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	var resp types.HealthResponse
	w := s.do(http.MethodGet, "/health", "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Ready)
	assert.Equal(t, version, resp.Version)
	assert.Equal(t, ratelimit.RedisDisabled, resp.Redis)
	assert.NotEmpty(t, w.Header().Get(monitoring.RequestIDHeader))
}

func TestPredictEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	tests := []struct {
		name        string
		contentType string
		body        string
		probability float64
		accept      bool
		verdict     string
	}{
		{
			name:        "empty body uses defaults",
			probability: (0.30 + 0.35 + 0.40 + 0.42) / 4,
			verdict:     "NO",
		},
		{
			name:        "partial JSON keeps other defaults",
			contentType: "application/json",
			body:        `{"attractive": 10}`,
			probability: (0.60 + 0.35 + 0.40 + 0.42) / 4,
			verdict:     "NO",
		},
		{
			name:        "strong profile is accepted",
			contentType: "application/json",
			body:        `{"attractive": 8, "funny": 8, "intelligent": 7, "importance_shared_interests": 7, "interest_correlation": 0.5}`,
			probability: (0.60 + 0.80 + 0.65 + 0.70) / 4,
			accept:      true,
			verdict:     "YES",
		},
		{
			name:        "form body",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"attractive": {"10"}}.Encode(),
			probability: (0.60 + 0.35 + 0.40 + 0.42) / 4,
			verdict:     "NO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/predict", tt.contentType, tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			resp := decodePrediction(t, w)
			assert.InDelta(t, tt.probability, resp.Probability, 1e-9)
			assert.Equal(t, tt.accept, resp.Accept)
			assert.Equal(t, tt.verdict, resp.Verdict)
			assert.NotEmpty(t, resp.RequestID)

			require.Len(t, resp.Sensitivity, 5)
			assert.Equal(t, "attractive_partner", resp.Sensitivity[0].Feature)
			assert.Equal(t, "ambition_partner", resp.Sensitivity[4].Feature)
			for _, e := range resp.Sensitivity {
				assert.LessOrEqual(t, e.BumpedValue, 10.0)
				assert.InDelta(t, e.Probability-resp.Probability, e.Delta, 1e-9)
			}

			assert.Len(t, resp.Overlay, 25)
			assert.Equal(t, float64(resp.Inputs.Attractive), resp.Overlay["attractive_partner"])
		})
	}

	assert.Equal(t, int64(len(tests)), s.metrics.GetStats()["predictions"])
}

func TestPredictEndpoint_Sensitivity(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := s.do(http.MethodPost, "/api/predict", "application/json", `{"attractive": 10}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodePrediction(t, w)

	// already at the top of the scale, the bump changes nothing
	attractive := resp.Sensitivity[0]
	assert.Equal(t, 10.0, attractive.BumpedValue)
	assert.InDelta(t, resp.Probability, attractive.Probability, 1e-12)
	assert.Zero(t, attractive.Delta)

	// funny 5 -> 6 crosses the 5.5 split of the second tree
	funny := resp.Sensitivity[3]
	assert.Equal(t, "funny_partner", funny.Feature)
	assert.Equal(t, 6.0, funny.BumpedValue)
	assert.InDelta(t, (0.60+0.80+0.40+0.42)/4, funny.Probability, 1e-9)
}

func TestPredictEndpoint_Errors(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	tests := []struct {
		name           string
		contentType    string
		body           string
		expectedStatus int
		field          string
	}{
		{name: "rating above range", contentType: "application/json", body: `{"sincere": 11}`, expectedStatus: http.StatusBadRequest, field: "sincere"},
		{name: "rating below range", contentType: "application/json", body: `{"importance_humor": 0}`, expectedStatus: http.StatusBadRequest, field: "importance_humor"},
		{name: "correlation out of range", contentType: "application/json", body: `{"interest_correlation": 1.5}`, expectedStatus: http.StatusBadRequest, field: "interest_correlation"},
		{name: "fractional rating", contentType: "application/json", body: `{"funny": 5.5}`, expectedStatus: http.StatusBadRequest},
		{name: "malformed JSON", contentType: "application/json", body: `{"funny":`, expectedStatus: http.StatusBadRequest},
		{name: "unsupported content type", contentType: "text/xml", body: `<a/>`, expectedStatus: http.StatusUnsupportedMediaType},
		{name: "body too large", contentType: "application/json", body: `{"funny": 5` + strings.Repeat(" ", 8<<10) + `}`, expectedStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/predict", tt.contentType, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
			if tt.field != "" {
				assert.Equal(t, "validation", resp["category"])
				fields, ok := resp["fields"].(map[string]interface{})
				require.True(t, ok)
				assert.Contains(t, fields, tt.field)
			}
		})
	}

	assert.Equal(t, int64(0), s.metrics.GetStats()["predictions"])
}

func TestPredictEndpoint_ErrorLoggedOnce(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := s.do(http.MethodPost, "/api/predict", "application/json", `{"sincere": 11}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, strings.Count(s.logs.String(), `"msg":"API Error"`), s.logs.String())
}

func TestPredictEndpoint_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.PerMinute = 1
	cfg.RateLimit.BurstMultiplier = 1
	s := newTestServer(t, cfg, nil)

	w := s.do(http.MethodPost, "/api/predict", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/predict", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// pages are not rate limited
	w = s.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSchemaEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := s.do(http.MethodGet, "/api/schema", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SchemaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Fields, 12)
	assert.Len(t, resp.Traits, 5)
	assert.Equal(t, 0.5, resp.Threshold)
	assert.Len(t, resp.Baseline, 25)
	assert.Contains(t, resp.Baseline, "intellicence_important")
	assert.Contains(t, resp.Model, "interests_correlate")
}

func TestPages(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := s.do(http.MethodGet, "/?attractive=8&funny=8&intelligent=7&importance_shared_interests=7&interest_correlation=0.5", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Verdict: YES")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "'nonce-")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "https://go-echarts.github.io")
	assert.NotContains(t, w.Header().Get("Content-Security-Policy"), "unsafe-inline")
	assert.Contains(t, w.Body.String(), "Likelihood if")

	// the chart is rendered into the page from the same simulation
	stats := s.metrics.GetStats()
	assert.Equal(t, int64(1), stats["predictions"])
	assert.Equal(t, int64(6), stats["classifier_calls"])

	w = s.do(http.MethodGet, "/chart", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwaggerDocs(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	w := s.do(http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc), w.Body.String())
	assert.Equal(t, "Date Decision Simulator API", doc.Info.Title)
	assert.Equal(t, version, doc.Info.Version)
	assert.Contains(t, doc.Paths["/api/predict"], "post")
	assert.Contains(t, doc.Paths["/api/schema"], "get")
	assert.Contains(t, doc.Paths["/health"], "get")

	w = s.do(http.MethodGet, "/swagger/index.html", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/predict", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), nil)
	s.do(http.MethodPost, "/api/predict", "", "")

	w := s.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stats       map[string]interface{} `json:"stats"`
		RateLimiter map[string]interface{} `json:"rate_limiter"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Stats["predictions"])
	assert.Equal(t, 6.0, resp.Stats["classifier_calls"])
	assert.Equal(t, false, resp.RateLimiter["redis_enabled"])
}

func TestHaltedServer(t *testing.T) {
	tests := []struct {
		name    string
		loadErr error
		message string
	}{
		{
			name:    "missing model",
			loadErr: apperrors.NewResourceNotFoundError("dating_model.json", fs.ErrNotExist),
			message: "Missing files",
		},
		{
			name:    "corrupt baseline",
			loadErr: apperrors.NewLoadError("baseline.csv", assert.AnError),
			message: "Error loading model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, testConfig(), tt.loadErr)

			w := s.do(http.MethodGet, "/", "", "")
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.NotContains(t, w.Body.String(), "Likelihood to Accept")

			w = s.do(http.MethodGet, "/health", "", "")
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			var health types.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
			assert.False(t, health.Ready)
			assert.Contains(t, health.Error, tt.message)

			for _, target := range []string{"/api/predict", "/api/schema"} {
				method := http.MethodGet
				if target == "/api/predict" {
					method = http.MethodPost
				}
				w = s.do(method, target, "", "")
				assert.Equal(t, http.StatusServiceUnavailable, w.Code, target)
			}

			w = s.do(http.MethodGet, "/swagger/doc.json", "", "")
			assert.Equal(t, http.StatusNotFound, w.Code)

			assert.Equal(t, int64(0), s.metrics.GetStats()["predictions"])
		})
	}
}

func TestNewSource(t *testing.T) {
	cfg := testConfig()
	source, err := newSource(cfg.Artifacts)
	require.NoError(t, err)
	assert.IsType(t, &resources.DirSource{}, source)

	cfg.Artifacts.Source = config.SourceS3
	_, err = newSource(cfg.Artifacts)
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfiguration))

	cfg.Artifacts.S3.Bucket = "models"
	source, err = newSource(cfg.Artifacts)
	require.NoError(t, err)
	assert.Equal(t, "s3://models/dating_model.json", source.Location("dating_model.json"))
}

func TestLoadConfig(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryConfiguration))
	assert.ErrorContains(t, err, "missing.yaml")

	cfg, err := loadConfig(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Server.Port)
}

func TestConnectRedis(t *testing.T) {
	retry := resilience.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, BackoffFactor: 1}

	client, err := connectRedis(context.Background(), config.RateLimitConfig{}, retry)
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())

	attempts := 0
	retry.Retryable = func(err error) bool {
		attempts++
		return resilience.IsTransient(err)
	}
	client, err = connectRedis(context.Background(), config.RateLimitConfig{RedisAddr: "127.0.0.1:1"}, retry)
	require.Error(t, err)
	require.NotNil(t, client)
	assert.False(t, client.IsEnabled())
	assert.Equal(t, 3, attempts)
}

func BenchmarkPredict(b *testing.B) {
	cfg := testConfig()
	cfg.RateLimit.PerMinute = 1 << 30
	s := newTestServer(b, cfg, nil)
	body := `{"attractive": 7, "funny": 6, "interest_correlation": 0.3}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := s.do(http.MethodPost, "/api/predict", "application/json", body)
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}
