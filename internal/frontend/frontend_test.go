package frontend

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/date-decision-simulator/internal/errors"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/model"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/monitoring"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// newTestAnalyzer scores only on attractiveness: p = sigmoid(attractive - 5)
func newTestAnalyzer(t *testing.T) *analysis.Analyzer {
	t.Helper()
	traits := features.Traits()
	names := make([]string, len(traits))
	coef := make([]float64, len(traits))
	for i, tr := range traits {
		names[i] = tr.Key
	}
	coef[0] = 1

	classifier, err := model.Build(model.Artifact{
		ModelType:    model.TypeLogisticRegression,
		FeatureNames: names,
		Coefficients: coef,
		Intercept:    -5,
	})
	require.NoError(t, err)

	row, err := features.NewFeatureRow([]string{"age", features.KeyAttractivePartner}, []float64{25, 6})
	require.NoError(t, err)
	baseline, err := features.NewBaselineTemplate(row)
	require.NoError(t, err)

	return analysis.NewAnalyzer(classifier, baseline)
}

func newTestRouter(t *testing.T) (*gin.Engine, *monitoring.Metrics, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	metrics := monitoring.NewMetrics()
	h := NewHandler(newTestAnalyzer(t), metrics, monitoring.NewLoggerTo(&logs, slog.LevelInfo), testAssetsHost)

	r := gin.New()
	r.GET("/", security.CSPMiddleware(security.PagePolicy(testAssetsHost)), h.Page)
	return r, metrics, &logs
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPage_Defaults(t *testing.T) {
	r, metrics, logs := newTestRouter(t)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "Likelihood to Accept")
	assert.Contains(t, body, "50.0%")
	assert.Contains(t, body, "Verdict: NO")
	assert.Contains(t, body, VerdictNoDetail)
	assert.Contains(t, body, "1. Rate the Partner")
	assert.Contains(t, body, "3. Interest Correlation")
	assert.Contains(t, body, "Opposite")
	assert.Contains(t, body, `id="sensitivity-chart"`)
	assert.Contains(t, body, "The red dashed line represents your CURRENT likelihood.")
	assert.NotContains(t, body, "<iframe")

	csp := w.Header().Get("Content-Security-Policy")
	nonce := strings.SplitN(strings.SplitN(csp, "'nonce-", 2)[1], "'", 2)[0]
	assert.Contains(t, body, `<script nonce="`+nonce+`">`)
	assert.Contains(t, body, `<script nonce="`+nonce+`" src="`+testAssetsHost+`echarts.min.js"></script>`)
	// every script on the page carries the nonce
	assert.Equal(t, strings.Count(body, "<script"), strings.Count(body, `<script nonce="`+nonce+`"`))

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats["predictions"])
	assert.Equal(t, int64(6), stats["classifier_calls"])
	assert.Contains(t, logs.String(), "Prediction Completed")
}

func TestPage_Accept(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := get(r, "/?attractive=8&interest_correlation=0.5")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "95.3%")
	assert.Contains(t, body, "Verdict: YES")
	assert.Contains(t, body, VerdictYesDetail)
	assert.Contains(t, body, `value="0.5"`)
}

func TestPage_InvalidInputs(t *testing.T) {
	r, metrics, _ := newTestRouter(t)

	w := get(r, "/?attractive=11")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be an integer between 1 and 10")
	assert.NotContains(t, w.Body.String(), "Likelihood to Accept")

	w = get(r, "/?funny=lots")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid inputs")

	stats := metrics.GetStats()
	assert.Equal(t, int64(0), stats["predictions"])
	assert.Equal(t, int64(2), stats["validation_failures"])
}

func TestPage_ChartFromSameSimulation(t *testing.T) {
	r, metrics, logs := newTestRouter(t)

	w := get(r, "/?attractive=8")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Likelihood if")
	assert.Contains(t, body, "Current (95.3%)")
	assert.Contains(t, body, "dashed")
	assert.Contains(t, body, "chart.setOption({")

	// one simulation per view, the chart included
	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats["predictions"])
	assert.Equal(t, int64(6), stats["classifier_calls"])
	assert.Equal(t, 1, strings.Count(logs.String(), "Prediction Completed"))
}

func TestNewChartView(t *testing.T) {
	sim, err := newTestAnalyzer(t).Simulate(features.DefaultUserInputs())
	require.NoError(t, err)

	view := NewChartView(sim, "/static/")
	assert.Equal(t, ChartElementID, view.ID)
	assert.Equal(t, []string{"/static/echarts.min.js"}, view.Scripts)

	var option map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(view.Option), &option))
	series, ok := option["series"].([]interface{})
	require.True(t, ok)
	assert.Len(t, series, 2)
}

func TestHalted(t *testing.T) {
	r := gin.New()
	r.GET("/", security.CSPMiddleware(security.PagePolicy(testAssetsHost)),
		Halted(apperrors.NewResourceNotFoundError("dating_model.json", nil), "data/dating_model.json",
			"dating_model.json", "baseline.csv"))

	w := get(r, "/")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Missing files")
	assert.Contains(t, w.Body.String(), "data/dating_model.json")
	assert.Contains(t, w.Body.String(), "<code>baseline.csv</code>")
	assert.NotContains(t, w.Body.String(), "Likelihood to Accept")
}

func TestChartBars_SortedDescending(t *testing.T) {
	entries := []analysis.SensitivityEntry{
		{Label: "Attractive", Probability: 0.40},
		{Label: "Sincere", Probability: 0.55},
		{Label: "Intelligent", Probability: 0.40},
		{Label: "Funny", Probability: 0.6321},
	}
	bars := ChartBars(entries)

	assert.Equal(t, []ChartBar{
		{Label: "Funny", Percent: 63.2},
		{Label: "Sincere", Percent: 55},
		{Label: "Attractive", Percent: 40},
		{Label: "Intelligent", Percent: 40},
	}, bars)
	assert.Equal(t, "Attractive", entries[0].Label)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "63.2%", FormatPercent(0.632))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "100.0%", FormatPercent(1))

	verdict, detail := VerdictText(true)
	assert.Equal(t, VerdictYes, verdict)
	assert.Equal(t, VerdictYesDetail, detail)
	verdict, _ = VerdictText(false)
	assert.Equal(t, VerdictNo, verdict)
}

func TestSections(t *testing.T) {
	inputs := features.DefaultUserInputs()
	inputs.Funny = 9
	sections := Sections(inputs, map[string]string{"funny": "bad"})

	require.Len(t, sections, 3)
	assert.Len(t, sections[0].Sliders, 5)
	assert.Len(t, sections[1].Sliders, 6)
	require.Len(t, sections[2].Sliders, 1)

	funny := sections[0].Sliders[3]
	assert.Equal(t, "funny", funny.Name)
	assert.Equal(t, "9", funny.Value)
	assert.Equal(t, "bad", funny.Error)

	corr := sections[2].Sliders[0]
	assert.Equal(t, "-1", corr.Min)
	assert.Equal(t, "0.01", corr.Step)
	assert.Equal(t, CorrelationTicks, sections[2].Ticks)
}
