package frontend

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/date-decision-simulator/internal/errors"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/monitoring"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/security"
)

const htmlContentType = "text/html; charset=utf-8"

// Handler serves the simulator page
type Handler struct {
	analyzer   *analysis.Analyzer
	metrics    *monitoring.Metrics
	logger     *monitoring.Logger
	assetsHost string
}

// NewHandler creates a page handler. metrics and logger may be nil.
func NewHandler(analyzer *analysis.Analyzer, metrics *monitoring.Metrics, logger *monitoring.Logger, assetsHost string) *Handler {
	return &Handler{
		analyzer:   analyzer,
		metrics:    metrics,
		logger:     logger,
		assetsHost: assetsHost,
	}
}

type pageData struct {
	Nonce    string
	Sections []Section
	Result   *Result
	Error    string
	Caption  string
}

type haltedData struct {
	Nonce    string
	Message  string
	Artifact string
	Location string
	Expected []string
}

// BindInputs reads the slider values from the query string. Absent fields
// keep their defaults.
func BindInputs(c *gin.Context) (features.UserInputs, error) {
	inputs := features.DefaultUserInputs()
	if err := c.ShouldBindQuery(&inputs); err != nil {
		return inputs, apperrors.NewValidationError("Invalid inputs", err)
	}
	return inputs, nil
}

// Predict runs one simulation and records it
func (h *Handler) Predict(c *gin.Context, inputs features.UserInputs) (analysis.Simulation, error) {
	start := time.Now()
	sim, err := h.analyzer.Simulate(inputs)
	duration := time.Since(start)

	if err != nil {
		if h.metrics != nil {
			if apperrors.IsCategory(err, apperrors.CategoryValidation) {
				h.metrics.IncrementValidationFailure()
			} else {
				h.metrics.IncrementPredictionFailure()
			}
		}
		return sim, err
	}

	calls := 1 + len(sim.Sensitivity)
	if h.metrics != nil {
		h.metrics.RecordPrediction(sim.Accept, calls, duration)
	}
	if h.logger != nil {
		h.logger.PredictionLogger(c.GetString(monitoring.RequestIDKey), sim.Probability, sim.Accept, calls, duration)
	}
	return sim, nil
}

// Page renders the simulator for the inputs in the query string
func (h *Handler) Page(c *gin.Context) {
	data := pageData{Nonce: security.GetNonce(c), Caption: ChartCaption}

	inputs, err := BindInputs(c)
	if err != nil && h.metrics != nil {
		h.metrics.IncrementValidationFailure()
	}
	if err == nil {
		var sim analysis.Simulation
		sim, err = h.Predict(c, inputs)
		if err == nil {
			data.Sections = Sections(sim.Inputs, nil)
			data.Result = NewResult(sim, NewChartView(sim, h.assetsHost))
			h.render(c, http.StatusOK, "index.html", data)
			return
		}
	}

	appErr := apperrors.ToAppError(err)
	_ = c.Error(appErr)
	data.Sections = Sections(inputs, appErr.Fields)
	data.Error = appErr.UserMessage()
	h.render(c, appErr.HTTPStatus, "index.html", data)
}

func (h *Handler) abort(c *gin.Context, err error) {
	appErr := apperrors.ToAppError(err)
	appErr.RequestID = c.GetString(monitoring.RequestIDKey)
	_ = c.Error(appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.Response())
}

func (h *Handler) render(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.abort(c, apperrors.NewInternalError("page rendering failed", err))
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}

// Halted serves the diagnostic page shown when the artifacts failed to load.
// Nothing else is computed while halted. expected lists the artifact names
// the server looks for.
func Halted(loadErr error, location string, expected ...string) gin.HandlerFunc {
	appErr := apperrors.ToAppError(loadErr)
	if !apperrors.IsResourceNotFound(appErr) && !apperrors.IsLoadError(appErr) {
		location = ""
	}
	return func(c *gin.Context) {
		data := haltedData{
			Nonce:    security.GetNonce(c),
			Message:  appErr.UserMessage(),
			Artifact: appErr.Artifact,
			Location: location,
			Expected: expected,
		}
		var buf bytes.Buffer
		if err := pages.ExecuteTemplate(&buf, "halted.html", data); err != nil {
			c.String(http.StatusServiceUnavailable, appErr.UserMessage())
			return
		}
		c.Data(http.StatusServiceUnavailable, htmlContentType, buf.Bytes())
	}
}
