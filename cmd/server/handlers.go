package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/date-decision-simulator/internal/errors"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/frontend"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/monitoring"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/types"
)

// health reports readiness. An unreachable Redis degrades the status but
// keeps 200, since rate limiting falls back to memory.
//
// @Summary Health check
// @Description Reports readiness and the Redis backend. Not ready when the artifacts failed to load.
// @Tags Operations
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Failure 503 {object} types.HealthResponse
// @Router /health [get]
func (a *app) health(c *gin.Context) {
	resp := types.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   version,
		Ready:     !a.halted(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	redisStatus, err := a.limiter.RedisStatus(ctx)
	resp.Redis = redisStatus
	if err != nil {
		resp.Status = "degraded"
		a.logger.Warn("Redis health check failed", "error", err)
	}

	if a.halted() {
		resp.Status = "unavailable"
		resp.Error = apperrors.ToAppError(a.loadErr).UserMessage()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

const healthTimeout = 2 * time.Second

func (a *app) metricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":            a.metrics.GetStats(),
		"response_times":   a.metrics.ResponseTimes(),
		"prediction_times": a.metrics.PredictionTimes(),
		"status_codes":     a.metrics.GetStatusCodeDistribution(),
		"rate_limiter":     a.limiter.GetStats(),
		"timestamp":        time.Now().Format(time.RFC3339),
	})
}

// schema godoc
// @Summary Describe the inputs and the loaded model
// @Description Lists the input fields with their ranges and defaults, the partner traits used for sensitivity, the decision threshold and the columns of the loaded artifacts.
// @Tags Prediction
// @Produce json
// @Success 200 {object} types.SchemaResponse
// @Router /api/schema [get]
func (a *app) schema(c *gin.Context) {
	c.JSON(http.StatusOK, types.SchemaResponse{
		Fields:    features.Fields(),
		Traits:    features.Traits(),
		Threshold: analysis.Threshold,
		Baseline:  a.resources.Baseline.Names(),
		Model:     a.resources.Classifier.FeatureNames(),
	})
}

// predict accepts JSON or form bodies. Omitted fields, and an empty body,
// keep the slider defaults.
//
// @Summary Predict the decision for one set of ratings
// @Description Overlays the inputs on the baseline row, predicts the probability of a yes and runs the +1 sensitivity analysis on the five partner traits. Omitted fields keep their slider defaults; an empty body predicts the defaults.
// @Tags Prediction
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param inputs body features.UserInputs false "Ratings, preferences and interest correlation"
// @Success 200 {object} types.PredictResponse
// @Failure 400 {object} map[string]any
// @Failure 413 {object} map[string]any
// @Failure 415 {object} map[string]any
// @Failure 429 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/predict [post]
func (a *app) predict(c *gin.Context) {
	var req types.PredictRequest = features.DefaultUserInputs()
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		a.metrics.IncrementValidationFailure()
		_ = c.Error(apperrors.NewValidationError("Invalid request body", err))
		return
	}

	sim, err := a.pages.Predict(c, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	verdict, _ := frontend.VerdictText(sim.Accept)
	c.JSON(http.StatusOK, types.PredictResponse{
		Probability: sim.Probability,
		Percent:     frontend.FormatPercent(sim.Probability),
		Accept:      sim.Accept,
		Verdict:     verdict,
		Inputs:      sim.Inputs,
		Overlay:     sim.Row.Map(),
		Sensitivity: sim.Sensitivity,
		RequestID:   c.GetString(monitoring.RequestIDKey),
	})
}
