package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("open dating_model.json: no such file or directory")

	tests := []struct {
		name       string
		err        *AppError
		category   ErrorCategory
		status     int
		prefix     string
		userSubstr string
	}{
		{
			name:       "resource not found names the artifact",
			err:        NewResourceNotFoundError("dating_model.json", cause),
			category:   CategoryResourceNotFound,
			status:     http.StatusServiceUnavailable,
			prefix:     "[RESOURCE_NOT_FOUND]",
			userSubstr: "dating_model.json",
		},
		{
			name:       "load error carries the cause",
			err:        NewLoadError("baseline.csv", fmt.Errorf("bad header")),
			category:   CategoryLoad,
			status:     http.StatusServiceUnavailable,
			prefix:     "[LOAD_ERROR]",
			userSubstr: "Error loading model: bad header",
		},
		{
			name:       "prediction error",
			err:        NewPredictionError("classifier failed", cause),
			category:   CategoryPrediction,
			status:     http.StatusInternalServerError,
			prefix:     "[PREDICTION_ERROR]",
			userSubstr: "prediction could not be computed",
		},
		{
			name:       "validation error",
			err:        NewValidationError("attractive must be between 1 and 10"),
			category:   CategoryValidation,
			status:     http.StatusBadRequest,
			prefix:     "[VALIDATION_ERROR]",
			userSubstr: "attractive must be between 1 and 10",
		},
		{
			name:       "rate limit",
			err:        NewRateLimitError("30"),
			category:   CategoryRateLimit,
			status:     http.StatusTooManyRequests,
			prefix:     "[RATE_LIMIT_EXCEEDED]",
			userSubstr: "Too many requests",
		},
		{
			name:       "configuration error",
			err:        NewConfigurationError("configuration could not be loaded", cause),
			category:   CategoryConfiguration,
			status:     http.StatusInternalServerError,
			prefix:     "[CONFIGURATION_ERROR]",
			userSubstr: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Contains(t, tt.err.Error(), tt.prefix)
			assert.Contains(t, tt.err.UserMessage(), tt.userSubstr)
		})
	}
}

func TestCategoryHelpers(t *testing.T) {
	notFound := fmt.Errorf("startup: %w", NewResourceNotFoundError("baseline.csv", nil))
	load := NewLoadError("dating_model.json", nil)
	pred := NewPredictionError("boom", nil)

	assert.True(t, IsResourceNotFound(notFound))
	assert.False(t, IsLoadError(notFound))
	assert.True(t, IsLoadError(load))
	assert.True(t, IsPredictionError(pred))
	assert.False(t, IsPredictionError(stderrors.New("plain")))
}

func TestToAppError(t *testing.T) {
	assert.Nil(t, ToAppError(nil))

	wrapped := fmt.Errorf("simulate: %w", NewPredictionError("boom", nil))
	appErr := ToAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, CategoryPrediction, appErr.Category)

	plain := ToAppError(stderrors.New("something odd"))
	assert.Equal(t, CategoryInternal, plain.Category)
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)
	assert.ErrorContains(t, plain, "something odd")
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	defaultLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	defer slog.SetDefault(defaultLogger)

	r := gin.New()
	r.Use(ErrorHandler(), RecoveryHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewValidationErrorWithMap(map[string]string{"funny": "must be an integer between 1 and 10"}))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"validation"`)
	// handler errors are logged by the request monitoring, not here
	assert.Empty(t, logs.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/panic", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"internal"`)
	assert.Contains(t, logs.String(), "Internal server error")
}
