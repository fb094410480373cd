package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleErrorGin(c, err, nil)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, body
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		errorCode  string
	}{
		{"InvalidInput", apperrors.Wrap(apperrors.ErrInvalidInput, "bad entry"), http.StatusBadRequest, "bad_request"},
		{"Unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"NotConfiguredReadsAsUnauthorized", apperrors.ErrNotConfigured, http.StatusUnauthorized, "unauthorized"},
		{"Forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"RateLimited", apperrors.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"NotFound", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"UnknownErrorHidden", apperrors.New("connection refused to db-host:5432"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := performError(t, tt.err)
			assert.Equal(t, tt.statusCode, recorder.Code)
			assert.Equal(t, tt.errorCode, body.Error)
			assert.NotEmpty(t, body.Message)

			parsed, err := time.Parse(time.RFC3339, body.Timestamp)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
		})
	}

	t.Run("InternalDetailsNeverLeak", func(t *testing.T) {
		_, body := performError(t, apperrors.New("connection refused to db-host:5432"))
		assert.NotContains(t, body.Message, "db-host")
	})

	t.Run("DenialMessagesIndistinguishable", func(t *testing.T) {
		_, wrongPassphrase := performError(t, apperrors.Wrap(apperrors.ErrUnauthorized, "wrong passphrase"))
		_, notConfigured := performError(t, apperrors.ErrNotConfigured)
		assert.Equal(t, wrongPassphrase.Message, notConfigured.Message)
	})

	t.Run("NilErrorWritesNothing", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		HandleErrorGin(c, nil, nil)
		assert.Empty(t, recorder.Body.String())
	})
}
