package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecurityMetrics(t *testing.T) {
	provider, err := NewProvider("test_viewer")
	require.NoError(t, err)

	sm, err := NewSecurityMetrics(provider.MeterProvider(), "test_viewer")
	require.NoError(t, err)
	assert.NotNil(t, sm)
}

func TestSecurityMetrics_Record(t *testing.T) {
	provider, err := NewProvider("test_viewer")
	require.NoError(t, err)

	sm, err := NewSecurityMetrics(provider.MeterProvider(), "test_viewer")
	require.NoError(t, err)

	ctx := context.Background()
	sm.RecordCheck(ctx, "csrf", "denied")
	sm.RecordCheck(ctx, "referrer", "allowed")
	sm.RecordClassification(ctx, "cloudflare_cdn")
	sm.RecordAdmission(ctx, "/api/auth", true)
	sm.RecordAdmission(ctx, "/api/auth", false)

	// The exporter output should carry every instrument.
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(recorder, request)

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	output := string(body)
	assert.Contains(t, output, "test_viewer_security_checks_total")
	assert.Contains(t, output, "test_viewer_referrer_classifications_total")
	assert.Contains(t, output, "test_viewer_rate_limit_decisions_total")
	assert.Regexp(t, `decision="admitted"`, output)
	assert.Regexp(t, `decision="denied"`, output)
}

func TestNoOpSecurityMetrics(t *testing.T) {
	sm := NewNoOpSecurityMetrics()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		sm.RecordCheck(ctx, "csrf", "denied")
		sm.RecordClassification(ctx, "invalid")
		sm.RecordAdmission(ctx, "/api/auth", false)
	})
}
