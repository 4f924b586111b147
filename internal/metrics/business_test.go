package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine matches a metric line by name, partial labels and value.
// OTel scope labels injected by the exporter are skipped by the regex.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	assert.NotPanics(t, func() {
		noOpMetrics.RecordOperation(context.Background(), "auth", "otp_verify", "success")
		noOpMetrics.RecordDuration(context.Background(), "crypto", "vote_encrypt", time.Millisecond, "success")
		noOpMetrics.RecordSecurityEvent(context.Background(), "auth_declined", "otp_invalid")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "auth", "otp_verify", "success")
	bm.RecordOperation(ctx, "auth", "otp_verify", "success")
	bm.RecordOperation(ctx, "auth", "otp_verify", "declined")
	bm.RecordOperation(ctx, "crypto", "vote_encrypt", "success")
	bm.RecordDuration(ctx, "auth", "otp_verify", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "auth", "otp_verify", 60*time.Millisecond, "success")
	bm.RecordSecurityEvent(ctx, "audit_tamper", "hash_mismatch")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)
	output := w.Body.String()

	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="auth".*operation="otp_verify".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="auth".*operation="otp_verify".*status="declined"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="auth".*operation="otp_verify".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_security_events_total`,
		`kind="audit_tamper".*reason="hash_mismatch"`,
		`1`,
	)
}
