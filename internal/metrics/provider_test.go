package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success_ExportsRuntimeMetrics", func(t *testing.T) {
		provider, err := NewProvider("votesafe_test")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		assert.NotNil(t, provider.MeterProvider())

		w := httptest.NewRecorder()
		provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "go_goroutines")
	})

	t.Run("Success_IndependentRegistries", func(t *testing.T) {
		first, err := NewProvider("votesafe_test")
		require.NoError(t, err)
		second, err := NewProvider("votesafe_test")
		require.NoError(t, err)

		assert.NotSame(t, first.registry, second.registry)
	})
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("votesafe_test")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
