// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/config"
)

func TestSampleRate(t *testing.T) {
	assert.Equal(t, 0.1, SampleRate(0))
	assert.Equal(t, 0.1, SampleRate(-1))
	assert.Equal(t, 0.1, SampleRate(1.5))
	assert.Equal(t, 0.25, SampleRate(0.25))
	assert.Equal(t, 1.0, SampleRate(1))
}

func TestDisabledTelemetry(t *testing.T) {
	tel, err := NewTelemetry(context.Background(), config.OtelConfig{Enabled: false}, config.AppConfig{})
	require.NoError(t, err)
	assert.False(t, tel.Enabled())
	assert.NoError(t, tel.Shutdown(context.Background()))

	var missing *Telemetry
	assert.NoError(t, missing.Shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "noop")
	EndSpan(span, nil)
	assert.Empty(t, TraceIDFromContext(ctx))
}
