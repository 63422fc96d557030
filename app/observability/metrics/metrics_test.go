package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_InitializesOnce(t *testing.T) {
	first := Get()
	require.NotNil(t, first)
	assert.Same(t, first, Get())

	assert.NotNil(t, first.CityMutationsTotal)
	assert.NotNil(t, first.WeatherRequestsTotal)
	assert.NotNil(t, first.WeatherCacheHitsTotal)
	assert.NotNil(t, first.WeatherDurationSeconds)
	assert.NotNil(t, first.DbQueryDurationSeconds)
	assert.NotNil(t, first.DbQueryErrorsTotal)

	assert.NotPanics(t, func() {
		first.DbQueryErrorsTotal.Add(context.Background(), 1)
	})
}
