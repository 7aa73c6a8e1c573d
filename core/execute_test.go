package core

import (
	"testing"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
	"github.com/stretchr/testify/assert"
)

// TestModelConfigOverrides verifies that heuristic overrides from the runtime
// config reach the model configs, and that zero values keep the defaults.
func TestModelConfigOverrides(t *testing.T) {
	assert.Equal(t, schema.DefaultRetentionConfig(), retentionModelConfig(&contract.Config{}))
	assert.Equal(t, schema.DefaultRevenueConfig(), revenueModelConfig(&contract.Config{}))

	cfg := &contract.Config{
		RetentionMinPoints:       10,
		BenchmarkTolerance:       0.05,
		RetentionConfidenceDecay: 0.02,
		RevenueMinPoints:         7,
		RevenueConfidenceDecay:   0.03,
		ConversionElasticity:     0.8,
	}

	rc := retentionModelConfig(cfg)
	assert.Equal(t, 10, rc.MinDataPoints)
	assert.InDelta(t, 0.05, rc.BenchmarkTolerance, 1e-9)
	assert.InDelta(t, 0.02, rc.ConfidenceDecayPerDay, 1e-9)

	vc := revenueModelConfig(cfg)
	assert.Equal(t, 7, vc.MinDataPoints)
	assert.InDelta(t, 0.03, vc.ConfidenceDecayPerDay, 1e-9)
	assert.InDelta(t, 0.8, vc.ConversionElasticity, 1e-9)
}
