package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/config"
)

func alpha(v float64) *float64 { return &v }

func TestRuntimeConfigDefaults(t *testing.T) {
	rc, err := config.NewRuntimeConfig(config.Config{})
	assert.NoError(t, err)
	assert.Equal(t, config.DefaultMinGreen, rc.Signal.MinGreen)
	assert.Equal(t, config.DefaultMaxGreen, rc.Signal.MaxGreen)
	assert.Equal(t, config.DefaultSmoothingAlpha, rc.Signal.SmoothingAlpha)
	assert.Equal(t, config.DefaultMaxConsecutive, rc.Signal.MaxConsecutive)
	assert.Equal(t, config.DefaultInterval, rc.C.Step.Interval)
}

func TestRuntimeConfigExplicitZeroAlpha(t *testing.T) {
	// alpha 0 (no history) is a legal explicit setting
	c := config.Config{}
	c.Control.Signal.SmoothingAlpha = alpha(0)
	rc, err := config.NewRuntimeConfig(c)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, rc.Signal.SmoothingAlpha)
}

func TestRuntimeConfigValidation(t *testing.T) {
	// test: min_green > max_green
	c := config.Config{}
	c.Control.Signal.MinGreen = 90
	c.Control.Signal.MaxGreen = 15
	_, err := config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrBadGreenBounds)

	// test: alpha out of [0, 1)
	c = config.Config{}
	c.Control.Signal.SmoothingAlpha = alpha(1.0)
	_, err = config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrBadSmoothingAlpha)

	c = config.Config{}
	c.Control.Signal.SmoothingAlpha = alpha(-0.1)
	_, err = config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrBadSmoothingAlpha)

	// test: max_consecutive below 1
	c = config.Config{}
	c.Control.Signal.MaxConsecutive = -1
	_, err = config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrBadMaxConsecutive)

	// test: negative interval
	c = config.Config{}
	c.Control.Step.Interval = -2
	_, err = config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrBadInterval)
}
