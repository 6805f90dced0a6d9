package task_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
	"github.com/tsinghua-fib-lab/smartjunction-oss/task"
	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/config"
)

// recorder 记录每拍输出的渲染端
type recorder struct {
	outs []*entity.TickOutput
}

func (r *recorder) Render(out *entity.TickOutput) {
	r.outs = append(r.outs, out)
}

func testConfig(total int32) config.Config {
	c := config.Config{}
	c.Control.Step = config.ControlStep{Start: 0, Total: total, Interval: 0.01}
	for _, d := range entity.Directions {
		c.Input.Feeds = append(c.Input.Feeds, config.Feed{
			Direction: d.String(),
			Profile:   []config.DemandStage{{Duration: 60, Rate: 2}},
		})
	}
	return c
}

func TestNewContextRejectsBadConfig(t *testing.T) {
	// test: bad signal bounds
	c := testConfig(3)
	c.Control.Signal.MinGreen = 90
	c.Control.Signal.MaxGreen = 15
	_, err := task.NewContext("test", c)
	assert.Error(t, err)

	// test: bad feed set
	c = testConfig(3)
	c.Input.Feeds = c.Input.Feeds[:2]
	_, err = task.NewContext("test", c)
	assert.Error(t, err)
}

func TestRunBoundedSteps(t *testing.T) {
	rec := &recorder{}
	ctx, err := task.NewContext("test", testConfig(3), rec)
	assert.NoError(t, err)

	ctx.Run(context.Background())

	// steps run over [start, end): two full ticks for total=3
	assert.Len(t, rec.outs, 2)
	for i, out := range rec.outs {
		assert.Equal(t, int32(i+1), out.Step)
		assert.Contains(t, entity.Directions, out.ActiveDirection)
		assert.GreaterOrEqual(t, out.RemainingSeconds, 0)
		assert.GreaterOrEqual(t, out.PhaseDuration, config.DefaultMinGreen)
		assert.LessOrEqual(t, out.PhaseDuration, config.DefaultMaxGreen)
		assert.Len(t, out.Demand, len(entity.Directions))
		assert.Len(t, out.RawCounts, len(entity.Directions))
		for _, d := range entity.Directions {
			assert.GreaterOrEqual(t, out.Demand[d], 0.0)
			assert.GreaterOrEqual(t, out.RawCounts[d], 0)
		}
	}
}

func TestRunDiscardsTickAfterShutdown(t *testing.T) {
	// a shutdown arriving before the tick is applied must not leave a
	// half-applied demand update behind
	rec := &recorder{}
	ctx, err := task.NewContext("test", testConfig(100), rec)
	assert.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	ctx.Run(cancelled)

	assert.Empty(t, rec.outs)
	for _, d := range entity.Directions {
		assert.Equal(t, 0.0, ctx.Junction().Demand()[d])
	}
}
