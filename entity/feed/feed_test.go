package feed_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity/feed"
)

// stubSource 按预设计数表产帧的帧源
type stubSource struct {
	counts   map[entity.Direction]int // 方向->每帧车辆数
	failing  map[entity.Direction]bool
	released atomic.Bool
}

func (s *stubSource) Read(ctx context.Context, d entity.Direction) (*entity.Frame, bool) {
	if s.failing[d] {
		return nil, false
	}
	return &entity.Frame{Seq: int64(s.counts[d]), Time: time.Now()}, true
}

func (s *stubSource) Release() {
	s.released.Store(true)
}

// stubDetector 直接把帧序号当计数返回
type stubDetector struct{}

func (stubDetector) Detect(frame *entity.Frame) int {
	return int(frame.Seq)
}

func newTestManager(source *stubSource) *feed.FeedManager {
	m := feed.NewManager()
	m.Init(source, stubDetector{})
	return m
}

func TestManagerCollectAllDirections(t *testing.T) {
	// every direction reports exactly one count per tick
	source := &stubSource{
		counts: map[entity.Direction]int{
			entity.DirectionNorth: 12,
			entity.DirectionEast:  3,
			entity.DirectionSouth: 1,
			entity.DirectionWest:  2,
		},
	}
	m := newTestManager(source)

	counts := m.Collect(context.Background())
	assert.Len(t, counts, len(entity.Directions))
	assert.Equal(t, 12, counts[entity.DirectionNorth])
	assert.Equal(t, 3, counts[entity.DirectionEast])
	assert.Equal(t, 1, counts[entity.DirectionSouth])
	assert.Equal(t, 2, counts[entity.DirectionWest])
}

func TestManagerAbsorbsFailures(t *testing.T) {
	// a failed direction yields 0 without disturbing the others
	source := &stubSource{
		counts: map[entity.Direction]int{
			entity.DirectionNorth: 7,
			entity.DirectionEast:  4,
			entity.DirectionSouth: 2,
			entity.DirectionWest:  9,
		},
		failing: map[entity.Direction]bool{entity.DirectionSouth: true},
	}
	m := newTestManager(source)

	for i := 0; i < 3; i++ {
		counts := m.Collect(context.Background())
		assert.Equal(t, 0, counts[entity.DirectionSouth])
		assert.Equal(t, 7, counts[entity.DirectionNorth])
	}

	// counters become visible after the next prepare
	m.Prepare()
	assert.Equal(t, int64(3), m.Get(entity.DirectionSouth).Failures())
	assert.Equal(t, int64(0), m.Get(entity.DirectionSouth).Frames())
	assert.Equal(t, int64(3), m.Get(entity.DirectionNorth).Frames())
	assert.Equal(t, int64(3), m.TotalFailures())
}

func TestManagerGet(t *testing.T) {
	m := newTestManager(&stubSource{})
	f := m.Get(entity.DirectionWest)
	assert.Equal(t, entity.DirectionWest, f.Direction())

	_, err := m.GetOrError(entity.Direction(42))
	assert.Error(t, err)
}

func TestManagerClose(t *testing.T) {
	source := &stubSource{}
	m := newTestManager(source)
	m.Close()
	assert.True(t, source.released.Load())
}
