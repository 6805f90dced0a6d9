package junction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity/junction"
)

func TestJunctionUpdateReflectsCurrentTick(t *testing.T) {
	// the decision of a tick must see the demand update of the same tick
	j := junction.New(testParams)
	now := time.Unix(1000, 0)

	raw := map[entity.Direction]int{
		entity.DirectionNorth: 0,
		entity.DirectionEast:  20,
		entity.DirectionSouth: 0,
		entity.DirectionWest:  0,
	}
	dir, remaining, duration := j.Update(now, raw)
	assert.Equal(t, entity.DirectionEast, dir)
	// demand after one update is (1-alpha)*20 = 6, duration floor(6)*2=12 -> min 15
	assert.Equal(t, 15, duration)
	assert.Equal(t, remaining, duration)
	assert.InDelta(t, 6.0, j.Demand()[entity.DirectionEast], 1e-9)
}

func TestJunctionIdleConvergesToMinGreen(t *testing.T) {
	// all-zero raw counts for many ticks drive every phase to min green
	j := junction.New(testParams)
	now := time.Unix(1000, 0)
	zero := map[entity.Direction]int{}
	for i := 0; i < 10; i++ {
		_, _, duration := j.Update(now, zero)
		assert.Equal(t, testParams.MinGreen, duration)
		now = now.Add(time.Duration(duration) * time.Second)
	}
}

func TestJunctionFailedFeedStopsWinning(t *testing.T) {
	// a persistently failed feed decays and loses the green to live feeds
	j := junction.New(testParams)
	now := time.Unix(1000, 0)

	// north starts strong, then its feed dies while east keeps traffic
	dir, _, duration := j.Update(now, map[entity.Direction]int{
		entity.DirectionNorth: 30,
		entity.DirectionEast:  5,
	})
	assert.Equal(t, entity.DirectionNorth, dir)

	dead := map[entity.Direction]int{entity.DirectionEast: 5}
	eastWins := 0
	for i := 0; i < 30; i++ {
		now = now.Add(time.Duration(duration) * time.Second)
		dir, _, duration = j.Update(now, dead)
		if i >= 15 && dir == entity.DirectionEast {
			eastWins++
		}
	}
	// east holds the green except for fairness-forced rotations
	assert.GreaterOrEqual(t, eastWins, 10)
	assert.Less(t, j.Demand()[entity.DirectionNorth], 0.1)
}
