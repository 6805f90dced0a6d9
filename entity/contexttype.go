package entity

import (
	"github.com/tsinghua-fib-lab/smartjunction-oss/clock"
	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	FeedManager() IFeedManager
	Junction() IJunction
	RuntimeConfig() *config.RuntimeConfig
}
