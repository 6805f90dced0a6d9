package task

import (
	"sync/atomic"

	"github.com/tsinghua-fib-lab/smartjunction-oss/clock"
	"github.com/tsinghua-fib-lab/smartjunction-oss/detection"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity/feed"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity/junction"
	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/config"
	"github.com/tsinghua-fib-lab/smartjunction-oss/video"
)

const (
	SelfName = "junction" // 本程序在日志与对外标识中的名字
)

// Context 控制任务上下文
// 功能：包含一次信控任务的所有变量和状态，替代全局变量
// 说明：管理控制循环的所有组件，包括时钟、输入源管理器、路口实体与渲染端；
// 需求、相位与公平性状态仅由控制循环单线程持有
type Context struct {
	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool
	// 资源释放标记，保证Close只执行一次
	released atomic.Bool

	// 时钟
	clock *clock.Clock

	// Feed管理器
	feedManager entity.IFeedManager
	// 路口信控实体
	junction entity.IJunction

	// 运行时配置
	runtimeConfig *config.RuntimeConfig
	// 渲染端列表，每拍依次接收控制结果
	renderers []entity.IRenderer

	// 节拍吞吐的指数平滑值与上一拍时刻
	ticksPerSecond float64
	lastTickAt     int64 // UnixNano，0表示尚无上一拍
}

// NewContext 创建新的控制任务上下文
// 功能：校验配置并初始化控制循环的所有组件
// 参数：
//   - job: 任务名称
//   - c: 配置对象
//   - renderers: 渲染端列表（终端、HTTP面板等）
//
// 返回：初始化完成的Context实例与错误信息
// 算法说明：
// 1. 配置校验：补全默认值，非法配置立即失败，不启动循环
// 2. 创建时钟与回放帧源（帧源配置错误同样立即失败）
// 3. 创建检测器、Feed管理器与路口信控实体
func NewContext(
	job string,
	c config.Config,
	renderers ...entity.IRenderer,
) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		job:           job,
		runtimeConfig: rc,
		renderers:     renderers,
	}
	ctx.clock = clock.New(rc.C.Step)

	source, err := video.NewReplaySource(c.Input.Feeds, rc.C.Step.Interval)
	if err != nil {
		return nil, err
	}
	detector := detection.NewBlobDetector()

	// 新建各类实体
	ctx.feedManager = feed.NewManager()
	ctx.feedManager.Init(source, detector)
	ctx.junction = junction.New(rc.Signal)

	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) FeedManager() entity.IFeedManager {
	return ctx.feedManager
}

func (ctx *Context) Junction() entity.IJunction {
	return ctx.junction
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Init 初始化控制循环状态
// 功能：重置时钟并输出启动信息
func (ctx *Context) Init() {
	ctx.clock.Init()

	s := ctx.runtimeConfig.Signal
	log.Infof("job: %v", ctx.job)
	log.Infof("directions: %v", entity.Directions)
	log.Infof(
		"signal: min_green=%ds max_green=%ds alpha=%v max_consecutive=%d",
		s.MinGreen, s.MaxGreen, s.SmoothingAlpha, s.MaxConsecutive,
	)
	log.Infof("tick interval: %vs", ctx.clock.DT)
}

// Stop 请求控制循环在下一拍边界退出
// 说明：可在任意协程调用；循环不会在一拍中途停下，
// 保证需求更新永远不会半拍写入
func (ctx *Context) Stop() {
	ctx.closed.Store(true)
}

// Close 释放任务占用的资源
// 功能：释放帧源等资源，可安全地重复调用
func (ctx *Context) Close() {
	if !ctx.released.CompareAndSwap(false, true) {
		return
	}
	ctx.feedManager.Close()
}
