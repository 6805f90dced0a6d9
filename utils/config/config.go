package config

import (
	"errors"
	"fmt"
)

// 默认信控参数，与原型系统一致
const (
	DefaultMinGreen       = 15  // 默认最短绿灯时长（秒）
	DefaultMaxGreen       = 90  // 默认最长绿灯时长（秒）
	DefaultSmoothingAlpha = 0.7 // 默认指数平滑系数
	DefaultMaxConsecutive = 2   // 默认同一方向最多连续次数
	DefaultInterval       = 1.0 // 默认节拍间隔（秒）
)

var (
	ErrBadGreenBounds    = errors.New("config: green bounds must satisfy 1 <= min_green <= max_green")
	ErrBadSmoothingAlpha = errors.New("config: smoothing_alpha must be in [0, 1)")
	ErrBadMaxConsecutive = errors.New("config: max_consecutive must be >= 1")
	ErrBadInterval       = errors.New("config: step interval must be > 0")
)

// SignalParams 校验完成的信控参数
// 功能：供信号仲裁模块直接使用的参数集合，默认值已补全
type SignalParams struct {
	MinGreen       int     // 最短绿灯时长（秒）
	MaxGreen       int     // 最长绿灯时长（秒）
	SmoothingAlpha float64 // 指数平滑系数[0,1)
	MaxConsecutive int     // 同一方向最多连续获得绿灯的次数
}

// RuntimeConfig 运行时配置
// 功能：存储控制循环运行时的配置信息，补全默认值并完成校验
// 说明：配置错误在此处立即失败，不允许带病进入控制循环
type RuntimeConfig struct {
	All    Config       // 全部配置
	C      Control      // 全局控制配置
	Signal SignalParams // 校验后的信控参数
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，补全默认值并校验
// 参数：config-原始配置对象
// 返回：运行时配置指针与错误信息
// 算法说明：
// 1. 零值字段填入默认值（原型系统的默认参数）
// 2. 校验绿灯时长范围、平滑系数、公平性上限与节拍间隔
// 3. 任一校验失败立即返回error，调用方不得启动控制循环
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control

	s := rc.C.Signal
	p := SignalParams{
		MinGreen:       s.MinGreen,
		MaxGreen:       s.MaxGreen,
		SmoothingAlpha: DefaultSmoothingAlpha,
		MaxConsecutive: s.MaxConsecutive,
	}
	if p.MinGreen == 0 {
		p.MinGreen = DefaultMinGreen
	}
	if p.MaxGreen == 0 {
		p.MaxGreen = DefaultMaxGreen
	}
	if s.SmoothingAlpha != nil {
		p.SmoothingAlpha = *s.SmoothingAlpha
	}
	if p.MaxConsecutive == 0 {
		p.MaxConsecutive = DefaultMaxConsecutive
	}
	if rc.C.Step.Interval == 0 {
		rc.C.Step.Interval = DefaultInterval
	}

	if p.MinGreen < 1 || p.MinGreen > p.MaxGreen {
		return nil, fmt.Errorf("%w: min_green=%d max_green=%d", ErrBadGreenBounds, p.MinGreen, p.MaxGreen)
	}
	if p.SmoothingAlpha < 0 || p.SmoothingAlpha >= 1 {
		return nil, fmt.Errorf("%w: smoothing_alpha=%v", ErrBadSmoothingAlpha, p.SmoothingAlpha)
	}
	if p.MaxConsecutive < 1 {
		return nil, fmt.Errorf("%w: max_consecutive=%d", ErrBadMaxConsecutive, p.MaxConsecutive)
	}
	if rc.C.Step.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval=%v", ErrBadInterval, rc.C.Step.Interval)
	}
	rc.Signal = p

	return rc, nil
}
