package entity

import (
	"context"
	"image"
	"time"
)

// Frame 单个方向单个节拍的视频帧
// 功能：承载帧源产出的灰度图像及其采集信息，作为检测器的输入
type Frame struct {
	Image *image.Gray // 灰度图像
	Seq   int64       // 帧序号（每个方向独立递增）
	Time  time.Time   // 采集时刻
}

// entity/feed/feed.go的依赖倒置

// IFrameSource 帧源接口
// 功能：按方向产出视频帧，帧源内部负责素材循环（到末尾自动回绕）
type IFrameSource interface {
	// 读取一帧，ok为false表示该方向本拍不可用
	Read(ctx context.Context, direction Direction) (frame *Frame, ok bool)
	// 释放帧源占用的资源
	Release()
}

// IDetector 车辆检测器接口
// 功能：对单帧图像计数车辆，模型加载与推理属于外部实现
type IDetector interface {
	// 检测一帧中的车辆数（非负）
	Detect(frame *Frame) int
}

// TickOutput 每拍对外发布的控制结果
// 功能：携带信控决策、需求快照与观测指标，供渲染端消费
// 说明：发布后只读，渲染端不得修改其中的映射表
type TickOutput struct {
	Step             int32                 // 当前步数
	Time             time.Time             // 决策时刻
	ActiveDirection  Direction             // 当前绿灯方向
	RemainingSeconds int                   // 当前相位剩余秒数
	PhaseDuration    int                   // 当前相位总时长（秒）
	Demand           map[Direction]float64 // 平滑需求快照
	RawCounts        map[Direction]int     // 本拍原始车辆计数
	TickLatencyMs    float64               // 本拍端到端耗时（毫秒）
	TicksPerSecond   float64               // 节拍吞吐（指数平滑）
}

// IRenderer 渲染端接口
// 功能：消费每拍的控制结果（终端、HTTP面板等）
type IRenderer interface {
	Render(out *TickOutput)
}

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	// 更新阶段，先更新平滑需求再做信控决策，每拍恰好调用一次
	// 返回本拍的绿灯方向、剩余秒数与相位总时长
	Update(now time.Time, rawCounts map[Direction]int) (active Direction, remaining int, duration int)

	// 读取平滑需求快照（副本，调用方可自由持有）
	Demand() map[Direction]float64
}
