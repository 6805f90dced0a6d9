package entity

import "context"

// Manager依赖倒置

// entity/feed/manager.go的依赖倒置
type IFeedManager interface {
	Init(source IFrameSource, detector IDetector) // 初始化

	// 输入方向，查找Feed，如果不存在则panic
	Get(direction Direction) IFeed
	// 输入方向，查找Feed，如果不存在则返回error
	GetOrError(direction Direction) (IFeed, error)

	Prepare() // 准备阶段，复制各Feed的运行时计数器到快照

	// 并行采集所有方向的本拍车辆计数，全部方向结束后才返回
	// 采集失败的方向计数记为0，不中断本拍
	Collect(ctx context.Context) map[Direction]int

	// 快照中所有方向累计的采集失败次数
	TotalFailures() int64

	Close() // 释放帧源资源
}

// entity/feed/feed.go的依赖倒置
type IFeed interface {
	Direction() Direction // 所属方向
	Frames() int64        // 成功采集的帧数
	Failures() int64      // 采集失败的次数
}
