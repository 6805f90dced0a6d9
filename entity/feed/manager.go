package feed

import (
	"context"
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
)

// Feed管理器
type FeedManager struct {
	data  map[entity.Direction]*Feed
	feeds []*Feed

	source entity.IFrameSource
}

// NewManager 创建Feed管理器实例
// 功能：初始化Feed管理器，创建内部数据结构
// 返回：新创建的Feed管理器实例
func NewManager() *FeedManager {
	return &FeedManager{
		data:  make(map[entity.Direction]*Feed),
		feeds: make([]*Feed, 0),
	}
}

// Init 初始化所有方向的Feed
// 功能：为固定方向集中的每个方向创建Feed，建立方向映射关系
// 参数：source-帧源，detector-车辆检测器
func (m *FeedManager) Init(source entity.IFrameSource, detector entity.IDetector) {
	m.source = source
	m.feeds = lo.Map(entity.Directions, func(d entity.Direction, _ int) *Feed {
		return newFeed(d, source, detector)
	})
	m.data = lo.SliceToMap(m.feeds, func(f *Feed) (entity.Direction, *Feed) {
		return f.direction, f
	})
}

// Get 根据方向获取Feed实例
// 功能：通过方向查找对应的Feed对象，如果不存在则panic
// 参数：direction-方向
// 返回：对应的Feed实例，如果不存在则panic
func (m *FeedManager) Get(direction entity.Direction) entity.IFeed {
	if f, ok := m.data[direction]; !ok {
		log.Panicf("no direction %v in feed data", direction)
		return nil
	} else {
		return f
	}
}

// GetOrError 根据方向获取Feed实例（带错误处理）
// 功能：通过方向查找对应的Feed对象，如果不存在则返回错误
// 参数：direction-方向
// 返回：Feed实例和错误信息，如果不存在则返回nil和错误
func (m *FeedManager) GetOrError(direction entity.Direction) (entity.IFeed, error) {
	if f, ok := m.data[direction]; !ok {
		return nil, fmt.Errorf("no direction %v in feed data", direction)
	} else {
		return f, nil
	}
}

// Prepare 准备阶段，处理所有Feed的准备工作
// 功能：复制各Feed的运行时计数器到快照，供心跳日志与指标读取
func (m *FeedManager) Prepare() {
	parallel.GoFor(m.feeds, func(f *Feed) { f.prepare() })
}

// Collect 并行采集所有方向的本拍车辆计数
// 功能：为每个方向并发执行一次采集与检测，全部完成后汇总返回
// 参数：ctx-上下文，携带本拍的采集超时
// 返回：方向->本拍原始车辆计数，覆盖全部方向
// 说明：各方向的采集互不共享可变状态，结果在此处汇合（join屏障），
// 返回后本拍才允许进入需求更新
func (m *FeedManager) Collect(ctx context.Context) map[entity.Direction]int {
	counts := parallel.GoMap(m.feeds, func(f *Feed) int {
		return f.collect(ctx)
	})
	result := make(map[entity.Direction]int, len(m.feeds))
	for i, f := range m.feeds {
		result[f.direction] = counts[i]
	}
	return result
}

// TotalFailures 快照中所有方向累计的采集失败次数
func (m *FeedManager) TotalFailures() int64 {
	return lo.SumBy(m.feeds, func(f *Feed) int64 { return f.snapshot.failures })
}

// Close 释放帧源资源
func (m *FeedManager) Close() {
	if m.source != nil {
		m.source.Release()
	}
}
