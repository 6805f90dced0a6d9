package feed

import (
	"context"

	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
)

// feedRuntime 单方向输入源的运行时计数器
// 功能：记录该方向累计成功帧数与失败次数，用于可观测性
type feedRuntime struct {
	frames   int64 // 成功采集并完成检测的帧数
	failures int64 // 采集失败（帧不可用）的次数
}

// Feed 单方向输入源
// 功能：绑定一个方向的帧源与检测器，每拍产出一次原始车辆计数
// 说明：采集失败吸收为计数0，不向控制循环抛出错误；
// 运行时计数器只在collect中修改，各方向互不共享可变状态
type Feed struct {
	direction entity.Direction    // 所属方向
	source    entity.IFrameSource // 帧源
	detector  entity.IDetector    // 车辆检测器

	snapshot feedRuntime // snapshot，用于保存输出的数据
	runtime  feedRuntime // 运行时数据
}

// newFeed 创建单方向输入源
// 功能：初始化Feed，绑定方向、帧源与检测器
// 参数：direction-所属方向，source-帧源，detector-检测器
// 返回：初始化完成的Feed实例
func newFeed(direction entity.Direction, source entity.IFrameSource, detector entity.IDetector) *Feed {
	return &Feed{
		direction: direction,
		source:    source,
		detector:  detector,
	}
}

// prepare 准备阶段，复制运行时计数器到快照
func (f *Feed) prepare() {
	f.snapshot = f.runtime
}

// collect 采集本拍的原始车辆计数
// 功能：读取一帧并运行检测器，失败时记为0
// 参数：ctx-上下文，携带本拍的采集超时
// 返回：该方向本拍的原始车辆计数（非负）
// 说明：帧不可用只记入失败计数，本拍按0处理，需求随后自然衰减
func (f *Feed) collect(ctx context.Context) int {
	frame, ok := f.source.Read(ctx, f.direction)
	if !ok {
		f.runtime.failures++
		log.Debugf("feed %v: frame unavailable, count 0", f.direction)
		return 0
	}
	f.runtime.frames++
	count := f.detector.Detect(frame)
	if count < 0 {
		// 检测器契约为非负计数，负值只可能是程序缺陷
		log.Panicf("feed %v: detector returned negative count %d", f.direction, count)
	}
	return count
}

// Direction 获取所属方向
func (f *Feed) Direction() entity.Direction {
	return f.direction
}

// Frames 获取快照中成功采集的帧数
func (f *Feed) Frames() int64 {
	return f.snapshot.frames
}

// Failures 获取快照中采集失败的次数
func (f *Feed) Failures() int64 {
	return f.snapshot.failures
}
