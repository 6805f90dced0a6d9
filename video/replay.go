// 提供基于需求曲线的回放帧源
// 按配置的分段需求曲线合成灰度帧，曲线走到末尾后自动回绕，
// 并支持按概率注入采集失败，用于模拟单路输入的独立故障
package video

import (
	"context"
	"flag"
	"fmt"
	"image"
	"time"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/config"
	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/randengine"
)

var (
	frameWidth  = flag.Int("video.frame_width", 160, "合成帧宽度（像素）")
	frameHeight = flag.Int("video.frame_height", 120, "合成帧高度（像素）")
	cellSize    = flag.Int("video.cell_size", 16, "车辆放置网格的单元边长（像素）")
)

// feedState 单方向回放状态
// 功能：维护该方向在需求曲线上的位置、随机引擎与帧序号
// 说明：每个方向独立持有，Read在各方向间并发调用时互不共享可变状态
type feedState struct {
	direction entity.Direction     // 所属方向
	profile   []config.DemandStage // 需求曲线
	total     float64              // 曲线总时长（秒）
	elapsed   float64              // 当前在曲线中的位置（秒）
	dropRate  float64              // 帧采集失败概率
	engine    *randengine.Engine   // 随机引擎（按方向独立播种）
	seq       int64                // 帧序号
}

// rateAt 查询曲线在指定位置的期望车辆数
func (s *feedState) rateAt(t float64) float64 {
	for _, stage := range s.profile {
		if t < stage.Duration {
			return stage.Rate
		}
		t -= stage.Duration
	}
	return 0
}

// ReplaySource 回放帧源
// 功能：为四个方向各自按需求曲线合成视频帧，实现IFrameSource
// 说明：素材循环属于帧源内部行为，曲线耗尽后回绕到起点继续产出
type ReplaySource struct {
	interval float64                         // 每帧推进的曲线时间（秒），等于节拍间隔
	states   map[entity.Direction]*feedState // 方向->回放状态
}

// NewReplaySource 创建回放帧源
// 功能：根据输入配置初始化各方向的回放状态
// 参数：feeds-各方向的输入源配置，interval-节拍间隔（秒）
// 返回：回放帧源实例与错误信息
// 算法说明：
// 1. 解析每个配置项的方向名，种子缺省取方向序号
// 2. 校验四个方向恰好各出现一次、失败概率在[0,1]内
// 3. 累加曲线总时长，空曲线视为恒零需求
func NewReplaySource(feeds []config.Feed, interval float64) (*ReplaySource, error) {
	states := make(map[entity.Direction]*feedState, len(entity.Directions))
	for _, fc := range feeds {
		d, err := entity.ParseDirection(fc.Direction)
		if err != nil {
			return nil, fmt.Errorf("video: %w", err)
		}
		if _, ok := states[d]; ok {
			return nil, fmt.Errorf("video: duplicate feed for direction %v", d)
		}
		if fc.DropRate < 0 || fc.DropRate > 1 {
			return nil, fmt.Errorf("video: drop_rate for %v must be in [0, 1], got %v", d, fc.DropRate)
		}
		seed := fc.Seed
		if seed == 0 {
			seed = uint64(d) + 1
		}
		states[d] = &feedState{
			direction: d,
			profile:   fc.Profile,
			total:     lo.SumBy(fc.Profile, func(s config.DemandStage) float64 { return s.Duration }),
			dropRate:  fc.DropRate,
			engine:    randengine.New(seed),
		}
		log.Infof("loaded feed for %v: %d stages, drop_rate=%v", d, len(fc.Profile), fc.DropRate)
	}
	for _, d := range entity.Directions {
		if _, ok := states[d]; !ok {
			return nil, fmt.Errorf("video: missing feed for direction %v", d)
		}
	}
	return &ReplaySource{
		interval: interval,
		states:   states,
	}, nil
}

// Read 读取一帧
// 功能：在该方向的需求曲线上推进一拍并合成一帧
// 参数：ctx-上下文，direction-方向
// 返回：合成帧与是否可用，失败注入命中或上下文取消时返回不可用
// 算法说明：
// 1. 查询当前位置的期望车辆数并推进曲线位置，超出总时长则回绕
// 2. 命中失败注入时本帧不可用（计数由上层按0处理）
// 3. 按泊松分布抽取本帧车辆数并绘制到网格上
func (s *ReplaySource) Read(ctx context.Context, direction entity.Direction) (*entity.Frame, bool) {
	state, ok := s.states[direction]
	if !ok {
		log.Panicf("no direction %v in replay source", direction)
	}
	select {
	case <-ctx.Done():
		return nil, false
	default:
	}

	rate := state.rateAt(state.elapsed)
	state.elapsed += s.interval
	if state.total > 0 && state.elapsed >= state.total {
		log.Debugf("rewinding feed for %v", direction)
		state.elapsed -= state.total
	}
	state.seq++

	if state.engine.PTrue(state.dropRate) {
		return nil, false
	}

	count := state.engine.Poisson(rate)
	return &entity.Frame{
		Image: renderFrame(count, state.engine),
		Seq:   state.seq,
		Time:  time.Now(),
	}, true
}

// Release 释放帧源占用的资源
// 说明：合成帧源没有外部资源，仅记录日志
func (s *ReplaySource) Release() {
	log.Debugf("replay source released")
}

// renderFrame 合成一帧灰度图像
// 功能：在黑色背景上按网格放置count个白色车辆色块
// 参数：count-车辆数，engine-随机引擎
// 返回：合成的灰度图像
// 说明：色块放在互不相邻触碰的网格单元内，保证连通域计数与车辆数一致；
// 车辆数超过网格容量时截断到容量（画面已满）
func renderFrame(count int, engine *randengine.Engine) *image.Gray {
	w, h := *frameWidth, *frameHeight
	cell := *cellSize
	img := image.NewGray(image.Rect(0, 0, w, h))

	cols, rows := w/cell, h/cell
	capacity := cols * rows
	if count > capacity {
		count = capacity
	}
	if count <= 0 {
		return img
	}

	cells := engine.Perm(capacity)[:count]
	for _, c := range cells {
		x0 := (c % cols) * cell
		y0 := (c / cols) * cell
		// 单元内留2像素边距，避免相邻色块连通
		for y := y0 + 2; y < y0+cell-2; y++ {
			for x := x0 + 2; x < x0+cell-2; x++ {
				img.Pix[y*img.Stride+x] = 0xff
			}
		}
	}
	return img
}
