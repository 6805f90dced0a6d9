package junction

import (
	"math"
	"sort"
	"time"

	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/config"

	"github.com/samber/lo"
)

// phase 当前绿灯相位
// 功能：记录当前获得绿灯的方向及其时间区间
// 说明：时长在选定时一次性确定并固化，相位内不得重算；
// 剩余时间始终由end推导，保证跨拍可复现
type phase struct {
	direction entity.Direction // 绿灯方向
	start     time.Time        // 相位开始时刻
	duration  int              // 相位总时长（秒），选定时固化
	end       time.Time        // 相位结束时刻，恒等于start+duration
	set       bool             // 是否已有相位（首拍前为false）
}

// SignalArbiter 信号仲裁器
// 功能：持有相位状态机与公平性计数，消费平滑需求、产出信控决策
// 说明：状态仅由控制循环单线程持有与修改，时间作为显式入参传入，
// 决策过程完全确定、可脱离真实时钟测试
type SignalArbiter struct {
	params config.SignalParams // 校验后的信控参数

	current phase // 当前相位

	// 公平性状态，仅在相位切换时修改
	lastDirection entity.Direction // 上一次获得绿灯的方向
	hasLast       bool             // 是否已有历史方向
	consecutive   int              // 同一方向连续获得绿灯的次数（含当前相位）
}

// NewSignalArbiter 创建信号仲裁器
// 功能：初始化信号仲裁器，相位与公平性状态为空
// 参数：params-校验后的信控参数
// 返回：初始化完成的信号仲裁器实例
func NewSignalArbiter(params config.SignalParams) *SignalArbiter {
	return &SignalArbiter{params: params}
}

// Decide 信控决策
// 功能：判断当前相位是否到期，到期则选出新的绿灯方向与时长
// 参数：now-当前时刻，demand-方向->平滑需求
// 返回：绿灯方向、剩余秒数、相位总时长
// 算法说明：
// 1. 相位未到期：返回当前方向与按结束时刻推导的剩余秒数，不做任何修改
// 2. 到期（now>=end）或首拍：取需求argmax为候选，平局按固定方向顺序取先者
// 3. 公平性检查：候选与上次方向相同则连续计数+1，否则重置为1；
//    连续计数超过上限时，改选需求降序中第一个不等于上次方向的方向并重置计数
// 4. 时长计算：floor(需求)*2，夹在[MinGreen, MaxGreen]内
// 5. 提交：固化相位区间[now, now+duration)，相位起点的剩余时间即总时长
func (a *SignalArbiter) Decide(now time.Time, demand map[entity.Direction]float64) (entity.Direction, int, int) {
	if a.current.set && now.Before(a.current.end) {
		return a.current.direction, remainingSeconds(now, a.current.end), a.current.duration
	}

	// argmax，严格大于保证平局时固定顺序的先者获胜
	selected := entity.Directions[0]
	for _, d := range entity.Directions[1:] {
		if demand[d] > demand[selected] {
			selected = d
		}
	}

	// 公平性检查
	if a.hasLast && selected == a.lastDirection {
		a.consecutive++
	} else {
		a.consecutive = 1
	}
	if a.consecutive > a.params.MaxConsecutive {
		selected = a.fallback(demand)
		a.consecutive = 1
	}

	duration := lo.Clamp(int(math.Floor(demand[selected]))*2, a.params.MinGreen, a.params.MaxGreen)
	if duration <= 0 {
		// MinGreen>=1由配置校验保证，这里只可能是程序缺陷
		log.Panicf("arbiter: non-positive duration %d after clamp", duration)
	}

	a.lastDirection = selected
	a.hasLast = true
	a.current = phase{
		direction: selected,
		start:     now,
		duration:  duration,
		end:       now.Add(time.Duration(duration) * time.Second),
		set:       true,
	}
	return selected, duration, duration
}

// fallback 公平性回退选择
// 功能：在需求降序中选出第一个不等于上次方向的方向
// 参数：demand-方向->平滑需求
// 返回：回退选择的方向
// 说明：稳定排序保证需求相同时按固定方向顺序取先者，决策可复现
func (a *SignalArbiter) fallback(demand map[entity.Direction]float64) entity.Direction {
	ordered := make([]entity.Direction, len(entity.Directions))
	copy(ordered, entity.Directions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return demand[ordered[i]] > demand[ordered[j]]
	})
	for _, d := range ordered {
		if d != a.lastDirection {
			return d
		}
	}
	// 方向数>=2，循环必然命中
	log.Panicf("arbiter: fallback found no direction other than %v", a.lastDirection)
	return a.lastDirection
}

// remainingSeconds 计算相位剩余秒数
// 功能：按结束时刻推导剩余时间，向上取整并截断为非负
func remainingSeconds(now time.Time, end time.Time) int {
	remaining := int(math.Ceil(end.Sub(now).Seconds()))
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
