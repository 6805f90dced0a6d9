package task

import (
	"context"
	"flag"
	"time"

	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 60, "心跳日志间隔步数")
	collectTimeout    = flag.Duration("task.collect_timeout", 0, "单拍采集超时（0表示取节拍间隔）")
)

// tpsAlpha 节拍吞吐指数平滑系数
const tpsAlpha = 0.9

// prepare 准备阶段，每拍执行一次
// 功能：在每拍开始时推进时钟并完成准备工作
// 算法说明：
// 1. 更新时钟：步数+1并重新计算累计时间
// 2. 心跳日志：定期输出步数、累计时间与采集失败总数
// 3. Feed准备：复制各方向的运行时计数器到快照
func (ctx *Context) prepare() {
	ctx.clock.InternalStep++
	ctx.clock.T = float64(ctx.clock.InternalStep) * ctx.clock.DT

	ctx.feedManager.Prepare()

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		log.Infof(
			"STEP: %d(%s) feed failures: %d",
			ctx.clock.InternalStep,
			ctx.clock,
			ctx.feedManager.TotalFailures(),
		)
	}
}

// update 更新阶段，每拍执行一次
// 功能：执行本拍的采集、需求更新、信控决策与结果发布
// 参数：runCtx-控制循环的生命周期上下文
// 返回：true表示本拍完整生效，false表示关停到达、本拍被丢弃
// 算法说明：
// 1. 并行采集：四个方向各采集一帧并检测，带超时，全部结束后汇合
// 2. 关停检查：采集完成后若关停已到达，丢弃本拍，保证不会半拍写入需求
// 3. 路口更新：需求平滑与信控决策在同一拍内严格先后执行
// 4. 指标计算：端到端耗时与节拍吞吐（指数平滑）
// 5. 结果发布：组装TickOutput并依次交给所有渲染端
func (ctx *Context) update(runCtx context.Context) bool {
	start := time.Now()

	cctx, cancel := context.WithTimeout(runCtx, ctx.collectTimeout())
	counts := ctx.feedManager.Collect(cctx)
	cancel()
	if runCtx.Err() != nil {
		log.Debugf("step %d: shutdown during collect, tick discarded", ctx.clock.InternalStep)
		return false
	}

	now := time.Now()
	active, remaining, duration := ctx.junction.Update(now, counts)

	// 节拍吞吐：首拍无参考值，之后按相邻两拍间隔做指数平滑
	if last := ctx.lastTickAt; last > 0 {
		gap := float64(now.UnixNano()-last) / float64(time.Second)
		if gap > 0 {
			ctx.ticksPerSecond = tpsAlpha*ctx.ticksPerSecond + (1-tpsAlpha)/gap
		}
	}
	ctx.lastTickAt = now.UnixNano()

	out := &entity.TickOutput{
		Step:             ctx.clock.InternalStep,
		Time:             now,
		ActiveDirection:  active,
		RemainingSeconds: remaining,
		PhaseDuration:    duration,
		Demand:           ctx.junction.Demand(),
		RawCounts:        counts,
		TickLatencyMs:    float64(time.Since(start)) / float64(time.Millisecond),
		TicksPerSecond:   ctx.ticksPerSecond,
	}
	for _, r := range ctx.renderers {
		r.Render(out)
	}
	return true
}

// collectTimeout 单拍采集超时
// 说明：未显式配置时取节拍间隔，保证慢源不会拖垮后续节拍
func (ctx *Context) collectTimeout() time.Duration {
	if *collectTimeout > 0 {
		return *collectTimeout
	}
	return time.Duration(ctx.clock.DT * float64(time.Second))
}

// Run 运行控制循环
// 功能：按节拍间隔循环执行prepare与update，直至运行区间耗尽或关停
// 参数：runCtx-生命周期上下文，取消后循环在拍间干净退出
// 说明：一拍完整执行完毕才进入下一拍；关停到达时在途采集在超时内结束，
// 资源在退出前统一释放
func (ctx *Context) Run(runCtx context.Context) {
	// 初始化
	ctx.Init()

	interval := time.Duration(ctx.clock.DT * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

loop:
	for {
		ctx.prepare()
		if !ctx.update(runCtx) {
			break
		}
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		if ctx.clock.Done() || ctx.closed.Load() {
			break
		}
		select {
		case <-runCtx.Done():
			break loop
		case <-ticker.C:
		}
	}
	log.Infof("engine complete")
	ctx.Close()
}
