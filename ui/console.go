package ui

import (
	"flag"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
)

var (
	consoleInterval = flag.Int("ui.console_interval", 5, "终端状态行的输出间隔（拍）")
)

// ConsoleRenderer 终端渲染器
// 功能：按固定间隔将每拍的信控状态打成一行日志，实现IRenderer
type ConsoleRenderer struct {
	interval int32 // 输出间隔（拍）
}

// NewConsoleRenderer 创建终端渲染器
func NewConsoleRenderer() *ConsoleRenderer {
	return &ConsoleRenderer{interval: int32(*consoleInterval)}
}

// Render 消费一拍的控制结果
// 功能：到达输出间隔时打印绿灯方向、剩余时间、需求与吞吐
func (r *ConsoleRenderer) Render(out *entity.TickOutput) {
	if r.interval > 1 && out.Step%r.interval != 0 {
		return
	}
	demand := strings.Join(lo.Map(entity.Directions, func(d entity.Direction, _ int) string {
		return fmt.Sprintf("%v=%.1f", d, out.Demand[d])
	}), " ")
	log.Infof(
		"GREEN %v %ds/%ds | demand %s | %.1fms %.2ftps",
		out.ActiveDirection, out.RemainingSeconds, out.PhaseDuration,
		demand, out.TickLatencyMs, out.TicksPerSecond,
	)
}
