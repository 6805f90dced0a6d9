package clock

import (
	"fmt"

	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/config"
)

// Clock 控制循环时钟
// 功能：管理控制循环的节拍推进，维护当前步数与累计运行时间
// 说明：时间按"步数×节拍间隔"推进，保证决策逻辑与真实时钟解耦、可复现
type Clock struct {
	DT         float64 // 每个节拍的时间间隔（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，运行区间[START, END)；<0表示不设结束步

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数
}

// New 根据配置创建新的时钟实例
// 功能：根据节拍配置初始化时钟信息
// 参数：stepConfig-控制步配置，包含时间间隔、起止步数
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	endStep := int32(-1)
	if stepConfig.Total > 0 {
		endStep = stepConfig.Start + stepConfig.Total
	}

	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   endStep,
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：重置步数为起始步，重新计算当前时间
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Done 判断是否到达结束步
// 返回：true表示运行区间已耗尽，控制循环应当退出
func (c *Clock) Done() bool {
	return c.END_STEP >= 0 && c.InternalStep+1 >= c.END_STEP
}

// String 获取时钟的字符串表示
// 功能：将累计运行时间格式化为可读的字符串
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// GetHourMinuteSecond 获取累计运行时间的小时、分钟、秒
// 功能：将累计运行时间分解为小时、分钟、秒三个部分
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
