package config

// ControlStep 指定控制循环节拍的配置项
// 功能：定义控制循环的起止步数与节拍间隔
// 说明：Total<=0表示不设结束步，循环持续运行直至外部停止
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数（<=0表示不限）
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// Signal 信控参数配置
// 功能：定义信号仲裁的绿灯时长范围、需求平滑系数与公平性上限
type Signal struct {
	MinGreen       int      `yaml:"min_green"`                 // 最短绿灯时长（秒），默认15
	MaxGreen       int      `yaml:"max_green"`                 // 最长绿灯时长（秒），默认90
	SmoothingAlpha *float64 `yaml:"smoothing_alpha,omitempty"` // 指数平滑系数[0,1)，越大越偏向历史，默认0.7
	MaxConsecutive int      `yaml:"max_consecutive"`           // 同一方向最多连续获得绿灯的次数，默认2
}

// Control 控制循环配置
// 功能：定义控制循环的核心参数
type Control struct {
	Step   ControlStep `yaml:"step"`
	Signal Signal      `yaml:"signal"`
}

// DemandStage 单个方向需求曲线中的一段
// 功能：描述一段时间内该方向的期望到达车辆数
type DemandStage struct {
	Duration float64 `yaml:"duration"` // 该段持续时间（秒）
	Rate     float64 `yaml:"rate"`     // 期望每帧车辆数
}

// Feed 单个方向的输入源配置
// 功能：定义回放帧源在该方向上的需求曲线与故障注入参数
type Feed struct {
	Direction string        `yaml:"direction"`           // 方向名（NORTH/EAST/SOUTH/WEST）
	Seed      uint64        `yaml:"seed,omitempty"`      // 随机种子，默认取方向序号
	DropRate  float64       `yaml:"drop_rate,omitempty"` // 帧采集失败概率[0,1]
	Profile   []DemandStage `yaml:"profile"`             // 需求曲线，到末尾自动回绕
}

// Input 指定控制循环所有输入数据的配置项
// 功能：定义四个方向的输入源配置
type Input struct {
	Feeds []Feed `yaml:"feeds"` // 每个方向一项，四个方向齐备
}

// Config YAML配置文件的根结构
// 功能：定义整个信控系统的配置结构
type Config struct {
	Input   Input   `yaml:"input"`   // 输入
	Control Control `yaml:"control"` // 控制过程
}
