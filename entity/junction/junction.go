package junction

import (
	"time"

	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
	"github.com/tsinghua-fib-lab/smartjunction-oss/utils/config"
)

// Junction 路口信控实体
// 功能：组合需求估计器与信号仲裁器，对外提供每拍一次的更新入口
// 说明：需求更新与信控决策在同一拍内严格先后执行，
// 第N拍的决策必然反映第N拍的需求更新
type Junction struct {
	estimator *DemandEstimator // 需求估计器
	arbiter   *SignalArbiter   // 信号仲裁器
}

// New 创建路口信控实体
// 功能：根据信控参数初始化需求估计器与信号仲裁器
// 参数：params-校验后的信控参数
// 返回：初始化完成的路口实例
func New(params config.SignalParams) *Junction {
	log.Debugf(
		"junction created: min_green=%d max_green=%d alpha=%v max_consecutive=%d",
		params.MinGreen, params.MaxGreen, params.SmoothingAlpha, params.MaxConsecutive,
	)
	return &Junction{
		estimator: NewDemandEstimator(params.SmoothingAlpha),
		arbiter:   NewSignalArbiter(params),
	}
}

// Update 更新阶段，执行本拍的需求更新与信控决策
// 功能：先用原始计数更新平滑需求，再以当前时刻做一次信控决策
// 参数：now-当前时刻，rawCounts-方向->本拍原始车辆计数
// 返回：绿灯方向、剩余秒数、相位总时长
// 说明：每拍恰好调用一次；调用方保证原始计数覆盖全部方向
func (j *Junction) Update(now time.Time, rawCounts map[entity.Direction]int) (entity.Direction, int, int) {
	j.estimator.Update(rawCounts)
	return j.arbiter.Decide(now, j.estimator.Snapshot())
}

// Demand 获取平滑需求快照
// 功能：返回方向->平滑需求的只读副本
func (j *Junction) Demand() map[entity.Direction]float64 {
	return j.estimator.Snapshot()
}
