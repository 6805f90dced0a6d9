package junction

import (
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
)

// DemandEstimator 需求估计器
// 功能：为每个方向维护一个指数平滑后的车辆需求值
// 说明：纯内存状态，无I/O；每拍由控制循环调用一次Update
// 不变量：所有方向始终有定义；原始计数非负且平滑为凸组合，需求值永不为负
type DemandEstimator struct {
	alpha  float64                      // 平滑系数[0,1)，越大越偏向历史
	demand map[entity.Direction]float64 // 方向->平滑需求
}

// NewDemandEstimator 创建需求估计器
// 功能：初始化需求估计器，所有方向的需求置零
// 参数：alpha-平滑系数[0,1)，合法性由配置层保证
// 返回：初始化完成的需求估计器实例
func NewDemandEstimator(alpha float64) *DemandEstimator {
	demand := make(map[entity.Direction]float64, len(entity.Directions))
	for _, d := range entity.Directions {
		demand[d] = 0
	}
	return &DemandEstimator{
		alpha:  alpha,
		demand: demand,
	}
}

// Update 用本拍原始计数更新平滑需求
// 功能：对每个方向执行指数平滑 demand = alpha*demand + (1-alpha)*raw
// 参数：rawCounts-方向->本拍原始车辆计数，调用方保证每个方向都有值
// 说明：采集失败的方向由调用方记为0，其需求随后逐拍衰减趋零，
// 这是设计好的恢复行为而非特例
func (e *DemandEstimator) Update(rawCounts map[entity.Direction]int) {
	for _, d := range entity.Directions {
		e.demand[d] = e.alpha*e.demand[d] + (1-e.alpha)*float64(rawCounts[d])
	}
}

// Snapshot 获取平滑需求的只读副本
// 功能：复制当前需求表，供信控决策与展示使用
// 返回：方向->平滑需求的新映射表，调用方可自由持有
func (e *DemandEstimator) Snapshot() map[entity.Direction]float64 {
	snapshot := make(map[entity.Direction]float64, len(e.demand))
	for d, v := range e.demand {
		snapshot[d] = v
	}
	return snapshot
}
