// 提供只读的HTTP状态接口
// 将最近一拍的控制结果以JSON形式暴露给外部面板，
// 替代进程内渲染器之外的远程展示途径
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
)

// log HTTP接口模块的日志记录器
var log = logrus.WithField("module", "httpapi")

// stateResponse /state接口的响应结构
// 功能：以方向名为键的JSON视图，便于外部面板直接消费
type stateResponse struct {
	Step             int32              `json:"step"`
	Time             time.Time          `json:"time"`
	ActiveDirection  string             `json:"activeDirection"`
	RemainingSeconds int                `json:"remainingSeconds"`
	PhaseDuration    int                `json:"phaseDuration"`
	Demand           map[string]float64 `json:"demand"`
	RawCounts        map[string]int     `json:"rawCounts"`
	TickLatencyMs    float64            `json:"tickLatencyMs"`
	TicksPerSecond   float64            `json:"ticksPerSecond"`
}

// Server HTTP状态服务
// 功能：持有最近一拍的控制结果快照并对外提供查询，实现IRenderer
// 说明：快照通过原子指针发布，Render与HTTP读取之间无锁
type Server struct {
	latest atomic.Pointer[entity.TickOutput] // 最近一拍的控制结果
	server *http.Server
}

// NewServer 创建HTTP状态服务
func NewServer() *Server {
	return &Server{}
}

// Render 消费一拍的控制结果
// 功能：原子替换最近一拍的快照
// 说明：发布后的TickOutput只读，读取方不复制即可安全使用
func (s *Server) Render(out *entity.TickOutput) {
	s.latest.Store(out)
}

// Handler 构造HTTP路由
// 功能：提供/state与/healthz两个只读接口的路由表
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Serve 启动HTTP服务（阻塞）
// 功能：监听指定地址并提供状态查询接口
// 参数：addr-监听地址
// 返回：监听错误，正常关闭时返回nil
func (s *Server) Serve(addr string) error {
	s.server = &http.Server{Addr: addr, Handler: s.Handler()}
	log.Infof("state server listening on %s", addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close 关闭HTTP服务
// 功能：优雅关闭监听，等待在途请求完成
// 参数：ctx-上下文，限定关闭等待时间
func (s *Server) Close(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleState /state接口处理器
// 功能：返回最近一拍的控制结果，尚无数据时返回204
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	out := s.latest.Load()
	if out == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	resp := stateResponse{
		Step:             out.Step,
		Time:             out.Time,
		ActiveDirection:  out.ActiveDirection.String(),
		RemainingSeconds: out.RemainingSeconds,
		PhaseDuration:    out.PhaseDuration,
		Demand:           make(map[string]float64, len(out.Demand)),
		RawCounts:        make(map[string]int, len(out.RawCounts)),
		TickLatencyMs:    out.TickLatencyMs,
		TicksPerSecond:   out.TicksPerSecond,
	}
	for d, v := range out.Demand {
		resp.Demand[d.String()] = v
	}
	for d, v := range out.RawCounts {
		resp.RawCounts[d.String()] = v
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("failed to encode state response: %v", err)
	}
}
