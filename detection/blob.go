// 提供基于连通域的车辆检测器
// 对灰度帧按亮度阈值二值化，统计面积达标的4连通亮区数量作为车辆计数，
// 是模型推理检测器的进程内替身，接口语义与之完全一致
package detection

import (
	"flag"

	"github.com/tsinghua-fib-lab/smartjunction-oss/entity"
)

var (
	threshold = flag.Int("detect.threshold", 128, "二值化亮度阈值（0-255）")
	minArea   = flag.Int("detect.min_area", 9, "计为一辆车的最小连通域面积（像素）")
)

// BlobDetector 连通域车辆检测器
// 功能：对单帧灰度图像计数车辆，实现IDetector
// 说明：无内部状态，可被多个方向的采集任务并发调用
type BlobDetector struct {
	threshold uint8 // 二值化亮度阈值
	minArea   int   // 最小连通域面积
}

// NewBlobDetector 创建连通域检测器
// 功能：按命令行参数初始化检测器
// 返回：初始化完成的检测器实例
func NewBlobDetector() *BlobDetector {
	d := &BlobDetector{
		threshold: uint8(*threshold),
		minArea:   *minArea,
	}
	log.Debugf("blob detector created: threshold=%d min_area=%d", d.threshold, d.minArea)
	return d
}

// Detect 检测一帧中的车辆数
// 功能：统计亮度达到阈值且面积达标的4连通区域数量
// 参数：frame-输入帧
// 返回：车辆计数（非负）
// 算法说明：
// 1. 逐像素扫描，跳过已访问或低于阈值的像素
// 2. 自每个未访问的亮像素起做BFS泛洪，标记整块连通域并累计面积
// 3. 面积达到下限的连通域计为一辆车
func (d *BlobDetector) Detect(frame *entity.Frame) int {
	img := frame.Image
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	visited := make([]bool, w*h)

	count := 0
	queue := make([]int, 0, d.minArea*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] || img.Pix[y*img.Stride+x] < d.threshold {
				continue
			}
			// BFS泛洪统计连通域面积
			area := 0
			visited[idx] = true
			queue = append(queue[:0], idx)
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				area++
				cx, cy := cur%w, cur/w
				for _, n := range [4][2]int{{cx - 1, cy}, {cx + 1, cy}, {cx, cy - 1}, {cx, cy + 1}} {
					nx, ny := n[0], n[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if visited[nidx] || img.Pix[ny*img.Stride+nx] < d.threshold {
						continue
					}
					visited[nidx] = true
					queue = append(queue, nidx)
				}
			}
			if area >= d.minArea {
				count++
			}
		}
	}
	return count
}
