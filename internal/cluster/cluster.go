package cluster

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
)

// DefaultCorrelationThreshold 默认相关系数阈值：r >= 0.8 的房间倾向于同簇
const DefaultCorrelationThreshold = 0.8

// Result 一次聚类调用的完整输出
// 簇编号只在本次调用内有意义；换一次输入或阈值，编号可以不同但分组成员一致
type Result struct {
	// 房间 → 簇编号（从 0 起的小整数）
	Assignments map[string]int `json:"assignments"`
	// 热力图行序：先按簇、簇内按房间 ID
	RoomOrder []string `json:"room_order"`
	// 对齐矩阵的行（房间 ID 升序）与列（半天槽标签升序）
	Rooms   []string    `json:"rooms"`
	Buckets []string    `json:"buckets"`
	Aligned [][]float64 `json:"aligned"`
	// 房间两两相关系数；无定义的项填 0，涉及的房间列在 Undefined
	Correlation [][]float64 `json:"correlation"`
	// 相关性无定义（序列过短或零方差）而被强制单例的房间
	Undefined []string `json:"undefined,omitempty"`
}

// Clusterer 相关性聚类器
type Clusterer struct {
	threshold float64
	logger    *zap.Logger
}

// NewClusterer 创建聚类器；threshold <= 0 时取默认值 0.8
func NewClusterer(threshold float64, logger *zap.Logger) *Clusterer {
	if threshold <= 0 {
		threshold = DefaultCorrelationThreshold
	}
	return &Clusterer{threshold: threshold, logger: logger}
}

// Cluster 对筛选后的记录做房间相关性聚类
// 流程：对齐到共享半天槽 → 两两 Pearson → 平均连接层次聚类（距离 1-r，
// 截断于 1-threshold）。相关性无定义的房间直接成为单例簇。
// 给定相同输入与阈值结果完全确定；空输入返回空结果
func (c *Clusterer) Cluster(records []models.NormalizedRecord) *Result {
	series := buildAlignedSeries(records)
	matrix, defined := correlationMatrix(series)

	result := &Result{
		Assignments: make(map[string]int),
		Rooms:       series.Rooms,
		Buckets:     series.Buckets,
		Aligned:     series.Values,
		Correlation: matrix,
	}

	var definedIdx []int
	for i, ok := range defined {
		if ok {
			definedIdx = append(definedIdx, i)
		} else {
			result.Undefined = append(result.Undefined, series.Rooms[i])
		}
	}

	groups := agglomerate(definedIdx, func(a, b int) float64 {
		return 1 - matrix[a][b]
	}, 1-c.threshold)

	// 无定义的房间各自单例
	for i, ok := range defined {
		if !ok {
			groups = append(groups, []int{i})
		}
	}

	// 簇编号按最小成员的房间 ID 排序分配，与输入行序无关
	sort.Slice(groups, func(a, b int) bool {
		return series.Rooms[groups[a][0]] < series.Rooms[groups[b][0]]
	})
	for clusterID, group := range groups {
		for _, idx := range group {
			roomID := series.Rooms[idx]
			result.Assignments[roomID] = clusterID
			result.RoomOrder = append(result.RoomOrder, roomID)
		}
	}

	if c.logger != nil {
		c.logger.Debug("Clustered rooms",
			zap.Int("rooms", len(series.Rooms)),
			zap.Int("buckets", len(series.Buckets)),
			zap.Int("clusters", len(groups)),
			zap.Int("undefined", len(result.Undefined)),
			zap.Float64("threshold", c.threshold),
		)
	}
	return result
}
