package cluster

import (
	"sort"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
)

// alignedSeries 房间 × 半天槽的占用率矩阵
// 槽集合取所有房间时间戳的并集；槽内多条记录取均值；缺测填 0（传感器
// 不保证每槽都有上报，这里显式选择补 0 而不是剔除槽）
type alignedSeries struct {
	Rooms    []string    // 行，按房间 ID 升序
	Buckets  []string    // 列，"YYYY-MM-DD_VM|NM"，升序
	Values   [][]float64 // len(Rooms) × len(Buckets)
	Observed []int       // 每个房间实际有记录的槽数（区别于补 0 的槽）
}

// halfDayBucket 半天槽标签：小时 <= 12 记 VM（上午），否则 NM（下午）
func halfDayBucket(r *models.NormalizedRecord) string {
	half := "NM"
	if r.Time.Hour <= 12 {
		half = "VM"
	}
	return r.Date.Format("2006-01-02") + "_" + half
}

// buildAlignedSeries 把记录集对齐到共享的半天槽集合
// 缺失占用率的记录不参与；顺序完全由排序决定，结果可复现
func buildAlignedSeries(records []models.NormalizedRecord) *alignedSeries {
	type cell struct {
		sum   float64
		count int
	}
	cells := make(map[string]map[string]*cell) // room -> bucket -> cell
	bucketSet := make(map[string]bool)

	for _, r := range records {
		if r.OccupancyRate == nil {
			continue
		}
		bucket := halfDayBucket(&r)
		bucketSet[bucket] = true
		if cells[r.RoomID] == nil {
			cells[r.RoomID] = make(map[string]*cell)
		}
		c, ok := cells[r.RoomID][bucket]
		if !ok {
			c = &cell{}
			cells[r.RoomID][bucket] = c
		}
		c.sum += *r.OccupancyRate
		c.count++
	}

	rooms := make([]string, 0, len(cells))
	for roomID := range cells {
		rooms = append(rooms, roomID)
	}
	sort.Strings(rooms)

	buckets := make([]string, 0, len(bucketSet))
	for b := range bucketSet {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)

	values := make([][]float64, len(rooms))
	observed := make([]int, len(rooms))
	for i, roomID := range rooms {
		row := make([]float64, len(buckets))
		for j, bucket := range buckets {
			if c, ok := cells[roomID][bucket]; ok {
				row[j] = c.sum / float64(c.count)
			}
		}
		values[i] = row
		observed[i] = len(cells[roomID])
	}

	return &alignedSeries{Rooms: rooms, Buckets: buckets, Values: values, Observed: observed}
}
