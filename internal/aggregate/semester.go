package aggregate

import (
	"time"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
)

// UZH 学期起始锚点：HS 从 8 月 14 日、FS 从 2 月 1 日开始
// 图表 x 轴统一对齐到学期起点
const (
	hsStartMonth = time.August
	hsStartDay   = 14
	fsStartMonth = time.February
	fsStartDay   = 1
)

// SemesterStart 计算当前记录集对应的学期起始日期
// 仅选 HS 时取最早年份的 8 月 14 日；仅选 FS 时取最晚年份的 2 月 1 日；
// 混合或未筛选时与 HS 口径相同。空记录集返回零值时间
func SemesterStart(records []models.NormalizedRecord, kinds map[models.SemesterKind]bool) time.Time {
	if len(records) == 0 {
		return time.Time{}
	}

	minYear := records[0].Date.Year()
	maxYear := minYear
	for _, r := range records[1:] {
		y := r.Date.Year()
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}

	fsOnly := len(kinds) == 1 && kinds[models.SemesterFS]
	if fsOnly {
		return time.Date(maxYear, fsStartMonth, fsStartDay, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(minYear, hsStartMonth, hsStartDay, 0, 0, 0, 0, time.UTC)
}

// AnchorSeries 把序列平移到学期起点：首个数据点的日期对齐 anchor，
// 平移后仍早于 anchor 的点被丢弃。anchor 为零值时原样返回
func AnchorSeries(points []models.TimePoint, anchor time.Time) []models.TimePoint {
	if anchor.IsZero() || len(points) == 0 {
		return points
	}

	first := points[0].Timestamp.Truncate(24 * time.Hour)
	shift := anchor.Sub(first)

	out := make([]models.TimePoint, 0, len(points))
	for _, p := range points {
		ts := p.Timestamp.Add(shift)
		if ts.Before(anchor) {
			continue
		}
		out = append(out, models.TimePoint{Timestamp: ts, OccupancyRate: p.OccupancyRate})
	}
	return out
}
