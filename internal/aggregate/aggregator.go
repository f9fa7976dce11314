package aggregate

import (
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
)

// Options 汇总参数
type Options struct {
	// 判定"使用中"的占用率阈值（严格大于），默认 0
	UsageThreshold float64
	// 单个时间槽代表的小时数，默认 1（数据源为 2 小时槽时设为 2）
	BucketHours float64
}

// Aggregator 按房间汇总筛选后的记录
type Aggregator struct {
	opts   Options
	logger *zap.Logger
}

// NewAggregator 创建汇总器
func NewAggregator(opts Options, logger *zap.Logger) *Aggregator {
	if opts.BucketHours <= 0 {
		opts.BucketHours = 1
	}
	return &Aggregator{opts: opts, logger: logger}
}

// Aggregate 计算每个房间的汇总指标
// 筛选后无记录的房间不会出现在结果里（"缺席"表示无数据，区别于测得 0）
// 空输入返回空映射，不报错
func (a *Aggregator) Aggregate(records []models.NormalizedRecord) map[string]models.RoomAggregate {
	byRoom := make(map[string][]models.NormalizedRecord)
	for _, r := range records {
		byRoom[r.RoomID] = append(byRoom[r.RoomID], r)
	}

	out := make(map[string]models.RoomAggregate, len(byRoom))
	for roomID, recs := range byRoom {
		agg := models.RoomAggregate{
			RoomID:      roomID,
			SampleCount: len(recs),
		}

		var occupancies []float64
		usedBuckets := make(map[string]bool) // 去重后的"使用中"时间槽
		dates := make(map[string]bool)
		for _, r := range recs {
			dates[r.Date.Format("2006-01-02")] = true
			if r.OccupancyRate == nil {
				continue
			}
			occupancies = append(occupancies, *r.OccupancyRate)
			if *r.OccupancyRate > a.opts.UsageThreshold {
				usedBuckets[r.Timestamp().Format("2006-01-02 15:04")] = true
			}
		}

		if len(occupancies) > 0 {
			agg.AvgOccupancy = stat.Mean(occupancies, nil)
			agg.PeakOccupancy = floats.Max(occupancies)
		}
		if len(dates) > 0 {
			agg.UsageHoursPerDay = float64(len(usedBuckets)) * a.opts.BucketHours / float64(len(dates))
		}

		agg.RoomType = firstNonEmpty(recs, func(r *models.NormalizedRecord) string { return r.RoomType })
		agg.Location = firstNonEmpty(recs, func(r *models.NormalizedRecord) string { return r.Location })
		agg.Capacity = recs[0].Capacity
		agg.Coordinates = majorityCoordinates(recs)

		out[roomID] = agg
	}

	if a.logger != nil {
		a.logger.Debug("Aggregated rooms",
			zap.Int("records", len(records)),
			zap.Int("rooms", len(out)),
		)
	}
	return out
}

// TimeSeries 返回指定房间的占用率时间序列
// 按 (日期, 时刻) 升序；同一时间戳的重复记录取均值合并为一个点
func (a *Aggregator) TimeSeries(records []models.NormalizedRecord, roomID string) []models.TimePoint {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, r := range records {
		if r.RoomID != roomID || r.OccupancyRate == nil {
			continue
		}
		ts := r.Timestamp()
		sums[ts] += *r.OccupancyRate
		counts[ts]++
	}

	points := make([]models.TimePoint, 0, len(sums))
	for ts, sum := range sums {
		points = append(points, models.TimePoint{
			Timestamp:     ts,
			OccupancyRate: sum / float64(counts[ts]),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
	return points
}

// HalfDaySeries 指定房间按 (日期, 上午/下午) 求均值的序列（柱状图数据）
// 小时 <= 12 计入上午（Vormittag），其余计入下午（Nachmittag）
func (a *Aggregator) HalfDaySeries(records []models.NormalizedRecord, roomID string) []models.HalfDayPoint {
	type key struct {
		date string
		half models.HalfDayKind
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, r := range records {
		if r.RoomID != roomID || r.OccupancyRate == nil {
			continue
		}
		k := key{date: r.Date.Format("2006-01-02"), half: HalfDayOf(r.Time)}
		sums[k] += *r.OccupancyRate
		counts[k]++
	}

	points := make([]models.HalfDayPoint, 0, len(sums))
	for k, sum := range sums {
		points = append(points, models.HalfDayPoint{
			Date:          k.date,
			HalfDay:       k.half,
			OccupancyRate: sum / float64(counts[k]),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Date != points[j].Date {
			return points[i].Date < points[j].Date
		}
		return points[i].HalfDay == models.HalfDayMorning && points[j].HalfDay == models.HalfDayAfternoon
	})
	return points
}

// HalfDayOf 时刻所属的半天段
func HalfDayOf(t models.ClockTime) models.HalfDayKind {
	if t.Hour <= 12 {
		return models.HalfDayMorning
	}
	return models.HalfDayAfternoon
}

// TopRooms 按平均占用率从高到低取前 n 个房间
func TopRooms(aggregates map[string]models.RoomAggregate, n int) []models.RoomRanking {
	return rankRooms(aggregates, n, true)
}

// BottomRooms 按平均占用率从低到高取前 n 个房间
func BottomRooms(aggregates map[string]models.RoomAggregate, n int) []models.RoomRanking {
	return rankRooms(aggregates, n, false)
}

func rankRooms(aggregates map[string]models.RoomAggregate, n int, descending bool) []models.RoomRanking {
	all := make([]models.RoomRanking, 0, len(aggregates))
	for roomID, agg := range aggregates {
		all = append(all, models.RoomRanking{RoomID: roomID, AvgOccupancy: agg.AvgOccupancy})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].AvgOccupancy != all[j].AvgOccupancy {
			if descending {
				return all[i].AvgOccupancy > all[j].AvgOccupancy
			}
			return all[i].AvgOccupancy < all[j].AvgOccupancy
		}
		return all[i].RoomID < all[j].RoomID
	})
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// firstNonEmpty 取第一条非空值（与原始数据展示口径一致）
func firstNonEmpty(recs []models.NormalizedRecord, get func(*models.NormalizedRecord) string) string {
	for i := range recs {
		if v := get(&recs[i]); v != "" {
			return v
		}
	}
	return ""
}

// majorityCoordinates 取出现次数最多的坐标值；并列时取时间上最近一条的坐标
func majorityCoordinates(recs []models.NormalizedRecord) *models.Coordinates {
	type entry struct {
		coord  models.Coordinates
		count  int
		latest time.Time
	}
	counts := make(map[models.Coordinates]*entry)
	for _, r := range recs {
		if r.Coordinates == nil {
			continue
		}
		e, ok := counts[*r.Coordinates]
		if !ok {
			e = &entry{coord: *r.Coordinates}
			counts[*r.Coordinates] = e
		}
		e.count++
		if ts := r.Timestamp(); ts.After(e.latest) {
			e.latest = ts
		}
	}

	var best *entry
	for _, e := range counts {
		if best == nil || e.count > best.count ||
			(e.count == best.count && e.latest.After(best.latest)) {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	c := best.coord
	return &c
}
