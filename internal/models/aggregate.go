package models

// RoomAggregate 单个房间在当前筛选结果下的汇总指标
// 只对筛选后仍有记录的房间生成；"房间不存在于映射中"表示无数据，而非测得 0
type RoomAggregate struct {
	RoomID           string       `json:"room_id"`
	RoomType         string       `json:"room_type"`
	Capacity         int          `json:"capacity"`
	Location         string       `json:"location"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	AvgOccupancy     float64      `json:"avg_occupancy"`
	PeakOccupancy    float64      `json:"peak_occupancy"`
	UsageHoursPerDay float64      `json:"usage_hours_per_day"`
	SampleCount      int          `json:"sample_count"`
}

// RoomRanking 按平均占用率排序的房间条目（地图旁的 Top/Bottom 列表）
type RoomRanking struct {
	RoomID       string  `json:"room_id"`
	AvgOccupancy float64 `json:"avg_occupancy"`
}

// HalfDayKind 半天段（上午 hour<=12 / 下午）
type HalfDayKind string

const (
	HalfDayMorning   HalfDayKind = "VM" // Vormittag
	HalfDayAfternoon HalfDayKind = "NM" // Nachmittag
)

// HalfDayPoint 按 (日期, 半天) 求均值后的序列点，供柱状图使用
type HalfDayPoint struct {
	Date          string      `json:"date"` // YYYY-MM-DD
	HalfDay       HalfDayKind `json:"half_day"`
	OccupancyRate float64     `json:"occupancy_rate"`
}
