package models

import (
	"fmt"
	"time"
)

// SemesterKind 学期类型（HS=秋季学期 Herbstsemester，FS=春季学期 Frühlingssemester）
type SemesterKind string

const (
	SemesterHS SemesterKind = "HS"
	SemesterFS SemesterKind = "FS"
)

// Semester 学期（类型 + 年份）
type Semester struct {
	Kind SemesterKind `json:"kind"`
	Year int          `json:"year"`
}

func (s Semester) String() string {
	return fmt.Sprintf("%s%d", s.Kind, s.Year)
}

// PeriodKind 教学周期类型（上课周 / 假期）
type PeriodKind string

const (
	PeriodLecture PeriodKind = "LECTURE"
	PeriodBreak   PeriodKind = "BREAK"
)

// Coordinates 建筑坐标（WGS84）
// 解析失败或缺失时整个指针为 nil，表示"无位置信息"，绝不使用 (0,0) 占位
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ClockTime 一天内的时刻（HH:MM，不含日期和时区）
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes 返回从 00:00 起的分钟数（用于时间窗口比较）
func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before 判断 t 是否早于 other
func (t ClockTime) Before(other ClockTime) bool {
	return t.Minutes() < other.Minutes()
}

// NormalizedRecord 归一化后的单条传感器记录
// 所有字段在 Schema Normalizer 边界处完成类型转换，下游不再接触未定型的值
// 不变式：RoomID 非空，Date/Time 有效（不满足的行在归一化阶段即被剔除）
type NormalizedRecord struct {
	RoomID   string `json:"room_id"`
	RoomType string `json:"room_type"`
	Capacity int    `json:"capacity"`
	Reserved bool   `json:"reserved"`

	// 传感器读数（缺失用 nil 表示）
	CO2           *float64 `json:"co2,omitempty"`
	InfraredCount *float64 `json:"infrared_count,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	Light         bool     `json:"light"`
	HeatingOn     bool     `json:"heating_on"`
	ACOn          bool     `json:"ac_on"`
	VentilationOn bool     `json:"ventilation_on"`

	Location    string       `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	Date       time.Time    `json:"date"` // 日期部分，时刻恒为 00:00 UTC
	Weekday    time.Weekday `json:"weekday"`
	Time       ClockTime    `json:"time"`
	PeriodKind PeriodKind   `json:"period_kind"`
	Semester   Semester     `json:"semester"`

	// Auslastung ∈ [0,1]，无法解析时为 nil（缺失 ≠ 0）
	OccupancyRate *float64 `json:"occupancy_rate,omitempty"`

	// 替代用途（如活动、考试），多数行为空
	AltUsage *string `json:"alt_usage,omitempty"`
}

// Timestamp 合并日期与时刻，得到该记录的完整时间戳（UTC）
func (r *NormalizedRecord) Timestamp() time.Time {
	return time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), r.Time.Hour, r.Time.Minute, 0, 0, time.UTC)
}

// TimePoint 时间序列中的一个点
type TimePoint struct {
	Timestamp     time.Time `json:"timestamp"`
	OccupancyRate float64   `json:"occupancy_rate"`
}
