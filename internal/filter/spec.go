package filter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
)

// 默认营业时间窗口 [08:00, 20:00)，起点含、终点不含
// 数据源 UI 的口径为 "Geschäftszeiten (8-20 Uhr)"
const (
	DefaultBusinessHoursStartMin = 8 * 60
	DefaultBusinessHoursEndMin   = 20 * 60
)

// Spec 一次查询的筛选配置，无状态，每次查询重新构造
// 空集合 = 不筛选；各谓词相互独立，整体取与
type Spec struct {
	Semesters         map[models.SemesterKind]bool `json:"semesters,omitempty"`
	RoomTypes         map[string]bool              `json:"room_types,omitempty"`
	BusinessHoursOnly bool                         `json:"business_hours_only"`
	WorkdaysOnly      bool                         `json:"workdays_only"`

	// 营业时间窗口（分钟），两者同为 0 时使用默认窗口
	BusinessHoursStartMin int `json:"business_hours_start_min,omitempty"`
	BusinessHoursEndMin   int `json:"business_hours_end_min,omitempty"`
}

// businessWindow 返回生效的营业时间窗口
func (s *Spec) businessWindow() (startMin, endMin int) {
	if s.BusinessHoursStartMin == 0 && s.BusinessHoursEndMin == 0 {
		return DefaultBusinessHoursStartMin, DefaultBusinessHoursEndMin
	}
	return s.BusinessHoursStartMin, s.BusinessHoursEndMin
}

// CanonicalKey 生成与字段顺序无关的稳定键（供结果缓存使用）
func (s *Spec) CanonicalKey() string {
	var b strings.Builder

	sems := make([]string, 0, len(s.Semesters))
	for k, on := range s.Semesters {
		if on {
			sems = append(sems, string(k))
		}
	}
	sort.Strings(sems)
	b.WriteString("sem=")
	b.WriteString(strings.Join(sems, "+"))

	types := make([]string, 0, len(s.RoomTypes))
	for k, on := range s.RoomTypes {
		if on {
			types = append(types, k)
		}
	}
	sort.Strings(types)
	b.WriteString("|types=")
	b.WriteString(strings.Join(types, "+"))

	if s.BusinessHoursOnly {
		start, end := s.businessWindow()
		b.WriteString("|bh=")
		b.WriteString(strconv.Itoa(start))
		b.WriteString("-")
		b.WriteString(strconv.Itoa(end))
	}
	if s.WorkdaysOnly {
		b.WriteString("|wd=1")
	}
	return b.String()
}
