package filter

import (
	"time"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
)

// Apply 对记录集施加筛选，返回保序子集
// 所有激活谓词取与；谓词之间相互独立，顺序不影响结果；幂等
// 空结果是合法输出，不是错误
func Apply(records []models.NormalizedRecord, spec *Spec) []models.NormalizedRecord {
	if spec == nil {
		return records
	}

	out := make([]models.NormalizedRecord, 0, len(records))
	for _, r := range records {
		if !matchSemester(&r, spec) {
			continue
		}
		if !matchRoomType(&r, spec) {
			continue
		}
		if spec.BusinessHoursOnly && !inBusinessHours(&r, spec) {
			continue
		}
		if spec.WorkdaysOnly && !isWorkday(r.Weekday) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchSemester(r *models.NormalizedRecord, spec *Spec) bool {
	if len(spec.Semesters) == 0 {
		return true
	}
	return spec.Semesters[r.Semester.Kind]
}

func matchRoomType(r *models.NormalizedRecord, spec *Spec) bool {
	if len(spec.RoomTypes) == 0 {
		return true
	}
	return spec.RoomTypes[r.RoomType]
}

// inBusinessHours 窗口判定：起点含、终点不含
func inBusinessHours(r *models.NormalizedRecord, spec *Spec) bool {
	start, end := spec.businessWindow()
	m := r.Time.Minutes()
	return m >= start && m < end
}

func isWorkday(wd time.Weekday) bool {
	return wd >= time.Monday && wd <= time.Friday
}
