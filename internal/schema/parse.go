package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
)

// 数据源支持的日期格式：ISO 在前，德式日期作兜底
var dateLayouts = []string{"2006-01-02", "02.01.2006"}

// parseDate 解析日期列（Datum）
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

// parseClockTime 解析时刻列（Zeit，格式 HH:MM）
func parseClockTime(s string) (models.ClockTime, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		return models.ClockTime{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return models.ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// parseBool 解析布尔列
// 样本数据中出现过的真值/假值写法全部列举在此（大小写不敏感）
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ja", "j", "wahr", "true", "yes", "1":
		return true, nil
	case "nein", "n", "falsch", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized boolean token %q", s)
}

// parseFloat 解析浮点列，小数点写法优先，小数逗号作为兜底
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	// 德式小数逗号（仅在不含小数点时替换，避免千分位歧义）
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		if v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("invalid number %q", s)
}

// parseCoordinates 解析 "lat,lon" 坐标串
// 任何解析失败返回 nil（显式"无位置"，不得退化为 0,0）
func parseCoordinates(s string) *models.Coordinates {
	parts := strings.SplitN(strings.TrimSpace(s), ",", 2)
	if len(parts) != 2 {
		return nil
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil
	}
	return &models.Coordinates{Lat: lat, Lon: lon}
}

// 德文星期名 → time.Weekday
var weekdayNames = map[string]time.Weekday{
	"montag":     time.Monday,
	"dienstag":   time.Tuesday,
	"mittwoch":   time.Wednesday,
	"donnerstag": time.Thursday,
	"freitag":    time.Friday,
	"samstag":    time.Saturday,
	"sonntag":    time.Sunday,
}

// parseWeekday 解析德文星期名
func parseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}

// parseSemester 解析学期列
// 支持 "Herbstsemester"/"Frühlingssemester"（可带年份后缀）以及缩写 HS/FS
// 缺少年份时由记录日期补齐
func parseSemester(s string, date time.Time) (models.Semester, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return models.Semester{}, fmt.Errorf("empty semester")
	}

	var kind models.SemesterKind
	switch strings.ToLower(fields[0]) {
	case "herbstsemester", "hs":
		kind = models.SemesterHS
	case "frühlingssemester", "fruehlingssemester", "fs":
		kind = models.SemesterFS
	default:
		return models.Semester{}, fmt.Errorf("unrecognized semester %q", s)
	}

	year := date.Year()
	if len(fields) > 1 {
		if y, err := strconv.Atoi(fields[len(fields)-1]); err == nil && y > 1900 {
			year = y
		}
	}
	return models.Semester{Kind: kind, Year: year}, nil
}

// parsePeriod 解析教学周期列（Vorlesungszeit/Semesterferien）
func parsePeriod(s string) (models.PeriodKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vorlesungszeit", "vorlesung", "lecture":
		return models.PeriodLecture, nil
	case "semesterferien", "ferien", "break":
		return models.PeriodBreak, nil
	}
	return "", fmt.Errorf("unrecognized period %q", s)
}
