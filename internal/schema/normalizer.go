package schema

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/ingest"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
)

// Normalizer 把原始表格定型为 NormalizedRecord 集合
// 纯转换：不修改输入，不持有跨调用状态
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer 创建归一化器
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize 校验列结构并逐行定型
// 必需列整列缺失 → *models.SchemaError（批次级失败，不产出任何行）
// 单行必填字段转换失败 → 剔除该行并计入 RejectionReport（批次继续）
func (n *Normalizer) Normalize(table *ingest.RawTable) ([]models.NormalizedRecord, *models.RejectionReport, error) {
	idx := table.ColumnIndex()

	var missing []string
	for _, col := range MandatoryColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &models.SchemaError{MissingColumns: missing}
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	report := &models.RejectionReport{TotalRows: len(table.Rows)}
	records := make([]models.NormalizedRecord, 0, len(table.Rows))
	weekdayCorrected := 0

	for rowIdx, row := range table.Rows {
		rowNum := rowIdx + 1 // 表头后第一行记为 1

		reject := func(field, reason string) {
			report.Rejected++
			report.Rejections = append(report.Rejections, models.RowRejection{
				Row:    rowNum,
				Field:  field,
				Reason: reason,
			})
		}

		// 必填字段：任一转换失败即剔除整行
		roomID := cell(row, ColRoomID)
		if roomID == "" {
			reject(ColRoomID, "empty room id")
			continue
		}

		date, err := parseDate(cell(row, ColDate))
		if err != nil {
			reject(ColDate, err.Error())
			continue
		}

		clock, err := parseClockTime(cell(row, ColTime))
		if err != nil {
			reject(ColTime, err.Error())
			continue
		}

		rec := models.NormalizedRecord{
			RoomID:   roomID,
			RoomType: cell(row, ColRoomType),
			Location: cell(row, ColLocation),
			Date:     date,
			Time:     clock,
		}

		// 星期：列值可解析且与日期一致时采用列值，否则以日期推导为准
		rec.Weekday = date.Weekday()
		if wd, ok := parseWeekday(cell(row, ColWeekday)); ok && wd != rec.Weekday {
			weekdayCorrected++
		}

		// 以下均为可选字段：转换失败不剔除行，退化为缺失/零值
		if v, err := parseFloat(cell(row, ColCapacity)); err == nil && v >= 0 {
			rec.Capacity = int(v)
		}
		rec.Reserved, _ = parseBool(cell(row, ColReserved))
		rec.Light, _ = parseBool(cell(row, ColLight))
		rec.HeatingOn, _ = parseBool(cell(row, ColHeatingOn))
		rec.ACOn, _ = parseBool(cell(row, ColACOn))
		rec.VentilationOn, _ = parseBool(cell(row, ColVentilationOn))

		if v, err := parseFloat(cell(row, ColCO2)); err == nil {
			rec.CO2 = &v
		}
		if v, err := parseFloat(cell(row, ColInfraredCount)); err == nil {
			rec.InfraredCount = &v
		}
		if v, err := parseFloat(cell(row, ColTemperature)); err == nil {
			rec.Temperature = &v
		}

		rec.Coordinates = parseCoordinates(cell(row, ColCoordinates))

		if sem, err := parseSemester(cell(row, ColSemester), date); err == nil {
			rec.Semester = sem
		} else {
			rec.Semester = semesterFromDate(date)
		}

		if pk, err := parsePeriod(cell(row, ColPeriod)); err == nil {
			rec.PeriodKind = pk
		} else {
			rec.PeriodKind = models.PeriodLecture
		}

		// Auslastung 超出 [0,1] 或不可解析 → 缺失（nil），不算整行失败
		if v, err := parseFloat(cell(row, ColOccupancy)); err == nil && v >= 0 && v <= 1 {
			rec.OccupancyRate = &v
		}

		if alt := cell(row, ColAltUsage); alt != "" {
			rec.AltUsage = &alt
		}

		records = append(records, rec)
	}

	report.Accepted = len(records)

	n.logger.Info("Normalized uploaded table",
		zap.Int("total_rows", report.TotalRows),
		zap.Int("accepted", report.Accepted),
		zap.Int("rejected", report.Rejected),
		zap.Int("weekday_corrected", weekdayCorrected),
	)
	for _, rej := range report.Rejections {
		n.logger.Debug("Rejected row",
			zap.Int("row", rej.Row),
			zap.String("field", rej.Field),
			zap.String("reason", rej.Reason),
		)
	}

	return records, report, nil
}

// semesterFromDate 学期列不可用时按月份推导
// UZH 日历：2–7 月为春季学期（FS），8 月–次年 1 月为秋季学期（HS）
func semesterFromDate(date time.Time) models.Semester {
	m := date.Month()
	if m >= time.February && m <= time.July {
		return models.Semester{Kind: models.SemesterFS, Year: date.Year()}
	}
	year := date.Year()
	if m == time.January {
		year--
	}
	return models.Semester{Kind: models.SemesterHS, Year: year}
}

// Serialize 把归一化记录渲染回文档列格式（用于表格展示/导出）
// 与 Normalize 构成稳定往返：再次归一化得到相同的定型值
func Serialize(records []models.NormalizedRecord) *ingest.RawTable {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(AllColumns))
		for i, col := range AllColumns {
			row[i] = serializeCell(&r, col)
		}
		rows = append(rows, row)
	}
	header := make([]string, len(AllColumns))
	copy(header, AllColumns)
	return &ingest.RawTable{Header: header, Rows: rows}
}

func serializeCell(r *models.NormalizedRecord, col string) string {
	switch col {
	case ColRoomID:
		return r.RoomID
	case ColRoomType:
		return r.RoomType
	case ColCapacity:
		return fmt.Sprintf("%d", r.Capacity)
	case ColReserved:
		return serializeBool(r.Reserved)
	case ColCO2:
		return serializeFloat(r.CO2)
	case ColInfraredCount:
		return serializeFloat(r.InfraredCount)
	case ColTemperature:
		return serializeFloat(r.Temperature)
	case ColLight:
		return serializeBool(r.Light)
	case ColHeatingOn:
		return serializeBool(r.HeatingOn)
	case ColACOn:
		return serializeBool(r.ACOn)
	case ColVentilationOn:
		return serializeBool(r.VentilationOn)
	case ColLocation:
		return r.Location
	case ColCoordinates:
		if r.Coordinates == nil {
			return ""
		}
		return fmt.Sprintf("%g,%g", r.Coordinates.Lat, r.Coordinates.Lon)
	case ColDate:
		return r.Date.Format("2006-01-02")
	case ColWeekday:
		return germanWeekday(r.Weekday)
	case ColTime:
		return r.Time.String()
	case ColPeriod:
		if r.PeriodKind == models.PeriodBreak {
			return "Semesterferien"
		}
		return "Vorlesungszeit"
	case ColSemester:
		if r.Semester.Kind == models.SemesterFS {
			return fmt.Sprintf("Frühlingssemester %d", r.Semester.Year)
		}
		return fmt.Sprintf("Herbstsemester %d", r.Semester.Year)
	case ColOccupancy:
		return serializeFloat(r.OccupancyRate)
	case ColAltUsage:
		if r.AltUsage == nil {
			return ""
		}
		return *r.AltUsage
	}
	return ""
}

func serializeBool(b bool) string {
	if b {
		return "Ja"
	}
	return "Nein"
}

func serializeFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}

func germanWeekday(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return "Montag"
	case time.Tuesday:
		return "Dienstag"
	case time.Wednesday:
		return "Mittwoch"
	case time.Thursday:
		return "Donnerstag"
	case time.Friday:
		return "Freitag"
	case time.Saturday:
		return "Samstag"
	default:
		return "Sonntag"
	}
}
