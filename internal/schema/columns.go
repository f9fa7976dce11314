package schema

// 上传 CSV 的德文列名（见数据源文档）
const (
	ColRoomID        = "RaumID"
	ColRoomType      = "Raumtyp"
	ColCapacity      = "Kapazität"
	ColReserved      = "Reserviert"
	ColCO2           = "CO2 Conc"
	ColInfraredCount = "Infrarot-Zählung"
	ColTemperature   = "Temperatur"
	ColLight         = "Licht"
	ColHeatingOn     = "Heizung an"
	ColACOn          = "Klimaanlage an"
	ColVentilationOn = "Belüftung an"
	ColLocation      = "Gebäudelage"
	ColCoordinates   = "Gebäudekoordinaten"
	ColDate          = "Datum"
	ColWeekday       = "Wochentag"
	ColTime          = "Zeit"
	ColPeriod        = "Vorlesungszeit/Semesterferien"
	ColSemester      = "Semester"
	ColOccupancy     = "Auslastung"
	ColAltUsage      = "Alternative Nutzung"
)

// MandatoryColumns 结构性必需列：整列缺失即 SchemaError
// 行级不变式要求 RaumID/Datum/Zeit 必须可解析
var MandatoryColumns = []string{ColRoomID, ColDate, ColTime}

// AllColumns 文档列全集，按数据源顺序（导出时沿用此顺序）
var AllColumns = []string{
	ColRoomID,
	ColRoomType,
	ColCapacity,
	ColReserved,
	ColCO2,
	ColInfraredCount,
	ColTemperature,
	ColLight,
	ColHeatingOn,
	ColACOn,
	ColVentilationOn,
	ColLocation,
	ColCoordinates,
	ColDate,
	ColWeekday,
	ColTime,
	ColPeriod,
	ColSemester,
	ColOccupancy,
	ColAltUsage,
}
