package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/export"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/schema"
)

func TestRecordsToExcel_WritesHeaderAndRows(t *testing.T) {
	occ := 0.55
	records := []models.NormalizedRecord{
		{
			RoomID:        "KOL-F-101",
			RoomType:      "Hörsaal",
			Capacity:      120,
			Date:          time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			Weekday:       time.Monday,
			Time:          models.ClockTime{Hour: 8},
			PeriodKind:    models.PeriodLecture,
			Semester:      models.Semester{Kind: models.SemesterFS, Year: 2024},
			OccupancyRate: &occ,
			Coordinates:   &models.Coordinates{Lat: 47.3743, Lon: 8.5485},
		},
	}

	data, err := export.RecordsToExcel(records)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// 重新打开验证内容
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Raumdaten")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, schema.AllColumns, rows[0])
	assert.Equal(t, "KOL-F-101", rows[1][0])
	assert.Equal(t, "47.3743,8.5485", rows[1][12])
	assert.Equal(t, "2024-03-04", rows[1][13])
	assert.Equal(t, "Montag", rows[1][14])
	assert.Equal(t, "08:00", rows[1][15])
}

func TestRecordsToExcel_EmptyRecordsStillProducesHeader(t *testing.T) {
	data, err := export.RecordsToExcel(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Raumdaten")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.AllColumns, rows[0])
}
