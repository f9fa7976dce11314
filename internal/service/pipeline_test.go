package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/cache"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/config"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/filter"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/service"
)

// 三个房间、两天 × 上午/下午：A 与 B 线性相关，C 与 A 正交
const pipelineCSV = `RaumID,Raumtyp,Kapazität,Datum,Zeit,Semester,Auslastung,Gebäudekoordinaten
A,Hörsaal,120,2024-03-04,09:00,Frühlingssemester 2024,0.1,"47.3743,8.5485"
A,Hörsaal,120,2024-03-04,14:00,Frühlingssemester 2024,0.2,"47.3743,8.5485"
A,Hörsaal,120,2024-03-05,09:00,Frühlingssemester 2024,0.3,"47.3743,8.5485"
A,Hörsaal,120,2024-03-05,14:00,Frühlingssemester 2024,0.4,"47.3743,8.5485"
B,Hörsaal,80,2024-03-04,09:00,Frühlingssemester 2024,0.2,"47.3745,8.5490"
B,Hörsaal,80,2024-03-04,14:00,Frühlingssemester 2024,0.4,"47.3745,8.5490"
B,Hörsaal,80,2024-03-05,09:00,Frühlingssemester 2024,0.6,"47.3745,8.5490"
B,Hörsaal,80,2024-03-05,14:00,Frühlingssemester 2024,0.8,"47.3745,8.5490"
C,Seminarraum,30,2024-03-04,09:00,Frühlingssemester 2024,0.4,"47.3974,8.5482"
C,Seminarraum,30,2024-03-04,14:00,Frühlingssemester 2024,0.2,"47.3974,8.5482"
C,Seminarraum,30,2024-03-05,09:00,Frühlingssemester 2024,0.2,"47.3974,8.5482"
C,Seminarraum,30,2024-03-05,14:00,Frühlingssemester 2024,0.4,"47.3974,8.5482"
`

func newService(t *testing.T, rc *cache.ResultCache) *service.PipelineService {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return service.NewPipelineService(cfg, rc, zap.NewNop())
}

func TestPipeline_EndToEnd(t *testing.T) {
	svc := newService(t, nil)

	ds, err := svc.LoadCSV(strings.NewReader(pipelineCSV))
	require.NoError(t, err)
	require.NotEmpty(t, ds.ID)
	assert.Equal(t, 12, ds.Report.TotalRows)
	assert.Equal(t, 0, ds.Report.Rejected)
	assert.Same(t, ds, svc.Current())

	result, err := svc.Query(context.Background(), ds, &filter.Spec{})
	require.NoError(t, err)

	assert.Len(t, result.Filtered, 12)
	require.Len(t, result.Aggregates, 3)
	assert.InDelta(t, 0.25, result.Aggregates["A"].AvgOccupancy, 1e-9)
	assert.InDelta(t, 0.8, result.Aggregates["B"].PeakOccupancy, 1e-9)
	require.NotNil(t, result.Aggregates["A"].Coordinates)
	assert.InDelta(t, 47.3743, result.Aggregates["A"].Coordinates.Lat, 1e-9)

	// 阈值 0.8：{A,B} 同簇，C 单独
	require.NotNil(t, result.Clusters)
	assert.Equal(t, result.Clusters.Assignments["A"], result.Clusters.Assignments["B"])
	assert.NotEqual(t, result.Clusters.Assignments["A"], result.Clusters.Assignments["C"])

	// B 每半天都在使用中：2 槽/天
	assert.InDelta(t, 2.0, result.Aggregates["B"].UsageHoursPerDay, 1e-9)

	top := result.TopRooms
	require.NotEmpty(t, top)
	assert.Equal(t, "B", top[0].RoomID)
}

func TestPipeline_FilterNarrowsRecords(t *testing.T) {
	svc := newService(t, nil)
	ds, err := svc.LoadCSV(strings.NewReader(pipelineCSV))
	require.NoError(t, err)

	result, err := svc.Query(context.Background(), ds, &filter.Spec{
		RoomTypes: map[string]bool{"Seminarraum": true},
	})
	require.NoError(t, err)

	assert.Len(t, result.Filtered, 4)
	assert.Contains(t, result.Aggregates, "C")
	assert.NotContains(t, result.Aggregates, "A")
}

func TestPipeline_EmptyResultProducesWarningNotError(t *testing.T) {
	svc := newService(t, nil)
	ds, err := svc.LoadCSV(strings.NewReader(pipelineCSV))
	require.NoError(t, err)

	result, err := svc.Query(context.Background(), ds, &filter.Spec{
		Semesters: map[models.SemesterKind]bool{models.SemesterHS: true},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Filtered)
	assert.Empty(t, result.Aggregates)
	assert.Empty(t, result.Clusters.Assignments)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "no rows")
}

func TestPipeline_SchemaErrorAborts(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.LoadCSV(strings.NewReader("Raumtyp,Zeit\nHörsaal,08:00\n"))
	var schemaErr *models.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.MissingColumns, "RaumID")
	assert.Contains(t, schemaErr.MissingColumns, "Datum")
}

func TestPipeline_QueryWithoutDataset(t *testing.T) {
	svc := newService(t, nil)
	_, err := svc.Query(context.Background(), nil, &filter.Spec{})
	require.Error(t, err)
}

func TestPipeline_NewUploadReplacesDataset(t *testing.T) {
	svc := newService(t, nil)

	first, err := svc.LoadCSV(strings.NewReader(pipelineCSV))
	require.NoError(t, err)
	second, err := svc.LoadCSV(strings.NewReader(pipelineCSV))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Same(t, second, svc.Current())
}

func TestPipeline_CachedQueryMatchesComputed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rc := cache.NewResultCache(cache.NewRedisKVStore(client), "raumboard:", time.Minute, zap.NewNop())

	svc := newService(t, rc)
	ds, err := svc.LoadCSV(strings.NewReader(pipelineCSV))
	require.NoError(t, err)

	spec := &filter.Spec{RoomTypes: map[string]bool{"Hörsaal": true}}
	first, err := svc.Query(context.Background(), ds, spec)
	require.NoError(t, err)

	// 第二次从缓存取，内容必须与重算一致
	second, err := svc.Query(context.Background(), ds, spec)
	require.NoError(t, err)
	assert.Equal(t, first.Aggregates, second.Aggregates)
	assert.Equal(t, first.Clusters.Assignments, second.Clusters.Assignments)
	assert.Len(t, second.Filtered, 8)
}

func TestPipeline_CacheFailureFallsBackToCompute(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rc := cache.NewResultCache(cache.NewRedisKVStore(client), "raumboard:", time.Minute, zap.NewNop())

	svc := newService(t, rc)
	ds, err := svc.LoadCSV(strings.NewReader(pipelineCSV))
	require.NoError(t, err)

	// Redis 挂掉：查询仍然成功（缓存只是加速）
	mr.Close()
	result, err := svc.Query(context.Background(), ds, &filter.Spec{})
	require.NoError(t, err)
	assert.Len(t, result.Aggregates, 3)
}

func TestPipeline_TimeSeriesAndExport(t *testing.T) {
	svc := newService(t, nil)
	ds, err := svc.LoadCSV(strings.NewReader(pipelineCSV))
	require.NoError(t, err)

	points := svc.TimeSeries(ds.Records, "A")
	require.Len(t, points, 4)
	assert.True(t, points[0].Timestamp.Before(points[3].Timestamp))

	halfDays := svc.HalfDaySeries(ds.Records, "A")
	require.Len(t, halfDays, 4)
	assert.Equal(t, models.HalfDayMorning, halfDays[0].HalfDay)

	data, err := svc.ExportExcel(ds.Records)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
