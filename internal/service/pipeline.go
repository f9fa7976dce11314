package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/aggregate"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/cache"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/cluster"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/config"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/export"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/filter"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/ingest"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/schema"
)

// Dataset 一次上传的数据集：流水线在其生命周期内独占这份记录
// 新文件上传后替换整个 Dataset，旧数据随之丢弃，无跨上传缓存
type Dataset struct {
	ID       string                    `json:"id"`
	Records  []models.NormalizedRecord `json:"records"`
	Report   *models.RejectionReport   `json:"report"`
	LoadedAt time.Time                 `json:"loaded_at"`
}

// QueryResult 一次筛选查询的全部派生输出（供展示层消费）
type QueryResult struct {
	DatasetID   string                          `json:"dataset_id"`
	Filtered    []models.NormalizedRecord       `json:"filtered"`
	Aggregates  map[string]models.RoomAggregate `json:"aggregates"`
	TopRooms    []models.RoomRanking            `json:"top_rooms"`
	BottomRooms []models.RoomRanking            `json:"bottom_rooms"`
	Clusters    *cluster.Result                 `json:"clusters"`
	// 非致命提示（空结果、相关性无定义的房间等）
	Warnings []string `json:"warnings,omitempty"`
}

// PipelineService 占用率分析流水线的编排入口
// 归一化 → 筛选 → 汇总 → 聚类；各阶段都是输入的纯函数，本服务只负责串联
type PipelineService struct {
	cfg         *config.Config
	normalizer  *schema.Normalizer
	aggregator  *aggregate.Aggregator
	clusterer   *cluster.Clusterer
	resultCache *cache.ResultCache // 可选；nil 表示不缓存
	logger      *zap.Logger

	current *Dataset
}

// NewPipelineService 创建流水线服务；resultCache 传 nil 则禁用缓存
func NewPipelineService(cfg *config.Config, resultCache *cache.ResultCache, logger *zap.Logger) *PipelineService {
	return &PipelineService{
		cfg:        cfg,
		normalizer: schema.NewNormalizer(logger),
		aggregator: aggregate.NewAggregator(aggregate.Options{
			UsageThreshold: cfg.Aggregate.UsageThreshold,
			BucketHours:    cfg.Aggregate.BucketHours,
		}, logger),
		clusterer:   cluster.NewClusterer(cfg.Cluster.CorrelationThreshold, logger),
		resultCache: resultCache,
		logger:      logger,
	}
}

// LoadCSV 读入并归一化一个上传文件，替换当前数据集
// 必需列缺失返回 *models.SchemaError；行级失败收进 RejectionReport
func (s *PipelineService) LoadCSV(r io.Reader) (*Dataset, error) {
	table, err := ingest.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	records, report, err := s.normalizer.Normalize(table)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		ID:       uuid.NewString(),
		Records:  records,
		Report:   report,
		LoadedAt: time.Now(),
	}
	s.current = ds

	s.logger.Info("Loaded dataset",
		zap.String("dataset_id", ds.ID),
		zap.Int("records", len(ds.Records)),
		zap.Int("rejected", report.Rejected),
	)
	return ds, nil
}

// Current 当前数据集（尚未加载时为 nil）
func (s *PipelineService) Current() *Dataset {
	return s.current
}

// Query 对数据集执行一次完整的筛选查询
// 每次筛选变更都从不可变的记录集全量重算；缓存只是加速，出错即回退重算
func (s *PipelineService) Query(ctx context.Context, ds *Dataset, spec *filter.Spec) (*QueryResult, error) {
	if ds == nil {
		return nil, fmt.Errorf("no dataset loaded")
	}

	specKey := ""
	if spec != nil {
		specKey = spec.CanonicalKey()
	}

	if s.resultCache != nil {
		if payload, err := s.resultCache.Get(ctx, ds.ID, specKey); err == nil {
			var cached QueryResult
			if err := json.Unmarshal(payload, &cached); err == nil {
				s.logger.Debug("Query served from cache",
					zap.String("dataset_id", ds.ID),
					zap.String("spec", specKey),
				)
				return &cached, nil
			}
			s.logger.Debug("Failed to decode cached result, recomputing", zap.Error(err))
		} else if err != cache.ErrCacheMiss {
			s.logger.Debug("Result cache unavailable", zap.Error(err))
		}
	}

	result := s.compute(ds, spec)

	if s.resultCache != nil {
		if payload, err := json.Marshal(result); err == nil {
			s.resultCache.Set(ctx, ds.ID, specKey, payload)
		}
	}
	return result, nil
}

func (s *PipelineService) compute(ds *Dataset, spec *filter.Spec) *QueryResult {
	filtered := filter.Apply(ds.Records, spec)

	result := &QueryResult{
		DatasetID: ds.ID,
		Filtered:  filtered,
	}
	if len(filtered) == 0 {
		// 空结果合法：下游各阶段对空输入都产出空值
		result.Warnings = append(result.Warnings, "filter combination matched no rows")
	}

	result.Aggregates = s.aggregator.Aggregate(filtered)
	result.TopRooms = aggregate.TopRooms(result.Aggregates, s.cfg.Aggregate.RankingSize)
	result.BottomRooms = aggregate.BottomRooms(result.Aggregates, s.cfg.Aggregate.RankingSize)
	result.Clusters = s.clusterer.Cluster(filtered)

	for _, roomID := range result.Clusters.Undefined {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("room %s: occupancy series too short or constant, correlation undefined", roomID))
	}

	s.logger.Info("Query computed",
		zap.String("dataset_id", ds.ID),
		zap.Int("filtered", len(filtered)),
		zap.Int("rooms", len(result.Aggregates)),
	)
	return result
}

// TimeSeries 指定房间在筛选结果上的占用率时间序列
func (s *PipelineService) TimeSeries(filtered []models.NormalizedRecord, roomID string) []models.TimePoint {
	return s.aggregator.TimeSeries(filtered, roomID)
}

// HalfDaySeries 指定房间按半天求均值的序列（柱状图）
func (s *PipelineService) HalfDaySeries(filtered []models.NormalizedRecord, roomID string) []models.HalfDayPoint {
	return s.aggregator.HalfDaySeries(filtered, roomID)
}

// ExportExcel 把记录导出为 Excel 表格
func (s *PipelineService) ExportExcel(records []models.NormalizedRecord) ([]byte, error) {
	return export.RecordsToExcel(records)
}
