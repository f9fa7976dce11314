package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Chruut/UZH-real-estate-dashboard/internal/cache"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/config"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/filter"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/logger"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/models"
	"github.com/Chruut/UZH-real-estate-dashboard/internal/service"
)

func main() {
	csvPath := flag.String("csv", os.Getenv("CSV_PATH"), "path to the exported sensor CSV")
	semesters := flag.String("semesters", "", "comma separated semester kinds (HS,FS); empty = all")
	roomTypes := flag.String("room-types", "", "comma separated room types; empty = all")
	businessHours := flag.Bool("business-hours", false, "keep business hours only")
	workdays := flag.Bool("workdays", false, "keep Monday-Friday only")
	exportPath := flag.String("export", "", "optional path to write filtered rows as .xlsx")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "raumboard-pipeline")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *csvPath == "" {
		log.Fatal("No CSV given: pass -csv or set CSV_PATH")
	}

	// 可选的结果缓存
	var resultCache *cache.ResultCache
	if cfg.Cache.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		resultCache = cache.NewResultCache(
			cache.NewRedisKVStore(client),
			cfg.Cache.KeyPrefix,
			time.Duration(cfg.Cache.TTL)*time.Second,
			log,
		)
		log.Info("Result cache enabled", zap.String("redis", cfg.Cache.RedisAddr))
	}

	svc := service.NewPipelineService(cfg, resultCache, log)

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal("Failed to open CSV", zap.String("path", *csvPath), zap.Error(err))
	}
	ds, err := svc.LoadCSV(f)
	f.Close()
	if err != nil {
		if schemaErr, ok := err.(*models.SchemaError); ok {
			log.Fatal("Upload rejected: schema invalid",
				zap.Strings("missing_columns", schemaErr.MissingColumns))
		}
		log.Fatal("Failed to load CSV", zap.Error(err))
	}

	spec := buildSpec(cfg, *semesters, *roomTypes, *businessHours, *workdays)

	result, err := svc.Query(context.Background(), ds, spec)
	if err != nil {
		log.Fatal("Query failed", zap.Error(err))
	}

	for _, w := range result.Warnings {
		log.Warn(w)
	}

	// 摘要输出到标准输出，供上层应用或人工排查消费
	summary := map[string]any{
		"dataset_id":   ds.ID,
		"total_rows":   ds.Report.TotalRows,
		"rejected":     ds.Report.Rejected,
		"filtered":     len(result.Filtered),
		"aggregates":   result.Aggregates,
		"top_rooms":    result.TopRooms,
		"bottom_rooms": result.BottomRooms,
		"clusters":     result.Clusters.Assignments,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Fatal("Failed to encode summary", zap.Error(err))
	}

	if *exportPath != "" {
		data, err := svc.ExportExcel(result.Filtered)
		if err != nil {
			log.Fatal("Failed to export Excel", zap.Error(err))
		}
		if err := os.WriteFile(*exportPath, data, 0o644); err != nil {
			log.Fatal("Failed to write Excel file", zap.String("path", *exportPath), zap.Error(err))
		}
		log.Info("Wrote Excel export", zap.String("path", *exportPath), zap.Int("rows", len(result.Filtered)))
	}
}

// buildSpec 把命令行参数翻译成筛选配置
func buildSpec(cfg *config.Config, semesters, roomTypes string, businessHours, workdays bool) *filter.Spec {
	spec := &filter.Spec{
		BusinessHoursOnly:     businessHours,
		WorkdaysOnly:          workdays,
		BusinessHoursStartMin: cfg.Filter.BusinessHoursStart,
		BusinessHoursEndMin:   cfg.Filter.BusinessHoursEnd,
	}
	if semesters != "" {
		spec.Semesters = make(map[models.SemesterKind]bool)
		for _, s := range strings.Split(semesters, ",") {
			switch strings.ToUpper(strings.TrimSpace(s)) {
			case "HS":
				spec.Semesters[models.SemesterHS] = true
			case "FS":
				spec.Semesters[models.SemesterFS] = true
			}
		}
	}
	if roomTypes != "" {
		spec.RoomTypes = make(map[string]bool)
		for _, t := range strings.Split(roomTypes, ",") {
			if t = strings.TrimSpace(t); t != "" {
				spec.RoomTypes[t] = true
			}
		}
	}
	return spec
}
