package main

import (
	"context"
	"flag"
	"log"
	"time"

	"storefront/internal/application/report"
	"storefront/internal/config"
	"storefront/internal/infrastructure/encoding/csv"
	"storefront/internal/infrastructure/encoding/xlsx"
	"storefront/internal/infrastructure/filesystem"
	"storefront/internal/infrastructure/persistence/kvstore"
	"storefront/internal/infrastructure/persistence/postgres"
	"storefront/internal/infrastructure/sample"
	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

func main() {
	kindFlag := flag.String("kind", "orders", "dataset to export: orders, products, users or contacts")
	startFlag := flag.String("start", "", "first day of the range, YYYY-MM-DD")
	endFlag := flag.String("end", "", "last day of the range, YYYY-MM-DD")
	formatFlag := flag.String("format", "csv", "csv or xlsx")
	dirFlag := flag.String("dir", "", "output directory (defaults to REPORT_EXPORT_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	appLog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer appLog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	kind, err := report.ParseKind(*kindFlag)
	if err != nil {
		appLog.Fatal("invalid kind", logger.Error(err))
	}
	loc := cfg.Report.Location()
	dateRange, err := report.ParseRange(*startFlag, *endFlag, loc)
	if err != nil {
		appLog.Fatal("invalid date range", logger.Error(err))
	}

	var area storage.Area = storage.NewMemoryArea()
	if cfg.Storage.Driver == config.StorageDriverPostgres {
		pool, err := postgres.NewPool(cfg.DB)
		if err != nil {
			appLog.Fatal("postgres connection failed", logger.Error(err))
		}
		defer pool.Close()
		area = postgres.NewArea(pool, cfg.Storage.Namespace)
	}

	svc := report.NewService(
		report.Sources{
			Orders:   kvstore.NewOrderRepository(area, appLog),
			Users:    kvstore.NewUserRepository(area, appLog),
			Products: kvstore.NewProductRepository(area, appLog),
			Contacts: kvstore.NewContactRepository(area, appLog),
		},
		report.Fallbacks{
			Orders:   sample.OrderRecords,
			Users:    sample.UserRecords,
			Products: sample.ProductRecords,
			Contacts: sample.ContactRecords,
		},
		report.WithEncoder("csv", csv.NewEncoder()),
		report.WithEncoder("xlsx", xlsx.NewEncoder("reporte")),
		report.WithLocation(loc),
		report.WithLogger(appLog),
	)

	dir := *dirFlag
	if dir == "" {
		dir = cfg.Report.ExportDir
	}
	downloader := filesystem.NewDownloader(dir)
	export, err := svc.Download(ctx, downloader, kind, dateRange, *formatFlag)
	if err != nil {
		appLog.Fatal("export failed", logger.Error(err))
	}

	appLog.Info("report exported",
		logger.String("kind", string(kind)),
		logger.String("path", downloader.Saved),
		logger.Int("rows", export.Rows),
	)
}
