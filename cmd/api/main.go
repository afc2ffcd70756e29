package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	cartapp "storefront/internal/application/cart"
	catalogapp "storefront/internal/application/catalog"
	"storefront/internal/application/checkout"
	"storefront/internal/application/report"
	"storefront/internal/config"
	"storefront/internal/infrastructure/encoding/avro"
	"storefront/internal/infrastructure/encoding/csv"
	"storefront/internal/infrastructure/encoding/xlsx"
	ginserver "storefront/internal/infrastructure/http/gin"
	kafkainfra "storefront/internal/infrastructure/messaging/kafka"
	"storefront/internal/infrastructure/persistence/kvstore"
	"storefront/internal/infrastructure/persistence/postgres"
	"storefront/internal/infrastructure/sample"
	"storefront/internal/infrastructure/storage"
	"storefront/internal/interfaces/http/handler"
	"storefront/internal/interfaces/http/router"
	"storefront/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	appLog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	area, closeArea, err := openArea(cfg)
	if err != nil {
		appLog.Fatal("open storage failed", logger.Error(err))
	}
	defer closeArea()

	originOpts := []storage.OriginOption{storage.WithLogger(appLog)}
	var producer *kafkainfra.Producer
	var codec *avro.EventCodec
	if cfg.Kafka.Enabled {
		codec, err = avro.NewEventCodec()
		if err != nil {
			appLog.Fatal("build event codec failed", logger.Error(err))
		}
		producer, err = kafkainfra.NewProducer(cfg.Kafka, cfg.Storage.Namespace, codec, appLog)
		if err != nil {
			appLog.Fatal("kafka producer failed", logger.Error(err))
		}
		defer producer.Close(context.Background())
		originOpts = append(originOpts, storage.WithBroadcaster(producer))
		if cfg.Storage.Driver == config.StorageDriverMemory {
			originOpts = append(originOpts, storage.WithReplica())
		}
	}

	origin := storage.NewOrigin(area, originOpts...)
	tab := origin.Open(cfg.Storage.ContextID)
	defer tab.Close()
	appLog = appLog.WithFields(logger.String("context_id", tab.ID()))

	if cfg.Kafka.Enabled {
		consumer := kafkainfra.NewEventConsumer(cfg.Kafka, cfg.Storage.Namespace, tab.ID(), codec, origin, appLog)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				appLog.Error("kafka consumer stopped", logger.Error(err))
			}
		}()
		defer consumer.Close()
	}

	productRepo := kvstore.NewProductRepository(tab, appLog)
	userRepo := kvstore.NewUserRepository(tab, appLog)
	orderRepo := kvstore.NewOrderRepository(tab, appLog)

	catalogService := catalogapp.NewService(
		productRepo,
		kvstore.NewSeedFlagRepository(tab, appLog),
		sample.Products(),
		appLog,
		catalogapp.WithUsers(userRepo, sample.Users()),
	)
	if err := catalogService.EnsureSeeded(ctx); err != nil {
		appLog.Warn("seeding storage failed, serving bundled catalog", logger.Error(err))
	}

	cartStore := cartapp.NewStore(kvstore.NewCartRepository(tab, appLog), tab, appLog)
	defer cartStore.Close()

	sessionOpts := []checkout.Option{checkout.WithLogger(appLog)}
	if producer != nil {
		sessionOpts = append(sessionOpts, checkout.WithPublisher(producer))
	}
	session := checkout.NewSession(cartStore, catalogService, orderRepo, sessionOpts...)

	reports := report.NewService(
		report.Sources{
			Orders:   orderRepo,
			Users:    userRepo,
			Products: productRepo,
			Contacts: kvstore.NewContactRepository(tab, appLog),
		},
		report.Fallbacks{
			Orders:   sample.OrderRecords,
			Users:    sample.UserRecords,
			Products: sample.ProductRecords,
			Contacts: sample.ContactRecords,
		},
		report.WithEncoder("csv", csv.NewEncoder()),
		report.WithEncoder("xlsx", xlsx.NewEncoder("reporte")),
		report.WithLocation(cfg.Report.Location()),
		report.WithLogger(appLog),
	)

	engine := ginserver.NewEngine(cfg.Server, appLog)
	router.RegisterRoutes(engine, router.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogService),
		Cart:     handler.NewCartHandler(cartStore, catalogService, appLog),
		Checkout: handler.NewCheckoutHandler(session, appLog),
		Report:   handler.NewReportHandler(reports, appLog),
	})

	server := ginserver.NewServer(cfg.Server, engine)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLog.Error("server shutdown failed", logger.Error(err))
		}
	}()

	appLog.Info("storefront listening", logger.String("addr", cfg.Server.Address()), logger.String("storage", cfg.Storage.Driver))
	if err := server.Run(); err != nil {
		appLog.Fatal("server run failed", logger.Error(err))
	}
}

func openArea(cfg *config.Config) (storage.Area, func(), error) {
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return storage.NewMemoryArea(), func() {}, nil
	}
	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewArea(pool, cfg.Storage.Namespace), pool.Close, nil
}
