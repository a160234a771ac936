package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionpricing/internal/pricing/application"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/internal/pricing/infrastructure/messaging"
	httphandler "github.com/wyfcoding/optionpricing/internal/pricing/interfaces/http"
	configpkg "github.com/wyfcoding/optionpricing/pkg/config"
	"github.com/wyfcoding/optionpricing/pkg/logger"
	"github.com/wyfcoding/optionpricing/pkg/metrics"
	"github.com/wyfcoding/optionpricing/pkg/middleware"
	"github.com/wyfcoding/optionpricing/pkg/mq"
	"golang.org/x/sync/errgroup"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/optionpricing/config.toml", "path to config file")
	flag.Parse()

	// 1. Config
	cfg, err := configpkg.LoadWithDefaults(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}

	// 2. Logger
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("init logger failed: %v", err))
	}
	log := logger.Get()

	ctx := context.Background()
	logger.Info(ctx, "starting service",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
		"model", application.ModelName,
		"tools", []string{httphandler.ToolPriceOptionBlack76},
	)

	// 3. Metrics
	var metricsImpl *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsImpl = metrics.New(cfg.ServiceName)
		if err := metricsImpl.Register(); err != nil {
			panic(fmt.Sprintf("register metrics failed: %v", err))
		}
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			panic(fmt.Sprintf("start metrics server failed: %v", err))
		}
	}

	// 4. Event Publisher
	var publisher domain.EventPublisher
	var producer *mq.KafkaProducer
	if cfg.Kafka.Enabled {
		producer, err = mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			panic(fmt.Sprintf("create kafka producer failed: %v", err))
		}
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
	} else {
		publisher = messaging.NewNoopEventPublisher()
	}

	// 5. Application
	appService := application.NewPricingService(publisher, metricsImpl, log)

	// 6. Interfaces
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.GinRecovery())
	router.Use(middleware.GinLogging())
	router.Use(middleware.GinCORS())
	if metricsImpl != nil {
		router.Use(middleware.GinMetrics(metricsImpl))
	}

	handler := httphandler.NewPricingHandler(appService, cfg.ServiceName)
	handler.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 7. Start + Graceful Shutdown
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(ctx, "shutting down server...")
		case <-gctx.Done():
			logger.Info(ctx, "context cancelled, shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
		if producer != nil {
			if err := producer.Close(); err != nil {
				logger.Error(ctx, "kafka producer close failed", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal(ctx, "server exited with error", "error", err)
	}
}
