package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"customer-service/internal/audit"
	customerhandler "customer-service/internal/customer/handler"
	customermetrics "customer-service/internal/customer/metrics"
	customerservice "customer-service/internal/customer/service"
	customerstore "customer-service/internal/customer/store"
	doctypehandler "customer-service/internal/doctype/handler"
	doctypestore "customer-service/internal/doctype/store"
	"customer-service/internal/documents"
	kychandler "customer-service/internal/kyc/handler"
	kycmetrics "customer-service/internal/kyc/metrics"
	kycservice "customer-service/internal/kyc/service"
	kycstore "customer-service/internal/kyc/store"
	"customer-service/internal/platform/config"
	"customer-service/internal/platform/httpserver"
	"customer-service/internal/platform/kafka"
	"customer-service/internal/platform/logger"
	"customer-service/internal/platform/metrics"
	"customer-service/internal/platform/postgres"
	"customer-service/internal/platform/redis"
	"customer-service/internal/userdirectory"
	"customer-service/pkg/platform/circuit"
)

const auditBufferSize = 1024

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "customer-service: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	docTypes := doctypestore.NewPostgres(db)
	if err := doctypestore.SeedDefaults(ctx, docTypes); err != nil {
		return fmt.Errorf("seed doc types: %w", err)
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	storage, err := documents.NewLocalStorage(cfg.Storage.Root, cfg.Storage.PublicPrefix)
	if err != nil {
		return fmt.Errorf("init document storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	g, gctx := errgroup.WithContext(ctx)

	publisher, producer, err := newAuditPublisher(gctx, g, cfg.Audit, log)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
	}

	directory := newDirectory(cfg.UserDirectory, rdb, log)

	customers := customerstore.NewPostgres(db)
	customerSvc := customerservice.New(customers, directory,
		customerservice.WithLogger(log),
		customerservice.WithAuditPublisher(publisher),
		customerservice.WithMetrics(customermetrics.New(reg)),
	)

	kycOpts := []kycservice.Option{
		kycservice.WithLogger(log),
		kycservice.WithAuditPublisher(publisher),
		kycservice.WithMetrics(kycmetrics.New(reg)),
	}
	if cfg.KYC.AllowEmptyList {
		kycOpts = append(kycOpts, kycservice.WithEmptyDocumentListAllowed())
	}
	kycSvc := kycservice.New(kycstore.NewPostgres(db), docTypes, storage, kycOpts...)

	health := []healthCheck{{name: "postgres", check: db.PingContext}}
	if rdb != nil {
		health = append(health, healthCheck{name: "redis", check: rdb.Health})
	}
	if producer != nil {
		health = append(health, healthCheck{name: "kafka", check: producer.Health})
	}

	router := newRouter(routerDeps{
		logger:    log,
		metrics:   metrics.New(reg),
		gatherer:  reg,
		health:    health,
		customers: customerhandler.New(customerSvc, log),
		kyc:       kychandler.New(kycSvc, log),
		docTypes:  doctypehandler.New(docTypes, log),
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g.Go(func() error {
		log.InfoContext(gctx, "starting customer-service", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newDirectory layers the breaker and, when Redis is configured, the cache
// over the HTTP client.
func newDirectory(cfg config.UserDirectory, rdb *redis.Client, log *slog.Logger) userdirectory.Directory {
	var dir userdirectory.Directory = userdirectory.NewHTTPClient(cfg.BaseURL, cfg.Timeout)
	dir = userdirectory.NewBreakerDirectory(dir,
		circuit.New("user-directory",
			circuit.WithFailureThreshold(cfg.FailureThreshold),
			circuit.WithCooldown(cfg.BreakerCooldown),
		), log)
	if rdb != nil {
		dir = userdirectory.NewCachedDirectory(dir, rdb.Client, cfg.CacheTTL, log)
	}
	return dir
}

// newAuditPublisher buffers events towards Kafka through a background worker.
// Without brokers the events are kept in memory and only the audit log lines
// remain.
func newAuditPublisher(ctx context.Context, g *errgroup.Group, cfg config.Audit, log *slog.Logger) (*audit.Publisher, *kafka.Producer, error) {
	if len(cfg.Brokers) == 0 {
		log.Warn("no kafka brokers configured; audit events are not forwarded")
		return audit.NewPublisher(audit.NewMemorySink()), nil, nil
	}
	producer, err := kafka.NewProducer(ctx, cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, nil, fmt.Errorf("init audit producer: %w", err)
	}
	inbox := make(chan audit.Event, auditBufferSize)
	worker := audit.NewWorker(audit.NewKafkaSink(producer), inbox, log)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	return audit.NewPublisher(audit.NewChannelSink(inbox)), producer, nil
}
