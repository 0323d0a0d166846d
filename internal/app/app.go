// Package app wires the stores, services and background workers shared by
// the API server and the admin CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"babyboss-sales/internal/cache"
	"babyboss-sales/internal/config"
	"babyboss-sales/internal/events"
	"babyboss-sales/internal/pricing"
	"babyboss-sales/internal/queue"
	"babyboss-sales/internal/repository"
	"babyboss-sales/internal/repository/memory"
	"babyboss-sales/internal/service"
	"babyboss-sales/internal/sheets"
	"babyboss-sales/internal/ws"
	"babyboss-sales/pkg/database"
)

// Repos are the stores every service reads from.
type Repos struct {
	Users     repository.UserRepository
	Customers repository.CustomerRepository
	Orders    repository.OrderRepository
	Sync      repository.SyncRepository
	Pulls     repository.PullApplier
}

type App struct {
	Config     config.Config
	Log        *zap.Logger
	Repos      Repos
	Hub        *ws.Hub
	Dispatcher *events.Dispatcher

	Auth     service.AuthService
	Users    service.UserService
	Customer service.CustomerService
	Orders   service.OrderService
	Reports  service.ReportService
	Sync     service.SyncService

	db    *gorm.DB
	queue *queue.Client
	redis *cache.RedisReportCache
}

// New opens the stores and brokers named by cfg and wires every service.
// Redis and RabbitMQ are optional; a failed connection is logged and the
// feature turned off.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	// 1. Pricing
	prices, err := pricing.Load(cfg.PricingFile)
	if err != nil {
		return nil, err
	}

	// 2. Stores
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectDB(cfg.DatabaseURL, !cfg.IsProduction())
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.db = db
		a.Repos = Repos{
			Users:     repository.NewUserRepo(db),
			Customers: repository.NewCustomerRepo(db),
			Orders:    repository.NewOrderRepo(db),
			Sync:      repository.NewSyncRepo(db),
			Pulls:     repository.NewPullApplier(db),
		}
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store")
		r := Repos{
			Users:     memory.NewUserRepo(),
			Customers: memory.NewCustomerRepo(),
			Orders:    memory.NewOrderRepo(),
			Sync:      memory.NewSyncRepo(),
		}
		r.Pulls = memory.NewPullApplier(r.Users, r.Customers, r.Orders, r.Sync)
		a.Repos = r
	}

	// 3. Report cache
	var reports cache.ReportCache = cache.NoopReportCache{}
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unavailable, report cache disabled", zap.Error(err))
			_ = rc.Close()
		} else {
			a.redis = rc
			reports = rc
		}
	}

	// 4. Events
	a.Hub = ws.NewHub(log)
	var pub events.Publisher
	if cfg.RabbitMQURL != "" {
		q, err := queue.New(cfg.RabbitMQURL)
		if err == nil {
			err = q.EnsureExchange(queue.EventsExchange)
			if err != nil {
				_ = q.Close()
			}
		}
		if err != nil {
			log.Warn("rabbitmq unavailable, events stay local", zap.Error(err))
		} else {
			a.queue = q
			pub = q
		}
	}
	a.Dispatcher = events.NewDispatcher(a.Hub, pub, queue.EventsExchange, log)

	// 5. Services
	r := a.Repos
	loc := cfg.Location()
	client := sheets.NewClient(cfg.SheetsAPIURL, cfg.SheetsTimeout)
	a.Sync = service.NewSyncService(client, service.SyncConfig{
		Enabled:     client.Enabled(),
		Interval:    cfg.SyncInterval,
		MaxAttempts: cfg.SyncMaxAttempts,
		Location:    loc,
	}, r.Users, r.Customers, r.Orders, r.Sync, r.Pulls, reports, a.Dispatcher, log)
	a.Auth = service.NewAuthService(r.Users, a.Sync, a.Dispatcher, log)
	a.Users = service.NewUserService(r.Users, a.Sync, reports, a.Dispatcher, log)
	a.Customer = service.NewCustomerService(r.Users, r.Customers, r.Orders, a.Sync, reports, a.Dispatcher, log, loc)
	a.Orders = service.NewOrderService(r.Users, r.Customers, r.Orders, prices, a.Sync, reports, a.Dispatcher, log, loc)
	a.Reports = service.NewReportService(r.Users, r.Customers, r.Orders, reports, cfg.ReportCacheTTL, log, loc)

	return a, nil
}

// Close stops the hub, waits for pending event deliveries and releases
// every connection. It is safe to call after Hub.Stop.
func (a *App) Close() {
	a.Hub.Stop()
	a.Dispatcher.Wait()
	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			a.Log.Warn("close rabbitmq", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
