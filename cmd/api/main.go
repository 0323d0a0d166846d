package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"babyboss-sales/internal/app"
	"babyboss-sales/internal/config"
	"babyboss-sales/internal/handler"
	applog "babyboss-sales/internal/logger"
	"babyboss-sales/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := applog.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	jwt.Configure(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Setup stores, brokers and services
	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("init app", zap.Error(err))
	}

	// 3. Seed the default admin and load the shared sheet
	if created, err := a.Auth.SeedAdmin(cfg.SeedAdminPassword); err != nil {
		zl.Warn("seed admin", zap.Error(err))
	} else if created {
		zl.Info("default admin created", zap.String("username", "admin"))
	}

	// 4. Setup WebSocket Hub and background sync
	go a.Hub.Run()
	syncDone := make(chan struct{})
	go func() {
		defer close(syncDone)
		a.Sync.Run(ctx)
	}()

	// 5. Dependency Injection (Wiring Layers)
	handlers := &handler.Handlers{
		Auth:     handler.NewAuthHandler(a.Auth),
		User:     handler.NewUserHandler(a.Users),
		Role:     handler.NewRoleHandler(),
		Customer: handler.NewCustomerHandler(a.Customer),
		Order:    handler.NewOrderHandler(a.Orders),
		Report:   handler.NewReportHandler(a.Reports),
		Sync:     handler.NewSyncHandler(a.Sync),
	}

	// 6. Setup Fiber
	server := fiber.New(fiber.Config{
		AppName: "BabyBoss Sales v1.0",
	})

	// Middleware
	server.Use(logger.New())  // Logging request
	server.Use(recover.New()) // Panic recovery
	corsCfg := cors.Config{}
	if len(cfg.CorsAllowedOrigins) > 0 {
		corsCfg.AllowOrigins = strings.Join(cfg.CorsAllowedOrigins, ",")
	}
	server.Use(cors.New(corsCfg))

	// 7. Routes
	handler.RegisterRoutes(server, handlers, a.Repos.Users)

	// WebSocket Route
	server.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	server.Get("/ws", websocket.New(func(c *websocket.Conn) {
		a.Hub.Join(c)
		defer a.Hub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			zl.Fatal("listen", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	cancel()
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
	<-syncDone
	a.Close()

	zl.Info("server exited")
}

