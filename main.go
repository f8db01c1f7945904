package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/idempotency"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/rabbitmq"
)

const auditQueue = "order_events_audit"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	db, err := database.Open(database.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		Debug:        cfg.LogLevel == "debug",
	})
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.SeedData {
		if err := database.Seed(context.Background(), repositories.NewGORMStore(db)); err != nil {
			return err
		}
	}

	// Order events and idempotency are optional; the service runs without them.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: services.OrdersExchange}, zl)
		if err != nil {
			zl.Warn("order events disabled", zap.Error(err))
		} else {
			defer mq.Close()
			publisher = mq
			if err := mq.Consume(auditQueue, "order.#", logOrderEvent(zl)); err != nil {
				zl.Warn("order event audit disabled", zap.Error(err))
			}
		}
	}

	var idem idempotency.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zl.Warn("idempotency keys disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			idem = idempotency.NewRedisStore(rdb, cfg.IdempotencyTTL)
		}
	}

	app := newApp(cfg, zl, db, publisher, idem)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		zl.Info("starting server", zap.String("addr", cfg.AppPort))
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	zl.Info("shutting down server")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		zl.Error("error during fiber shutdown", zap.Error(err))
	}
	zl.Info("server gracefully stopped")
	return nil
}

// newApp wires services and handlers on top of db.
func newApp(cfg config.Config, zl *zap.Logger, db *gorm.DB, publisher services.EventPublisher, idem idempotency.Store) *fiber.App {
	store := repositories.NewGORMStore(db)

	authService := services.NewAuthService(store.Users(), cfg.JWTSecret, zl)
	orderService := services.NewOrderService(
		store,
		services.NewDailyOrderSequencer(cfg.OrderNumberPrefix, nil),
		publisher,
		zl,
		services.OrderServiceConfig{InitialStatus: cfg.OrderInitialStatus},
	)

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: handlers.ErrorHandler(zl),
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, code = "degraded", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handlers.Routes{
		Auth:         handlers.NewAuthHandler(authService, zl),
		Products:     handlers.NewProductHandler(services.NewProductService(store.Products()), zl),
		Franchises:   handlers.NewFranchiseHandler(services.NewFranchiseService(store.Franchises()), zl),
		Carts:        handlers.NewCartHandler(services.NewCartService(store), zl),
		Orders:       handlers.NewOrderHandler(orderService, idem, cfg.PlacementTimeout, zl),
		AuthRequired: middleware.AuthRequired(authService),
	}.Mount(app.Group("/api/v1"))

	return app
}

// logOrderEvent keeps an audit trail of order events in the service log.
func logOrderEvent(zl *zap.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event services.OrderPlacedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("malformed order event: %w", err)
		}
		zl.Info("order event received",
			zap.String("routing_key", msg.RoutingKey),
			zap.String("order_id", event.OrderID),
			zap.String("order_number", event.OrderNumber),
			zap.String("total_amount", event.TotalAmount.StringFixed(2)),
			zap.Int("lines", len(event.Items)),
		)
		return nil
	}
}
