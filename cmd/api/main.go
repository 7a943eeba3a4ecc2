package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	mongoadapter "github.com/robertarktes/campus-reservations/internal/adapters/mongo"
	"github.com/robertarktes/campus-reservations/internal/adapters/rabbit"
	redisadapter "github.com/robertarktes/campus-reservations/internal/adapters/redis"
	"github.com/robertarktes/campus-reservations/internal/config"
	httphandler "github.com/robertarktes/campus-reservations/internal/http"
	"github.com/robertarktes/campus-reservations/internal/idempotency"
	"github.com/robertarktes/campus-reservations/internal/observability"
	"github.com/robertarktes/campus-reservations/internal/outbox"
	"github.com/robertarktes/campus-reservations/internal/rateLimit"
	"github.com/robertarktes/campus-reservations/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sinks := []outbox.Sink{outbox.LogSink{Logger: logger}}
	checks := map[string]httphandler.Check{}
	var audit httphandler.AuditReader

	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())
		auditLogger := mongoadapter.NewAuditLogger(mongoClient.Database(cfg.MongoDB), logger)
		sinks = append(sinks, auditLogger)
		audit = auditLogger
		checks["mongo"] = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
	}

	var routerOpts httphandler.RouterOptions
	if cfg.RedisAddr != "" {
		redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		redisCache := redisadapter.NewCache(redisClient)
		routerOpts.RateLimiter = rateLimit.NewRateLimiter(redisCache)
		routerOpts.PerMinute = cfg.RateLimitPerMinute
		routerOpts.Idempotency = idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), cfg.IdempotencyTTL)
		checks["redis"] = redisCache.Ping
	}

	if cfg.RabbitURL != "" {
		rabbitConn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer rabbitConn.Close()
		rabbitPub, err := rabbit.NewPublisher(rabbitConn)
		if err != nil {
			log.Fatalf("failed to create publisher: %v", err)
		}
		defer rabbitPub.Close()
		sinks = append(sinks, rabbitPub)
		checks["rabbit"] = func(context.Context) error {
			if rabbitConn.IsClosed() {
				return amqp.ErrClosed
			}
			return nil
		}
	}

	dispatcher := outbox.NewDispatcher(cfg.OutboxBuffer, logger, sinks)
	dispatched := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(dispatched)
	}()

	svc := service.NewFromFixtures(dispatcher, logger)
	handlers := httphandler.NewHandlers(svc, audit, checks, logger)
	r := httphandler.SetupRouter(handlers, logger, routerOpts)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	cancel()
	<-dispatched
	logger.Info("Server exiting")
}
