package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub003/internal/audit"
	"github.com/ilya24037/www.spa.com-sub003/internal/config"
	dbpkg "github.com/ilya24037/www.spa.com-sub003/internal/db"
	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
	"github.com/ilya24037/www.spa.com-sub003/internal/domain/pricing"
	"github.com/ilya24037/www.spa.com-sub003/internal/handlers"
	"github.com/ilya24037/www.spa.com-sub003/internal/infra/lock"
	"github.com/ilya24037/www.spa.com-sub003/internal/infra/payment"
	infraRepo "github.com/ilya24037/www.spa.com-sub003/internal/infra/repository"
	"github.com/ilya24037/www.spa.com-sub003/internal/jobs"
	"github.com/ilya24037/www.spa.com-sub003/internal/logger"
	"github.com/ilya24037/www.spa.com-sub003/internal/routes"
	"github.com/ilya24037/www.spa.com-sub003/internal/timezone"
	ucBooking "github.com/ilya24037/www.spa.com-sub003/internal/usecase/booking"
)

const auditQueueSize = 1024

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.New(cfg.Env)
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		zlog.Fatal("failed to connect database", zap.Error(err))
	}
	if err := dbpkg.Migrate(ctx, db, zlog); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	loc := timezone.Location(cfg.Timezone)
	clock := timezone.NewClock(cfg.Timezone)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	serviceRepo := infraRepo.NewServiceGormRepository(db)

	auditLogger := audit.New(db)
	sinks := []audit.Sink{auditLogger}

	var kafkaSink *audit.KafkaSink
	if brokers := audit.SplitBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		kafkaSink = audit.NewKafkaSink(brokers, cfg.KafkaTopic)
		sinks = append(sinks, kafkaSink)
		zlog.Info("kafka sink enabled", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
	}

	if cfg.S3Bucket != "" {
		sinks = append(sinks, audit.NewS3Sink(audit.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}))
		zlog.Info("s3 event archive enabled", zap.String("bucket", cfg.S3Bucket))
	}

	dispatcher := audit.NewDispatcher(zlog, auditQueueSize, sinks...)

	var locker ucBooking.Locker = ucBooking.NoopLocker{}
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zlog.Fatal("failed to connect redis", zap.Error(err))
		}
		locker = lock.NewRedisLocker(redisClient, zlog)
	}

	// stays a nil interface when payments are not configured
	var gateway domain.PaymentGateway
	if cfg.MPAccessToken != "" {
		mp, err := payment.NewMercadoPago(cfg.MPAccessToken)
		if err != nil {
			zlog.Fatal("failed to init mercadopago", zap.Error(err))
		}
		gateway = mp
	}

	priceCfg := pricing.DefaultConfig()
	priceCfg.DeliveryFee = cfg.DeliveryFee
	priceCfg.DeliveryFeeOverrides = cfg.DeliveryFeeOverrides
	priceCfg.PromoCodes = cfg.PromoCodes
	engine := pricing.NewEngine(priceCfg)

	// ======================================================
	// USE CASES
	// ======================================================
	lookup := ucBooking.NewScheduleLookup(scheduleRepo, loc)
	slots := ucBooking.NewSlots(lookup, bookingRepo, serviceRepo, clock)
	avail := ucBooking.NewAvailability(lookup, bookingRepo, slots, clock)
	quote := ucBooking.NewQuote(serviceRepo, bookingRepo, engine, clock)
	refunds := ucBooking.NewRefunds(gateway, zlog)

	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, avail, quote, locker, dispatcher, clock, zlog)
	transitionsUC := ucBooking.NewTransitions(bookingRepo, avail, refunds, dispatcher, clock, zlog)
	getBookingUC := ucBooking.NewGetBooking(bookingRepo, clock)
	paymentsUC := ucBooking.NewPayments(bookingRepo, gateway, refunds, dispatcher, clock, zlog)
	sweepsUC := ucBooking.NewSweeps(bookingRepo, transitionsUC, dispatcher, clock, zlog, cfg.ReminderLead, cfg.PendingTTL)

	scheduler, err := jobs.NewScheduler(sweepsUC, cfg.ReminderCron, loc, zlog)
	if err != nil {
		zlog.Fatal("failed to init scheduler", zap.Error(err))
	}
	scheduler.Start()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, cfg, zlog, routes.Handlers{
		Public:    handlers.NewPublicHandler(slots, avail, quote, loc, zlog),
		Booking:   handlers.NewBookingHandler(createBookingUC, getBookingUC, transitionsUC, paymentsUC, loc, zlog),
		Provider:  handlers.NewProviderHandler(avail, ucBooking.NewListBookings(bookingRepo, loc), clock, loc, zlog),
		AuditLogs: handlers.NewAuditLogsHandler(getBookingUC, auditLogger, loc, zlog),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
	}

	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
	if err := dispatcher.Close(shutdownCtx); err != nil {
		zlog.Error("audit dispatcher close", zap.Error(err))
	}
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			zlog.Error("kafka close", zap.Error(err))
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
