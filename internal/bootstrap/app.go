package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/cache"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/Domenick1991/hotelbooking/internal/repository"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// App is a loaded ledger plus the connections it holds.
type App struct {
	Ledger  *booking.Ledger
	closers []func() error
	log     logrus.FieldLogger
}

// NewApp opens the configured store, the optional Redis cache and Kafka
// producer, and loads the ledger.
func NewApp(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	app := &App{log: log}

	repo, err := app.openRepository(ctx, cfg.Storage)
	if err != nil {
		app.closeAll()
		return nil, err
	}

	opts := []booking.LedgerOption{booking.WithLogger(log)}

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.AvailabilityCacheTTLSeconds)*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			app.closeAll()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		app.closers = append(app.closers, redisCache.Close)
		opts = append(opts, booking.WithCache(redisCache, time.Duration(cfg.Booking.LockTTLSeconds)*time.Second))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		if err := producer.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka is unreachable, booking events may be lost")
		}
		app.closers = append(app.closers, producer.Close)
		opts = append(opts,
			booking.WithProducer(producer, cfg.Kafka.BookingTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	ledger, err := booking.NewLedger(ctx, repo, opts...)
	if err != nil {
		app.closeAll()
		return nil, err
	}
	app.Ledger = ledger
	return app, nil
}

func (a *App) openRepository(ctx context.Context, cfg config.StorageConfig) (repository.BookingRepository, error) {
	switch cfg.Driver {
	case config.StorageDriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })

		repo := repository.NewPGBookingRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case config.StorageDriverSQLite:
		db, err := repository.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		a.closers = append(a.closers, sqlDB.Close)
		return repository.NewGormBookingRepository(db), nil
	default:
		return repository.NewFileBookingRepository(cfg.Path), nil
	}
}

// Close flushes the ledger and releases every connection.
func (a *App) Close(ctx context.Context) error {
	var err error
	if a.Ledger != nil {
		err = a.Ledger.Close(ctx)
	}
	a.closeAll()
	return err
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.WithError(err).Warn("close failed")
		}
	}
	a.closers = nil
}
