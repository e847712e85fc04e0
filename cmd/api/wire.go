package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/cast-scheduler/internal/audit"
	"github.com/BruksfildServices01/cast-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/cast-scheduler/internal/db"
	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/cast-scheduler/internal/infra/notify"
	"github.com/BruksfildServices01/cast-scheduler/internal/infra/redislock"
	"github.com/BruksfildServices01/cast-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/cast-scheduler/internal/logging"
	"github.com/BruksfildServices01/cast-scheduler/internal/timezone"
	ucBooking "github.com/BruksfildServices01/cast-scheduler/internal/usecase/booking"
)

// app holds the process wide singletons shared by the commands.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	db    *gorm.DB
	audit *audit.Logger
	deps  ucBooking.Deps

	closers []func() error
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg), nil
}

func openDB(cfg *config.Config) (*gorm.DB, func() error, error) {
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, sqlDB.Close, nil
}

func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	db, closeDB, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, closeDB)

	// ------------------------------
	// Store and locking
	// ------------------------------
	var repo booking.Repository = repository.NewBookingGormRepository(db, cfg.LockTimeout)

	if cfg.LockBackend == config.LockBackendRedis {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opt)
		a.closers = append(a.closers, client.Close)

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		repo = repository.NewLockingRepository(
			repo,
			redislock.New(client, cfg.RedisLockTTL, cfg.LockTimeout),
			log,
		)
	}

	// ------------------------------
	// Notifications
	// ------------------------------
	a.audit = audit.New(db)
	dispatcher := audit.NewDispatcher(a.audit, log, audit.DefaultQueueSize)
	a.closers = append(a.closers, func() error {
		dispatcher.Close()
		return nil
	})

	notifiers := notify.Multi{dispatcher}
	if cfg.RabbitMQURL != "" {
		pub, err := notify.NewPublisher(cfg.RabbitMQURL, cfg.NotifyExchange)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pub.Close)
		notifiers = append(notifiers, pub)
	} else {
		notifiers = append(notifiers, notify.NewLogNotifier(log))
	}

	a.deps = ucBooking.Deps{
		Repo:      repo,
		Directory: repository.NewCalendarGormRepository(db),
		Notifier:  notifiers,
		Log:       log,
		Location:  timezone.Location(cfg.BusinessTimezone),
	}

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
