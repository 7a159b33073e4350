package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/api"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/config"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/seed"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/storage"
)

type app struct {
	logger internal.Logger
	store  storage.Store
	cfg    *config.Config
}

func (a *app) Logger() internal.Logger { return a.logger }
func (a *app) Store() storage.Store    { return a.store }
func (a *app) SeedEnabled() bool       { return a.cfg.SeedDemo }

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	store, err := storage.New(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer store.Close()

	a := &app{logger: logger, store: store, cfg: cfg}

	var demoUserID *int64
	if cfg.SeedDemo {
		id, err := ensureDemoUser(store, logger)
		if err != nil {
			logger.Fatalf("failed to seed demo data: %v", err)
		}
		demoUserID = &id
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(a, demoUserID)

	logger.Infof("server running on :%s (backend=%s)", cfg.Port, cfg.DBType)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}

// ensureDemoUser seeds only when the store is empty, so restarts keep the
// existing data.
func ensureDemoUser(store storage.Store, logger internal.Logger) (int64, error) {
	ctx := context.Background()
	id, err := store.LatestUserID(ctx)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, internal.ErrNotFound) {
		return 0, err
	}
	id, err = seed.Seed(ctx, store, time.Now())
	if err != nil {
		return 0, err
	}
	logger.Infof("seeded demo user %d", id)
	return id, nil
}
