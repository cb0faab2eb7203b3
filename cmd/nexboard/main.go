package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/nexboard/nexboard/internal"
	"github.com/nexboard/nexboard/internal/handler"
	"github.com/nexboard/nexboard/pkg/aggregate"
	"github.com/nexboard/nexboard/pkg/cleaner"
	"github.com/nexboard/nexboard/pkg/config"
	"github.com/nexboard/nexboard/pkg/cronjob"
	"github.com/nexboard/nexboard/pkg/db/comment"
	"github.com/nexboard/nexboard/pkg/db/master"
	"github.com/nexboard/nexboard/pkg/db/orm"
	"github.com/nexboard/nexboard/pkg/db/project"
)

// @title						Nexboard API
// @version					1.0.0
// @description				Project-management backend: projects, tasks, comments and master data.
func main() {
	// Load .env for local runs
	if gin.Mode() == gin.DebugMode {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			klog.Warningf("failed to load .env: %v", err)
		}
	}

	cfg, err := config.Load(os.Getenv("NEXBOARD_CONFIG"))
	if err != nil {
		klog.Fatalf("Failed to load config: %v", err)
	}

	db, err := orm.Open(cfg)
	if err != nil {
		klog.Fatalf("Failed to connect to database: %v", err)
	}
	if err := orm.Migrate(db); err != nil {
		klog.Fatalf("Failed to migrate database: %v", err)
	}

	cronMgr := cronjob.NewManager()
	if cfg.Cleanup.Enable {
		sweeper := cleaner.NewTombstoneCleaner(db, cfg.Cleanup.RetainDays)
		if _, err := cronMgr.Schedule(cfg.Cleanup.Spec, "purge-tombstones", sweeper.Run); err != nil {
			klog.Fatalf("Failed to schedule tombstone sweep: %v", err)
		}
		cronMgr.Start()
		defer cronMgr.Stop()
	}

	backend := internal.Register(&handler.RegisterConfig{
		DB:        db,
		ProjectDB: project.NewDBService(db),
		MasterDB:  master.NewDBService(db),
		CommentDB: comment.NewDBService(db),
		Decorator: aggregate.NewDecorator(db),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           backend.R,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		klog.Infof("server listening on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	klog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		klog.Errorf("graceful shutdown failed: %v", err)
	}
}
