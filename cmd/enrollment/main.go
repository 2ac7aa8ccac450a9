package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	enrollmentpage "retailenroll/frontend/enrollment"
	"retailenroll/infrastructure/argon"
	"retailenroll/infrastructure/audit"
	"retailenroll/infrastructure/cache"
	"retailenroll/infrastructure/config"
	"retailenroll/infrastructure/enrollment"
	"retailenroll/infrastructure/geo"
	httpserver "retailenroll/infrastructure/http"
	"retailenroll/infrastructure/report"
	"retailenroll/infrastructure/sqlite"
	"retailenroll/infrastructure/transport"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	operatorKey, err := argon.NewKeyCheck(cfg.OperatorKeyHash)
	if err != nil {
		log.Fatalf("OPERATOR_KEY_HASH: %v", err)
	}
	bridgeKey, err := argon.NewKeyCheck(cfg.BridgeKeyHash)
	if err != nil {
		log.Fatalf("BRIDGE_KEY_HASH: %v", err)
	}

	auditSvc := audit.NewService()
	ctrl := enrollment.NewController(
		report.NewRenderer(cfg.ProgramPeriod, loc),
		transport.NewClient(cfg.WebhookURL, cfg.WebhookTimeout),
		enrollmentpage.NewLedger(db, auditSvc),
		geo.ExifExtractor{},
		enrollment.Config{
			ClickTimeout:  cfg.ClickLocationTimeout,
			PhotoTimeout:  cfg.PhotoLocationTimeout,
			MaxPhotoBytes: cfg.MaxPhotoBytes,
			Location:      loc,
		},
	)

	server := httpserver.NewServer(cfg.Addr, db, cache.NewEnrollmentSessionCache(cfg.SessionTTL), auditSvc, ctrl, httpserver.Options{
		Period:        cfg.ProgramPeriod,
		SessionTTL:    cfg.SessionTTL,
		CookieSecure:  cfg.CookieSecure,
		MaxPhotoBytes: cfg.MaxPhotoBytes,
		Location:      loc,
		OperatorKey:   operatorKey,
		BridgeKey:     bridgeKey,
	})
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	slog.Info("enrollment server listening",
		slog.String("addr", cfg.Addr),
		slog.String("period", cfg.ProgramPeriod),
		slog.Bool("exports_enabled", operatorKey.Enabled()),
		slog.Bool("bridge_key_required", bridgeKey.Enabled()),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		slog.Error("graceful shutdown error", slog.Any("err", err))
	}
}
