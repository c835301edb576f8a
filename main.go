package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billbatista/acasinha-approvals/category"
	"github.com/billbatista/acasinha-approvals/config"
	"github.com/billbatista/acasinha-approvals/eventlogger"
	"github.com/billbatista/acasinha-approvals/expense"
	"github.com/billbatista/acasinha-approvals/server"
	"github.com/billbatista/acasinha-approvals/session"
	"github.com/billbatista/acasinha-approvals/user"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

func main() {
	logger := initLogger()

	cfg, err := config.Load("config.yml")
	if err != nil {
		printErrorAndExit("loading config", err)
	}
	if level, err := log.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
		log.SetLevel(level)
	}

	ctx := context.Background()

	var (
		expenseRepo expense.Repository
		evtlogger   eventlogger.EventLogger
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			printErrorAndExit("database connection", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			printErrorAndExit("pinging database", err)
		}

		repo := expense.NewRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			printErrorAndExit("migrating expenses", err)
		}
		if cfg.Database.Seed == nil || *cfg.Database.Seed {
			if err := repo.Seed(ctx, expense.SampleGroups()); err != nil {
				printErrorAndExit("seeding expenses", err)
			}
		}
		sqlLogger := eventlogger.NewSqlEventLogger(db)
		if err := sqlLogger.Migrate(ctx); err != nil {
			printErrorAndExit("migrating events", err)
		}
		expenseRepo, evtlogger = repo, sqlLogger
	default:
		expenseRepo = expense.NewMemoryRepository(expense.SampleGroups())
		evtlogger = eventlogger.NewMemoryEventLogger()
	}

	worker := eventlogger.NewWorker(evtlogger, cfg.Events.BufferSize)
	worker.Start()
	defer worker.Shutdown()

	srv := &server.Server{
		Engine:     expense.NewEngine(expenseRepo),
		Users:      user.NewRepository(user.SampleUsers()),
		Categories: category.NewStore(),
		Sessions:   session.NewRepository(cfg.SessionTTL()),
		Events:     worker,
		Logger:     logger,
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Router(),
	}

	go func() {
		log.WithField("addr", cfg.Addr()).WithField("storage", cfg.Storage).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			printErrorAndExit("serving http", err)
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutting down server")
	}
	log.Info("server stopped")
}

func initLogger() *log.Logger {
	formatter := &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
	log.SetFormatter(formatter)
	log.SetLevel(log.InfoLevel)

	logger := log.New()
	logger.SetFormatter(formatter)
	logger.SetLevel(log.InfoLevel)
	return logger
}

func printErrorAndExit(msg string, e error) {
	log.WithError(e).Error(msg)
	os.Exit(1)
}
