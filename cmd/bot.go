package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"budgetbot/internal"
	"budgetbot/internal/expense"
	expensePostgres "budgetbot/internal/expense/postgres"
	"budgetbot/internal/parser"
	"budgetbot/internal/project"
	projectPostgres "budgetbot/internal/project/postgres"
	"budgetbot/internal/rates"
	ratesPostgres "budgetbot/internal/rates/postgres"
	"budgetbot/internal/report"
	"budgetbot/internal/telegram"
	"budgetbot/internal/transport/rest"
	"budgetbot/internal/user"
	userPostgres "budgetbot/internal/user/postgres"
	"budgetbot/pkg/logger"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Start the Telegram bot",
	Long:  `Start long polling for Telegram updates alongside the ops HTTP server.`,
	Run: func(cmd *cobra.Command, args []string) {
		startBot()
	},
}

func startBot() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Environment)
	log := logger.L()

	db, err := initDB(cfg.Database)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	// reuse the verified pool for the ORM
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error("failed to initialize orm", "error", err)
		os.Exit(1)
	}

	provider := rates.NewHTTPProvider(cfg.Rates, log)
	rateService := rates.NewService(ratesPostgres.NewRateRepository(gormDB), provider, cfg.Rates, log)

	users := user.NewService(userPostgres.NewUserRepository(gormDB), cfg.Rates.ReportingCode, log)
	projects := project.NewService(projectPostgres.NewProjectRepository(gormDB), cfg.Rates.ReportingCode, log)
	expenses := expense.NewService(expensePostgres.NewExpenseRepository(gormDB), rateService, log)

	semantic := parser.NewOpenAIParser(cfg.OpenAI, log)
	resolver := parser.NewResolver(parser.New(), semantic, log)

	summarizer := report.NewOpenAISummarizer(cfg.OpenAI, log)
	reports := report.NewService(expenses, summarizer, cfg.Rates.ReportingCode, log)

	bot, err := telegram.NewBot(cfg.Telegram, log)
	if err != nil {
		log.Error("failed to initialize telegram bot", "error", err)
		os.Exit(1)
	}
	bot.SetHandler(telegram.NewHandler(
		bot.API(), users, projects, expenses, reports, resolver, cfg.Rates.ReportingCode))

	router := chi.NewRouter()
	rest.RegisterOpsRoutes(router, db.DB, log)

	opsServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)
	go func() {
		log.Info("starting ops server", "address", opsServer.Addr)
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	go func() {
		log.Info("starting telegram polling")
		if err := bot.Run(ctx); err != nil {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig)
	case err := <-errChan:
		log.Error("component failed", "error", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("ops server shutdown error", "error", err)
	}
	if err := db.Close(); err != nil {
		log.Error("database close error", "error", err)
	}

	log.Info("bot stopped")
}

// initDB opens and verifies the pgx connection pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
