package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/auth"
	"github.com/yudapramata/rab-management/internal/budget"
	budgetpg "github.com/yudapramata/rab-management/internal/budget/postgres"
	"github.com/yudapramata/rab-management/internal/core/events"
	"github.com/yudapramata/rab-management/internal/device"
	devicepg "github.com/yudapramata/rab-management/internal/device/postgres"
	"github.com/yudapramata/rab-management/internal/notification"
	notificationpg "github.com/yudapramata/rab-management/internal/notification/postgres"
	"github.com/yudapramata/rab-management/internal/pushprovider"
	"github.com/yudapramata/rab-management/internal/transport/rest"
	userpg "github.com/yudapramata/rab-management/internal/user/postgres"
	"github.com/yudapramata/rab-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		lg.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		lg.Error("failed to initialize orm", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	setupRoutes(router, cfg, db, gormDB, lg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("server shutdown error", "error", err)
		}
		if err := db.Close(); err != nil {
			lg.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("server stopped")
}

func setupRoutes(router *chi.Mux, cfg *internal.Config, db *sqlx.DB, gormDB *gorm.DB, lg *slog.Logger) {
	budgetRepo := budgetpg.NewBudgetRepository(gormDB)
	notificationRepo := notificationpg.NewNotificationRepository(gormDB)
	deviceRepo := devicepg.NewDeviceRepository(gormDB)
	userRepo := userpg.NewUserRepository(gormDB)

	pushClient := pushprovider.NewClient(pushprovider.Config{
		Endpoint:  cfg.Push.Endpoint,
		ServerKey: cfg.Push.ServerKey,
		Timeout:   cfg.Push.Timeout,
	}, lg)

	deviceService := device.NewService(deviceRepo, lg)
	dispatcher := notification.NewDispatcher(notificationRepo, deviceService, pushClient, userRepo, lg)

	eventBus := events.NewEventBus(lg)
	notification.NewEventHandler(dispatcher, lg).RegisterEventHandlers(eventBus)

	budgetService := budget.NewService(budgetRepo, dispatcher, eventBus, lg)

	budgetHandler := budget.NewHandler(budgetService)
	deviceHandler := device.NewHandler(deviceService)

	validator := auth.NewTokenValidator(cfg.Security.JWTSecret)
	authMiddleware := auth.NewMiddleware(validator, lg)

	rest.RegisterAllRoutes(router, db.DB, authMiddleware, budgetHandler, deviceHandler, cfg.Server.AllowedOrigins, lg)
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
