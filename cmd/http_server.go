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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/workforce-admin/api"
	"github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/auth"
	"github.com/frahmantamala/workforce-admin/internal/core/events"
	"github.com/frahmantamala/workforce-admin/internal/employee"
	employeePostgres "github.com/frahmantamala/workforce-admin/internal/employee/postgres"
	"github.com/frahmantamala/workforce-admin/internal/project"
	projectPostgres "github.com/frahmantamala/workforce-admin/internal/project/postgres"
	"github.com/frahmantamala/workforce-admin/internal/request"
	requestPostgres "github.com/frahmantamala/workforce-admin/internal/request/postgres"
	"github.com/frahmantamala/workforce-admin/internal/task"
	taskPostgres "github.com/frahmantamala/workforce-admin/internal/task/postgres"
	"github.com/frahmantamala/workforce-admin/internal/transport"
	"github.com/frahmantamala/workforce-admin/internal/transport/rest"
	"github.com/frahmantamala/workforce-admin/internal/transport/sse"
	"github.com/frahmantamala/workforce-admin/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests and the request event stream`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Bus    *events.EventBus
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.Bus.Wait()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	// refuse to serve a broken contract
	if _, err := api.Load(context.Background()); err != nil {
		return err
	}

	cfg := deps.Config
	base := transport.NewBaseHandler(deps.Logger)

	employees := employeePostgres.NewEmployeeRepository(deps.Gorm)
	projects := projectPostgres.NewProjectRepository(deps.Gorm)
	tasks := taskPostgres.NewTaskRepository(deps.Gorm)
	requests := requestPostgres.NewRequestRepository(deps.Gorm)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	hub := sse.NewHub(base, cfg.Notifications.Buffer, cfg.Notifications.Heartbeat)
	hub.Attach(deps.Bus)

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:   rest.NewHealthHandler(deps.DB, hub),
		Auth:     auth.NewHandler(base, auth.NewService(employees, tokens, deps.Logger)),
		RBAC:     auth.NewRBACAuthorization(base),
		Employee: employee.NewHandler(base, employee.NewService(employees, projects, cfg.Security.BCryptCost, deps.Logger)),
		Project:  project.NewHandler(base, project.NewService(projects, employees, tasks, deps.Logger)),
		Task:     task.NewHandler(base, task.NewService(tasks, projects, deps.Logger)),
		Request:  request.NewHandler(base, request.NewService(requests, projects, deps.Bus, deps.Logger)),
		Events:   hub,
	}, cfg.Server.AllowedOrigins, deps.Logger)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	lg := logger.LoggerWrapper()
	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Gorm:   gdb,
		Router: chi.NewRouter(),
		Bus:    events.NewEventBus(lg),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
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

// initGorm shares the sqlx pool with gorm so both see the same limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
