package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/admin"
	adminPostgres "github.com/frahmantamala/finance-tracker/internal/admin/postgres"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/goal"
	goalPostgres "github.com/frahmantamala/finance-tracker/internal/goal/postgres"
	"github.com/frahmantamala/finance-tracker/internal/metrics"
	"github.com/frahmantamala/finance-tracker/internal/report"
	reportPostgres "github.com/frahmantamala/finance-tracker/internal/report/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	transactionPostgres "github.com/frahmantamala/finance-tracker/internal/transaction/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/internal/transport/rest"
	"github.com/frahmantamala/finance-tracker/internal/transport/swagger"
	"github.com/frahmantamala/finance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/finance-tracker/internal/user/postgres"
	"github.com/frahmantamala/finance-tracker/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config      *internal.Config
	DB          *sqlx.DB
	Gorm        *gorm.DB
	Router      *chi.Mux
	Logger      *slog.Logger
	EventBus    *events.EventBus
	RateLimiter *middleware.RateLimiter
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if deps.RateLimiter != nil {
		go deps.RateLimiter.Cleanup(ctx)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "env", deps.Config.App.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("received signal, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(shutdownCtx); err != nil {
			deps.Logger.Warn("event handlers still running at shutdown", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)

	var recorder *metrics.Recorder
	if config.Observability.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		recorder.Subscribe(bus)
	}

	var limiter *middleware.RateLimiter
	if config.RateLimit.Enabled {
		limiter, err = middleware.NewRateLimiter(config.RateLimit.RequestsPerSecond, config.RateLimit.Burst).
			TrustProxies(config.RateLimit.Proxies())
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to configure rate limiter: %w", err)
		}
		if recorder != nil {
			limiter.OnReject(recorder.RateLimited)
		}
	}

	var spec *swagger.Spec
	if config.Server.OpenAPIPath != "" {
		spec, err = swagger.LoadSpec(config.Server.OpenAPIPath)
		if err != nil {
			// docs are optional, the API still serves without them
			lg.Warn("openapi spec not loaded", "path", config.Server.OpenAPIPath, "error", err)
			spec = nil
		}
	}

	userRepo := userPostgres.NewUserRepository(gormDB)
	transactionRepo := transactionPostgres.NewTransactionRepository(gormDB)
	goalRepo := goalPostgres.NewGoalRepository(gormDB)
	reportRepo := reportPostgres.NewReportRepository(gormDB)
	statsRepo := adminPostgres.NewStatsRepository(db)

	hasher := auth.NewBcryptHasher(config.Security.BCryptCost)
	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)

	authService := auth.NewService(userRepo, tokens, hasher, bus, auth.Config{
		PublicURL:       config.App.PublicURL,
		VerificationTTL: config.Security.VerificationTokenTTL,
	}, lg)
	userService := user.NewService(userRepo, hasher, lg)
	transactionService := transaction.NewService(transactionRepo, bus, lg)
	goalService := goal.NewService(goalRepo, lg)
	reportService := report.NewService(reportRepo, bus, lg)
	adminService := admin.NewService(userRepo, reportRepo, statsRepo, lg)

	base := transport.NewBaseHandler(lg)
	handlers := rest.Handlers{
		Health:      rest.NewHealthHandler(base, db),
		Auth:        auth.NewHandler(base, authService),
		RBAC:        auth.NewRBACAuthorization(base, lg),
		User:        user.NewHandler(base, userService),
		Category:    category.NewHandler(base),
		Transaction: transaction.NewHandler(base, transactionService),
		Goal:        goal.NewHandler(base, goalService),
		Report:      report.NewHandler(base, reportService),
		Admin:       admin.NewHandler(base, adminService),
	}

	router := chi.NewRouter()
	opts := rest.Options{
		Logger:         lg,
		AllowedOrigins: config.Server.Origins(),
		MetricsPath:    config.Observability.Metrics.Path,
		Metrics:        recorder,
		RateLimiter:    limiter,
		Spec:           spec,
	}
	rest.RegisterAllRoutes(router, handlers, opts)

	return &Dependencies{
		Config:      config,
		DB:          db,
		Gorm:        gormDB,
		Router:      router,
		Logger:      lg,
		EventBus:    bus,
		RateLimiter: limiter,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx pool so both layers see the same connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{TranslateError: true})
}
