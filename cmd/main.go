package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/gw-freelance-escrow/internal/handlers"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/jwt"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/metrics"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/middlewares"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/repositories"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const healthServiceName = "escrow"

// config holds every setting read from the environment.
type config struct {
	AppHost  string
	AppPort  string
	LogLevel string
	GRPCPort string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int
	PGLockTimeout  time.Duration

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int
	IdempotencyTTL    time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecretKey string
	JWTExp       time.Duration

	LedgerMaxAttempts int
	LedgerBaseDelay   time.Duration
	Currency          string
}

// @title gw-freelance-escrow API
// @version 1.0.0
// @description Freelance marketplace with escrowed project payments
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", buildVersion, buildDate, buildCommit)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file. Variables already set in the
// environment take precedence over the file.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	var err error
	getInt := func(key, defaultValue string) int {
		if err != nil {
			return 0
		}
		var v int
		if v, err = strconv.Atoi(getEnv(key, defaultValue)); err != nil {
			err = fmt.Errorf("%s: %w", key, err)
		}
		return v
	}

	cfg := &config{
		// Application config
		AppHost:  getEnv("APP_HOST", "localhost"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		GRPCPort: getEnv("GRPC_PORT", "50051"),

		// PostgreSQL config
		PGHost:         getEnv("POSTGRES_HOST", "localhost"),
		PGPort:         getInt("POSTGRES_PORT", "5432"),
		PGUser:         getEnv("POSTGRES_USER", "user"),
		PGPassword:     getEnv("POSTGRES_PASSWORD", "password"),
		PGDB:           getEnv("POSTGRES_DB", "database"),
		PGMaxOpenConns: getInt("POSTGRES_MAX_OPEN_CONNS", "16"),
		PGMaxIdleConns: getInt("POSTGRES_MAX_IDLE_CONNS", "8"),
		PGLockTimeout:  time.Duration(getInt("POSTGRES_LOCK_TIMEOUT_MS", "2000")) * time.Millisecond,

		// Redis config
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getInt("REDIS_PORT", "6379"),
		RedisDB:           getInt("REDIS_DB", "0"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisPoolSize:     getInt("REDIS_POOL_SIZE", "10"),
		RedisMinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", "2"),
		IdempotencyTTL:    time.Duration(getInt("IDEMPOTENCY_TTL_SECOND", "86400")) * time.Second,

		// Kafka config
		KafkaTopic: getEnv("KAFKA_TRANSACTIONS_TOPIC", "escrow.transactions"),

		// JWT config
		JWTSecretKey: getEnv("JWT_SECRET_KEY", "my_super_secret_key"),
		JWTExp:       time.Duration(getInt("JWT_EXP_SECOND", "86400")) * time.Second,

		// Ledger config
		LedgerMaxAttempts: getInt("LEDGER_MAX_ATTEMPTS", "4"),
		LedgerBaseDelay:   time.Duration(getInt("LEDGER_RETRY_BASE_DELAY_MS", "10")) * time.Millisecond,
		Currency:          strings.ToUpper(getEnv("CURRENCY", "BRL")),
	}
	if err != nil {
		return nil, err
	}

	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	return cfg, nil
}

// run initializes the logger, database, Redis, Kafka, gRPC health and HTTP servers.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, "service", healthServiceName, "version", buildVersion); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)

	if err := repositories.Migrate(db.DB); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	// Initialize repositories
	txManager := repositories.NewTxManager(db, cfg.PGLockTimeout)
	userRepo := repositories.NewUserRepository(db, repositories.GetTxFromContext)
	walletRepo := repositories.NewWalletRepository(db, repositories.GetTxFromContext)
	projectRepo := repositories.NewProjectRepository(db, repositories.GetTxFromContext)
	applicationRepo := repositories.NewApplicationRepository(db, repositories.GetTxFromContext)
	transactionRepo := repositories.NewTransactionRepository(db, repositories.GetTxFromContext)
	reviewRepo := repositories.NewReviewRepository(db, repositories.GetTxFromContext)
	disputeRepo := repositories.NewDisputeRepository(db, repositories.GetTxFromContext)

	escrow, err := walletRepo.GetEscrow(ctx)
	if err != nil {
		return fmt.Errorf("escrow wallet lookup failed: %w", err)
	}
	if escrow.Currency != cfg.Currency {
		return fmt.Errorf("escrow wallet currency %s does not match configured currency %s", escrow.Currency, cfg.Currency)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Warnw("Redis unavailable, deposits and withdrawals run without idempotency until it recovers", "error", err)
	}
	idemRepo := repositories.NewIdempotencyRepository(rdb, cfg.IdempotencyTTL)

	// Kafka publisher is optional
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infow("Kafka publisher configured", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// Initialize JWT service
	tokens := jwt.New(jwt.WithSecretKey(cfg.JWTSecretKey), jwt.WithExpiration(cfg.JWTExp))

	// Initialize services
	retry := []services.RetryOption{
		services.WithMaxAttempts(cfg.LedgerMaxAttempts),
		services.WithBaseDelay(cfg.LedgerBaseDelay),
	}
	authService := services.NewAuthService(txManager, userRepo, walletRepo, tokens, cfg.Currency)
	userService := services.NewUserService(userRepo, walletRepo, reviewRepo, projectRepo)
	projectService := services.NewProjectService(txManager, projectRepo, applicationRepo, retry...)
	ledgerService := services.NewLedgerService(txManager, projectRepo, walletRepo, transactionRepo, disputeRepo, idemRepo, kafkaWriter, retry...)
	reviewService := services.NewReviewService(txManager, projectRepo, reviewRepo, userRepo, retry...)
	disputeService := services.NewDisputeService(txManager, projectRepo, disputeRepo, retry...)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(metrics.InstrumentHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", handlers.NewRegisterHandler(authService))
		r.Post("/auth/login", handlers.NewLoginHandler(authService))

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokens))

			r.Get("/auth/me", handlers.NewMeHandler(authService))

			r.Get("/users/freelancers", handlers.NewListFreelancersHandler(userService))
			r.Put("/users/me", handlers.NewUpdateProfileHandler(userService))
			r.Get("/users/{userID}", handlers.NewGetUserHandler(userService))

			r.Post("/projects", handlers.NewCreateProjectHandler(projectService))
			r.Get("/projects", handlers.NewListProjectsHandler(projectService))
			r.Route("/projects/{projectID}", func(r chi.Router) {
				r.Get("/", handlers.NewGetProjectHandler(projectService))
				r.Put("/status", handlers.NewUpdateStatusHandler(projectService))
				r.Post("/deliver", handlers.NewDeliverHandler(projectService))
				r.Post("/applications", handlers.NewApplyHandler(projectService))
				r.Get("/applications", handlers.NewListApplicationsHandler(projectService))
				r.Post("/fund", handlers.NewFundHandler(ledgerService))
				r.Post("/release", handlers.NewReleaseHandler(ledgerService))
				r.Post("/refund", handlers.NewRefundHandler(ledgerService))
				r.Get("/transactions", handlers.NewProjectTransactionsHandler(ledgerService))
				r.Post("/reviews", handlers.NewReviewHandler(reviewService))
				r.Post("/disputes", handlers.NewRaiseDisputeHandler(disputeService))
				r.Get("/disputes", handlers.NewListDisputesHandler(disputeService))
			})
			r.Post("/applications/{applicationID}/accept", handlers.NewAcceptApplicationHandler(projectService))

			r.Get("/wallets/me", handlers.NewWalletHandler(ledgerService))
			r.Get("/wallets/me/balance", handlers.NewBalanceHandler(ledgerService))
			r.Get("/wallets/me/transactions", handlers.NewTransactionsHandler(ledgerService))
			r.Post("/wallets/me/deposit", handlers.NewDepositHandler(ledgerService))
			r.Post("/wallets/me/withdraw", handlers.NewWithdrawHandler(ledgerService))
			r.Get("/ledger/audit", handlers.NewAuditHandler(ledgerService))
		})
	})

	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.AppHost, cfg.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// gRPC health server
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	grpcLis, err := net.Listen("tcp", net.JoinHostPort(cfg.AppHost, cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("gRPC listen failed: %w", err)
	}

	// Graceful shutdown
	errChan := make(chan error, 2)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("gRPC health server listening on %s", grpcLis.Addr())
		if err := grpcSrv.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server failed: %w", err)
		}
	}()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_SERVING)

	var serveErr error
	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping servers...")
	case serveErr = <-errChan:
		logger.Log.Errorw("server failed, shutting down", "error", serveErr)
	}

	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}
	grpcSrv.GracefulStop()

	logger.Log.Info("Servers stopped gracefully")
	return serveErr
}
