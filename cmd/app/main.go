package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"study-buddy/cmd/app/internal/controller"
	"study-buddy/internal/config"
	"study-buddy/internal/db"
	"study-buddy/internal/llm"
	"study-buddy/internal/repository"
	"study-buddy/internal/service"
	"study-buddy/pkg/middleware"
	"study-buddy/utilities"
)

const version = "1.0.0"

func main() {
	configPath := pflag.String("config", "config.xml", "path to the XML configuration")
	envPath := pflag.String("env", ".env", "optional dotenv file loaded before the configuration")
	pflag.Parse()

	printStartUpBanner()

	if err := run(*configPath, *envPath); err != nil {
		log.Fatalf("study buddy: %v", err)
	}
}

func run(configPath, envPath string) error {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}

	// Load XML configuration from file.
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := utilities.NewLogger(cfg.Logging, os.Stdout)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	// Initialize DB using the loaded config.
	conn, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close(conn, logger)
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("database ready", "driver", cfg.DB.Driver)

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return err
	}
	probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := llm.Probe(probeCtx, cfg.LLM, http.DefaultClient); err != nil {
		logger.Warn("language model provider not reachable, AI features will fail until it is", "provider", cfg.LLM.Provider, "error", err)
	}
	cancel()

	// Create repositories.
	userRepo := repository.NewUserRepository(conn)
	noteRepo := repository.NewNoteRepository(conn)
	quizRepo := repository.NewQuizRepository(conn)
	resultRepo := repository.NewResultRepository(conn)

	// Create services.
	tokens := utilities.NewJWTManager(cfg.Authentication)
	noteService := service.NewNoteService(noteRepo, service.NewSummarizer(client), logger)
	quizService := service.NewQuizService(quizRepo, noteService, service.NewQuizGenerator(client, logger), logger)
	resultService := service.NewResultService(resultRepo, quizService)
	services := controller.Services{
		Auth:      service.NewAuthService(userRepo, tokens, cfg.Authentication.BcryptCost),
		Notes:     noteService,
		Quizzes:   quizService,
		Attempts:  service.NewAttemptService(quizService, noteRepo, resultRepo, service.NewFeedbackGenerator(client), logger),
		Results:   resultService,
		Dashboard: service.NewDashboardService(noteRepo, resultRepo),
		Reports:   service.NewReportService(resultService, quizService, noteService),
	}

	// Initialize Gin router.
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware(logger))
	}

	// CORS configuration.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Context.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: !allowsAnyOrigin(cfg.Context.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	cookie := controller.CookieSettings{Name: cfg.Authentication.CookieName, Secure: cfg.Authentication.SecureCookie}
	controller.RegisterRoutes(r, services, tokens, cookie, func(ctx context.Context) error {
		return db.Ping(ctx, conn)
	}, logger)

	// LLM calls run inside the request, so the write timeout leaves room
	// for a slow local model.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      11 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "llm_provider", cfg.LLM.Provider, "llm_model", cfg.LLM.Model)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// Credentials cannot be combined with a wildcard origin.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("STUDY BUDDY", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("AI STUDY BUDDY API (v%s)\n\n", version)
}
