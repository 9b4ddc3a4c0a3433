package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"kanaan-quiz-service/internal/app"
	"kanaan-quiz-service/internal/config"
	"kanaan-quiz-service/internal/infra/memory"
	pgloader "kanaan-quiz-service/internal/infra/postgres"
	redisstore "kanaan-quiz-service/internal/infra/redis"
	"kanaan-quiz-service/internal/metrics"
	"kanaan-quiz-service/internal/quiz"
	transport "kanaan-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	route := cfg.Quiz.Route
	if route == "" {
		route = "egypte-kanaan"
	}
	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(quiz.Locations())
	if pool != nil {
		if err := pgloader.SeedRoute(ctx, pool, route, quiz.Locations()); err != nil {
			return err
		}
		loader = pgloader.NewQuestionLoader(pool, route)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, time.Hour)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisstore.NewQuestionRepository(redisClient, loader, route, quizTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, quizTTL)
	}
	// Questions are loaded once at startup; a broken route fails fast.
	if _, err := questions.Questions(ctx); err != nil {
		return err
	}

	var games app.GameRepository
	if redisClient != nil {
		games = redisstore.NewGameStore(redisClient, redisTTL)
	} else {
		games = memory.NewGameStore()
	}

	store, closeStore, err := newLeaderboardStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	leaderboard := app.NewLeaderboardService(store, logger, m)
	service := app.NewGameService(games, questions, leaderboard, logger, m)

	imagesDir := cfg.Server.ImagesDir
	if imagesDir == "" {
		imagesDir = "images"
	}
	handler := transport.NewRouter(transport.Deps{
		Games:       service,
		Leaderboard: leaderboard,
		Metrics:     m,
		Logger:      logger,
		SheetURL:    cfg.Leaderboard.Sheets.URL,
		ImagesDir:   imagesDir,
		RateLimit:   rate.Limit(cfg.Server.RateLimit),
		RateBurst:   cfg.Server.RateBurst,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quiz service", slog.String("addr", server.Addr), slog.String("leaderboard_store", cfg.Leaderboard.Store))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
