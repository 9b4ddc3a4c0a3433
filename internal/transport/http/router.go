package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"kanaan-quiz-service/internal/app"
	"kanaan-quiz-service/internal/metrics"
)

// Deps wires the handlers to the use cases.
type Deps struct {
	Games       *app.GameService
	Leaderboard *app.LeaderboardService
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	SheetURL    string
	ImagesDir   string
	RateLimit   rate.Limit // zero disables limiting
	RateBurst   int
}

// NewRouter mounts the game pages, leaderboard endpoints and operational routes.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	pages := NewGameHandler(d.Games, d.Logger, d.SheetURL)
	board := NewLeaderboardHandler(d.Leaderboard, d.Logger)
	ws := NewWSHandler(d.Leaderboard, d.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if d.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))
	}
	if d.ImagesDir != "" {
		r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(d.ImagesDir))))
	}

	r.Get("/", pages.Entry)
	r.Get("/games/{id}", pages.Show)
	r.Group(func(r chi.Router) {
		if d.RateLimit > 0 {
			r.Use(RateLimitMiddleware(NewIPRateLimiter(d.RateLimit, d.RateBurst)))
		}
		r.Post("/games", pages.Start)
		r.Post("/games/{id}/answer", pages.Answer)
		r.Post("/games/{id}/next", pages.Next)
		r.Post("/games/{id}/restart", pages.Restart)
	})

	r.Get("/leaderboard", board.JSON)
	r.Get("/leaderboard.png", board.Chart)
	r.Get("/leaderboard.xlsx", board.Workbook)
	r.Get("/ws/leaderboard", ws.ServeWS)
	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
