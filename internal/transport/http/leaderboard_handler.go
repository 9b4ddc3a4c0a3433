package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"kanaan-quiz-service/internal/app"
	"kanaan-quiz-service/internal/infra/xlsx"
)

// chartScale is the y-axis floor for the chart: one point per stop on the route.
const chartScale = 6

// LeaderboardHandler exposes the public table as JSON, a PNG chart and a workbook download.
type LeaderboardHandler struct {
	leaderboard *app.LeaderboardService
	logger      *slog.Logger
}

func NewLeaderboardHandler(leaderboard *app.LeaderboardService, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard, logger: logger}
}

func (h *LeaderboardHandler) JSON(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaderboard.Top(r.Context())
	if err != nil {
		h.logger.Error("read leaderboard failed", slog.Any("error", err))
		http.Error(w, "leaderboard unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		h.logger.Warn("encode leaderboard failed", slog.Any("error", err))
	}
}

func (h *LeaderboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaderboard.Top(r.Context())
	if err != nil {
		h.logger.Error("read leaderboard failed", slog.Any("error", err))
		http.Error(w, "leaderboard unavailable", http.StatusBadGateway)
		return
	}
	if len(rows) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := app.RenderLeaderboardChart(w, rows, chartScale); err != nil {
		h.logger.Error("render chart failed", slog.Any("error", err))
	}
}

func (h *LeaderboardHandler) Workbook(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaderboard.Top(r.Context())
	if err != nil {
		h.logger.Error("read leaderboard failed", slog.Any("error", err))
		http.Error(w, "leaderboard unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	if err := xlsx.WriteWorkbook(w, rows); err != nil {
		h.logger.Error("write workbook failed", slog.Any("error", err))
	}
}
