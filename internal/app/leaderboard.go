package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"kanaan-quiz-service/internal/domain"
	"kanaan-quiz-service/internal/metrics"
)

// LeaderboardStore is the shared table holding best scores. Writers are not
// coordinated: a publish clears and rewrites the whole table, last writer wins.
type LeaderboardStore interface {
	ReadAll(ctx context.Context) ([]domain.LeaderboardRow, error)
	Clear(ctx context.Context) error
	AppendRow(ctx context.Context, row domain.LeaderboardRow) error
}

// Merge folds incoming scores into existing rows, keeping each name's best score,
// and returns at most domain.LeaderboardSize rows sorted by score descending.
// Rows are only re-dated when their score improves. Incoming names are applied in
// name order so the result does not depend on map iteration.
func Merge(existing []domain.LeaderboardRow, incoming map[string]int, today string) []domain.LeaderboardRow {
	rows := make([]domain.LeaderboardRow, len(existing), len(existing)+len(incoming))
	copy(rows, existing)

	names := make([]string, 0, len(incoming))
	for name := range incoming {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		score := incoming[name]
		found := false
		for i := range rows {
			if rows[i].Name != name {
				continue
			}
			found = true
			if score > rows[i].Score {
				rows[i].Score = score
				rows[i].Date = today
			}
		}
		if !found {
			rows = append(rows, domain.LeaderboardRow{Name: name, Score: score, Date: today})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	if len(rows) > domain.LeaderboardSize {
		rows = rows[:domain.LeaderboardSize]
	}
	return rows
}

// LeaderboardService publishes game results to the store and fans out snapshots.
type LeaderboardService struct {
	store   LeaderboardStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardService(store LeaderboardStore, logger *slog.Logger, m *metrics.Metrics) *LeaderboardService {
	return NewLeaderboardServiceWithClock(store, logger, m, time.Now)
}

// NewLeaderboardServiceWithClock is used by tests for deterministic dates.
func NewLeaderboardServiceWithClock(store LeaderboardStore, logger *slog.Logger, m *metrics.Metrics, now func() time.Time) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardService{
		store:       store,
		logger:      logger,
		metrics:     m,
		now:         now,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Top returns the current table, sorted and truncated.
func (s *LeaderboardService) Top(ctx context.Context) ([]domain.LeaderboardRow, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return Merge(rows, nil, ""), nil
}

// Publish merges scores into the stored table and rewrites it.
func (s *LeaderboardService) Publish(ctx context.Context, scores map[string]int) ([]domain.LeaderboardRow, error) {
	rows, err := s.publish(ctx, scores)
	s.metrics.Publish(err)
	if err != nil {
		s.logger.Error("leaderboard publish failed", slog.Int("players", len(scores)), slog.Any("error", err))
		return nil, err
	}
	s.logger.Info("leaderboard published", slog.Int("players", len(scores)), slog.Int("rows", len(rows)))
	s.broadcast(domain.Leaderboard{Rows: rows, UpdatedAt: s.now()})
	return rows, nil
}

func (s *LeaderboardService) publish(ctx context.Context, scores map[string]int) ([]domain.LeaderboardRow, error) {
	existing, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	rows := Merge(existing, scores, s.now().Format(domain.DateLayout))

	if err := s.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear leaderboard: %w", err)
	}
	for _, row := range rows {
		if err := s.store.AppendRow(ctx, row); err != nil {
			return nil, fmt.Errorf("append leaderboard row %q: %w", row.Name, err)
		}
	}
	return rows, nil
}

// Subscribe returns a channel primed with the current table that receives every
// later publish. The caller must invoke the returned cancel function.
func (s *LeaderboardService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	rows, err := s.Top(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch := make(chan domain.Leaderboard, 8)
	ch <- domain.Leaderboard{Rows: rows, UpdatedAt: s.now()}

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *LeaderboardService) broadcast(lb domain.Leaderboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// slow subscriber: replace its oldest pending snapshot
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
