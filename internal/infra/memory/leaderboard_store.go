package memory

import (
	"context"
	"sync"

	"kanaan-quiz-service/internal/domain"
)

// LeaderboardStore keeps the leaderboard table in process memory.
type LeaderboardStore struct {
	mu   sync.Mutex
	rows []domain.LeaderboardRow
}

func NewLeaderboardStore(rows ...domain.LeaderboardRow) *LeaderboardStore {
	return &LeaderboardStore{rows: append([]domain.LeaderboardRow(nil), rows...)}
}

func (s *LeaderboardStore) ReadAll(_ context.Context) ([]domain.LeaderboardRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LeaderboardRow(nil), s.rows...), nil
}

func (s *LeaderboardStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	return nil
}

func (s *LeaderboardStore) AppendRow(_ context.Context, row domain.LeaderboardRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return nil
}
