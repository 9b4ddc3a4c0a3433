package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"kanaan-quiz-service/internal/domain"
)

type leaderboardRow struct {
	bun.BaseModel `bun:"table:leaderboard,alias:lb"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name,notnull"`
	Score int    `bun:"score,notnull"`
	Date  string `bun:"date,notnull"`
}

// LeaderboardStore keeps the table in Postgres; rows come back in insertion order,
// matching a spreadsheet that is cleared and appended to.
type LeaderboardStore struct {
	db *bun.DB
}

func NewLeaderboardStore(db *bun.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

func (s *LeaderboardStore) ReadAll(ctx context.Context) ([]domain.LeaderboardRow, error) {
	var rows []leaderboardRow
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	out := make([]domain.LeaderboardRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.LeaderboardRow{Name: r.Name, Score: r.Score, Date: r.Date})
	}
	return out, nil
}

func (s *LeaderboardStore) Clear(ctx context.Context) error {
	if _, err := s.db.NewTruncateTable().Model((*leaderboardRow)(nil)).Exec(ctx); err != nil {
		return fmt.Errorf("truncate leaderboard: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) AppendRow(ctx context.Context, row domain.LeaderboardRow) error {
	model := &leaderboardRow{Name: row.Name, Score: row.Score, Date: row.Date}
	if _, err := s.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("insert leaderboard row: %w", err)
	}
	return nil
}
