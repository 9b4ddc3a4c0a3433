package cli

import (
	"context"
	"fmt"
	"os"

	"kanaan-quiz-service/internal/app"
	"kanaan-quiz-service/internal/config"
	"kanaan-quiz-service/internal/infra/memory"
	pgstore "kanaan-quiz-service/internal/infra/postgres"
	"kanaan-quiz-service/internal/infra/sheets"
	"kanaan-quiz-service/internal/infra/xlsx"
)

// newLeaderboardStore opens the configured leaderboard backend. The returned
// cleanup func is never nil.
func newLeaderboardStore(ctx context.Context, cfg config.Config) (app.LeaderboardStore, func(), error) {
	noop := func() {}
	lb := cfg.Leaderboard

	switch lb.Store {
	case "", "memory":
		return memory.NewLeaderboardStore(), noop, nil
	case "sheets":
		if lb.Sheets.SpreadsheetID == "" {
			return nil, noop, fmt.Errorf("leaderboard.sheets.spreadsheet_id not configured")
		}
		creds, err := os.ReadFile(lb.Sheets.CredentialsFile)
		if err != nil {
			return nil, noop, fmt.Errorf("read sheets credentials: %w", err)
		}
		client, err := sheets.NewServiceAccountClient(ctx, creds)
		if err != nil {
			return nil, noop, err
		}
		return sheets.New(client, lb.Sheets.SpreadsheetID, lb.Sheets.Sheet), noop, nil
	case "postgres":
		if cfg.Postgres.URL == "" {
			return nil, noop, fmt.Errorf("postgres url not configured")
		}
		db := openBun(cfg.Postgres.URL)
		return pgstore.NewLeaderboardStore(db), func() { db.Close() }, nil
	case "xlsx":
		path := lb.XLSX.Path
		if path == "" {
			path = "leaderboard.xlsx"
		}
		return xlsx.NewStore(path, ""), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown leaderboard store %q", lb.Store)
	}
}
