package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"kanaan-quiz-service/internal/domain"
	"kanaan-quiz-service/internal/infra/xlsx"
)

func TestLeaderboardShowAndExport(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "leaderboard.xlsx")
	store := xlsx.NewStore(book, "")
	ctx := context.Background()
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, row := range []domain.LeaderboardRow{
		{Name: "Bram", Score: 3, Date: "2024-05-01"},
		{Name: "Coco", Score: 6, Date: "2024-05-02"},
	} {
		if err := store.AppendRow(ctx, row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "leaderboard:\n  store: xlsx\n  xlsx:\n    path: " + book + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out := runCLI(t, "--config", cfgPath, "leaderboard", "show")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %q", out)
	}
	if !strings.Contains(lines[1], "Coco") || !strings.Contains(lines[2], "Bram") {
		t.Fatalf("expected rows sorted by score, got %q", out)
	}

	export := filepath.Join(dir, "export.xlsx")
	out = runCLI(t, "--config", cfgPath, "leaderboard", "export", export)
	if !strings.Contains(out, "wrote 2 rows") {
		t.Fatalf("unexpected export output %q", out)
	}
	f, err := excelize.OpenFile(export)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(xlsx.DefaultSheet, "A2"); v != "Coco" {
		t.Fatalf("expected Coco first in export, got %q", v)
	}
}

func TestUnknownLeaderboardStore(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("leaderboard:\n  store: abacus\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", cfgPath, "leaderboard", "show"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "abacus") {
		t.Fatalf("expected unknown store error, got %v", err)
	}
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}
