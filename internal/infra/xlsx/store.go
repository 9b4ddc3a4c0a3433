// Package xlsx keeps the leaderboard in a local Excel workbook laid out like the
// shared spreadsheet: a header row followed by (name, score, date) rows.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"kanaan-quiz-service/internal/domain"
)

// DefaultSheet is the worksheet holding the table.
const DefaultSheet = "Leaderboard"

// Store is a workbook-backed leaderboard table. It serializes access within the
// process only.
type Store struct {
	path  string
	sheet string
	mu    sync.Mutex
}

func NewStore(path, sheet string) *Store {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Store{path: path, sheet: sheet}
}

func (s *Store) ReadAll(_ context.Context) ([]domain.LeaderboardRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(s.sheet); idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return parseRows(rows)
}

// Clear replaces the workbook with one holding only the header row.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := newWorkbook(s.sheet)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (s *Store) AppendRow(_ context.Context, row domain.LeaderboardRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		f, err = newWorkbook(s.sheet)
	}
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(s.sheet); idx < 0 {
		if _, err := f.NewSheet(s.sheet); err != nil {
			return fmt.Errorf("add sheet: %w", err)
		}
	}
	existing, err := f.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}
	if err := setRow(f, s.sheet, len(existing)+1, row); err != nil {
		return err
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// WriteWorkbook renders rows as a fresh workbook to w.
func WriteWorkbook(w io.Writer, rows []domain.LeaderboardRow) error {
	f, err := newWorkbook(DefaultSheet)
	if err != nil {
		return err
	}
	defer f.Close()
	for i, row := range rows {
		if err := setRow(f, DefaultSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"name", "score", "date"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, n int, row domain.LeaderboardRow) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &[]interface{}{row.Name, row.Score, row.Date}); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

func parseRows(rows [][]string) ([]domain.LeaderboardRow, error) {
	out := make([]domain.LeaderboardRow, 0, len(rows))
	for i, cells := range rows {
		if len(cells) == 0 {
			continue
		}
		name := strings.TrimSpace(cells[0])
		if name == "" || (i == 0 && strings.EqualFold(name, "name")) {
			continue
		}
		row := domain.LeaderboardRow{Name: name}
		if len(cells) > 1 {
			score, err := strconv.Atoi(strings.TrimSpace(cells[1]))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid score %q", i+1, cells[1])
			}
			row.Score = score
		}
		if len(cells) > 2 {
			row.Date = strings.TrimSpace(cells[2])
		}
		out = append(out, row)
	}
	return out, nil
}

