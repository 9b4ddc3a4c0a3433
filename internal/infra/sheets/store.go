// Package sheets stores the leaderboard in a Google Sheets spreadsheet through the
// Sheets v4 REST API.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2/google"
	"kanaan-quiz-service/internal/domain"
)

// DefaultBaseURL is the public Sheets v4 endpoint.
const DefaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Scopes grants read/write access to spreadsheets shared with the service account.
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

var header = []interface{}{"name", "score", "date"}

// Store reads and rewrites one sheet's A:C columns as (name, score, date) rows
// under a header row.
type Store struct {
	client        *http.Client
	baseURL       string
	spreadsheetID string
	sheet         string
}

// Option customizes a Store.
type Option func(*Store)

// WithBaseURL points the store at a different API root (tests, proxies).
func WithBaseURL(base string) Option {
	return func(s *Store) {
		s.baseURL = strings.TrimRight(base, "/")
	}
}

// New builds a store. client must already carry authorization, see NewServiceAccountClient.
func New(client *http.Client, spreadsheetID, sheet string, opts ...Option) *Store {
	if sheet == "" {
		sheet = "Sheet1"
	}
	s := &Store{
		client:        client,
		baseURL:       DefaultBaseURL,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceAccountClient returns an HTTP client authorized with service-account JSON credentials.
func NewServiceAccountClient(ctx context.Context, credentialsJSON []byte) (*http.Client, error) {
	cfg, err := google.JWTConfigFromJSON(credentialsJSON, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	return cfg.Client(ctx), nil
}

type valueRange struct {
	Values [][]interface{} `json:"values"`
}

func (s *Store) ReadAll(ctx context.Context) ([]domain.LeaderboardRow, error) {
	var out valueRange
	q := url.Values{}
	q.Set("valueRenderOption", "UNFORMATTED_VALUE")
	q.Set("dateTimeRenderOption", "FORMATTED_STRING")
	if err := s.do(ctx, http.MethodGet, s.rangeURL("")+"?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	rows := make([]domain.LeaderboardRow, 0, len(out.Values))
	for i, cells := range out.Values {
		if len(cells) == 0 {
			continue
		}
		name := strings.TrimSpace(cellString(cells[0]))
		if i == 0 && strings.EqualFold(name, "name") {
			continue
		}
		if name == "" {
			continue
		}
		row := domain.LeaderboardRow{Name: name}
		if len(cells) > 1 {
			raw := strings.TrimSpace(cellString(cells[1]))
			score, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("sheet row %d: invalid score %q", i+1, raw)
			}
			row.Score = score
		}
		if len(cells) > 2 {
			row.Date = strings.TrimSpace(cellString(cells[2]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Clear empties the columns and writes the header row back.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.do(ctx, http.MethodPost, s.rangeURL(":clear"), struct{}{}, nil); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}
	if err := s.append(ctx, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func (s *Store) AppendRow(ctx context.Context, row domain.LeaderboardRow) error {
	if err := s.append(ctx, []interface{}{row.Name, row.Score, row.Date}); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func (s *Store) append(ctx context.Context, cells []interface{}) error {
	q := url.Values{}
	// RAW keeps names like "007" and ISO dates exactly as written
	q.Set("valueInputOption", "RAW")
	q.Set("insertDataOption", "INSERT_ROWS")
	return s.do(ctx, http.MethodPost, s.rangeURL(":append")+"?"+q.Encode(), valueRange{Values: [][]interface{}{cells}}, nil)
}

// cellString renders an unformatted cell; numbers arrive as JSON floats.
func cellString(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func (s *Store) rangeURL(suffix string) string {
	return s.baseURL + "/" + url.PathEscape(s.spreadsheetID) + "/values/" + url.PathEscape(s.sheet+"!A:C") + suffix
}

func (s *Store) do(ctx context.Context, method, target string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
