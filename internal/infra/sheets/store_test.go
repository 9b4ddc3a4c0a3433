package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kanaan-quiz-service/internal/domain"
)

// fakeSheet emulates the three values endpoints the store uses.
type fakeSheet struct {
	mu     sync.Mutex
	values [][]interface{}
	fail   bool
	paths  []string
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)

	if f.fail {
		http.Error(w, `{"error":{"code":403,"message":"caller does not have permission"}}`, http.StatusForbidden)
		return
	}
	if !strings.HasPrefix(r.URL.Path, "/sheet-1/values/Leaderboard!A:C") {
		http.NotFound(w, r)
		return
	}

	switch {
	case r.Method == http.MethodGet:
		if r.URL.Query().Get("valueRenderOption") != "UNFORMATTED_VALUE" {
			http.Error(w, "expected unformatted values", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"range": "Leaderboard!A1:C11", "values": f.values})
	case strings.HasSuffix(r.URL.Path, ":clear"):
		f.values = nil
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(r.URL.Path, ":append"):
		if r.URL.Query().Get("valueInputOption") != "RAW" {
			http.Error(w, "expected RAW input", http.StatusBadRequest)
			return
		}
		var body valueRange
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.values = append(f.values, body.Values...)
		_, _ = w.Write([]byte(`{}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestStore(t *testing.T, sheet *fakeSheet) *Store {
	t.Helper()
	srv := httptest.NewServer(sheet)
	t.Cleanup(srv.Close)
	return New(srv.Client(), "sheet-1", "Leaderboard", WithBaseURL(srv.URL))
}

func TestReadAllSkipsHeaderAndParsesScores(t *testing.T) {
	sheet := &fakeSheet{values: [][]interface{}{
		{"name", "score", "date"},
		{"Coco", "6", "2024-05-01"},
		{},
		{"Bram", "4", "2024-04-30"},
	}}
	store := newTestStore(t, sheet)

	rows, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.LeaderboardRow{
		{Name: "Coco", Score: 6, Date: "2024-05-01"},
		{Name: "Bram", Score: 4, Date: "2024-04-30"},
	}, rows)
}

func TestReadAllRejectsBadScore(t *testing.T) {
	sheet := &fakeSheet{values: [][]interface{}{{"Coco", "zes", "2024-05-01"}}}
	store := newTestStore(t, sheet)

	_, err := store.ReadAll(context.Background())
	assert.ErrorContains(t, err, "invalid score")
}

func TestClearRewritesHeaderThenAppends(t *testing.T) {
	sheet := &fakeSheet{values: [][]interface{}{{"name", "score", "date"}, {"Old", "1", "2023-01-01"}}}
	store := newTestStore(t, sheet)
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.AppendRow(ctx, domain.LeaderboardRow{Name: "Coco", Score: 6, Date: "2024-05-01"}))

	rows, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.LeaderboardRow{{Name: "Coco", Score: 6, Date: "2024-05-01"}}, rows)

	sheet.mu.Lock()
	defer sheet.mu.Unlock()
	assert.Equal(t, []interface{}{"name", "score", "date"}, sheet.values[0])
}

func TestAppendedRowsReadBackVerbatim(t *testing.T) {
	sheet := &fakeSheet{}
	store := newTestStore(t, sheet)
	ctx := context.Background()

	want := []domain.LeaderboardRow{
		{Name: "007", Score: 6, Date: "2024-05-02"},
		{Name: "=SUM(A1)", Score: 12, Date: "2024-05-03"},
	}
	require.NoError(t, store.Clear(ctx))
	for _, row := range want {
		require.NoError(t, store.AppendRow(ctx, row))
	}

	rows, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, rows)
}

func TestReadAllAcceptsNumericCells(t *testing.T) {
	sheet := &fakeSheet{values: [][]interface{}{{"name", "score", "date"}, {"Coco", 6.0, "2024-05-01"}}}
	store := newTestStore(t, sheet)

	rows, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.LeaderboardRow{{Name: "Coco", Score: 6, Date: "2024-05-01"}}, rows)
}

func TestStoreSurfacesAuthorizationFailure(t *testing.T) {
	store := newTestStore(t, &fakeSheet{fail: true})

	_, err := store.ReadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestNewServiceAccountClientRejectsGarbage(t *testing.T) {
	_, err := NewServiceAccountClient(context.Background(), []byte(`not json`))
	assert.Error(t, err)
}
