package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"kanaan-quiz-service/internal/domain"
)

// QuestionLoader loads a route's question list stored as JSONB.
type QuestionLoader struct {
	pool  *pgxpool.Pool
	route string
}

func NewQuestionLoader(pool *pgxpool.Pool, route string) *QuestionLoader {
	return &QuestionLoader{pool: pool, route: route}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quiz_routes WHERE id=$1`, l.route).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return questions, nil
}

// SeedRoute stores questions under route, replacing any previous content.
func SeedRoute(ctx context.Context, pool *pgxpool.Pool, route string, questions []domain.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO quiz_routes (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		route, string(data))
	if err != nil {
		return fmt.Errorf("seed route: %w", err)
	}
	return nil
}
