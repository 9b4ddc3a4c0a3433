package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"kanaan-quiz-service/internal/domain"
	"kanaan-quiz-service/internal/infra/memory"
	"kanaan-quiz-service/internal/quiz"
)

// QuestionRepository caches a route's question set in Redis as JSON and falls back
// to a loader on cache miss.
type QuestionRepository struct {
	client *redis.Client
	loader memory.QuestionLoader
	key    string
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader memory.QuestionLoader, route string, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		key:    questionsKey(route),
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Questions(ctx context.Context) ([]domain.Question, error) {
	if qs, ok := r.cached(ctx); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(r.key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if qs, ok := r.cached(ctx); ok {
			return qs, nil
		}

		qs, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		if err := quiz.Validate(qs); err != nil {
			return nil, err
		}

		// best-effort: a failed cache write only costs a reload
		if data, err := json.Marshal(qs); err == nil {
			_ = r.client.Set(ctx, r.key, data, r.ttlWithJitter()).Err()
		}
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) cached(ctx context.Context) ([]domain.Question, bool) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		return nil, false
	}
	var qs []domain.Question
	if err := json.Unmarshal(data, &qs); err != nil || len(qs) == 0 {
		return nil, false
	}
	return qs, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func questionsKey(route string) string {
	return "quiz:questions:" + route
}
