package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"kanaan-quiz-service/internal/domain"
	"kanaan-quiz-service/internal/infra/memory"
	"kanaan-quiz-service/internal/quiz"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{QuestionLoader: memory.NewStaticQuestionLoader(quiz.Locations())}
	repo := NewQuestionRepository(client, loader, "egypte-kanaan", time.Minute)

	qs, err := repo.Questions(context.Background())
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(qs) != 6 {
		t.Fatalf("expected 6 questions, got %d", len(qs))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:questions:egypte-kanaan") {
		t.Fatalf("expected route questions to be cached")
	}

	// Second call should hit cache, loader not incremented.
	cached, _ := repo.Questions(context.Background())
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached[1].Answer != "Ze gingen er droog doorheen" {
		t.Fatalf("cached content mismatch: %+v", cached[1])
	}
}

func TestQuestionRepositoryKeysByRoute(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := newClient(mr)
	ctx := context.Background()

	full := NewQuestionRepository(client, memory.NewStaticQuestionLoader(quiz.Locations()), "egypte-kanaan", time.Minute)
	short := NewQuestionRepository(client, memory.NewStaticQuestionLoader(quiz.Locations()[:2]), "kort", time.Minute)

	if _, err := full.Questions(ctx); err != nil {
		t.Fatalf("full route: %v", err)
	}
	qs, err := short.Questions(ctx)
	if err != nil {
		t.Fatalf("short route: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected the short route's own 2 questions, got %d", len(qs))
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
