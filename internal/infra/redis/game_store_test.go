package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"kanaan-quiz-service/internal/domain"
	"kanaan-quiz-service/internal/quiz"
)

func TestGameStoreRoundTripsState(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewGameStore(newClient(mr), time.Minute)

	game, err := domain.NewGame("g1", []string{"Coco", "Bram"}, 6, time.Now())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	game, _, _ = game.SubmitAnswer(quiz.Locations(), "Mozes")
	if err := store.Save(ctx, game); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("game:session:g1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("game:session:g1"); ttl != time.Minute {
		t.Fatalf("expected ttl of a minute, got %v", ttl)
	}

	loaded, err := store.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Scores["Coco"] != 1 || !loaded.Answered["Coco"][0] {
		t.Fatalf("state lost in round trip: %+v", loaded)
	}
	// the reloaded answered set still blocks a second score
	again, _, _ := loaded.SubmitAnswer(quiz.Locations(), "Mozes")
	if again.Scores["Coco"] != 1 {
		t.Fatalf("expected idempotent scoring after reload, got %d", again.Scores["Coco"])
	}

	_ = store.Delete(ctx, "g1")
	if _, err := store.Get(ctx, "g1"); err != domain.ErrGameNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
