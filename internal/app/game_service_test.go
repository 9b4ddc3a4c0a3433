package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kanaan-quiz-service/internal/app"
	"kanaan-quiz-service/internal/domain"
	"kanaan-quiz-service/internal/infra/memory"
	"kanaan-quiz-service/internal/quiz"
)

func TestStartRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	service, games, _ := newTestService(memory.NewLeaderboardStore())

	if _, err := service.Start(ctx, []string{"   ", ""}); err != domain.ErrPlayerNameRequired {
		t.Fatalf("expected name required, got %v", err)
	}
	if len(games.saved) != 0 {
		t.Fatalf("expected no state change, saved %d games", len(games.saved))
	}
}

func TestSinglePlayerFullGamePublishesOnce(t *testing.T) {
	ctx := context.Background()
	board := memory.NewLeaderboardStore()
	service, _, _ := newTestService(board)

	game, err := service.Start(ctx, []string{" Coco "})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if game.Players[0] != "Coco" {
		t.Fatalf("expected trimmed name, got %q", game.Players[0])
	}

	for i, q := range quiz.Locations() {
		option := q.Answer
		if i == 0 {
			option = q.Options[1] // wrong
		}
		game, _, err = service.AnswerAndNext(ctx, game.ID, option)
		if err != nil {
			t.Fatalf("answer stage %d: %v", i, err)
		}
	}

	if !game.Finished() || !game.Uploaded {
		t.Fatalf("expected finished and uploaded game, got %+v", game)
	}
	if game.Scores["Coco"] != 5 {
		t.Fatalf("expected 5 points, got %d", game.Scores["Coco"])
	}
	rows, _ := board.ReadAll(ctx)
	if len(rows) != 1 || rows[0].Score != 5 || rows[0].Date != "2024-05-02" {
		t.Fatalf("unexpected leaderboard %+v", rows)
	}

	// A reload of the end screen must not publish again.
	_ = board.Clear(ctx)
	if _, err := service.Finish(ctx, game); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if rows, _ := board.ReadAll(ctx); len(rows) != 0 {
		t.Fatalf("expected no second publish, got %+v", rows)
	}

	if _, _, err := service.Answer(ctx, game.ID, "Mozes"); err != domain.ErrGameFinished {
		t.Fatalf("expected game finished, got %v", err)
	}
}

func TestDuplicateAnswerScoresOnce(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(memory.NewLeaderboardStore())

	game, _ := service.Start(ctx, []string{"Coco"})
	for i := 0; i < 3; i++ {
		var correct bool
		var err error
		game, correct, err = service.Answer(ctx, game.ID, "Mozes")
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if !correct {
			t.Fatalf("expected correct answer")
		}
	}
	if game.Scores["Coco"] != 1 {
		t.Fatalf("expected a single point, got %d", game.Scores["Coco"])
	}
}

func TestMultiPlayerRotation(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(memory.NewLeaderboardStore())

	game, err := service.Start(ctx, []string{"Coco", "Bram"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	game, _, _ = service.AnswerAndNext(ctx, game.ID, "Mozes")
	if game.Stage != 0 || game.ActivePlayer() != "Bram" {
		t.Fatalf("expected Bram at stage 0, got %s at %d", game.ActivePlayer(), game.Stage)
	}
	game, _, _ = service.AnswerAndNext(ctx, game.ID, "David")
	if game.Stage != 1 || game.ActivePlayer() != "Coco" {
		t.Fatalf("expected Coco at stage 1, got %s at %d", game.ActivePlayer(), game.Stage)
	}
	if game.Scores["Coco"] != 1 || game.Scores["Bram"] != 0 {
		t.Fatalf("unexpected scores %+v", game.Scores)
	}
}

func TestFinishRetriesAfterStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{LeaderboardStore: memory.NewLeaderboardStore(), failures: 1}
	service, _, _ := newTestService(store)

	game, _ := service.Start(ctx, []string{"Coco"})
	var err error
	for range quiz.Locations() {
		game, err = service.Next(ctx, game.ID)
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store failure on last stage, got %v", err)
	}

	game, err = service.Get(ctx, game.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !game.Finished() || game.Uploaded {
		t.Fatalf("expected finished but not uploaded, got %+v", game)
	}

	game, err = service.Finish(ctx, game)
	if err != nil {
		t.Fatalf("retry finish: %v", err)
	}
	if !game.Uploaded || len(game.Leaderboard) != 1 {
		t.Fatalf("expected uploaded game with leaderboard, got %+v", game)
	}
}

func TestRestartDropsGame(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(memory.NewLeaderboardStore())

	game, _ := service.Start(ctx, []string{"Coco"})
	if err := service.Restart(ctx, game.ID); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if _, err := service.Get(ctx, game.ID); err != domain.ErrGameNotFound {
		t.Fatalf("expected game gone, got %v", err)
	}
}

func TestShorterReloadedRouteIsAnErrorNotAPanic(t *testing.T) {
	ctx := context.Background()
	questions := &routeQuestions{questions: quiz.Locations()}
	board := app.NewLeaderboardServiceWithClock(memory.NewLeaderboardStore(), nil, nil, fixedClock)
	service := app.NewGameService(memory.NewGameStore(), questions, board, nil, nil)

	game, _ := service.Start(ctx, []string{"Coco"})
	for i := 0; i < 4; i++ {
		game, _ = service.Next(ctx, game.ID)
	}
	questions.questions = quiz.Locations()[:2]

	if _, _, err := service.CurrentQuestion(ctx, game); err != domain.ErrRouteChanged {
		t.Fatalf("expected route changed from current question, got %v", err)
	}
	if _, _, err := service.Answer(ctx, game.ID, "Jozua"); err != domain.ErrRouteChanged {
		t.Fatalf("expected route changed from answer, got %v", err)
	}
}

type routeQuestions struct {
	questions []domain.Question
}

func (r *routeQuestions) Questions(context.Context) ([]domain.Question, error) {
	return r.questions, nil
}

type recordingGames struct {
	*memory.GameStore
	saved []domain.Game
}

func (r *recordingGames) Save(ctx context.Context, game domain.Game) error {
	r.saved = append(r.saved, game)
	return r.GameStore.Save(ctx, game)
}

type flakyStore struct {
	app.LeaderboardStore
	failures int
}

func (f *flakyStore) ReadAll(ctx context.Context) ([]domain.LeaderboardRow, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errStoreDown
	}
	return f.LeaderboardStore.ReadAll(ctx)
}

func newTestService(store app.LeaderboardStore) (*app.GameService, *recordingGames, *app.LeaderboardService) {
	games := &recordingGames{GameStore: memory.NewGameStore()}
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(quiz.Locations()), 5*time.Minute)
	board := app.NewLeaderboardServiceWithClock(store, nil, nil, fixedClock)
	return app.NewGameService(games, questions, board, nil, nil), games, board
}
