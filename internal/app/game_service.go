package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"kanaan-quiz-service/internal/domain"
	"kanaan-quiz-service/internal/metrics"
)

// GameRepository abstracts where game state lives between requests (in-memory, Redis).
type GameRepository interface {
	Save(ctx context.Context, game domain.Game) error
	Get(ctx context.Context, id string) (domain.Game, error)
	Delete(ctx context.Context, id string) error
}

// QuestionRepository loads the route's questions (from cache/backing store).
type QuestionRepository interface {
	Questions(ctx context.Context) ([]domain.Question, error)
}

// GameService contains the game use cases.
type GameService struct {
	games       GameRepository
	questions   QuestionRepository
	leaderboard *LeaderboardService
	logger      *slog.Logger
	metrics     *metrics.Metrics
	newID       func() string
	now         func() time.Time
}

func NewGameService(games GameRepository, questions QuestionRepository, leaderboard *LeaderboardService, logger *slog.Logger, m *metrics.Metrics) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameService{
		games:       games,
		questions:   questions,
		leaderboard: leaderboard,
		logger:      logger,
		metrics:     m,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Start creates a game for the given player names. Blank names are dropped; a game
// without any name is rejected and nothing is stored.
func (s *GameService) Start(ctx context.Context, names []string) (domain.Game, error) {
	questions, err := s.questions.Questions(ctx)
	if err != nil {
		return domain.Game{}, err
	}
	game, err := domain.NewGame(s.newID(), names, len(questions), s.now())
	if err != nil {
		return domain.Game{}, err
	}
	if err := s.games.Save(ctx, game); err != nil {
		return domain.Game{}, err
	}
	s.metrics.GameStarted()
	s.logger.Info("game started", slog.String("game_id", game.ID), slog.Int("players", len(game.Players)))
	return game, nil
}

// Get returns the stored game.
func (s *GameService) Get(ctx context.Context, id string) (domain.Game, error) {
	return s.games.Get(ctx, id)
}

// CurrentQuestion returns the question for the game's stage; ok is false once finished.
func (s *GameService) CurrentQuestion(ctx context.Context, game domain.Game) (domain.Question, bool, error) {
	if game.Finished() {
		return domain.Question{}, false, nil
	}
	questions, err := s.questions.Questions(ctx)
	if err != nil {
		return domain.Question{}, false, err
	}
	if game.Stage >= len(questions) {
		return domain.Question{}, false, domain.ErrRouteChanged
	}
	return questions[game.Stage], true, nil
}

// Answer scores option for the active player without moving on.
func (s *GameService) Answer(ctx context.Context, id, option string) (domain.Game, bool, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return domain.Game{}, false, err
	}
	game, correct, err := s.answer(ctx, game, option)
	if err != nil {
		return game, false, err
	}
	if err := s.games.Save(ctx, game); err != nil {
		return game, correct, err
	}
	return game, correct, nil
}

// Next hands the turn on and publishes the scores when the last stage is passed.
func (s *GameService) Next(ctx context.Context, id string) (domain.Game, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return domain.Game{}, err
	}
	if game.Finished() {
		return s.Finish(ctx, game)
	}
	game, _ = game.Advance()
	if err := s.games.Save(ctx, game); err != nil {
		return game, err
	}
	if game.Finished() {
		return s.Finish(ctx, game)
	}
	return game, nil
}

// AnswerAndNext is the one-click flow: score the option and advance immediately.
func (s *GameService) AnswerAndNext(ctx context.Context, id, option string) (domain.Game, bool, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return domain.Game{}, false, err
	}
	game, correct, err := s.answer(ctx, game, option)
	if err != nil {
		return game, false, err
	}
	game, _ = game.Advance()
	if err := s.games.Save(ctx, game); err != nil {
		return game, correct, err
	}
	if game.Finished() {
		game, err = s.Finish(ctx, game)
	}
	return game, correct, err
}

// Finish publishes a finished game's scores once. A failed publish leaves the game
// unmarked so the next call tries again.
func (s *GameService) Finish(ctx context.Context, game domain.Game) (domain.Game, error) {
	if !game.Finished() || game.Uploaded {
		return game, nil
	}
	rows, err := s.leaderboard.Publish(ctx, game.Scores)
	if err != nil {
		return game, err
	}
	game.Uploaded = true
	game.Leaderboard = rows
	if err := s.games.Save(ctx, game); err != nil {
		return game, err
	}
	s.metrics.GameFinished()
	s.logger.Info("game finished", slog.String("game_id", game.ID))
	return game, nil
}

// Restart discards the game; players start over from the entry screen.
func (s *GameService) Restart(ctx context.Context, id string) error {
	return s.games.Delete(ctx, id)
}

func (s *GameService) answer(ctx context.Context, game domain.Game, option string) (domain.Game, bool, error) {
	if game.Finished() {
		return game, false, domain.ErrGameFinished
	}
	questions, err := s.questions.Questions(ctx)
	if err != nil {
		return game, false, err
	}
	already := game.HasAnswered()
	game, correct, err := game.SubmitAnswer(questions, option)
	if err != nil {
		return game, false, err
	}
	if !already {
		s.metrics.Answer(correct)
	}
	s.logger.Debug("answer submitted",
		slog.String("game_id", game.ID),
		slog.String("player", game.ActivePlayer()),
		slog.Int("stage", game.Stage),
		slog.Bool("correct", correct),
	)
	return game, correct, nil
}
