package memory

import (
	"context"
	"sync"

	"kanaan-quiz-service/internal/domain"
)

// GameStore is an in-memory implementation of app.GameRepository.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]domain.Game
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]domain.Game),
	}
}

func (s *GameStore) Save(_ context.Context, game domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
	return nil
}

func (s *GameStore) Get(_ context.Context, id string) (domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return domain.Game{}, domain.ErrGameNotFound
	}
	return game, nil
}

func (s *GameStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}
