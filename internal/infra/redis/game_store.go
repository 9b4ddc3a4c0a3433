package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"kanaan-quiz-service/internal/domain"
)

// GameStore keeps each game as a JSON blob so any instance can serve the next request.
// Keys expire after ttl of inactivity; every save refreshes the expiry.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{client: client, ttl: ttl}
}

func (s *GameStore) Save(ctx context.Context, game domain.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	if err := s.client.Set(ctx, s.key(game.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func (s *GameStore) Get(ctx context.Context, id string) (domain.Game, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Game{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("load game: %w", err)
	}
	var game domain.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return domain.Game{}, fmt.Errorf("unmarshal game: %w", err)
	}
	return game, nil
}

func (s *GameStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *GameStore) key(id string) string {
	return "game:session:" + id
}
