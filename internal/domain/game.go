package domain

import (
	"sort"
	"strings"
	"time"
)

// Game is the full state of one play-through. Operations take a Game by value and
// return the updated copy; the maps are cloned before any write.
//
// Every player answers every stage. Turns rotate through Players in join order and
// the stage advances once the last player has had their turn.
type Game struct {
	ID          string                  `json:"id"`
	Players     []string                `json:"players"`
	Scores      map[string]int          `json:"scores"`
	Answered    map[string]map[int]bool `json:"answered"` // player -> stage -> first answer was correct
	Stage       int                     `json:"stage"`
	Turn        int                     `json:"turn"`
	Stages      int                     `json:"stages"`
	Uploaded    bool                    `json:"uploaded"`
	Leaderboard []LeaderboardRow        `json:"leaderboard,omitempty"`
	StartedAt   time.Time               `json:"startedAt"`
}

// NewGame validates the player names and returns a game positioned at stage 0.
// Blank names are ignored; at least one name must remain.
func NewGame(id string, names []string, stages int, now time.Time) (Game, error) {
	players := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return Game{}, ErrDuplicatePlayer
		}
		seen[name] = struct{}{}
		players = append(players, name)
	}
	if len(players) == 0 {
		return Game{}, ErrPlayerNameRequired
	}
	if len(players) > MaxPlayers {
		return Game{}, ErrTooManyPlayers
	}
	if stages <= 0 {
		return Game{}, ErrNoQuestions
	}

	scores := make(map[string]int, len(players))
	answered := make(map[string]map[int]bool, len(players))
	for _, p := range players {
		scores[p] = 0
		answered[p] = make(map[int]bool)
	}
	return Game{
		ID:        id,
		Players:   players,
		Scores:    scores,
		Answered:  answered,
		Stages:    stages,
		StartedAt: now,
	}, nil
}

// ActivePlayer returns the name of the player whose turn it is.
func (g Game) ActivePlayer() string {
	if len(g.Players) == 0 {
		return ""
	}
	return g.Players[g.Turn%len(g.Players)]
}

// Finished reports whether every stage has been played.
func (g Game) Finished() bool {
	return g.Stage >= g.Stages
}

// HasAnswered reports whether the active player already scored the current stage.
func (g Game) HasAnswered() bool {
	_, ok := g.Answered[g.ActivePlayer()][g.Stage]
	return ok
}

// SubmitAnswer scores selected against the current question for the active player.
// A second submission for the same stage and player awards nothing and reports the
// result of the first one.
func (g Game) SubmitAnswer(questions []Question, selected string) (Game, bool, error) {
	if g.Finished() {
		return g, false, ErrGameFinished
	}
	if g.Stage >= len(questions) {
		return g, false, ErrRouteChanged
	}
	q := questions[g.Stage]
	if !q.HasOption(selected) {
		return g, false, ErrOptionNotFound
	}
	if first, ok := g.Answered[g.ActivePlayer()][g.Stage]; ok {
		return g, first, nil
	}
	correct := selected == q.Answer

	next := g.clone()
	player := next.ActivePlayer()
	if next.Answered[player] == nil {
		next.Answered[player] = make(map[int]bool)
	}
	next.Answered[player][next.Stage] = correct
	if correct {
		next.Scores[player]++
	}
	return next, correct, nil
}

// Advance passes the turn to the next player, moving to the next stage after the
// last player. It returns the resulting stage index.
func (g Game) Advance() (Game, int) {
	if g.Finished() {
		return g, g.Stage
	}
	next := g
	next.Turn++
	if next.Turn >= len(next.Players) {
		next.Turn = 0
		next.Stage++
	}
	return next, next.Stage
}

// Standings returns player scores ordered by score, highest first; ties keep join order.
func (g Game) Standings() []PlayerScore {
	out := make([]PlayerScore, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, PlayerScore{Name: p, Score: g.Scores[p]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func (g Game) clone() Game {
	next := g
	next.Players = append([]string(nil), g.Players...)
	next.Scores = make(map[string]int, len(g.Scores))
	for k, v := range g.Scores {
		next.Scores[k] = v
	}
	next.Answered = make(map[string]map[int]bool, len(g.Answered))
	for player, stages := range g.Answered {
		copied := make(map[int]bool, len(stages))
		for s, ok := range stages {
			copied[s] = ok
		}
		next.Answered[player] = copied
	}
	return next
}
