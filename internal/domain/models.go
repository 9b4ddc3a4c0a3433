package domain

import (
	"fmt"
	"time"
)

const (
	// MaxPlayers bounds the number of players sharing one game.
	MaxPlayers = 4
	// LeaderboardSize is the number of rows kept in the public leaderboard.
	LeaderboardSize = 10
	// DateLayout is the ISO-8601 date format stored in leaderboard rows.
	DateLayout = "2006-01-02"
)

// Question is one stop on the route with its multiple-choice prompt.
type Question struct {
	Name    string   `json:"name"`
	Image   string   `json:"image"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// HasOption reports whether option is one of the question's choices.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Validate checks the content invariants: 2 to 4 options and the answer among them.
func (q Question) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("%w: %q has no prompt", ErrInvalidQuestion, q.Name)
	}
	if len(q.Options) < 2 || len(q.Options) > 4 {
		return fmt.Errorf("%w: %q has %d options", ErrInvalidQuestion, q.Name, len(q.Options))
	}
	if !q.HasOption(q.Answer) {
		return fmt.Errorf("%w: %q answer not among options", ErrInvalidQuestion, q.Name)
	}
	return nil
}

// PlayerScore is a player's running total within one game.
type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// LeaderboardRow is a persisted best score for a player name.
type LeaderboardRow struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Date  string `json:"date"`
}

// Leaderboard is a published snapshot of the table.
type Leaderboard struct {
	Rows      []LeaderboardRow `json:"rows"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
