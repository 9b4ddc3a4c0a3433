package domain

import "errors"

var (
	// ErrGameNotFound is returned when a game session does not exist or has expired.
	ErrGameNotFound = errors.New("game not found")
	// ErrPlayerNameRequired is returned when a game is started without any player name.
	ErrPlayerNameRequired = errors.New("player name required")
	// ErrTooManyPlayers is returned when more than MaxPlayers names are given.
	ErrTooManyPlayers = errors.New("too many players")
	// ErrDuplicatePlayer is returned when two players share a name.
	ErrDuplicatePlayer = errors.New("duplicate player name")
	// ErrGameFinished is returned when acting on a game that reached the last stage.
	ErrGameFinished = errors.New("game finished")
	// ErrOptionNotFound indicates a submitted option is not part of the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrInvalidQuestion indicates question content failed validation on load.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrRouteChanged indicates the loaded route no longer has the game's current stage.
	ErrRouteChanged = errors.New("route has fewer stages than the game")
	// ErrNoQuestions indicates the loader returned an empty question set.
	ErrNoQuestions = errors.New("no questions loaded")
)
