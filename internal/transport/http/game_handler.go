package http

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"kanaan-quiz-service/internal/app"
	"kanaan-quiz-service/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// GameHandler renders the game one page per request and turns button presses
// (answer, next, restart) into game use cases.
type GameHandler struct {
	games    *app.GameService
	logger   *slog.Logger
	sheetURL string
	pages    *template.Template
}

func NewGameHandler(games *app.GameService, logger *slog.Logger, sheetURL string) *GameHandler {
	return &GameHandler{
		games:    games,
		logger:   logger,
		sheetURL: sheetURL,
		pages:    template.Must(template.New("pages").Funcs(pageFuncs).ParseFS(templatesFS, "templates/*.html")),
	}
}

type entryView struct {
	SheetURL   string
	Error      string
	Names      []string
	MaxPlayers int
}

type questionView struct {
	GameID   string
	Stage    int
	Total    int
	Question domain.Question
	Player   string
	Scores   []domain.PlayerScore
	Answered bool
	Feedback string
	Multi    bool
}

type finishedView struct {
	GameID      string
	Scores      []domain.PlayerScore
	Leaderboard []domain.LeaderboardRow
	SheetURL    string
	Error       string
}

// Entry renders the name form.
func (h *GameHandler) Entry(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "entry.html", h.entryView(nil, ""))
}

// Start creates a game from the submitted names and redirects to its first question.
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	names := r.PostForm["name"]
	game, err := h.games.Start(r.Context(), names)
	switch {
	case errors.Is(err, domain.ErrPlayerNameRequired):
		h.render(w, http.StatusUnprocessableEntity, "entry.html", h.entryView(names, "Voer je naam in om te beginnen."))
		return
	case errors.Is(err, domain.ErrTooManyPlayers):
		h.render(w, http.StatusUnprocessableEntity, "entry.html", h.entryView(names, "Maximaal vier spelers."))
		return
	case errors.Is(err, domain.ErrDuplicatePlayer):
		h.render(w, http.StatusUnprocessableEntity, "entry.html", h.entryView(names, "Elke speler heeft een eigen naam nodig."))
		return
	case err != nil:
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, "/games/"+game.ID, http.StatusSeeOther)
}

// Show renders the current question, or the end screen once every stage is played.
func (h *GameHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	game, err := h.games.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	if game.Finished() {
		view := finishedView{GameID: game.ID, SheetURL: h.sheetURL}
		status := http.StatusOK
		game, err = h.games.Finish(ctx, game)
		if err != nil {
			h.logger.Error("publish scores failed", slog.String("game_id", game.ID), slog.Any("error", err))
			view.Error = "Het scorebord is nu niet bereikbaar. Vernieuw de pagina om het opnieuw te proberen."
			status = http.StatusBadGateway
		}
		view.Scores = game.Standings()
		view.Leaderboard = game.Leaderboard
		h.render(w, status, "finished.html", view)
		return
	}

	q, _, err := h.games.CurrentQuestion(ctx, game)
	if err != nil {
		h.fail(w, err)
		return
	}
	view := questionView{
		GameID:   game.ID,
		Stage:    game.Stage + 1,
		Total:    game.Stages,
		Question: q,
		Player:   game.ActivePlayer(),
		Scores:   game.Standings(),
		Answered: game.HasAnswered(),
		Multi:    len(game.Players) > 1,
	}
	switch r.URL.Query().Get("result") {
	case "correct":
		view.Feedback = "Goed zo! Dat is het juiste antwoord."
	case "wrong":
		view.Feedback = "Helaas, het juiste antwoord is: " + q.Answer
	}
	h.render(w, http.StatusOK, "question.html", view)
}

// Answer scores the selected option. With advance=1 it also moves on (one-click mode).
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	option := r.PostFormValue("option")
	if option == "" {
		http.Error(w, "kies een antwoord", http.StatusBadRequest)
		return
	}

	if r.PostFormValue("advance") == "1" {
		if _, _, err := h.games.AnswerAndNext(r.Context(), id, option); err != nil {
			h.fail(w, err)
			return
		}
		http.Redirect(w, r, "/games/"+id, http.StatusSeeOther)
		return
	}

	_, correct, err := h.games.Answer(r.Context(), id, option)
	if err != nil {
		h.fail(w, err)
		return
	}
	result := "wrong"
	if correct {
		result = "correct"
	}
	http.Redirect(w, r, "/games/"+id+"?result="+result, http.StatusSeeOther)
}

// Next hands the turn on.
func (h *GameHandler) Next(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.games.Next(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, "/games/"+id, http.StatusSeeOther)
}

// Restart drops the game and returns to the entry screen.
func (h *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	if err := h.games.Restart(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *GameHandler) entryView(names []string, msg string) entryView {
	padded := make([]string, domain.MaxPlayers)
	copy(padded, names)
	return entryView{SheetURL: h.sheetURL, Error: msg, Names: padded, MaxPlayers: domain.MaxPlayers}
}

func (h *GameHandler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.pages.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render page failed", slog.String("page", name), slog.Any("error", err))
	}
}

func (h *GameHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", slog.Any("error", err))
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOptionNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGameFinished),
		errors.Is(err, domain.ErrRouteChanged):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPlayerNameRequired),
		errors.Is(err, domain.ErrTooManyPlayers),
		errors.Is(err, domain.ErrDuplicatePlayer):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
