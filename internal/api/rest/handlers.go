package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fortuna/retroload/internal/cache"
	"github.com/fortuna/retroload/internal/retrosheet"
	"github.com/fortuna/retroload/internal/store"
	"github.com/fortuna/retroload/internal/store/repository"
)

const maxGameLimit = 1000

var (
	yearPattern = regexp.MustCompile(`^\d{4}$`)
	teamPattern = regexp.MustCompile(`^\w{3}$`)
)

// DocumentCache is the read-through cache used for game documents.
type DocumentCache interface {
	GetDocument(ctx context.Context, key string) ([]byte, bool, error)
	SetDocument(ctx context.Context, key string, doc []byte) error
	HealthCheck(ctx context.Context) error
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db      *store.Database
	games   *repository.GameRepository
	teams   *repository.TeamRepository
	rosters *repository.RosterRepository
	cache   DocumentCache
	logger  *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(db *store.Database, cache DocumentCache, logger *slog.Logger) *Handler {
	return &Handler{
		db:      db,
		games:   repository.NewGameRepository(db),
		teams:   repository.NewTeamRepository(db),
		rosters: repository.NewRosterRepository(db),
		cache:   cache,
		logger:  logger,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Store unavailable", err)
		return
	}
	body := map[string]string{
		"status":  "healthy",
		"service": "retroload",
		"store":   h.db.Driver(),
	}
	// The cache is optional; a failing cache degrades reads but does not
	// make the service unhealthy.
	if h.cache != nil {
		body["cache"] = "ok"
		if err := h.cache.HealthCheck(r.Context()); err != nil {
			h.logger.Warn("cache health check failed", "error", err)
			body["cache"] = "unavailable"
		}
	}
	respondJSON(w, http.StatusOK, body)
}

// GetGame returns a specific game by ID
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]
	if _, err := retrosheet.ParseGameID(gameID); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game id", err)
		return
	}

	key := cache.GameKey(gameID)
	if h.cache != nil {
		doc, ok, err := h.cache.GetDocument(r.Context(), key)
		if err != nil {
			h.logger.Warn("cache lookup failed", "game_id", gameID, "error", err)
		}
		if ok {
			w.Header().Set("X-Cache", "hit")
			respondRaw(w, http.StatusOK, doc)
			return
		}
	}

	doc, err := h.games.GetByID(r.Context(), gameID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Game not found", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch game", err)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetDocument(r.Context(), key, doc); err != nil {
			h.logger.Warn("cache store failed", "game_id", gameID, "error", err)
		}
		w.Header().Set("X-Cache", "miss")
	}
	respondRaw(w, http.StatusOK, doc)
}

// GetGames lists games by home team and season
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	home := query.Get("home")
	year := query.Get("year")

	if home != "" && !teamPattern.MatchString(home) {
		respondError(w, http.StatusBadRequest, "Invalid home team code", nil)
		return
	}
	if year != "" {
		if home == "" {
			respondError(w, http.StatusBadRequest, "year requires home", nil)
			return
		}
		if !yearPattern.MatchString(year) {
			respondError(w, http.StatusBadRequest, "Invalid year", nil)
			return
		}
	}

	limit := repository.DefaultGameLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = min(n, maxGameLimit)
	}

	docs, err := h.games.ListByHomeSeason(r.Context(), home, year, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch games", err)
		return
	}
	if docs == nil {
		docs = []json.RawMessage{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": docs,
		"count": len(docs),
	})
}

// GetTeams returns all teams of a season
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	if !yearPattern.MatchString(year) {
		respondError(w, http.StatusBadRequest, "year query parameter is required", nil)
		return
	}

	teams, err := h.teams.ListByYear(r.Context(), year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}

// GetRoster returns the roster of a team season
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	team, year := vars["team"], vars["year"]
	if !teamPattern.MatchString(team) || !yearPattern.MatchString(year) {
		respondError(w, http.StatusBadRequest, "Invalid team or year", nil)
		return
	}

	entries, err := h.rosters.ListByTeamSeason(r.Context(), team, year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch roster", err)
		return
	}
	if len(entries) == 0 {
		respondError(w, http.StatusNotFound, "Roster not found", fmt.Errorf("%w: roster %s %s", store.ErrNotFound, team, year))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":    team,
		"year":    year,
		"players": entries,
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondRaw writes an already encoded JSON document
func respondRaw(w http.ResponseWriter, status int, doc []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(doc)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
