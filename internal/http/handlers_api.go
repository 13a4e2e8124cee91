package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/uchiverify/uchiverify/internal/service"
)

// APIHandlers serves the JSON endpoints behind the campus commands.
// Every hit increments the matching usage counter.
type APIHandlers struct {
	Trivia  *service.TriviaService
	Quarter *service.QuarterService
	Events  *service.EventsService
	Stats   *service.StatsService
	Logger  *slog.Logger
}

func (h *APIHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// RandomArticle handles GET /api/articles/random.
func (h *APIHandlers) RandomArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.Trivia.RandomArticle()
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "no_data", Err: err})
		return
	}
	h.Stats.Track(r.Context(), "shadydealer")
	WriteJSON(w, http.StatusOK, article)
}

// RandomScavItem handles GET /api/scav/random.
func (h *APIHandlers) RandomScavItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Trivia.RandomScavItem()
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "no_data", Err: err})
		return
	}
	h.Stats.Track(r.Context(), "scav")
	WriteJSON(w, http.StatusOK, item)
}

// QuarterStatus handles GET /api/quarter.
func (h *APIHandlers) QuarterStatus(w http.ResponseWriter, r *http.Request) {
	h.Stats.Track(r.Context(), "daysinquarter")
	WriteJSON(w, http.StatusOK, h.Quarter.Status())
}

// RandomEvent handles GET /api/events/random. The days parameter caps
// how far ahead an event may start; it is optional.
func (h *APIHandlers) RandomEvent(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || (parsed != 1 && parsed != 3 && parsed != 7) {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation",
				Err:     errors.New("days must be 1, 3 or 7"),
			})
			return
		}
		days = parsed
	}

	event, err := h.Events.Random(r.Context(), days)
	if err != nil {
		if errors.Is(err, service.ErrNoEvents) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "no_events", Err: err})
			return
		}
		h.logger().Error("event lookup failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: err})
		return
	}

	h.Stats.Track(r.Context(), "thingstodo")
	WriteJSON(w, http.StatusOK, event)
}

// CommandStats handles GET /api/stats.
func (h *APIHandlers) CommandStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Stats.Snapshot(r.Context())
	if err != nil {
		h.logger().Error("stats snapshot failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: err})
		return
	}
	if counts == nil {
		counts = []service.CommandCount{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"commands": counts})
}
