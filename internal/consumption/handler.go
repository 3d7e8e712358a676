package consumption

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/prompted/hrconsume/internal/models"
)

// Handler exposes the consumption endpoints over HTTP.
type Handler struct {
	store        *Store
	queryTimeout time.Duration
}

// NewHandler creates a Handler backed by the given Store. queryTimeout
// bounds each executor call; zero leaves the request context as is.
func NewHandler(store *Store, queryTimeout time.Duration) *Handler {
	return &Handler{store: store, queryTimeout: queryTimeout}
}

// Routes registers every endpoint on r, typically mounted at /consumption.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/"+EndpointLatestHeartRates, h.GetLatestUserHeartRates)
	r.Get("/"+EndpointHeartRateStats, h.GetUserHeartRateStats)
	r.Get("/"+EndpointHeartRateData, h.GetHeartRateData)
	r.Get("/"+EndpointGroupBySecond, h.GetGroupHRBySecond)
	r.Get("/"+EndpointLeaderboard, h.GetLeaderboard)
	r.Get("/"+EndpointLiveStats, h.GetUserLiveHeartRateStats)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusNotFound, "unknown consumption endpoint")
	})
}

// ---------------------------------------------------------------------------
// GET /consumption/getLatestUserHeartRates
// ---------------------------------------------------------------------------

// GetLatestUserHeartRates godoc
//
//	@Summary		Latest heart rate per user
//	@Description	Returns the most recent unified heart-rate packet of every user, highest heart rate first.
//	@Tags			consumption
//	@Produce		json
//	@Param			limit	query		int		false	"Maximum rows"			minimum(1)
//	@Param			min_hr	query		int		false	"Minimum heart rate"	minimum(1)
//	@Param			max_hr	query		int		false	"Maximum heart rate"	minimum(1)
//	@Param			users	query		[]string	false	"User names (repeated or comma separated)"
//	@Success		200		{array}		models.Row
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		500		{object}	models.ErrorResponse
//	@Router			/consumption/getLatestUserHeartRates [get]
func (h *Handler) GetLatestUserHeartRates(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointLatestHeartRates, ParseLatestHeartRates, h.store.LatestHeartRates)
}

// GetUserHeartRateStats godoc
//
//	@Summary		Heart rate statistics per user
//	@Description	Returns min, max and average of the per-second heart rate of each user.
//	@Tags			consumption
//	@Produce		json
//	@Param			user_name	query		string	false	"Restrict to one user"
//	@Success		200			{array}		models.Row
//	@Failure		500			{object}	models.ErrorResponse
//	@Router			/consumption/getUserHeartRateStats [get]
func (h *Handler) GetUserHeartRateStats(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointHeartRateStats, ParseHeartRateStats, h.store.HeartRateStats)
}

// GetHeartRateData godoc
//
//	@Summary		Processed ANT+ heart rate packets
//	@Description	Returns processed packets ordered by last beat time, newest first.
//	@Tags			consumption
//	@Produce		json
//	@Param			device_id	query		string	false	"Restrict to one device"
//	@Param			limit		query		int		false	"Maximum rows (default 100)"	minimum(1)	maximum(1000)
//	@Success		200			{array}		models.Row
//	@Failure		400			{object}	models.ErrorResponse
//	@Failure		500			{object}	models.ErrorResponse
//	@Router			/consumption/getHeartRateData [get]
func (h *Handler) GetHeartRateData(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointHeartRateData, ParseHeartRateData, h.store.HeartRateData)
}

// GetGroupHRBySecond godoc
//
//	@Summary		Per-second heart rate per user
//	@Description	Returns each user's average heart rate per second, starting one second before the given timestamp.
//	@Tags			consumption
//	@Produce		json
//	@Param			timestamp	query		string	true	"Start time (RFC3339)"	example(2025-03-01T10:00:00Z)
//	@Success		200			{array}		models.Row
//	@Failure		400			{object}	models.ErrorResponse
//	@Failure		500			{object}	models.ErrorResponse
//	@Router			/consumption/getGroupHRBySecond [get]
func (h *Handler) GetGroupHRBySecond(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointGroupBySecond, ParseGroupBySecond, h.store.GroupBySecond)
}

// GetLeaderboard godoc
//
//	@Summary		Heart rate leaderboard
//	@Description	Ranks users by average heart rate over a trailing window.
//	@Tags			consumption
//	@Produce		json
//	@Param			time_window_seconds	query		int	false	"Window length in seconds (default 300)"	minimum(1)
//	@Param			limit				query		int	false	"Maximum rows (default 100)"				minimum(1)
//	@Success		200					{array}		models.Row
//	@Failure		400					{object}	models.ErrorResponse
//	@Failure		500					{object}	models.ErrorResponse
//	@Router			/consumption/getLeaderboard [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointLeaderboard, ParseLeaderboard, h.store.Leaderboard)
}

// GetUserLiveHeartRateStats godoc
//
//	@Summary		Live heart rate of one user
//	@Description	Returns one user's per-second heart rate over a trailing window, oldest first.
//	@Tags			consumption
//	@Produce		json
//	@Param			user_name		query		string	true	"User name"
//	@Param			window_seconds	query		int		false	"Window length in seconds (default 60)"	minimum(1)
//	@Success		200				{array}		models.Row
//	@Failure		400				{object}	models.ErrorResponse
//	@Failure		500				{object}	models.ErrorResponse
//	@Router			/consumption/getUserLiveHeartRateStats [get]
func (h *Handler) GetUserLiveHeartRateStats(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointLiveStats, ParseLiveStats, h.store.LiveStats)
}

// serve decodes the query string, runs the endpoint and writes its rows.
func serve[P any](
	h *Handler,
	w http.ResponseWriter,
	r *http.Request,
	endpoint string,
	parse func(url.Values) (P, error),
	run func(context.Context, P) ([]models.Row, error),
) {
	start := time.Now()

	params, err := parse(r.URL.Query())
	if err != nil {
		h.fail(w, r, endpoint, err)
		return
	}

	ctx := r.Context()
	if h.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.queryTimeout)
		defer cancel()
	}

	rows, err := run(ctx, params)
	if err != nil {
		h.fail(w, r, endpoint, err)
		return
	}

	slog.Info("consumption query",
		"endpoint", endpoint,
		"request_id", middleware.GetReqID(r.Context()),
		"rows", len(rows),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	switch {
	case errors.Is(err, ErrInvalidParameter):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("consumption query timed out", "endpoint", endpoint, "error", err)
		writeErr(w, http.StatusGatewayTimeout, "query timed out")
	default:
		slog.Error("consumption query failed",
			"endpoint", endpoint,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeErr(w, http.StatusInternalServerError, "query failed")
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
