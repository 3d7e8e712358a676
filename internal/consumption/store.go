package consumption

import (
	"context"
	"log/slog"
	"time"

	"github.com/prompted/hrconsume/internal/models"
	"github.com/prompted/hrconsume/internal/sqlfrag"
)

// Executor runs a composed statement and returns its rows. db.Executor is
// the production implementation.
type Executor interface {
	Query(ctx context.Context, q sqlfrag.Fragment) ([]models.Row, error)
}

// Endpoint names, as exposed under /consumption/{name}.
const (
	EndpointLatestHeartRates = "getLatestUserHeartRates"
	EndpointHeartRateStats   = "getUserHeartRateStats"
	EndpointHeartRateData    = "getHeartRateData"
	EndpointGroupBySecond    = "getGroupHRBySecond"
	EndpointLeaderboard      = "getLeaderboard"
	EndpointLiveStats        = "getUserLiveHeartRateStats"
)

// Store validates parameters, composes each endpoint's statement and runs it
// through the Executor. It holds no per-request state and is safe for
// concurrent use.
type Store struct {
	exec     Executor
	maxLimit int
	now      func() time.Time
}

// NewStore creates a Store. maxLimit caps every limit parameter; zero
// disables the cap.
func NewStore(exec Executor, maxLimit int) *Store {
	return &Store{exec: exec, maxLimit: maxLimit, now: time.Now}
}

// LatestHeartRates returns the latest heart-rate packet of every user.
func (s *Store) LatestHeartRates(ctx context.Context, p LatestHeartRatesParams) ([]models.Row, error) {
	q, err := BuildLatestHeartRates(p, s.maxLimit)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, EndpointLatestHeartRates, q)
}

// HeartRateStats returns min / max / avg heart rate per user.
func (s *Store) HeartRateStats(ctx context.Context, p HeartRateStatsParams) ([]models.Row, error) {
	q, err := BuildHeartRateStats(p, s.maxLimit)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, EndpointHeartRateStats, q)
}

// HeartRateData returns processed ANT+ packets, newest beat first.
func (s *Store) HeartRateData(ctx context.Context, p HeartRateDataParams) ([]models.Row, error) {
	q, err := BuildHeartRateData(p, s.maxLimit)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, EndpointHeartRateData, q)
}

// GroupBySecond returns each user's average heart rate per second since the
// requested timestamp.
func (s *Store) GroupBySecond(ctx context.Context, p GroupBySecondParams) ([]models.Row, error) {
	q, err := BuildGroupBySecond(p, s.maxLimit)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, EndpointGroupBySecond, q)
}

// Leaderboard ranks users by average heart rate over a trailing window.
func (s *Store) Leaderboard(ctx context.Context, p LeaderboardParams) ([]models.Row, error) {
	q, err := BuildLeaderboard(p, s.maxLimit, s.now())
	if err != nil {
		return nil, err
	}
	return s.run(ctx, EndpointLeaderboard, q)
}

// LiveStats returns one user's per-second heart rate over a trailing window.
func (s *Store) LiveStats(ctx context.Context, p LiveStatsParams) ([]models.Row, error) {
	q, err := BuildLiveStats(p, s.maxLimit, s.now())
	if err != nil {
		return nil, err
	}
	return s.run(ctx, EndpointLiveStats, q)
}

func (s *Store) run(ctx context.Context, endpoint string, q sqlfrag.Fragment) ([]models.Row, error) {
	start := time.Now()

	rows, err := s.exec.Query(ctx, q)
	if err != nil {
		return nil, &ExecutionError{Endpoint: endpoint, Err: err}
	}
	if rows == nil {
		rows = []models.Row{}
	}

	slog.Debug("query executed",
		"endpoint", endpoint,
		"sql", q.String(),
		"rows", len(rows),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return rows, nil
}
