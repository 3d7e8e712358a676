package consumption

import (
	"strings"
	"time"

	"github.com/prompted/hrconsume/internal/sqlfrag"
)

// Build* functions are pure: they validate the parameters and compose the
// endpoint's statement without touching the database.

func template(q string) sqlfrag.Fragment {
	return sqlfrag.Raw(strings.TrimSpace(q))
}

// BuildLatestHeartRates composes getLatestUserHeartRates. Without filters
// the result is the base query ordered by heart rate; LIMIT appears only
// when a limit was given.
func BuildLatestHeartRates(p LatestHeartRatesParams, maxLimit int) (sqlfrag.Fragment, error) {
	if err := p.Validate(maxLimit); err != nil {
		return sqlfrag.Fragment{}, err
	}

	q := sqlfrag.NewQuery(template(queryLatestHeartRates))
	if p.MinHR != nil {
		q.Where(sqlfrag.SQL("u.hr_value >= ?", *p.MinHR))
	}
	if p.MaxHR != nil {
		q.Where(sqlfrag.SQL("u.hr_value <= ?", *p.MaxHR))
	}
	if users := normalizeIdentifiers(p.Users); len(users) > 0 {
		q.Where(sqlfrag.SQL("u.user_name IN (?)", sqlfrag.List(users)))
	}
	q.OrderBy(sqlfrag.Raw("u.hr_value DESC"))
	if p.Limit != nil {
		q.Limit(*p.Limit)
	}
	return q.Build(), nil
}

// BuildHeartRateStats composes getUserHeartRateStats.
func BuildHeartRateStats(p HeartRateStatsParams, maxLimit int) (sqlfrag.Fragment, error) {
	if err := p.Validate(maxLimit); err != nil {
		return sqlfrag.Fragment{}, err
	}

	q := sqlfrag.NewQuery(template(queryHeartRateStats)).
		Where(sqlfrag.Raw("avg_hr_per_second > 0"))
	if !blank(p.UserName) {
		q.Where(sqlfrag.SQL("user_name = ?", strings.TrimSpace(*p.UserName)))
	}
	q.GroupBy(sqlfrag.Raw("user_name")).
		OrderBy(sqlfrag.Raw("avg_heart_rate DESC"))
	return q.Build(), nil
}

// BuildHeartRateData composes getHeartRateData. The limit is always bound.
func BuildHeartRateData(p HeartRateDataParams, maxLimit int) (sqlfrag.Fragment, error) {
	if err := p.Validate(maxLimit); err != nil {
		return sqlfrag.Fragment{}, err
	}

	q := sqlfrag.NewQuery(template(queryHeartRateData)).
		Where(sqlfrag.Raw("device_id != ''"))
	if !blank(p.DeviceID) {
		q.Where(sqlfrag.SQL("device_id = ?", strings.TrimSpace(*p.DeviceID)))
	}
	q.OrderBy(sqlfrag.Raw("last_beat_time DESC")).
		Limit(orDefault(p.Limit, defaultLimit(maxLimit)))
	return q.Build(), nil
}

// BuildGroupBySecond composes getGroupHRBySecond. The cutoff is the
// requested timestamp truncated to the second, minus one second.
func BuildGroupBySecond(p GroupBySecondParams, maxLimit int) (sqlfrag.Fragment, error) {
	if err := p.Validate(maxLimit); err != nil {
		return sqlfrag.Fragment{}, err
	}

	cutoff := p.Timestamp.UTC().Truncate(time.Second).Add(-time.Second)
	q := sqlfrag.NewQuery(sqlfrag.SQL(strings.TrimSpace(queryGroupBySecond), cutoff)).
		OrderBy(sqlfrag.Raw("user_name, rounded_up_time"))
	return q.Build(), nil
}

// BuildLeaderboard composes getLeaderboard for the window ending at now.
func BuildLeaderboard(p LeaderboardParams, maxLimit int, now time.Time) (sqlfrag.Fragment, error) {
	if err := p.Validate(maxLimit); err != nil {
		return sqlfrag.Fragment{}, err
	}

	since := windowStart(now, orDefault(p.TimeWindowSeconds, defaultLeaderboardWindow))
	q := sqlfrag.NewQuery(template(queryLeaderboard)).
		Where(sqlfrag.SQL("processed_timestamp >= ?", since)).
		GroupBy(sqlfrag.Raw("user_name")).
		OrderBy(sqlfrag.Raw("avg_heart_rate DESC")).
		Limit(orDefault(p.Limit, defaultLimit(maxLimit)))
	return q.Build(), nil
}

// BuildLiveStats composes getUserLiveHeartRateStats for the window ending
// at now.
func BuildLiveStats(p LiveStatsParams, maxLimit int, now time.Time) (sqlfrag.Fragment, error) {
	if err := p.Validate(maxLimit); err != nil {
		return sqlfrag.Fragment{}, err
	}

	since := windowStart(now, orDefault(p.WindowSeconds, defaultLiveWindow))
	q := sqlfrag.NewQuery(template(queryLiveStats)).
		Where(sqlfrag.SQL("user_name = ?", strings.TrimSpace(*p.UserName))).
		Where(sqlfrag.SQL("processed_timestamp >= ?", since)).
		OrderBy(sqlfrag.Raw("rounded_up_time ASC"))
	return q.Build(), nil
}

func windowStart(now time.Time, seconds int) time.Time {
	return now.UTC().Add(-time.Duration(seconds) * time.Second)
}
