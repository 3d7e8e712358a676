package consumption_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompted/hrconsume/internal/consumption"
	"github.com/prompted/hrconsume/internal/sqlfrag"
)

const latestBase = `WITH latest_timestamps AS (
    SELECT user_name, MAX(processed_timestamp) AS latest_timestamp
    FROM unified_hr_packet
    GROUP BY user_name
)
SELECT u.user_name, u.hr_value, u.processed_timestamp
FROM unified_hr_packet u
JOIN latest_timestamps lt
  ON u.user_name = lt.user_name AND u.processed_timestamp = lt.latest_timestamp`

func intp(v int) *int              { return &v }
func strp(v string) *string        { return &v }
func timep(v time.Time) *time.Time { return &v }

func manyUsers(n int) []string {
	users := make([]string, n)
	for i := range users {
		users[i] = fmt.Sprintf("user-%d", i)
	}
	return users
}

func render(t *testing.T, f sqlfrag.Fragment) (string, []any) {
	t.Helper()
	sql, args, err := f.Render(sqlfrag.Question)
	require.NoError(t, err)
	return sql, args
}

func TestBuildLatestHeartRates(t *testing.T) {
	tests := []struct {
		name   string
		params consumption.LatestHeartRatesParams
		suffix string
		args   []any
	}{
		{
			name:   "no filters",
			params: consumption.LatestHeartRatesParams{},
			suffix: " ORDER BY u.hr_value DESC",
		},
		{
			name:   "min_hr and limit",
			params: consumption.LatestHeartRatesParams{MinHR: intp(60), Limit: intp(10)},
			suffix: " WHERE u.hr_value >= ? ORDER BY u.hr_value DESC LIMIT ?",
			args:   []any{60, 10},
		},
		{
			name:   "range",
			params: consumption.LatestHeartRatesParams{MinHR: intp(60), MaxHR: intp(180)},
			suffix: " WHERE u.hr_value >= ? AND u.hr_value <= ? ORDER BY u.hr_value DESC",
			args:   []any{60, 180},
		},
		{
			name:   "equal bounds",
			params: consumption.LatestHeartRatesParams{MinHR: intp(90), MaxHR: intp(90)},
			suffix: " WHERE u.hr_value >= ? AND u.hr_value <= ? ORDER BY u.hr_value DESC",
			args:   []any{90, 90},
		},
		{
			name: "all filters in declaration order",
			params: consumption.LatestHeartRatesParams{
				Users: []string{"ann", " bob ", "ann", ""},
				MaxHR: intp(200),
				MinHR: intp(50),
				Limit: intp(3),
			},
			suffix: " WHERE u.hr_value >= ? AND u.hr_value <= ? AND u.user_name IN (?, ?) ORDER BY u.hr_value DESC LIMIT ?",
			args:   []any{50, 200, "ann", "bob", 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := consumption.BuildLatestHeartRates(tt.params, 1000)
			require.NoError(t, err)

			sql, args := render(t, f)
			assert.Equal(t, latestBase+tt.suffix, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuildLatestHeartRates_EmptyUsersIsNoFilter(t *testing.T) {
	unset, err := consumption.BuildLatestHeartRates(consumption.LatestHeartRatesParams{MinHR: intp(70)}, 1000)
	require.NoError(t, err)

	for _, users := range [][]string{{}, {"", "  "}} {
		empty, err := consumption.BuildLatestHeartRates(
			consumption.LatestHeartRatesParams{MinHR: intp(70), Users: users}, 1000)
		require.NoError(t, err)

		assert.Equal(t, unset.String(), empty.String())
		assert.Equal(t, unset.Args(), empty.Args())
	}
}

func TestBuildLatestHeartRates_Idempotent(t *testing.T) {
	p := consumption.LatestHeartRatesParams{MinHR: intp(60), MaxHR: intp(150), Users: []string{"ann"}, Limit: intp(5)}

	first, err := consumption.BuildLatestHeartRates(p, 1000)
	require.NoError(t, err)
	second, err := consumption.BuildLatestHeartRates(p, 1000)
	require.NoError(t, err)

	s1, a1 := render(t, first)
	s2, a2 := render(t, second)
	assert.Equal(t, s1, s2)
	assert.Equal(t, a1, a2)
}

func TestBuildLatestHeartRates_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params consumption.LatestHeartRatesParams
		field  string
	}{
		{name: "zero limit", params: consumption.LatestHeartRatesParams{Limit: intp(0)}, field: "limit"},
		{name: "negative limit", params: consumption.LatestHeartRatesParams{Limit: intp(-1)}, field: "limit"},
		{name: "limit over cap", params: consumption.LatestHeartRatesParams{Limit: intp(1001)}, field: "limit"},
		{name: "zero min_hr", params: consumption.LatestHeartRatesParams{MinHR: intp(0)}, field: "min_hr"},
		{name: "negative max_hr", params: consumption.LatestHeartRatesParams{MaxHR: intp(-20)}, field: "max_hr"},
		{name: "min above max", params: consumption.LatestHeartRatesParams{MinHR: intp(150), MaxHR: intp(100)}, field: "min_hr"},
		{name: "too many users", params: consumption.LatestHeartRatesParams{Users: manyUsers(1001)}, field: "users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := consumption.BuildLatestHeartRates(tt.params, 1000)
			require.Error(t, err)
			assert.True(t, errors.Is(err, consumption.ErrInvalidParameter))

			var pe *consumption.ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestBuildHeartRateStats(t *testing.T) {
	f, err := consumption.BuildHeartRateStats(consumption.HeartRateStatsParams{}, 1000)
	require.NoError(t, err)
	sql, args := render(t, f)
	assert.True(t, strings.HasSuffix(sql,
		"FROM per_second_heart_rate_aggregate WHERE avg_hr_per_second > 0 GROUP BY user_name ORDER BY avg_heart_rate DESC"), sql)
	assert.Empty(t, args)

	f, err = consumption.BuildHeartRateStats(consumption.HeartRateStatsParams{UserName: strp("ann")}, 1000)
	require.NoError(t, err)
	sql, args = render(t, f)
	assert.True(t, strings.HasSuffix(sql,
		"WHERE avg_hr_per_second > 0 AND user_name = ? GROUP BY user_name ORDER BY avg_heart_rate DESC"), sql)
	assert.Equal(t, []any{"ann"}, args)

	blank, err := consumption.BuildHeartRateStats(consumption.HeartRateStatsParams{UserName: strp("  ")}, 1000)
	require.NoError(t, err)
	assert.Empty(t, blank.Args())
}

func TestBuildHeartRateData(t *testing.T) {
	f, err := consumption.BuildHeartRateData(consumption.HeartRateDataParams{}, 1000)
	require.NoError(t, err)
	sql, args := render(t, f)
	assert.True(t, strings.HasSuffix(sql,
		"FROM processed_ant_hr_packet WHERE device_id != '' ORDER BY last_beat_time DESC LIMIT ?"), sql)
	assert.Equal(t, []any{consumption.DefaultLimit}, args)

	f, err = consumption.BuildHeartRateData(consumption.HeartRateDataParams{DeviceID: strp("12345"), Limit: intp(7)}, 1000)
	require.NoError(t, err)
	sql, args = render(t, f)
	assert.True(t, strings.HasSuffix(sql,
		"WHERE device_id != '' AND device_id = ? ORDER BY last_beat_time DESC LIMIT ?"), sql)
	assert.Equal(t, []any{"12345", 7}, args)

	_, err = consumption.BuildHeartRateData(consumption.HeartRateDataParams{Limit: intp(5000)}, 1000)
	assert.ErrorIs(t, err, consumption.ErrInvalidParameter)
}

func TestBuildGroupBySecond(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 5, 750_000_000, time.UTC)

	f, err := consumption.BuildGroupBySecond(consumption.GroupBySecondParams{Timestamp: timep(ts)}, 1000)
	require.NoError(t, err)
	sql, args := render(t, f)

	assert.Contains(t, sql, "WHERE processed_timestamp >= ?")
	assert.True(t, strings.HasSuffix(sql, ") AS per_second ORDER BY user_name, rounded_up_time"), sql)
	require.Len(t, args, 1)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 4, 0, time.UTC), args[0])

	_, err = consumption.BuildGroupBySecond(consumption.GroupBySecondParams{}, 1000)
	assert.ErrorIs(t, err, consumption.ErrInvalidParameter)
}

func TestBuildLeaderboard(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 10, 0, 0, time.UTC)

	f, err := consumption.BuildLeaderboard(consumption.LeaderboardParams{}, 1000, now)
	require.NoError(t, err)
	sql, args := render(t, f)
	assert.True(t, strings.HasSuffix(sql,
		"WHERE processed_timestamp >= ? GROUP BY user_name ORDER BY avg_heart_rate DESC LIMIT ?"), sql)
	assert.Equal(t, []any{now.Add(-5 * time.Minute), consumption.DefaultLimit}, args)

	f, err = consumption.BuildLeaderboard(consumption.LeaderboardParams{TimeWindowSeconds: intp(60), Limit: intp(10)}, 1000, now)
	require.NoError(t, err)
	assert.Equal(t, []any{now.Add(-time.Minute), 10}, f.Args())

	_, err = consumption.BuildLeaderboard(consumption.LeaderboardParams{TimeWindowSeconds: intp(0)}, 1000, now)
	assert.ErrorIs(t, err, consumption.ErrInvalidParameter)
	_, err = consumption.BuildLeaderboard(consumption.LeaderboardParams{TimeWindowSeconds: intp(consumption.MaxWindowSeconds + 1)}, 1000, now)
	assert.ErrorIs(t, err, consumption.ErrInvalidParameter)
}

func TestBuildLiveStats(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 10, 0, 0, time.UTC)

	f, err := consumption.BuildLiveStats(consumption.LiveStatsParams{UserName: strp("ann")}, 1000, now)
	require.NoError(t, err)
	sql, args := render(t, f)
	assert.True(t, strings.HasSuffix(sql,
		"WHERE user_name = ? AND processed_timestamp >= ? ORDER BY rounded_up_time ASC"), sql)
	assert.Equal(t, []any{"ann", now.Add(-time.Minute)}, args)

	_, err = consumption.BuildLiveStats(consumption.LiveStatsParams{}, 1000, now)
	assert.ErrorIs(t, err, consumption.ErrInvalidParameter)
	_, err = consumption.BuildLiveStats(consumption.LiveStatsParams{UserName: strp("ann"), WindowSeconds: intp(-5)}, 1000, now)
	assert.ErrorIs(t, err, consumption.ErrInvalidParameter)
}

func TestBuildLatestHeartRates_UsersCap(t *testing.T) {
	f, err := consumption.BuildLatestHeartRates(consumption.LatestHeartRatesParams{Users: manyUsers(10)}, 10)
	require.NoError(t, err)
	assert.Len(t, f.Args(), 10)

	_, err = consumption.BuildLatestHeartRates(consumption.LatestHeartRatesParams{Users: manyUsers(11)}, 10)
	assert.ErrorIs(t, err, consumption.ErrInvalidParameter)

	dupes := append(manyUsers(10), manyUsers(10)...)
	_, err = consumption.BuildLatestHeartRates(consumption.LatestHeartRatesParams{Users: dupes}, 10)
	assert.NoError(t, err, "duplicates count once")

	_, err = consumption.BuildLatestHeartRates(consumption.LatestHeartRatesParams{Users: manyUsers(consumption.MaxUsers + 1)}, 0)
	assert.ErrorIs(t, err, consumption.ErrInvalidParameter)
}

func TestBuildDefaultLimit_ClampedToCap(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 10, 0, 0, time.UTC)

	data, err := consumption.BuildHeartRateData(consumption.HeartRateDataParams{}, 50)
	require.NoError(t, err)
	assert.Equal(t, []any{50}, data.Args())

	board, err := consumption.BuildLeaderboard(consumption.LeaderboardParams{}, 50, now)
	require.NoError(t, err)
	assert.Equal(t, []any{now.Add(-5 * time.Minute), 50}, board.Args())

	uncapped, err := consumption.BuildHeartRateData(consumption.HeartRateDataParams{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{consumption.DefaultLimit}, uncapped.Args())
}
