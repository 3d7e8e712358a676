package consumption

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Parameter policy shared by every endpoint: an absent field applies no
// filter; a present but invalid field rejects the request with a
// *ParamError. An empty (or all-blank) identifier list counts as absent.

const (
	// DefaultLimit applies to endpoints whose limit is always present.
	DefaultLimit = 100
	// MaxUsers bounds the users list when no limit cap is configured.
	MaxUsers = 1000
	// MaxWindowSeconds bounds every time-window parameter.
	MaxWindowSeconds = 24 * 60 * 60

	defaultLeaderboardWindow = 300
	defaultLiveWindow        = 60
)

// LatestHeartRatesParams are the optional filters of getLatestUserHeartRates.
// Filters apply in field order: MinHR, MaxHR, Users.
type LatestHeartRatesParams struct {
	Limit *int
	MinHR *int
	MaxHR *int
	Users []string
}

// Validate checks every present field against maxLimit and the bound rules.
func (p LatestHeartRatesParams) Validate(maxLimit int) error {
	if err := checkLimit("limit", p.Limit, maxLimit); err != nil {
		return err
	}
	if err := checkPositive("min_hr", p.MinHR); err != nil {
		return err
	}
	if err := checkPositive("max_hr", p.MaxHR); err != nil {
		return err
	}
	if p.MinHR != nil && p.MaxHR != nil && *p.MinHR > *p.MaxHR {
		return invalid("min_hr", "must not exceed max_hr")
	}
	maxUsers := MaxUsers
	if maxLimit > 0 {
		maxUsers = maxLimit
	}
	if len(normalizeIdentifiers(p.Users)) > maxUsers {
		return invalid("users", fmt.Sprintf("must not list more than %d users", maxUsers))
	}
	return nil
}

// HeartRateStatsParams filter getUserHeartRateStats. A blank UserName is
// treated as absent.
type HeartRateStatsParams struct {
	UserName *string
}

// Validate never fails; it exists so every endpoint shares one shape.
func (p HeartRateStatsParams) Validate(int) error {
	return nil
}

// HeartRateDataParams filter getHeartRateData. Limit defaults to
// DefaultLimit.
type HeartRateDataParams struct {
	DeviceID *string
	Limit    *int
}

// Validate checks the limit against maxLimit.
func (p HeartRateDataParams) Validate(maxLimit int) error {
	return checkLimit("limit", p.Limit, maxLimit)
}

// GroupBySecondParams select the start of getGroupHRBySecond. Timestamp is
// required.
type GroupBySecondParams struct {
	Timestamp *time.Time
}

// Validate requires Timestamp.
func (p GroupBySecondParams) Validate(int) error {
	if p.Timestamp == nil || p.Timestamp.IsZero() {
		return invalid("timestamp", "is required")
	}
	return nil
}

// LeaderboardParams configure getLeaderboard. TimeWindowSeconds defaults to
// 300 and Limit to DefaultLimit.
type LeaderboardParams struct {
	TimeWindowSeconds *int
	Limit             *int
}

// Validate checks the window and the limit.
func (p LeaderboardParams) Validate(maxLimit int) error {
	if err := checkWindow("time_window_seconds", p.TimeWindowSeconds); err != nil {
		return err
	}
	return checkLimit("limit", p.Limit, maxLimit)
}

// LiveStatsParams configure getUserLiveHeartRateStats. UserName is required;
// WindowSeconds defaults to 60.
type LiveStatsParams struct {
	UserName      *string
	WindowSeconds *int
}

// Validate requires a non-blank user and checks the window.
func (p LiveStatsParams) Validate(int) error {
	if blank(p.UserName) {
		return invalid("user_name", "is required")
	}
	return checkWindow("window_seconds", p.WindowSeconds)
}

// ---------------------------------------------------------------------------
// Field checks
// ---------------------------------------------------------------------------

func checkPositive(field string, v *int) error {
	if v != nil && *v <= 0 {
		return invalid(field, "must be a positive integer")
	}
	return nil
}

func checkLimit(field string, v *int, maxLimit int) error {
	if err := checkPositive(field, v); err != nil {
		return err
	}
	if v != nil && maxLimit > 0 && *v > maxLimit {
		return invalid(field, fmt.Sprintf("must not exceed %d", maxLimit))
	}
	return nil
}

func checkWindow(field string, v *int) error {
	if err := checkPositive(field, v); err != nil {
		return err
	}
	if v != nil && *v > MaxWindowSeconds {
		return invalid(field, fmt.Sprintf("must not exceed %d", MaxWindowSeconds))
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// defaultLimit is DefaultLimit, lowered to maxLimit when a smaller cap is
// configured.
func defaultLimit(maxLimit int) int {
	if maxLimit > 0 && maxLimit < DefaultLimit {
		return maxLimit
	}
	return DefaultLimit
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// normalizeIdentifiers trims entries, drops blanks and duplicates, and keeps
// first-seen order.
func normalizeIdentifiers(ids []string) []string {
	return lo.Uniq(lo.Compact(lo.Map(ids, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))
}

// ---------------------------------------------------------------------------
// Query-string decoding
// ---------------------------------------------------------------------------

// ParseLatestHeartRates decodes getLatestUserHeartRates parameters. users may
// be repeated or comma separated.
func ParseLatestHeartRates(q url.Values) (LatestHeartRatesParams, error) {
	var (
		p   LatestHeartRatesParams
		err error
	)
	if p.Limit, err = queryInt(q, "limit"); err != nil {
		return p, err
	}
	if p.MinHR, err = queryInt(q, "min_hr"); err != nil {
		return p, err
	}
	if p.MaxHR, err = queryInt(q, "max_hr"); err != nil {
		return p, err
	}
	p.Users = queryList(q, "users")
	return p, nil
}

// ParseHeartRateStats decodes getUserHeartRateStats parameters.
func ParseHeartRateStats(q url.Values) (HeartRateStatsParams, error) {
	return HeartRateStatsParams{UserName: queryString(q, "user_name")}, nil
}

// ParseHeartRateData decodes getHeartRateData parameters.
func ParseHeartRateData(q url.Values) (HeartRateDataParams, error) {
	limit, err := queryInt(q, "limit")
	if err != nil {
		return HeartRateDataParams{}, err
	}
	return HeartRateDataParams{DeviceID: queryString(q, "device_id"), Limit: limit}, nil
}

// ParseGroupBySecond decodes getGroupHRBySecond parameters. timestamp must be
// RFC3339.
func ParseGroupBySecond(q url.Values) (GroupBySecondParams, error) {
	s := queryString(q, "timestamp")
	if s == nil {
		return GroupBySecondParams{}, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return GroupBySecondParams{}, invalid("timestamp", "must be an RFC3339 timestamp")
	}
	return GroupBySecondParams{Timestamp: &ts}, nil
}

// ParseLeaderboard decodes getLeaderboard parameters.
func ParseLeaderboard(q url.Values) (LeaderboardParams, error) {
	var (
		p   LeaderboardParams
		err error
	)
	if p.TimeWindowSeconds, err = queryInt(q, "time_window_seconds"); err != nil {
		return p, err
	}
	if p.Limit, err = queryInt(q, "limit"); err != nil {
		return p, err
	}
	return p, nil
}

// ParseLiveStats decodes getUserLiveHeartRateStats parameters.
func ParseLiveStats(q url.Values) (LiveStatsParams, error) {
	window, err := queryInt(q, "window_seconds")
	if err != nil {
		return LiveStatsParams{}, err
	}
	return LiveStatsParams{UserName: queryString(q, "user_name"), WindowSeconds: window}, nil
}

func queryString(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func queryInt(q url.Values, key string) (*int, error) {
	s := queryString(q, key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil, invalid(key, "must be an integer")
	}
	return &n, nil
}

func queryList(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}
