// Package consumption implements the read-only heart-rate query endpoints
// served to the dashboard.
package consumption

// SQL templates for the consumption endpoints. Templates carry no WHERE,
// GROUP BY, ORDER BY or LIMIT of their own unless noted; those clauses are
// composed by the Build* functions.
const (
	// queryLatestHeartRates returns the most recent unified packet of
	// every user.
	queryLatestHeartRates = `
WITH latest_timestamps AS (
    SELECT user_name, MAX(processed_timestamp) AS latest_timestamp
    FROM unified_hr_packet
    GROUP BY user_name
)
SELECT u.user_name, u.hr_value, u.processed_timestamp
FROM unified_hr_packet u
JOIN latest_timestamps lt
  ON u.user_name = lt.user_name AND u.processed_timestamp = lt.latest_timestamp`

	// queryHeartRateStats aggregates per-second averages into per-user
	// min / max / avg.
	queryHeartRateStats = `
SELECT user_name,
       min(avg_hr_per_second) AS min_heart_rate,
       max(avg_hr_per_second) AS max_heart_rate,
       avg(avg_hr_per_second) AS avg_heart_rate,
       max(processed_timestamp) AS last_updated
FROM per_second_heart_rate_aggregate`

	queryHeartRateData = `
SELECT device_id, calculated_heart_rate, last_beat_time, heart_beat_count
FROM processed_ant_hr_packet`

	// queryGroupBySecond averages each user's heart rate per second since
	// the cutoff bound to its single placeholder.
	queryGroupBySecond = `
SELECT user_name, avg_heart_rate, last_processed_timestamp
FROM (
    SELECT user_name,
           rounded_up_time,
           max(processed_timestamp) AS last_processed_timestamp,
           avg(avg_hr_per_second) AS avg_heart_rate
    FROM per_second_heart_rate_aggregate
    WHERE processed_timestamp >= ?
    GROUP BY user_name, rounded_up_time
) AS per_second`

	// queryLeaderboard ranks users by average heart rate; rank follows the
	// ORDER BY composed onto it.
	queryLeaderboard = `
SELECT ROW_NUMBER() OVER (ORDER BY avg(avg_hr_per_second) DESC) AS "rank",
       user_name,
       avg(avg_hr_per_second) AS avg_heart_rate,
       max(avg_hr_per_second) AS max_heart_rate,
       max(processed_timestamp) AS last_updated
FROM per_second_heart_rate_aggregate`

	// queryLiveStats returns one user's per-second samples. hr_zone is 1
	// below 120 bpm and steps up at 140, 160 and 180, ending at 5.
	queryLiveStats = `
SELECT user_name,
       rounded_up_time,
       avg_hr_per_second AS heart_rate,
       CASE
           WHEN avg_hr_per_second < 120 THEN 1
           WHEN avg_hr_per_second < 140 THEN 2
           WHEN avg_hr_per_second < 160 THEN 3
           WHEN avg_hr_per_second < 180 THEN 4
           ELSE 5
       END AS hr_zone,
       processed_timestamp
FROM per_second_heart_rate_aggregate`
)
