package store

import (
	"fmt"
	"time"
)

// GetDailySummary aggregates events per UTC day in [from, to). Days without
// events are omitted. Cancelled breaks count only when the user cancelled.
func (s *Store) GetDailySummary(from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.Query(`
		SELECT date(occurred_at) AS day,
		       SUM(CASE WHEN event_type = 'pomodoro_completed' THEN 1 ELSE 0 END),
		       COALESCE(SUM(CASE WHEN event_type = 'pomodoro_completed' THEN duration_seconds END), 0),
		       SUM(CASE WHEN event_type = 'short_break_started' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN event_type = 'long_break_started' THEN 1 ELSE 0 END),
		       COALESCE(SUM(CASE WHEN event_type = 'break_finished' THEN duration_seconds END), 0),
		       SUM(CASE WHEN event_type = 'break_cancelled'
		                 AND json_extract(metadata, '$.source') = 'user' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN event_type = 'screen_locked' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN event_type = 'screensaver_activated' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN event_type = 'stay_up_late_triggered' THEN 1 ELSE 0 END)
		FROM statistics_events
		WHERE occurred_at >= ? AND occurred_at < ?
		GROUP BY day
		ORDER BY day`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var ds DailySummary
		if err := rows.Scan(&ds.Date, &ds.CompletedPomodoros, &ds.WorkSeconds,
			&ds.ShortBreaks, &ds.LongBreaks, &ds.BreakSeconds, &ds.CancelledBreaks,
			&ds.ScreenLocks, &ds.ScreensaverActivations, &ds.StayUpLate); err != nil {
			return nil, err
		}
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}

// GetTodaySummary returns today's totals. A day without events yields a
// zero summary with the date filled in.
func (s *Store) GetTodaySummary() (DailySummary, error) {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	summaries, err := s.GetDailySummary(start, start.AddDate(0, 0, 1))
	if err != nil {
		return DailySummary{}, err
	}
	if len(summaries) == 0 {
		return DailySummary{Date: start.Format("2006-01-02")}, nil
	}
	return summaries[0], nil
}
