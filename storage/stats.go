package storage

import (
	"fmt"
)

// DailyStats represents statistics for a single day
type DailyStats struct {
	Date            string
	TotalSessions   int
	TotalCharacters int
	SuccessCount    int
	FailureCount    int
}

// StrategyStats represents statistics grouped by the strategy that
// completed the session
type StrategyStats struct {
	Strategy        string
	TotalSessions   int
	TotalCharacters int
	SuccessCount    int
	FailureCount    int
	AvgDurationMs   float64
}

// OverallStats represents overall statistics
type OverallStats struct {
	TotalSessions    int
	TotalCharacters  int
	TotalLines       int
	SuccessCount     int
	FailureCount     int
	InterruptedCount int
	FallbackSessions int
	AvgDurationMs    float64
	AvgCharacters    float64
}

// GetDailyStats retrieves statistics grouped by date for the last N days
func (db *DB) GetDailyStats(days int) ([]DailyStats, error) {
	query := `
		SELECT
			DATE(timestamp) as date,
			COUNT(*) as total_sessions,
			COALESCE(SUM(character_count), 0) as total_characters,
			SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) as failure_count
		FROM sessions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY DATE(timestamp)
		ORDER BY date DESC
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStats
	for rows.Next() {
		var s DailyStats
		err := rows.Scan(&s.Date, &s.TotalSessions, &s.TotalCharacters, &s.SuccessCount, &s.FailureCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetStrategyStats retrieves statistics grouped by completing strategy
// for the last N days
func (db *DB) GetStrategyStats(days int) ([]StrategyStats, error) {
	query := `
		SELECT
			strategy,
			COUNT(*) as total_sessions,
			COALESCE(SUM(character_count), 0) as total_characters,
			SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) as failure_count,
			COALESCE(AVG(duration_ms), 0) as avg_duration_ms
		FROM sessions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
		GROUP BY strategy
		ORDER BY total_sessions DESC
	`

	rows, err := db.conn.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy stats: %w", err)
	}
	defer rows.Close()

	var stats []StrategyStats
	for rows.Next() {
		var s StrategyStats
		err := rows.Scan(&s.Strategy, &s.TotalSessions, &s.TotalCharacters, &s.SuccessCount, &s.FailureCount, &s.AvgDurationMs)
		if err != nil {
			return nil, fmt.Errorf("failed to scan strategy stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetOverallStats retrieves overall statistics for the last N days
func (db *DB) GetOverallStats(days int) (*OverallStats, error) {
	query := `
		SELECT
			COUNT(*) as total_sessions,
			COALESCE(SUM(character_count), 0) as total_characters,
			COALESCE(SUM(line_count), 0) as total_lines,
			COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0) as success_count,
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) as failure_count,
			COALESCE(SUM(CASE WHEN interrupted = 1 THEN 1 ELSE 0 END), 0) as interrupted_count,
			COALESCE(SUM(CASE WHEN fallback_count > 0 THEN 1 ELSE 0 END), 0) as fallback_sessions,
			COALESCE(AVG(duration_ms), 0) as avg_duration_ms,
			COALESCE(AVG(character_count), 0) as avg_characters
		FROM sessions
		WHERE timestamp >= datetime('now', '-' || ? || ' days')
	`

	var stats OverallStats
	err := db.conn.QueryRow(query, days).Scan(
		&stats.TotalSessions,
		&stats.TotalCharacters,
		&stats.TotalLines,
		&stats.SuccessCount,
		&stats.FailureCount,
		&stats.InterruptedCount,
		&stats.FallbackSessions,
		&stats.AvgDurationMs,
		&stats.AvgCharacters,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}

	return &stats, nil
}
