package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Session records one typing operation with its outcome.
type Session struct {
	ID             int64
	Timestamp      time.Time
	CharacterCount int
	LineCount      int
	Strategy       string
	FallbackCount  int
	DurationMs     int64
	SpeedWPM       int
	Interrupted    bool
	Success        bool
	ErrorMessage   string
}

// SaveSession saves a typing session to the database
func (db *DB) SaveSession(s *Session) error {
	query := `
		INSERT INTO sessions (
			character_count, line_count, strategy, fallback_count,
			duration_ms, speed_wpm, interrupted, success, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.conn.Exec(query,
		s.CharacterCount, s.LineCount, s.Strategy, s.FallbackCount,
		s.DurationMs, s.SpeedWPM, s.Interrupted, s.Success, s.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	s.ID = id
	return nil
}

// GetSessions retrieves sessions with pagination
func (db *DB) GetSessions(limit, offset int) ([]Session, error) {
	query := `
		SELECT
			id, timestamp, character_count, line_count, strategy,
			fallback_count, duration_ms, speed_wpm, interrupted,
			success, error_message
		FROM sessions
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var errorMessage sql.NullString

		err := rows.Scan(
			&s.ID, &s.Timestamp, &s.CharacterCount, &s.LineCount, &s.Strategy,
			&s.FallbackCount, &s.DurationMs, &s.SpeedWPM, &s.Interrupted,
			&s.Success, &errorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		if errorMessage.Valid {
			s.ErrorMessage = errorMessage.String
		}

		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// DeleteSession deletes a session by ID
func (db *DB) DeleteSession(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

// GetSessionCount returns the total number of sessions
func (db *DB) GetSessionCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}
