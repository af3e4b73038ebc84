package db

import (
	"log"
	"time"

	"github.com/scottnuma/student-worksessions/models"
)

// RollUpBookingStats records the per-day booking roll-up for the given date.
// Re-running for the same date overwrites the previous row.
func (Store) RollUpBookingStats(date time.Time) error {
	day := date.Format("2006-01-02")
	_, err := DB.Exec(`
		INSERT INTO booking_stats (date, sessions_held, bookings_made, unique_users)
		SELECT
			$1::date,
			COUNT(DISTINCT ws.id),
			COUNT(b.id),
			COUNT(DISTINCT b.user_id)
		FROM work_sessions ws
		LEFT JOIN bookings b ON b.work_session_id = ws.id
		WHERE ws.start_time::date = $1::date
		ON CONFLICT (date) DO UPDATE SET
			sessions_held = EXCLUDED.sessions_held,
			bookings_made = EXCLUDED.bookings_made,
			unique_users = EXCLUDED.unique_users
	`, day)
	if err != nil {
		log.Printf("Error rolling up booking stats for %s: %v", day, err)
	}
	return err
}

// ListBookingStats returns the most recent daily roll-ups, newest first.
func (Store) ListBookingStats(days int) ([]models.BookingStat, error) {
	rows, err := DB.Query(`
		SELECT date, sessions_held, bookings_made, unique_users
		FROM booking_stats
		ORDER BY date DESC
		LIMIT $1
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.BookingStat
	for rows.Next() {
		var stat models.BookingStat
		var date time.Time
		if err := rows.Scan(
			&date,
			&stat.SessionsHeld,
			&stat.BookingsMade,
			&stat.UniqueUsers,
		); err != nil {
			return nil, err
		}
		stat.Date = date.Format("2006-01-02")
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}
