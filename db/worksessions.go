package db

import (
	"log"
	"time"

	"github.com/scottnuma/student-worksessions/models"
)

// CreateWorkSession inserts a new work session and returns it with the
// generated id.
func (Store) CreateWorkSession(ws models.WorkSession) (models.WorkSession, error) {
	query := `INSERT INTO work_sessions (start_time, end_time, location, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := DB.QueryRow(query, ws.StartTime, ws.EndTime, ws.Location, ws.Capacity).
		Scan(&ws.ID, &ws.CreatedAt)
	if err != nil {
		log.Printf("Error creating work session: %v", err)
		return models.WorkSession{}, err
	}
	log.Printf("Work session %d created (%s - %s)", ws.ID,
		ws.StartTime.Format(time.RFC3339), ws.EndTime.Format(time.RFC3339))
	return ws, nil
}

func (Store) UpdateWorkSession(ws models.WorkSession) (bool, error) {
	result, err := DB.Exec(`
		UPDATE work_sessions
		SET start_time = $1, end_time = $2, location = $3, capacity = $4
		WHERE id = $5
	`, ws.StartTime, ws.EndTime, ws.Location, ws.Capacity, ws.ID)
	if err != nil {
		log.Printf("Error updating work session %d: %v", ws.ID, err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (Store) DeleteWorkSession(id int64) (bool, error) {
	result, err := DB.Exec(`DELETE FROM work_sessions WHERE id = $1`, id)
	if err != nil {
		log.Printf("Error deleting work session %d: %v", id, err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetWorkSession loads a single work session with its attendees and bookings.
func (s Store) GetWorkSession(id int64) (*models.WorkSession, error) {
	ws := &models.WorkSession{}
	err := DB.QueryRow(`
		SELECT id, start_time, end_time, location, capacity, created_at
		FROM work_sessions WHERE id = $1
	`, id).Scan(
		&ws.ID,
		&ws.StartTime,
		&ws.EndTime,
		&ws.Location,
		&ws.Capacity,
		&ws.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := s.loadAssociations(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// ListWorkSessions returns sessions overlapping [from, to) ordered by start
// time, each with attendees and bookings loaded.
func (s Store) ListWorkSessions(from, to time.Time) ([]models.WorkSession, error) {
	rows, err := DB.Query(`
		SELECT id, start_time, end_time, location, capacity, created_at
		FROM work_sessions
		WHERE end_time > $1 AND start_time < $2
		ORDER BY start_time
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.WorkSession
	for rows.Next() {
		var ws models.WorkSession
		if err := rows.Scan(
			&ws.ID,
			&ws.StartTime,
			&ws.EndTime,
			&ws.Location,
			&ws.Capacity,
			&ws.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		if err := s.loadAssociations(&sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// loadAssociations fills Users (join-row order) and Bookings (creation order)
// for a work session.
func (Store) loadAssociations(ws *models.WorkSession) error {
	rows, err := DB.Query(`
		SELECT u.id, u.email, u.name, u.team_name, u.is_admin, u.created_at
		FROM users u
		JOIN session_attendees sa ON sa.user_id = u.id
		WHERE sa.work_session_id = $1
		ORDER BY sa.id
	`, ws.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.TeamName,
			&user.IsAdmin,
			&user.CreatedAt,
		); err != nil {
			return err
		}
		ws.Users = append(ws.Users, user)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	bookingRows, err := DB.Query(`
		SELECT id, work_session_id, user_id, notes, created_at
		FROM bookings
		WHERE work_session_id = $1
		ORDER BY created_at, id
	`, ws.ID)
	if err != nil {
		return err
	}
	defer bookingRows.Close()

	for bookingRows.Next() {
		var booking models.Booking
		if err := bookingRows.Scan(
			&booking.ID,
			&booking.WorkSessionID,
			&booking.UserID,
			&booking.Notes,
			&booking.CreatedAt,
		); err != nil {
			return err
		}
		ws.Bookings = append(ws.Bookings, booking)
	}
	return bookingRows.Err()
}
