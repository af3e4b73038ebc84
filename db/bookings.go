package db

import (
	"log"

	"github.com/scottnuma/student-worksessions/models"
)

// CreateBooking inserts a booking and ensures the user appears in the
// session's attendee list. Both writes happen in one transaction.
func (Store) CreateBooking(booking models.Booking) (models.Booking, error) {
	tx, err := DB.Begin()
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO bookings (work_session_id, user_id, notes)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, booking.WorkSessionID, booking.UserID, booking.Notes).
		Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		log.Printf("Error creating booking for user %d on session %d: %v",
			booking.UserID, booking.WorkSessionID, err)
		return models.Booking{}, err
	}

	_, err = tx.Exec(`
		INSERT INTO session_attendees (work_session_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (work_session_id, user_id) DO NOTHING
	`, booking.WorkSessionID, booking.UserID)
	if err != nil {
		log.Printf("Error adding attendee %d to session %d: %v",
			booking.UserID, booking.WorkSessionID, err)
		return models.Booking{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	log.Printf("Booking %d created for user %d on session %d",
		booking.ID, booking.UserID, booking.WorkSessionID)
	return booking, nil
}

func (Store) GetBooking(id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	err := DB.QueryRow(`
		SELECT id, work_session_id, user_id, notes, created_at
		FROM bookings WHERE id = $1
	`, id).Scan(
		&booking.ID,
		&booking.WorkSessionID,
		&booking.UserID,
		&booking.Notes,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// DeleteBooking removes a booking and, when it was the user's last booking
// for that session, the attendee row too.
func (Store) DeleteBooking(booking models.Booking) error {
	tx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM bookings WHERE id = $1`, booking.ID); err != nil {
		log.Printf("Error deleting booking %d: %v", booking.ID, err)
		return err
	}

	var remaining int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM bookings
		WHERE work_session_id = $1 AND user_id = $2
	`, booking.WorkSessionID, booking.UserID).Scan(&remaining)
	if err != nil {
		return err
	}
	if remaining == 0 {
		_, err = tx.Exec(`
			DELETE FROM session_attendees
			WHERE work_session_id = $1 AND user_id = $2
		`, booking.WorkSessionID, booking.UserID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (Store) CountBookings(sessionID int64) (int, error) {
	var count int
	err := DB.QueryRow(`
		SELECT COUNT(*) FROM bookings WHERE work_session_id = $1
	`, sessionID).Scan(&count)
	return count, err
}

func (Store) UserHasBooking(sessionID, userID int64) (bool, error) {
	var exists bool
	err := DB.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE work_session_id = $1 AND user_id = $2
		)
	`, sessionID, userID).Scan(&exists)
	return exists, err
}
