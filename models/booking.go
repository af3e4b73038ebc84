package models

import "time"

// Booking is a user's reservation against a work session, with free-text
// notes shown to admins on the calendar.
type Booking struct {
	ID            int64     `json:"id"`
	WorkSessionID int64     `json:"work_session_id"`
	UserID        int64     `json:"user_id"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}
