package api

import (
	"time"

	"github.com/scottnuma/student-worksessions/models"
	"github.com/scottnuma/student-worksessions/types"
)

// Store is the persistence surface the handlers need. db.Store implements it.
type Store interface {
	CreateUser(user models.User) (models.User, error)
	ListUsers() ([]models.User, error)
	GetUserByID(id int64) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	DeleteUser(id int64) (bool, error)

	CreateAuthSession(session models.AuthSession) error
	GetAuthSession(token string) (*models.AuthSession, error)
	DeleteAuthSession(token string) error

	CreateWorkSession(ws models.WorkSession) (models.WorkSession, error)
	UpdateWorkSession(ws models.WorkSession) (bool, error)
	DeleteWorkSession(id int64) (bool, error)
	GetWorkSession(id int64) (*models.WorkSession, error)
	ListWorkSessions(from, to time.Time) ([]models.WorkSession, error)

	CreateBooking(booking models.Booking) (models.Booking, error)
	GetBooking(id int64) (*models.Booking, error)
	DeleteBooking(booking models.Booking) error
	CountBookings(sessionID int64) (int, error)
	UserHasBooking(sessionID, userID int64) (bool, error)

	ListBookingStats(days int) ([]models.BookingStat, error)
}

// Maintainer reports background maintenance counters.
type Maintainer interface {
	GetStats() types.MaintenanceStats
}

// HolidayCalendar resolves a date to a public holiday name, or "" when the
// date is an ordinary day.
type HolidayCalendar interface {
	NameOn(t time.Time) string
}

// FeedEntry is one calendar event in the work-session feed.
type FeedEntry struct {
	ID        int64             `json:"id"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Title     string            `json:"title"`
	Color     string            `json:"color,omitempty"`
	TeamNotes map[string]string `json:"team_notes"`
	TeamNames string            `json:"team_names"`
	Holiday   string            `json:"holiday,omitempty"`
}

// WorkSessionSummary is the public (non-admin) view of a slot.
type WorkSessionSummary struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
	Capacity int       `json:"capacity"`
	Booked   int       `json:"booked"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type StatsResponse struct {
	Maintenance types.MaintenanceStats `json:"maintenance"`
	Daily       []models.BookingStat   `json:"daily"`
}
