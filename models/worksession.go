package models

import "time"

// WorkSession is a bookable time slot. Users and Bookings are loaded by the
// db package in association order (the order attendees joined the slot).
type WorkSession struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location,omitempty"`
	Capacity  int       `json:"capacity"` // 0 means unlimited
	CreatedAt time.Time `json:"created_at"`
	Users     []User    `json:"users,omitempty"`
	Bookings  []Booking `json:"bookings,omitempty"`
}
