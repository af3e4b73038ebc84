package models

// BookingStat is one day's roll-up of scheduling activity.
type BookingStat struct {
	Date         string `json:"date"`
	SessionsHeld int    `json:"sessions_held"`
	BookingsMade int    `json:"bookings_made"`
	UniqueUsers  int    `json:"unique_users"`
}
