package models

import "time"

// User is a student or admin account. Students are grouped into teams by
// the free-text team_name attribute.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	TeamName  string    `json:"team_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
