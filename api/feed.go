package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/scottnuma/student-worksessions/models"
)

// sessionHighlightColor marks slots that already have attendees on the
// calendar widget.
const sessionHighlightColor = "#B5E61D"

// BuildFeed serializes work sessions into calendar feed entries. Only admin
// viewers get populated entries; everyone else gets an empty array.
//
// Team notes are keyed by team_name, so two attendees sharing a team_name
// overwrite each other's note in the output map.
func BuildFeed(sessions []models.WorkSession, admin bool) []FeedEntry {
	entries := make([]FeedEntry, 0, len(sessions))
	if !admin {
		return entries
	}

	for _, ws := range sessions {
		entry := FeedEntry{
			ID:        ws.ID,
			Start:     ws.StartTime,
			End:       ws.EndTime,
			Title:     strconv.Itoa(len(ws.Users)),
			TeamNotes: make(map[string]string),
		}
		if len(ws.Users) > 0 {
			entry.Color = sessionHighlightColor
		}

		names := make([]string, 0, len(ws.Users))
		for _, user := range ws.Users {
			names = append(names, user.TeamName)
			if note, ok := latestNote(ws.Bookings, user.ID); ok {
				entry.TeamNotes[user.TeamName] = note
			}
		}
		entry.TeamNames = strings.Join(names, ", ")

		entries = append(entries, entry)
	}
	return entries
}

// latestNote returns the note from the user's most recent booking in the
// slice. Later entries win ties so creation order acts as a tiebreaker.
func latestNote(bookings []models.Booking, userID int64) (string, bool) {
	var note string
	var latest time.Time
	found := false
	for _, booking := range bookings {
		if booking.UserID != userID {
			continue
		}
		if !found || !booking.CreatedAt.Before(latest) {
			note = booking.Notes
			latest = booking.CreatedAt
			found = true
		}
	}
	return note, found
}

// GetCalendarFeed serves the JSON feed consumed by the calendar front-end.
// Anonymous and non-admin callers receive an empty array rather than an
// error, matching what the widget expects.
func GetCalendarFeed(store Store, holidays HolidayCalendar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := feedWindow(r)
		if err != nil {
			http.Error(w, "Invalid time range", http.StatusBadRequest)
			return
		}

		sessions, err := store.ListWorkSessions(from, to)
		if err != nil {
			log.Printf("Error listing work sessions for feed: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		user := CurrentUser(r)
		entries := BuildFeed(sessions, user != nil && user.IsAdmin)

		if holidays != nil {
			for i := range entries {
				entries[i].Holiday = holidays.NameOn(entries[i].Start)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

// feedWindow parses the optional from/to query parameters. The default
// window covers the recent past and the upcoming half year.
func feedWindow(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now.AddDate(0, 6, 0)

	query := r.URL.Query()
	if raw := query.Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := query.Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}
