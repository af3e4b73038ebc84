package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/scottnuma/student-worksessions/models"
)

func pathID(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["id"], 10, 64)
}

// requireAdmin returns the current user when it is an admin, writing the
// appropriate error response otherwise.
func requireAdmin(w http.ResponseWriter, r *http.Request) *models.User {
	user := CurrentUser(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	if !user.IsAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil
	}
	return user
}

// ListWorkSessionsHandler returns upcoming slots with booked counts. Open to
// any caller so students can see what is available.
func ListWorkSessionsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := feedWindow(r)
		if err != nil {
			http.Error(w, "Invalid time range", http.StatusBadRequest)
			return
		}

		sessions, err := store.ListWorkSessions(from, to)
		if err != nil {
			log.Printf("Error listing work sessions: %v", err)
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		summaries := make([]WorkSessionSummary, 0, len(sessions))
		for _, ws := range sessions {
			summaries = append(summaries, WorkSessionSummary{
				ID:       ws.ID,
				Start:    ws.StartTime,
				End:      ws.EndTime,
				Location: ws.Location,
				Capacity: ws.Capacity,
				Booked:   len(ws.Bookings),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summaries)
	}
}

// GetWorkSessionHandler returns a slot with attendees and booking notes
// (admin only).
func GetWorkSessionHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireAdmin(w, r) == nil {
			return
		}

		id, err := pathID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}

		ws, err := store.GetWorkSession(id)
		if err == sql.ErrNoRows {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ws)
	}
}

type workSessionRequest struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location"`
	Capacity int       `json:"capacity"`
}

func (req workSessionRequest) validate() string {
	if req.Start.IsZero() || req.End.IsZero() {
		return "Start and end are required"
	}
	if !req.End.After(req.Start) {
		return "End must be after start"
	}
	if req.Capacity < 0 {
		return "Capacity must not be negative"
	}
	return ""
}

// CreateWorkSessionHandler creates a bookable slot (admin only).
func CreateWorkSessionHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireAdmin(w, r) == nil {
			return
		}

		var req workSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		ws, err := store.CreateWorkSession(models.WorkSession{
			StartTime: req.Start,
			EndTime:   req.End,
			Location:  req.Location,
			Capacity:  req.Capacity,
		})
		if err != nil {
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ws)
	}
}

// UpdateWorkSessionHandler updates a slot's times, location and capacity
// (admin only).
func UpdateWorkSessionHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireAdmin(w, r) == nil {
			return
		}

		id, err := pathID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}

		var req workSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		updated, err := store.UpdateWorkSession(models.WorkSession{
			ID:        id,
			StartTime: req.Start,
			EndTime:   req.End,
			Location:  req.Location,
			Capacity:  req.Capacity,
		})
		if err != nil {
			http.Error(w, "Failed to update session", http.StatusInternalServerError)
			return
		}
		if !updated {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteWorkSessionHandler deletes a slot and its bookings (admin only).
func DeleteWorkSessionHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireAdmin(w, r) == nil {
			return
		}

		id, err := pathID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}

		deleted, err := store.DeleteWorkSession(id)
		if err != nil {
			http.Error(w, "Failed to delete session", http.StatusInternalServerError)
			return
		}
		if !deleted {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// CreateBookingHandler books the authenticated user into a slot.
func CreateBookingHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		sessionID, err := pathID(r)
		if err != nil {
			http.Error(w, "Invalid session id", http.StatusBadRequest)
			return
		}

		var req struct {
			Notes string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ws, err := store.GetWorkSession(sessionID)
		if err == sql.ErrNoRows {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		booked, err := store.UserHasBooking(sessionID, user.ID)
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if booked {
			http.Error(w, "Already booked", http.StatusConflict)
			return
		}

		if ws.Capacity > 0 {
			count, err := store.CountBookings(sessionID)
			if err != nil {
				http.Error(w, "Database error", http.StatusInternalServerError)
				return
			}
			if count >= ws.Capacity {
				http.Error(w, "Session is full", http.StatusConflict)
				return
			}
		}

		booking, err := store.CreateBooking(models.Booking{
			WorkSessionID: sessionID,
			UserID:        user.ID,
			Notes:         req.Notes,
		})
		if err != nil {
			http.Error(w, "Failed to create booking", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(booking)
	}
}

// DeleteBookingHandler cancels a booking. Students can only cancel their
// own; admins can cancel any.
func DeleteBookingHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := pathID(r)
		if err != nil {
			http.Error(w, "Invalid booking id", http.StatusBadRequest)
			return
		}

		booking, err := store.GetBooking(id)
		if err == sql.ErrNoRows {
			http.Error(w, "Booking not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		if booking.UserID != user.ID && !user.IsAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if err := store.DeleteBooking(*booking); err != nil {
			http.Error(w, "Failed to delete booking", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetStatsHandler reports maintenance counters and daily booking roll-ups
// (admin only).
func GetStatsHandler(store Store, maintainer Maintainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireAdmin(w, r) == nil {
			return
		}

		days := 30
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				http.Error(w, "Invalid days parameter", http.StatusBadRequest)
				return
			}
			days = parsed
		}

		daily, err := store.ListBookingStats(days)
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		resp := StatsResponse{Daily: daily}
		if maintainer != nil {
			resp.Maintenance = maintainer.GetStats()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
