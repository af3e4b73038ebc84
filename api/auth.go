package api

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scottnuma/student-worksessions/models"
)

const defaultSessionTTLHours = 720

// sessionTTL reads AUTH_SESSION_TTL_HOURS, defaulting to 30 days.
func sessionTTL() time.Duration {
	ttlHours := defaultSessionTTLHours
	if raw := os.Getenv("AUTH_SESSION_TTL_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ttlHours = parsed
		}
	}
	return time.Duration(ttlHours) * time.Hour
}

// LoginHandler issues a bearer token for a known email address. There is no
// password; account creation is master-key guarded and identity checking is
// delegated to the deployment (e.g. a reverse proxy).
func LoginHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		user, err := store.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
		if err == sql.ErrNoRows {
			http.Error(w, "Unknown email", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		session := models.AuthSession{
			Token:     uuid.NewString(),
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(sessionTTL()),
		}
		if err := store.CreateAuthSession(session); err != nil {
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		log.Printf("User %d logged in", user.ID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LoginResponse{
			Token:     session.Token,
			User:      *user,
			ExpiresAt: session.ExpiresAt,
		})
	}
}

// LogoutHandler revokes the presented token.
func LogoutHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if err := store.DeleteAuthSession(token); err != nil {
			http.Error(w, "Failed to revoke session", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MeHandler returns the authenticated user.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
