package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/scottnuma/student-worksessions/models"
)

// validateMasterKey checks if the provided key matches the master key
func validateMasterKey(key string) bool {
	return key != "" && key == os.Getenv("MASTER_API_KEY")
}

// CreateUserHandler creates a new user account (master key only)
func CreateUserHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Validate master key from Authorization header
		authHeader := r.Header.Get("Authorization")
		if !validateMasterKey(authHeader) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Parse request body
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			TeamName string `json:"team_name"`
			IsAdmin  bool   `json:"is_admin"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			http.Error(w, "Email is required", http.StatusBadRequest)
			return
		}

		user, err := store.CreateUser(models.User{
			Email:    strings.ToLower(strings.TrimSpace(req.Email)),
			Name:     req.Name,
			TeamName: req.TeamName,
			IsAdmin:  req.IsAdmin,
		})
		if err != nil {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

// ListUsersHandler lists all users (master key only)
func ListUsersHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !validateMasterKey(authHeader) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		users, err := store.ListUsers()
		if err != nil {
			http.Error(w, "Failed to list users", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users)
	}
}

// DeleteUserHandler deletes a user (master key only)
func DeleteUserHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !validateMasterKey(authHeader) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req struct {
			ID int64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		deleted, err := store.DeleteUser(req.ID)
		if err != nil {
			http.Error(w, "Failed to delete user", http.StatusInternalServerError)
			return
		}
		if !deleted {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
