package api

import (
	"github.com/gorilla/mux"
)

// NewRouter creates and configures a new router with all API endpoints
func NewRouter(store Store, maintainer Maintainer, holidays HolidayCalendar) *mux.Router {
	r := mux.NewRouter()

	// User management endpoints (master key guarded, no rate limiting)
	r.HandleFunc("/api/users", CreateUserHandler(store)).Methods("POST")
	r.HandleFunc("/api/users", ListUsersHandler(store)).Methods("GET")
	r.HandleFunc("/api/users", DeleteUserHandler(store)).Methods("DELETE")

	// Everything else resolves the bearer token and is rate limited
	api := r.PathPrefix("/api").Subrouter()
	api.Use(Authenticate(store))
	api.Use(RateLimit)

	// Auth endpoints
	api.HandleFunc("/auth/login", LoginHandler(store)).Methods("POST")
	api.HandleFunc("/auth/logout", LogoutHandler(store)).Methods("POST")
	api.HandleFunc("/auth/me", MeHandler).Methods("GET")

	// Calendar feed for the front-end widget
	api.HandleFunc("/calendar/feed", GetCalendarFeed(store, holidays)).Methods("GET")

	// Work session endpoints
	api.HandleFunc("/sessions", ListWorkSessionsHandler(store)).Methods("GET")
	api.HandleFunc("/sessions", CreateWorkSessionHandler(store)).Methods("POST")
	api.HandleFunc("/sessions/{id}", GetWorkSessionHandler(store)).Methods("GET")
	api.HandleFunc("/sessions/{id}", UpdateWorkSessionHandler(store)).Methods("PUT")
	api.HandleFunc("/sessions/{id}", DeleteWorkSessionHandler(store)).Methods("DELETE")

	// Booking endpoints
	api.HandleFunc("/sessions/{id}/bookings", CreateBookingHandler(store)).Methods("POST")
	api.HandleFunc("/bookings/{id}", DeleteBookingHandler(store)).Methods("DELETE")

	// Statistics endpoint
	api.HandleFunc("/stats", GetStatsHandler(store, maintainer)).Methods("GET")

	return r
}
