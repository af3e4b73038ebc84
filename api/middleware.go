package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/scottnuma/student-worksessions/models"
)

type contextKey int

const userContextKey contextKey = 0

// CurrentUser returns the authenticated user attached to the request, or nil
// for anonymous callers.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// Authenticate resolves a bearer token from the Authorization header into
// the current user. Missing or invalid tokens leave the request anonymous;
// handlers that require a login check CurrentUser themselves.
func Authenticate(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := store.GetAuthSession(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			user, err := store.GetUserByID(session.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type RateLimiter struct {
	requests map[string]*ClientRequests
	mu       sync.RWMutex
}

type ClientRequests struct {
	count    int
	lastSeen time.Time
}

const (
	maxRequests    = 100             // Maximum requests per window
	windowDuration = time.Minute * 5 // Window duration
)

var limiter = &RateLimiter{
	requests: make(map[string]*ClientRequests),
}

func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Admins bypass rate limiting
		if user := CurrentUser(r); user != nil && user.IsAdmin {
			next.ServeHTTP(w, r)
			return
		}

		// Get client IP
		clientIP := r.RemoteAddr

		limiter.mu.Lock()
		defer limiter.mu.Unlock()

		// Clean up old entries
		now := time.Now()
		for ip, req := range limiter.requests {
			if now.Sub(req.lastSeen) > windowDuration {
				delete(limiter.requests, ip)
			}
		}

		// Get or create client requests
		client, exists := limiter.requests[clientIP]
		if !exists {
			client = &ClientRequests{
				count:    0,
				lastSeen: now,
			}
			limiter.requests[clientIP] = client
		}

		// Check if window has expired
		if now.Sub(client.lastSeen) > windowDuration {
			client.count = 0
			client.lastSeen = now
		}

		// Check rate limit
		if client.count >= maxRequests {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", client.lastSeen.Add(windowDuration).Format(time.RFC3339))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		// Increment request count
		client.count++
		client.lastSeen = now

		// Set rate limit headers
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(maxRequests-client.count))
		w.Header().Set("X-RateLimit-Reset", client.lastSeen.Add(windowDuration).Format(time.RFC3339))

		next.ServeHTTP(w, r)
	})
}
