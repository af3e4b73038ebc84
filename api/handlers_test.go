package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottnuma/student-worksessions/models"
)

// mockStore is an in-memory Store for handler tests.
type mockStore struct {
	users    map[int64]models.User
	tokens   map[string]models.AuthSession
	sessions map[int64]models.WorkSession
	bookings []models.Booking
	stats    []models.BookingStat
	nextID   int64
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[int64]models.User),
		tokens:   make(map[string]models.AuthSession),
		sessions: make(map[int64]models.WorkSession),
		nextID:   1,
	}
}

func (m *mockStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *mockStore) CreateUser(user models.User) (models.User, error) {
	user.ID = m.id()
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *mockStore) ListUsers() ([]models.User, error) {
	var users []models.User
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *mockStore) GetUserByID(id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (m *mockStore) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) DeleteUser(id int64) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

func (m *mockStore) CreateAuthSession(session models.AuthSession) error {
	m.tokens[session.Token] = session
	return nil
}

func (m *mockStore) GetAuthSession(token string) (*models.AuthSession, error) {
	session, ok := m.tokens[token]
	if !ok || session.ExpiresAt.Before(time.Now()) {
		return nil, sql.ErrNoRows
	}
	return &session, nil
}

func (m *mockStore) DeleteAuthSession(token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *mockStore) CreateWorkSession(ws models.WorkSession) (models.WorkSession, error) {
	ws.ID = m.id()
	ws.CreatedAt = time.Now()
	m.sessions[ws.ID] = ws
	return ws, nil
}

func (m *mockStore) UpdateWorkSession(ws models.WorkSession) (bool, error) {
	existing, ok := m.sessions[ws.ID]
	if !ok {
		return false, nil
	}
	ws.CreatedAt = existing.CreatedAt
	m.sessions[ws.ID] = ws
	return true, nil
}

func (m *mockStore) DeleteWorkSession(id int64) (bool, error) {
	if _, ok := m.sessions[id]; !ok {
		return false, nil
	}
	delete(m.sessions, id)
	return true, nil
}

func (m *mockStore) GetWorkSession(id int64) (*models.WorkSession, error) {
	ws, ok := m.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	m.loadAssociations(&ws)
	return &ws, nil
}

func (m *mockStore) ListWorkSessions(from, to time.Time) ([]models.WorkSession, error) {
	var sessions []models.WorkSession
	for _, ws := range m.sessions {
		if ws.EndTime.After(from) && ws.StartTime.Before(to) {
			m.loadAssociations(&ws)
			sessions = append(sessions, ws)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})
	return sessions, nil
}

// loadAssociations mirrors the real store: attendees in the order they first
// booked, bookings in creation order.
func (m *mockStore) loadAssociations(ws *models.WorkSession) {
	ws.Users = nil
	ws.Bookings = nil
	seen := make(map[int64]bool)
	for _, booking := range m.bookings {
		if booking.WorkSessionID != ws.ID {
			continue
		}
		ws.Bookings = append(ws.Bookings, booking)
		if !seen[booking.UserID] {
			seen[booking.UserID] = true
			ws.Users = append(ws.Users, m.users[booking.UserID])
		}
	}
}

func (m *mockStore) CreateBooking(booking models.Booking) (models.Booking, error) {
	booking.ID = m.id()
	booking.CreatedAt = time.Now()
	m.bookings = append(m.bookings, booking)
	return booking, nil
}

func (m *mockStore) GetBooking(id int64) (*models.Booking, error) {
	for _, booking := range m.bookings {
		if booking.ID == id {
			b := booking
			return &b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) DeleteBooking(booking models.Booking) error {
	for i, b := range m.bookings {
		if b.ID == booking.ID {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockStore) CountBookings(sessionID int64) (int, error) {
	count := 0
	for _, booking := range m.bookings {
		if booking.WorkSessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (m *mockStore) UserHasBooking(sessionID, userID int64) (bool, error) {
	for _, booking := range m.bookings {
		if booking.WorkSessionID == sessionID && booking.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) ListBookingStats(days int) ([]models.BookingStat, error) {
	return m.stats, nil
}

// testEnv is a router plus seeded users and tokens.
type testEnv struct {
	store  *mockStore
	router http.Handler
	admin  models.User
	alice  models.User
	bob    models.User
}

const (
	adminToken = "admin-token"
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMockStore()

	admin, err := store.CreateUser(models.User{Email: "staff@example.edu", Name: "Staff", IsAdmin: true})
	require.NoError(t, err)
	alice, err := store.CreateUser(models.User{Email: "alice@example.edu", Name: "Alice", TeamName: "robotics"})
	require.NoError(t, err)
	bob, err := store.CreateUser(models.User{Email: "bob@example.edu", Name: "Bob", TeamName: "chess"})
	require.NoError(t, err)

	expires := time.Now().Add(time.Hour)
	for token, userID := range map[string]int64{
		adminToken: admin.ID,
		aliceToken: alice.ID,
		bobToken:   bob.ID,
	} {
		require.NoError(t, store.CreateAuthSession(models.AuthSession{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expires,
		}))
	}

	return &testEnv{
		store:  store,
		router: NewRouter(store, nil, nil),
		admin:  admin,
		alice:  alice,
		bob:    bob,
	}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func (env *testEnv) addSession(t *testing.T, start time.Time, capacity int) models.WorkSession {
	t.Helper()
	ws, err := env.store.CreateWorkSession(models.WorkSession{
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Capacity:  capacity,
	})
	require.NoError(t, err)
	return ws
}

func TestCalendarFeed_AnonymousGetsEmptyArray(t *testing.T) {
	env := newTestEnv(t)
	env.addSession(t, time.Now().Add(24*time.Hour), 0)

	rr := env.do(t, "GET", "/api/calendar/feed", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestCalendarFeed_NonAdminGetsEmptyArray(t *testing.T) {
	env := newTestEnv(t)
	env.addSession(t, time.Now().Add(24*time.Hour), 0)

	rr := env.do(t, "GET", "/api/calendar/feed", aliceToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestCalendarFeed_AdminSeesEntries(t *testing.T) {
	env := newTestEnv(t)
	ws := env.addSession(t, time.Now().Add(24*time.Hour), 0)

	rr := env.do(t, "POST", fmt.Sprintf("/api/sessions/%d/bookings", ws.ID), aliceToken,
		map[string]string{"notes": "need help with lab 3"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, "GET", "/api/calendar/feed", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []FeedEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, ws.ID, entries[0].ID)
	assert.Equal(t, "1", entries[0].Title)
	assert.Equal(t, sessionHighlightColor, entries[0].Color)
	assert.Equal(t, "robotics", entries[0].TeamNames)
	assert.Equal(t, map[string]string{"robotics": "need help with lab 3"}, entries[0].TeamNotes)
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/auth/login", "", map[string]string{"email": "alice@example.edu"})
	require.Equal(t, http.StatusOK, rr.Code)

	var login LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, env.alice.ID, login.User.ID)

	rr = env.do(t, "GET", "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, env.alice.Email, me.Email)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/auth/login", "", map[string]string{"email": "nobody@example.edu"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/auth/logout", aliceToken, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = env.do(t, "GET", "/api/auth/me", aliceToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateWorkSession_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]interface{}{
		"start":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"end":      time.Now().Add(26 * time.Hour).Format(time.RFC3339),
		"location": "Cory 540",
		"capacity": 8,
	}

	rr := env.do(t, "POST", "/api/sessions", "", body)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, "POST", "/api/sessions", aliceToken, body)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, "POST", "/api/sessions", adminToken, body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var ws models.WorkSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ws))
	assert.Equal(t, "Cory 540", ws.Location)
	assert.Equal(t, 8, ws.Capacity)
}

func TestCreateWorkSession_RejectsBackwardsRange(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(24 * time.Hour)

	rr := env.do(t, "POST", "/api/sessions", adminToken, map[string]interface{}{
		"start": start.Format(time.RFC3339),
		"end":   start.Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListWorkSessions_ShowsBookedCounts(t *testing.T) {
	env := newTestEnv(t)
	ws := env.addSession(t, time.Now().Add(24*time.Hour), 4)

	rr := env.do(t, "POST", fmt.Sprintf("/api/sessions/%d/bookings", ws.ID), aliceToken,
		map[string]string{})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, "GET", "/api/sessions", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var summaries []WorkSessionSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Booked)
	assert.Equal(t, 4, summaries[0].Capacity)
}

func TestGetWorkSession_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ws := env.addSession(t, time.Now().Add(24*time.Hour), 0)

	rr := env.do(t, "GET", fmt.Sprintf("/api/sessions/%d", ws.ID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, "GET", fmt.Sprintf("/api/sessions/%d", ws.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetWorkSession_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/sessions/9999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateBooking_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	ws := env.addSession(t, time.Now().Add(24*time.Hour), 0)

	rr := env.do(t, "POST", fmt.Sprintf("/api/sessions/%d/bookings", ws.ID), "",
		map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateBooking_DuplicateRejected(t *testing.T) {
	env := newTestEnv(t)
	ws := env.addSession(t, time.Now().Add(24*time.Hour), 0)
	path := fmt.Sprintf("/api/sessions/%d/bookings", ws.ID)

	rr := env.do(t, "POST", path, aliceToken, map[string]string{})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, "POST", path, aliceToken, map[string]string{})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreateBooking_CapacityEnforced(t *testing.T) {
	env := newTestEnv(t)
	ws := env.addSession(t, time.Now().Add(24*time.Hour), 1)
	path := fmt.Sprintf("/api/sessions/%d/bookings", ws.ID)

	rr := env.do(t, "POST", path, aliceToken, map[string]string{})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, "POST", path, bobToken, map[string]string{})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreateBooking_UnknownSession(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/sessions/9999/bookings", aliceToken, map[string]string{})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteBooking_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	ws := env.addSession(t, time.Now().Add(24*time.Hour), 0)

	rr := env.do(t, "POST", fmt.Sprintf("/api/sessions/%d/bookings", ws.ID), aliceToken,
		map[string]string{})
	require.Equal(t, http.StatusCreated, rr.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &booking))

	rr = env.do(t, "DELETE", fmt.Sprintf("/api/bookings/%d", booking.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, "DELETE", fmt.Sprintf("/api/bookings/%d", booking.ID), aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDeleteBooking_AdminCanCancelAny(t *testing.T) {
	env := newTestEnv(t)
	ws := env.addSession(t, time.Now().Add(24*time.Hour), 0)

	rr := env.do(t, "POST", fmt.Sprintf("/api/sessions/%d/bookings", ws.ID), aliceToken,
		map[string]string{})
	require.Equal(t, http.StatusCreated, rr.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &booking))

	rr = env.do(t, "DELETE", fmt.Sprintf("/api/bookings/%d", booking.ID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestUserEndpoints_RequireMasterKey(t *testing.T) {
	t.Setenv("MASTER_API_KEY", "super-secret")
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest("POST", "/api/users",
		bytes.NewReader([]byte(`{"email":"carol@example.edu","name":"Carol","team_name":"debate"}`)))
	req.Header.Set("Authorization", "super-secret")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &user))
	assert.Equal(t, "carol@example.edu", user.Email)
	assert.False(t, user.IsAdmin)
}

func TestStats_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.store.stats = []models.BookingStat{
		{Date: "2026-08-29", SessionsHeld: 2, BookingsMade: 5, UniqueUsers: 4},
	}

	rr := env.do(t, "GET", "/api/stats", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, "GET", "/api/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Daily, 1)
	assert.Equal(t, 5, resp.Daily[0].BookingsMade)
}
