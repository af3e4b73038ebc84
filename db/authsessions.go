package db

import (
	"log"
	"time"

	"github.com/scottnuma/student-worksessions/models"
)

// CreateAuthSession creates a new login session entry.
func (Store) CreateAuthSession(session models.AuthSession) error {
	query := `INSERT INTO auth_sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := DB.Exec(query, session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		log.Printf("Error creating auth session for user %d: %v", session.UserID, err)
		return err
	}
	log.Printf("Auth session created for user %d", session.UserID)
	return nil
}

// GetAuthSession looks up an unexpired session by token.
func (Store) GetAuthSession(token string) (*models.AuthSession, error) {
	session := &models.AuthSession{}
	err := DB.QueryRow(`
		SELECT token, user_id, created_at, expires_at
		FROM auth_sessions
		WHERE token = $1 AND expires_at > NOW()
	`, token).Scan(
		&session.Token,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteAuthSession revokes a login session.
func (Store) DeleteAuthSession(token string) error {
	_, err := DB.Exec(`DELETE FROM auth_sessions WHERE token = $1`, token)
	if err != nil {
		log.Printf("Error deleting auth session: %v", err)
	}
	return err
}

// PurgeExpiredAuthSessions removes sessions past their expiry and returns
// how many were deleted.
func (Store) PurgeExpiredAuthSessions(now time.Time) (int64, error) {
	result, err := DB.Exec(`DELETE FROM auth_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		log.Printf("Error purging expired auth sessions: %v", err)
		return 0, err
	}
	return result.RowsAffected()
}
