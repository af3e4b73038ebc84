package db

import (
	"log"

	"github.com/scottnuma/student-worksessions/models"
)

// CreateUser inserts a new user and returns it with the generated id.
func (Store) CreateUser(user models.User) (models.User, error) {
	query := `INSERT INTO users (email, name, team_name, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := DB.QueryRow(query, user.Email, user.Name, user.TeamName, user.IsAdmin).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		log.Printf("Error creating user %s: %v", user.Email, err)
		return models.User{}, err
	}
	return user, nil
}

func (Store) ListUsers() ([]models.User, error) {
	rows, err := DB.Query(`
		SELECT id, email, name, team_name, is_admin, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Name,
			&user.TeamName,
			&user.IsAdmin,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (Store) GetUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	err := DB.QueryRow(`
		SELECT id, email, name, team_name, is_admin, created_at
		FROM users WHERE id = $1
	`, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.TeamName,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (Store) GetUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	err := DB.QueryRow(`
		SELECT id, email, name, team_name, is_admin, created_at
		FROM users WHERE email = $1
	`, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.TeamName,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Bookings, attendee rows and auth sessions go
// with it via ON DELETE CASCADE.
func (Store) DeleteUser(id int64) (bool, error) {
	result, err := DB.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Printf("Error deleting user %d: %v", id, err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
