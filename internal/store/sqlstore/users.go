package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cloakchat/internal/domain"
	"cloakchat/internal/models"
)

const userColumns = "id, username, email, password_hash, display_name, COALESCE(avatar, ''), is_online, last_seen, created_at"

func (s *SQLStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.LastSeen = now

	query := s.rebind(`
		INSERT INTO users (id, username, email, password_hash, display_name, avatar, is_online, last_seen, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.DisplayName, user.Avatar, user.IsOnline, user.LastSeen, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdentity
		}
		return storageErr(err)
	}
	return nil
}

func (s *SQLStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "username", username)
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *SQLStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	query := s.rebind("SELECT " + userColumns + " FROM users WHERE " + column + " = ?")

	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.Avatar, &user.IsOnline, &user.LastSeen, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr(err)
	}
	return &user, nil
}

func (s *SQLStore) SearchUsers(ctx context.Context, queryStr, excludeUserID string) ([]models.User, error) {
	query := s.rebind(`
		SELECT ` + userColumns + `
		FROM users
		WHERE (username LIKE ? OR email LIKE ? OR display_name LIKE ?)
		AND id != ?
		LIMIT 20
	`)
	pattern := "%" + queryStr + "%"
	rows, err := s.db.QueryContext(ctx, query, pattern, pattern, pattern, excludeUserID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.DisplayName, &user.Avatar, &user.IsOnline, &user.LastSeen, &user.CreatedAt); err != nil {
			return nil, storageErr(err)
		}
		user.PasswordHash = ""
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *SQLStore) UpdateOnlineStatus(ctx context.Context, userID string, online bool) error {
	query := s.rebind("UPDATE users SET is_online = ?, last_seen = ? WHERE id = ?")
	_, err := s.db.ExecContext(ctx, query, online, time.Now().UTC(), userID)
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *SQLStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := s.rebind("UPDATE users SET password_hash = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return storageErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SQLStore) UpdateProfile(ctx context.Context, userID, displayName, email string) error {
	query := s.rebind("UPDATE users SET display_name = ?, email = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, displayName, email, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdentity
		}
		return storageErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
