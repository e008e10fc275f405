package sqlstore

import (
	"context"
	"time"

	"cloakchat/internal/domain"
	"cloakchat/internal/models"
)

// CreateFriendship stores the unordered pair in normalized order so
// the UNIQUE (user_a, user_b) constraint deduplicates regardless of
// which side initiated. Requests are auto-accepted.
func (s *SQLStore) CreateFriendship(ctx context.Context, userID, friendID string) (*models.Friendship, error) {
	if userID == friendID {
		return nil, domain.ErrSelfReference
	}

	a, b := userID, friendID
	if a > b {
		a, b = b, a
	}

	f := &models.Friendship{
		ID:        newID(),
		UserID:    a,
		FriendID:  b,
		Status:    models.FriendshipAccepted,
		CreatedAt: time.Now().UTC(),
	}

	query := s.rebind(`
		INSERT INTO friendships (id, user_a, user_b, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query, f.ID, f.UserID, f.FriendID, f.Status, f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, storageErr(err)
	}
	return f, nil
}

// GetFriends is symmetric: the user may sit on either side of the
// stored pair.
func (s *SQLStore) GetFriends(ctx context.Context, userID string) ([]models.User, error) {
	query := s.rebind(`
		SELECT u.id, u.username, u.email, u.display_name, COALESCE(u.avatar, ''), u.is_online, u.last_seen
		FROM users u
		INNER JOIN friendships f ON (
			(f.user_a = ? AND f.user_b = u.id) OR
			(f.user_b = ? AND f.user_a = u.id)
		)
		WHERE f.status = ? AND u.id != ?
	`)
	rows, err := s.db.QueryContext(ctx, query, userID, userID, models.FriendshipAccepted, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var friends []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.Avatar, &u.IsOnline, &u.LastSeen); err != nil {
			return nil, storageErr(err)
		}
		friends = append(friends, u)
	}
	return friends, rows.Err()
}
