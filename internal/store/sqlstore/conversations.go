package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cloakchat/internal/domain"
	"cloakchat/internal/models"
)

// FindOrCreatePrivate returns the private conversation for the
// unordered pair, creating it on first contact. Idempotent: the UNIQUE
// pair_key constraint resolves a concurrent create race to whichever
// insert won, and the loser re-reads the existing row.
func (s *SQLStore) FindOrCreatePrivate(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	if userA == userB {
		return nil, domain.ErrSelfReference
	}
	key := pairKey(userA, userB)

	if conv, err := s.getPrivateByPairKey(ctx, key); err == nil {
		return conv, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	conv, err := s.createPrivate(ctx, key, userA, userB)
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Lost the race; the winner's row is the conversation.
		return s.getPrivateByPairKey(ctx, key)
	}
	return nil, err
}

func (s *SQLStore) getPrivateByPairKey(ctx context.Context, key string) (*models.Conversation, error) {
	var conv models.Conversation
	var name sql.NullString
	query := s.rebind("SELECT id, kind, name, created_at, updated_at FROM conversations WHERE pair_key = ?")
	err := s.db.QueryRowContext(ctx, query, key).Scan(&conv.ID, &conv.Kind, &name, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr(err)
	}
	conv.Name = name.String
	return &conv, nil
}

func (s *SQLStore) createPrivate(ctx context.Context, key, userA, userB string) (*models.Conversation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr(err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        newID(),
		Kind:      models.ConversationPrivate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := s.rebind(`
		INSERT INTO conversations (id, kind, pair_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := tx.ExecContext(ctx, query, conv.ID, conv.Kind, key, conv.CreatedAt, conv.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, storageErr(err)
	}

	// The initiator becomes admin, mirroring who created the thread.
	insert := s.rebind(`
		INSERT INTO participants (id, conversation_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := tx.ExecContext(ctx, insert, newID(), conv.ID, userA, models.RoleAdmin, now); err != nil {
		return nil, storageErr(err)
	}
	if _, err := tx.ExecContext(ctx, insert, newID(), conv.ID, userB, models.RoleMember, now); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, storageErr(err)
	}
	return conv, nil
}

func (s *SQLStore) AddParticipant(ctx context.Context, conversationID, userID, role string) error {
	query := s.rebind(`
		INSERT INTO participants (id, conversation_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query, newID(), conversationID, userID, role, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return storageErr(err)
	}
	return nil
}

func (s *SQLStore) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM participants WHERE conversation_id = ? AND user_id = ?)")
	err := s.db.QueryRowContext(ctx, query, conversationID, userID).Scan(&exists)
	if err != nil {
		return false, storageErr(err)
	}
	return exists, nil
}

func (s *SQLStore) GetParticipants(ctx context.Context, conversationID string) ([]models.Participant, error) {
	query := s.rebind(`
		SELECT id, conversation_id, user_id, role, joined_at
		FROM participants
		WHERE conversation_id = ?
	`)
	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.ConversationID, &p.UserID, &p.Role, &p.JoinedAt); err != nil {
			return nil, storageErr(err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ListConversations returns one summary per conversation the user is
// in, most recently active first. The display name falls back to the
// other participant's name for unnamed private threads; the last
// message stays encrypted for the caller to decrypt.
func (s *SQLStore) ListConversations(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	query := s.rebind(`
		SELECT c.id, c.kind,
			COALESCE(NULLIF(c.name, ''),
				(SELECT u.display_name FROM users u
				 INNER JOIN participants p2 ON p2.user_id = u.id
				 WHERE p2.conversation_id = c.id AND u.id != ? LIMIT 1),
				'Conversation'),
			COALESCE((SELECT m.body FROM messages m
				 WHERE m.conversation_id = c.id
				 ORDER BY m.created_at DESC LIMIT 1), ''),
			c.updated_at
		FROM conversations c
		INNER JOIN participants p ON p.conversation_id = c.id
		WHERE p.user_id = ?
		ORDER BY c.updated_at DESC
	`)
	rows, err := s.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var summaries []models.ConversationSummary
	for rows.Next() {
		var cs models.ConversationSummary
		if err := rows.Scan(&cs.ID, &cs.Kind, &cs.Name, &cs.LastMessage, &cs.UpdatedAt); err != nil {
			return nil, storageErr(err)
		}
		summaries = append(summaries, cs)
	}
	return summaries, rows.Err()
}
