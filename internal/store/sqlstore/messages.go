package sqlstore

import (
	"context"
	"time"

	"cloakchat/internal/models"
)

// CreateMessage appends a message and advances the conversation's
// updated_at in one transaction, so a summary can never observe the
// message without the timestamp bump.
func (s *SQLStore) CreateMessage(ctx context.Context, conversationID, senderID, body, kind string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", storageErr(err)
	}
	defer tx.Rollback()

	id := newID()
	now := time.Now().UTC()

	insert := s.rebind(`
		INSERT INTO messages (id, conversation_id, sender_id, body, kind, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if _, err := tx.ExecContext(ctx, insert, id, conversationID, senderID, body, kind, false, now); err != nil {
		return "", storageErr(err)
	}

	bump := s.rebind("UPDATE conversations SET updated_at = ? WHERE id = ?")
	if _, err := tx.ExecContext(ctx, bump, now, conversationID); err != nil {
		return "", storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		return "", storageErr(err)
	}
	return id, nil
}

func (s *SQLStore) GetMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	query := s.rebind(`
		SELECT m.id, m.conversation_id, m.sender_id, u.display_name, m.body, m.kind, m.is_read, m.created_at
		FROM messages m
		INNER JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_id = ?
		ORDER BY m.created_at ASC
		LIMIT ?
	`)
	rows, err := s.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderName, &m.Body, &m.Kind, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, storageErr(err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkConversationRead flags every message the user received in the
// conversation. The read flag is the only mutable message field.
func (s *SQLStore) MarkConversationRead(ctx context.Context, conversationID, userID string) error {
	query := s.rebind("UPDATE messages SET is_read = ? WHERE conversation_id = ? AND sender_id != ?")
	_, err := s.db.ExecContext(ctx, query, true, conversationID, userID)
	if err != nil {
		return storageErr(err)
	}
	return nil
}
