// Package chat orchestrates the conversation store, the cipher and the
// key manager: bodies are encrypted on send and decrypted on read with
// whatever shift is active at that moment.
package chat

import (
	"context"
	"log/slog"

	"cloakchat/internal/cipher"
	"cloakchat/internal/domain"
	"cloakchat/internal/keys"
	"cloakchat/internal/models"
	"cloakchat/internal/sanitize"
	"cloakchat/internal/store"
)

type Service struct {
	store   store.Store
	keys    *keys.Manager
	logger  *slog.Logger
	layered bool
}

// DecryptedMessage pairs a stored message with its body decrypted
// under the currently active shift.
type DecryptedMessage struct {
	models.Message
	Plaintext string `json:"plaintext"`
}

// EncryptionStatus is a UX snapshot of the active cipher, not a
// security attestation.
type EncryptionStatus struct {
	Method   string        `json:"method"`
	Shift    int           `json:"shift"`
	Layered  bool          `json:"layered"`
	Strength keys.Strength `json:"strength"`
}

func NewService(st store.Store, km *keys.Manager, logger *slog.Logger, layered bool) *Service {
	return &Service{store: st, keys: km, logger: logger, layered: layered}
}

func (s *Service) encrypt(text string, shift int) string {
	if s.layered {
		return cipher.LayeredEncrypt(text, shift)
	}
	return cipher.Encrypt(text, shift)
}

func (s *Service) decrypt(text string, shift int) string {
	if s.layered {
		return cipher.LayeredDecrypt(text, shift)
	}
	return cipher.Decrypt(text, shift)
}

// Send validates the plaintext, encrypts it with the active shift and
// appends it to the conversation. The sender must be a participant.
func (s *Service) Send(ctx context.Context, senderID, conversationID, plaintext, kind string) (string, error) {
	if err := sanitize.ValidateMessage(plaintext); err != nil {
		return "", err
	}
	if kind == "" {
		kind = models.MessageText
	}

	if err := s.requireParticipant(ctx, conversationID, senderID); err != nil {
		return "", err
	}

	body := s.encrypt(plaintext, s.keys.Shift())
	id, err := s.store.CreateMessage(ctx, conversationID, senderID, body, kind)
	if err != nil {
		s.logger.Error("message append failed", "conversation_id", conversationID, "error", err)
		return "", err
	}

	s.logger.Debug("message sent", "conversation_id", conversationID, "message_id", id)
	return id, nil
}

// requireParticipant rejects callers outside the conversation with
// ErrForbidden. Every per-conversation operation goes through this
// gate; plaintext must never leave the participant set.
func (s *Service) requireParticipant(ctx context.Context, conversationID, userID string) error {
	ok, err := s.store.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

// Read fetches up to limit messages in chronological order and
// decrypts each body with the currently active shift. The reader must
// be a participant. Messages encrypted before a rotation decrypt to
// garbage: bodies carry no key version, so continuity across rotations
// is not provided.
func (s *Service) Read(ctx context.Context, readerID, conversationID string, limit int) ([]DecryptedMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if err := s.requireParticipant(ctx, conversationID, readerID); err != nil {
		return nil, err
	}
	messages, err := s.store.GetMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}

	shift := s.keys.Shift()
	out := make([]DecryptedMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, DecryptedMessage{Message: m, Plaintext: s.decrypt(m.Body, shift)})
	}
	return out, nil
}

// ListConversations returns the user's conversation summaries with a
// decrypted preview of each last message. Previews are cleaned for
// rendering: markup is escaped and long bodies are truncated.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	summaries, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	shift := s.keys.Shift()
	for i := range summaries {
		if summaries[i].LastMessage != "" {
			summaries[i].LastMessage = sanitize.CleanHTML(s.decrypt(summaries[i].LastMessage, shift))
		}
	}
	return summaries, nil
}

// FindOrCreatePrivate resolves the unordered pair to its single
// private conversation, creating it on first contact.
func (s *Service) FindOrCreatePrivate(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	return s.store.FindOrCreatePrivate(ctx, userA, userB)
}

// AddFriend links two users. The receiver must exist; requests are
// auto-accepted.
func (s *Service) AddFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return domain.ErrSelfReference
	}
	if _, err := s.store.GetUserByID(ctx, friendID); err != nil {
		return err
	}
	if _, err := s.store.CreateFriendship(ctx, userID, friendID); err != nil {
		return err
	}
	s.logger.Info("friendship created", "user_id", userID, "friend_id", friendID)
	return nil
}

// FriendsOf returns the user's friends. Result order is not
// meaningful.
func (s *Service) FriendsOf(ctx context.Context, userID string) ([]models.User, error) {
	return s.store.GetFriends(ctx, userID)
}

// SearchUsers finds users matching the query, excluding the searcher.
func (s *Service) SearchUsers(ctx context.Context, query, excludeUserID string) ([]models.User, error) {
	if query == "" {
		return nil, nil
	}
	return s.store.SearchUsers(ctx, query, excludeUserID)
}

// MarkRead flags the conversation's received messages as read. The
// caller must be a participant.
func (s *Service) MarkRead(ctx context.Context, conversationID, userID string) error {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return err
	}
	return s.store.MarkConversationRead(ctx, conversationID, userID)
}

// Status reports the active cipher configuration.
func (s *Service) Status() EncryptionStatus {
	shift := s.keys.Shift()
	method := "shift-cipher"
	if s.layered {
		method = "layered-cipher"
	}
	return EncryptionStatus{
		Method:   method,
		Shift:    shift,
		Layered:  s.layered,
		Strength: keys.Classify(shift),
	}
}
