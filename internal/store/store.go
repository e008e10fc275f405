package store

import (
	"context"

	"cloakchat/internal/models"
)

// Store is the system of record for users, friendships, conversations,
// participants and messages. Implementations translate storage-level
// constraint violations into the domain error taxonomy; callers never
// see raw driver errors.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SearchUsers(ctx context.Context, query, excludeUserID string) ([]models.User, error)
	UpdateOnlineStatus(ctx context.Context, userID string, online bool) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateProfile(ctx context.Context, userID, displayName, email string) error

	// Friendship operations
	CreateFriendship(ctx context.Context, userID, friendID string) (*models.Friendship, error)
	GetFriends(ctx context.Context, userID string) ([]models.User, error)

	// Conversation operations
	FindOrCreatePrivate(ctx context.Context, userA, userB string) (*models.Conversation, error)
	AddParticipant(ctx context.Context, conversationID, userID, role string) error
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	GetParticipants(ctx context.Context, conversationID string) ([]models.Participant, error)
	ListConversations(ctx context.Context, userID string) ([]models.ConversationSummary, error)

	// Message operations
	CreateMessage(ctx context.Context, conversationID, senderID, body, kind string) (string, error)
	GetMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, conversationID, userID string) error
}
