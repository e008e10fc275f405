package models

import "time"

// Conversation kinds.
const (
	ConversationPrivate = "private"
	ConversationGroup   = "group"
)

// Friendship statuses. AddFriend auto-accepts; pending and blocked
// exist so an approval flow can be added without a schema change.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipBlocked  = "blocked"
)

// Participant roles.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Message kinds.
const (
	MessageText  = "text"
	MessageFile  = "file"
	MessageImage = "image"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Avatar       string    `json:"avatar,omitempty"`
	IsOnline     bool      `json:"is_online"`
	LastSeen     time.Time `json:"last_seen"`
	CreatedAt    time.Time `json:"created_at"`
}

type Friendship struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Participant struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	JoinedAt       time.Time `json:"joined_at"`
}

// Message bodies hold the ciphertext produced by the cipher active at
// send time; plaintext is never persisted. Messages are immutable once
// created except for the read flag.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name,omitempty"`
	Body           string    `json:"body"`
	Kind           string    `json:"kind"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationSummary is one row of a user's conversation list. Name
// is the explicit conversation name when set, otherwise the other
// participant's display name for private conversations. LastMessage is
// left encrypted for the caller to decrypt.
type ConversationSummary struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	LastMessage string    `json:"last_message,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
