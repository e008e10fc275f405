package sqlstore

import (
	"context"
	"testing"

	"cloakchat/internal/models"
)

var testStore *SQLStore

func SetupTestDB(t *testing.T) {
	var err error
	testStore, err = New("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
}

func TeardownTestDB() {
	testStore.db.Close()
}

func mustCreateUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		DisplayName:  username,
	}
	if err := testStore.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to create user %q: %v", username, err)
	}
	return user
}
