package sqlstore

import (
	"context"
	"errors"
	"testing"

	"cloakchat/internal/domain"
)

func TestCreateFriendship(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")

	f, err := testStore.CreateFriendship(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}
	if f.Status != "accepted" {
		t.Errorf("Expected auto-accepted friendship, got status %q", f.Status)
	}
}

func TestCreateFriendshipSelfReference(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	alice := mustCreateUser(t, "alice")

	_, err := testStore.CreateFriendship(context.Background(), alice.ID, alice.ID)
	if !errors.Is(err, domain.ErrSelfReference) {
		t.Errorf("Expected ErrSelfReference, got %v", err)
	}
}

func TestCreateFriendshipDeduplicatesUnorderedPair(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")

	if _, err := testStore.CreateFriendship(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("CreateFriendship failed: %v", err)
	}

	// Same pair, either order, is a duplicate.
	_, err := testStore.CreateFriendship(context.Background(), bob.ID, alice.ID)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists for reversed pair, got %v", err)
	}
	_, err = testStore.CreateFriendship(context.Background(), alice.ID, bob.ID)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists for repeated pair, got %v", err)
	}
}

func TestGetFriendsIsSymmetric(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	alice := mustCreateUser(t, "alice")
	bob := mustCreateUser(t, "bob")
	carol := mustCreateUser(t, "carol")

	testStore.CreateFriendship(context.Background(), alice.ID, bob.ID)
	testStore.CreateFriendship(context.Background(), carol.ID, alice.ID)

	friendsOfAlice, err := testStore.GetFriends(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("GetFriends failed: %v", err)
	}
	if len(friendsOfAlice) != 2 {
		t.Fatalf("Expected alice to have 2 friends, got %d", len(friendsOfAlice))
	}

	friendsOfBob, _ := testStore.GetFriends(context.Background(), bob.ID)
	if len(friendsOfBob) != 1 || friendsOfBob[0].ID != alice.ID {
		t.Errorf("Expected bob's friends to contain alice, got %+v", friendsOfBob)
	}
}
