package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cloakchat/internal/chat"
	"cloakchat/internal/keys"
	"cloakchat/internal/models"
)

func TestSendAndReadMessages(t *testing.T) {
	router, _ := newTestRouter(t)

	bobID := signup(t, router, "bob", "bob@example.com")
	signup(t, router, "alice", "alice@example.com")
	cookie := login(t, router, "alice")

	// Start a conversation with bob.
	body, _ := json.Marshal(StartConversationRequest{UserID: bobID})
	req := httptest.NewRequest("POST", "/conversations", bytes.NewBuffer(body))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("start conversation returned %d: %s", rr.Code, rr.Body.String())
	}
	var conv models.Conversation
	json.Unmarshal(rr.Body.Bytes(), &conv)

	// Send a message.
	body, _ = json.Marshal(SendMessageRequest{Body: "hello"})
	req = httptest.NewRequest("POST", "/conversations/"+conv.ID+"/messages", bytes.NewBuffer(body))
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("send message returned %d: %s", rr.Code, rr.Body.String())
	}

	// Read it back decrypted.
	req = httptest.NewRequest("GET", "/conversations/"+conv.ID+"/messages", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("get messages returned %d: %s", rr.Code, rr.Body.String())
	}
	var messages []chat.DecryptedMessage
	json.Unmarshal(rr.Body.Bytes(), &messages)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Plaintext != "hello" {
		t.Errorf("expected decrypted 'hello', got %q", messages[0].Plaintext)
	}
	if messages[0].Body != "olssv" {
		t.Errorf("expected stored ciphertext 'olssv', got %q", messages[0].Body)
	}
}

func TestMessagesForbiddenForNonParticipants(t *testing.T) {
	router, _ := newTestRouter(t)

	bobID := signup(t, router, "bob", "bob@example.com")
	signup(t, router, "alice", "alice@example.com")
	signup(t, router, "carol", "carol@example.com")
	aliceCookie := login(t, router, "alice")

	body, _ := json.Marshal(StartConversationRequest{UserID: bobID})
	req := httptest.NewRequest("POST", "/conversations", bytes.NewBuffer(body))
	req.AddCookie(aliceCookie)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	var conv models.Conversation
	json.Unmarshal(rr.Body.Bytes(), &conv)

	body, _ = json.Marshal(SendMessageRequest{Body: "top secret"})
	req = httptest.NewRequest("POST", "/conversations/"+conv.ID+"/messages", bytes.NewBuffer(body))
	req.AddCookie(aliceCookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("send message returned %d: %s", rr.Code, rr.Body.String())
	}

	// Carol holds a valid session but is not in the conversation: no
	// reading, no sending, no flipping read flags.
	carolCookie := login(t, router, "carol")
	for _, tc := range []struct {
		method, path string
	}{
		{"GET", "/conversations/" + conv.ID + "/messages"},
		{"POST", "/conversations/" + conv.ID + "/read"},
	} {
		req = httptest.NewRequest(tc.method, tc.path, nil)
		req.AddCookie(carolCookie)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("%s %s returned %d, want 403", tc.method, tc.path, rr.Code)
		}
	}

	body, _ = json.Marshal(SendMessageRequest{Body: "let me in"})
	req = httptest.NewRequest("POST", "/conversations/"+conv.ID+"/messages", bytes.NewBuffer(body))
	req.AddCookie(carolCookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("outsider send returned %d, want 403", rr.Code)
	}
}

func TestSendRejectsUnsafeBody(t *testing.T) {
	router, _ := newTestRouter(t)

	bobID := signup(t, router, "bob", "bob@example.com")
	signup(t, router, "alice", "alice@example.com")
	cookie := login(t, router, "alice")

	body, _ := json.Marshal(StartConversationRequest{UserID: bobID})
	req := httptest.NewRequest("POST", "/conversations", bytes.NewBuffer(body))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	var conv models.Conversation
	json.Unmarshal(rr.Body.Bytes(), &conv)

	body, _ = json.Marshal(SendMessageRequest{Body: "<script>alert(1)</script>"})
	req = httptest.NewRequest("POST", "/conversations/"+conv.ID+"/messages", bytes.NewBuffer(body))
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unsafe body, got %d", rr.Code)
	}
}

func TestFriendsEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	bobID := signup(t, router, "bob", "bob@example.com")
	aliceID := signup(t, router, "alice", "alice@example.com")
	cookie := login(t, router, "alice")

	body, _ := json.Marshal(AddFriendRequest{UserID: bobID})
	req := httptest.NewRequest("POST", "/friends", bytes.NewBuffer(body))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add friend returned %d: %s", rr.Code, rr.Body.String())
	}

	// Self-friending is a client error.
	body, _ = json.Marshal(AddFriendRequest{UserID: aliceID})
	req = httptest.NewRequest("POST", "/friends", bytes.NewBuffer(body))
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for self-friend, got %d", rr.Code)
	}

	// The friendship is visible from bob's side.
	bobCookie := login(t, router, "bob")
	req = httptest.NewRequest("GET", "/friends", nil)
	req.AddCookie(bobCookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	var friends []models.User
	json.Unmarshal(rr.Body.Bytes(), &friends)
	if len(friends) != 1 || friends[0].ID != aliceID {
		t.Errorf("expected bob's friends to contain alice, got %+v", friends)
	}
}

func TestKeyAdminEndpoints(t *testing.T) {
	router, km := newTestRouter(t)

	signup(t, router, "alice", "alice@example.com")
	cookie := login(t, router, "alice")

	// Unauthenticated key access is rejected.
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/admin/key/export", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", rr.Code)
	}

	// Secure rotation avoids the weak set.
	req := httptest.NewRequest("POST", "/admin/key/rotate?secure=true", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("rotate returned %d: %s", rr.Code, rr.Body.String())
	}
	var rot keys.Rotation
	json.Unmarshal(rr.Body.Bytes(), &rot)
	if rot.New == 13 || rot.New < 1 || rot.New > 25 {
		t.Errorf("secure rotation produced suspect shift %d", rot.New)
	}
	if km.Shift() != rot.New {
		t.Errorf("manager shift %d does not match reported %d", km.Shift(), rot.New)
	}

	// Export / import round trip.
	req = httptest.NewRequest("GET", "/admin/key/export", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	var desc keys.Descriptor
	json.Unmarshal(rr.Body.Bytes(), &desc)
	if desc.Shift != km.Shift() {
		t.Errorf("exported shift %d, manager has %d", desc.Shift, km.Shift())
	}

	desc.Shift = 11
	body, _ := json.Marshal(desc)
	req = httptest.NewRequest("POST", "/admin/key/import", bytes.NewBuffer(body))
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("import returned %d: %s", rr.Code, rr.Body.String())
	}
	if km.Shift() != 11 {
		t.Errorf("expected imported shift 11, got %d", km.Shift())
	}
}
