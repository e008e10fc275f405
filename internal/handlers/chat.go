package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cloakchat/internal/chat"
	"cloakchat/internal/middleware"
	"cloakchat/internal/models"
)

type ChatHandler struct {
	Chat *chat.Service
}

type StartConversationRequest struct {
	UserID string `json:"user_id"`
}

type SendMessageRequest struct {
	Body string `json:"body"`
	Kind string `json:"kind"`
}

type AddFriendRequest struct {
	UserID string `json:"user_id"`
}

func (h *ChatHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conv, err := h.Chat.FindOrCreatePrivate(r.Context(), middleware.UserID(r), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

func (h *ChatHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Chat.ListConversations(r.Context(), middleware.UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []models.ConversationSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.Chat.Send(r.Context(), middleware.UserID(r), conversationID, req.Body, req.Kind)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	messages, err := h.Chat.Read(r.Context(), middleware.UserID(r), conversationID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []chat.DecryptedMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]
	if err := h.Chat.MarkRead(r.Context(), conversationID, middleware.UserID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	var req AddFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Chat.AddFriend(r.Context(), middleware.UserID(r), req.UserID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *ChatHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.Chat.FriendsOf(r.Context(), middleware.UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if friends == nil {
		friends = []models.User{}
	}
	writeJSON(w, http.StatusOK, friends)
}

func (h *ChatHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	users, err := h.Chat.SearchUsers(r.Context(), query, middleware.UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *ChatHandler) EncryptionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Chat.Status())
}
