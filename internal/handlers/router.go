package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"cloakchat/internal/auth"
	"cloakchat/internal/middleware"
)

// NewRouter wires every endpoint. Anything beyond signup and login
// sits behind the session-cookie middleware.
func NewRouter(authH *AuthHandler, chatH *ChatHandler, keyH *KeyHandler, signer *auth.CookieSigner, logger *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(logger))

	r.HandleFunc("/signup", authH.Signup).Methods("POST")
	r.HandleFunc("/login", authH.Login).Methods("POST")

	authed := r.NewRoute().Subrouter()
	authed.Use(middleware.Auth(signer))

	authed.HandleFunc("/logout", authH.Logout).Methods("POST")
	authed.HandleFunc("/password", authH.ChangePassword).Methods("PUT")
	authed.HandleFunc("/users/search", chatH.SearchUsers).Methods("GET")
	authed.HandleFunc("/friends", chatH.AddFriend).Methods("POST")
	authed.HandleFunc("/friends", chatH.GetFriends).Methods("GET")
	authed.HandleFunc("/conversations", chatH.StartConversation).Methods("POST")
	authed.HandleFunc("/conversations", chatH.GetConversations).Methods("GET")
	authed.HandleFunc("/conversations/{id}/messages", chatH.SendMessage).Methods("POST")
	authed.HandleFunc("/conversations/{id}/messages", chatH.GetMessages).Methods("GET")
	authed.HandleFunc("/conversations/{id}/read", chatH.MarkRead).Methods("POST")
	authed.HandleFunc("/encryption/status", chatH.EncryptionStatus).Methods("GET")
	authed.HandleFunc("/admin/key/rotate", keyH.Rotate).Methods("POST")
	authed.HandleFunc("/admin/key/export", keyH.Export).Methods("GET")
	authed.HandleFunc("/admin/key/import", keyH.Import).Methods("POST")
	authed.HandleFunc("/admin/key/strength", keyH.Strength).Methods("GET")

	return r
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
