package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cloakchat/internal/keys"
)

// KeyHandler exposes key administration. Rotating invalidates the
// decryptability of previously stored ciphertext; the endpoints exist
// for operators who accept that.
type KeyHandler struct {
	Keys *keys.Manager
}

func (h *KeyHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	var rot keys.Rotation
	if r.URL.Query().Get("secure") == "true" {
		rot = h.Keys.RotateSecure()
	} else {
		rot = h.Keys.Rotate()
	}
	writeJSON(w, http.StatusOK, rot)
}

func (h *KeyHandler) Export(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Keys.Export())
}

func (h *KeyHandler) Import(w http.ResponseWriter, r *http.Request) {
	var d keys.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Keys.Import(d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *KeyHandler) Strength(w http.ResponseWriter, r *http.Request) {
	shift := h.Keys.Shift()
	if q := r.URL.Query().Get("shift"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 25 {
			http.Error(w, "shift must be an integer in [1,25]", http.StatusBadRequest)
			return
		}
		shift = n
	}
	writeJSON(w, http.StatusOK, keys.Classify(shift))
}
