// Package keys owns the single active cipher shift. One Manager
// instance is shared by reference with the chat service; multi-tenant
// deployments should scope one Manager per tenant instead of sharing a
// process-wide value.
package keys

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"

	"cloakchat/internal/config"
)

// weakShifts are avoided by secure rotation: the identity-adjacent
// shifts and ROT13.
var weakShifts = map[int]bool{1: true, 2: true, 3: true, 13: true, 23: true, 24: true, 25: true}

type Manager struct {
	mu    sync.Mutex
	shift int
}

// Rotation reports the shift values before and after a rotation.
type Rotation struct {
	Old int `json:"old"`
	New int `json:"new"`
}

// Descriptor is the serializable form of the active key. The marker is
// an opaque continuity token, not a cryptographic proof.
type Descriptor struct {
	Shift  int    `json:"shift"`
	Marker string `json:"marker"`
	Method string `json:"method"`
}

// Strength is a heuristic label for UX purposes, not a security
// metric: every shift in the 25-value keyspace is trivially forced.
type Strength struct {
	Tier      string `json:"tier"`
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

// New clamps an out-of-range default to config.DefaultShift.
func New(defaultShift int) *Manager {
	if defaultShift < 1 || defaultShift > 25 {
		defaultShift = config.DefaultShift
	}
	return &Manager{shift: defaultShift}
}

// Shift returns the active shift value.
func (m *Manager) Shift() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shift
}

// SetShift replaces the active shift. The value itself is never
// logged; callers report only success or failure.
func (m *Manager) SetShift(shift int) error {
	if shift < 1 || shift > 25 {
		return fmt.Errorf("shift %d out of range [1,25]", shift)
	}
	m.mu.Lock()
	m.shift = shift
	m.mu.Unlock()
	return nil
}

// Rotate replaces the active shift with one drawn uniformly from
// [1,25]. Messages encrypted under the previous shift decrypt to
// garbage afterwards; callers in flight use whichever value they read.
func (m *Manager) Rotate() Rotation {
	return m.rotate(func(int) bool { return true })
}

// RotateSecure rotates like Rotate but redraws until the new shift is
// outside the weak set {1,2,3,13,23,24,25}.
func (m *Manager) RotateSecure() Rotation {
	return m.rotate(func(shift int) bool { return !weakShifts[shift] })
}

func (m *Manager) rotate(accept func(int) bool) Rotation {
	var next int
	for {
		next = randomShift()
		if accept(next) {
			break
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.shift
	m.shift = next
	return Rotation{Old: old, New: next}
}

func randomShift() int {
	n, err := rand.Int(rand.Reader, big.NewInt(25))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// the default shift keeps the manager usable.
		return config.DefaultShift
	}
	return int(n.Int64()) + 1
}

// Export serializes the active shift with a fresh continuity marker.
func (m *Manager) Export() Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Descriptor{
		Shift:  m.shift,
		Marker: uuid.NewString(),
		Method: "shift-cipher",
	}
}

// Import restores the shift from a previously exported descriptor.
func (m *Manager) Import(d Descriptor) error {
	return m.SetShift(d.Shift)
}

// Classify labels a shift: 13 is weakest (public ROT13), the
// identity-adjacent shifts are weak, mid-range shifts near the weak
// ones are moderate, the rest are as good as a 25-value keyspace gets.
func Classify(shift int) Strength {
	switch {
	case shift == 13:
		return Strength{Tier: "weakest", Score: 30, Rationale: "ROT13 is publicly known"}
	case weakShifts[shift]:
		return Strength{Tier: "weak", Score: 40, Rationale: "easily guessed shift"}
	case (shift >= 4 && shift <= 9) || (shift >= 16 && shift <= 21):
		return Strength{Tier: "moderate", Score: 60, Rationale: "common shift for hand ciphers"}
	default:
		return Strength{Tier: "good", Score: 80, Rationale: "reasonable shift for a substitution cipher"}
	}
}
