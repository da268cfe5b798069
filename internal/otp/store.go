// Package otp holds the process-wide one-time passcode challenges. One live
// challenge per email; issuing a new one silently replaces the prior value.
// Entries carry no expiry and live until overwritten, removed, or the process
// exits.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
)

type Store struct {
	mu    sync.RWMutex
	codes map[string]string
}

func NewStore() *Store {
	return &Store{codes: make(map[string]string)}
}

// Put stores code as the sole live challenge for email, replacing any prior value.
func (s *Store) Put(email, code string) {
	s.mu.Lock()
	s.codes[email] = code
	s.mu.Unlock()
}

// Match reports whether the stored challenge for email equals code exactly.
// No trimming of the stored value.
func (s *Store) Match(email, code string) bool {
	s.mu.RLock()
	stored, ok := s.codes[email]
	s.mu.RUnlock()
	return ok && stored == code
}

// Remove clears the challenge for email, if any.
func (s *Store) Remove(email string) {
	s.mu.Lock()
	delete(s.codes, email)
	s.mu.Unlock()
}

// GenerateCode returns a 6-digit numeric code drawn uniformly from
// [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
