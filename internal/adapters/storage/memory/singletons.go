package memory

import (
	"context"
	"fmt"
	"sync"

	"steward/internal/application/records"
	"steward/internal/domain/account"
	"steward/internal/domain/settings"
)

// Settings holds the church profile in memory.
type Settings struct {
	mu sync.RWMutex
	st settings.Settings
}

// NewSettings starts from the defaults.
func NewSettings() *Settings {
	return &Settings{st: settings.Defaults()}
}

// Get returns the current settings.
func (s *Settings) Get(_ context.Context) (settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st, nil
}

// Save replaces the settings.
func (s *Settings) Save(_ context.Context, st settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st
	return nil
}

// Accounts keeps back-office accounts in memory, keyed by normalized email.
type Accounts struct {
	mu    sync.RWMutex
	byKey map[string]account.Account
}

// NewAccounts creates an empty account store.
func NewAccounts() *Accounts {
	return &Accounts{byKey: make(map[string]account.Account)}
}

// GetByEmail returns the account for email, ignoring case.
func (s *Accounts) GetByEmail(_ context.Context, email string) (account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byKey[account.NormalizeEmail(email)]
	if !ok {
		return account.Account{}, fmt.Errorf("%s: %w", email, records.ErrNotFound)
	}
	return a, nil
}

// Count returns the number of accounts.
func (s *Accounts) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey), nil
}

// Save inserts or replaces an account.
func (s *Accounts) Save(_ context.Context, a account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Email = account.NormalizeEmail(a.Email)
	s.byKey[a.Email] = a
	return nil
}
