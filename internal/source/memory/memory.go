// Package memory is an in-memory table source used by tests and the
// default development backend. Tables can be seeded from JSON files.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"refboard/internal/core"
	"refboard/internal/source"
	"refboard/internal/table"
)

type Store struct {
	mu           sync.Mutex
	referrals    table.Table
	transactions table.Table
}

// Ensure interface conformance
var _ source.TableReader = (*Store)(nil)

func New(referrals, transactions table.Table) *Store {
	return &Store{referrals: referrals, transactions: transactions}
}

// NewFromFiles seeds the store from referrals.json and transactions.json
// under base (each an array-of-arrays). Missing or malformed files leave
// that table empty; a dev server with no seed data still starts.
func NewFromFiles(base string) *Store {
	return New(
		readTable(filepath.Join(base, "referrals.json")),
		readTable(filepath.Join(base, "transactions.json")),
	)
}

func (s *Store) ReadReferralTable(_ context.Context, userID string) (table.Table, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, core.ErrMissingUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTable(s.referrals), nil
}

func (s *Store) ReadTransactionTable(_ context.Context, userID string) (table.Table, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, core.ErrMissingUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTable(s.transactions), nil
}

// SetReferrals replaces the referral table (test hook).
func (s *Store) SetReferrals(t table.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referrals = t
}

// SetTransactions replaces the transaction table (test hook).
func (s *Store) SetTransactions(t table.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = t
}

func readTable(path string) table.Table {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var t table.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil
	}
	return t
}

func cloneTable(t table.Table) table.Table {
	if t == nil {
		return nil
	}
	out := make(table.Table, len(t))
	for i, row := range t {
		out[i] = append([]any(nil), row...)
	}
	return out
}
