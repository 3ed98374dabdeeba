package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"refboard/internal/core"
	"refboard/internal/table"
)

func TestStoreReads(t *testing.T) {
	s := New(
		table.Table{{"referal_id"}, {"101"}},
		table.Table{{"referal_id"}, {"50"}},
	)

	refs, err := s.ReadReferralTable(context.Background(), "100")
	if err != nil || refs.Empty() {
		t.Fatalf("referral read: %v %v", refs, err)
	}
	txs, err := s.ReadTransactionTable(context.Background(), "100")
	if err != nil || txs.Empty() {
		t.Fatalf("transaction read: %v %v", txs, err)
	}

	// Mutating the returned copy must not touch the store.
	refs[1][0] = "tampered"
	again, _ := s.ReadReferralTable(context.Background(), "100")
	if again[1][0] != "101" {
		t.Error("store data mutated through a returned table")
	}
}

func TestStoreMissingID(t *testing.T) {
	s := New(nil, nil)
	if _, err := s.ReadReferralTable(context.Background(), ""); !errors.Is(err, core.ErrMissingUserID) {
		t.Errorf("expected ErrMissingUserID, got %v", err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := `[["referal_id","referer_id"],["101","100"]]`
	if err := os.WriteFile(filepath.Join(dir, "referrals.json"), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFromFiles(dir)
	refs, err := s.ReadReferralTable(context.Background(), "100")
	if err != nil {
		t.Fatal(err)
	}
	if refs.Empty() {
		t.Error("seeded referral table should have rows")
	}
	// transactions.json absent: empty table, not an error.
	txs, err := s.ReadTransactionTable(context.Background(), "100")
	if err != nil {
		t.Fatal(err)
	}
	if !txs.Empty() {
		t.Errorf("unseeded table should be empty, got %v", txs)
	}
}
