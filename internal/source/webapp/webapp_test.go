package webapp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"refboard/internal/core"
	"refboard/internal/source"
)

func TestReadReferralTable(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[["referal_id","referer_id"],["101","100"]]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	tbl, err := c.ReadReferralTable(context.Background(), "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Empty() {
		t.Fatal("expected data rows")
	}
	if gotQuery != "id=100" {
		t.Errorf("query = %q, want id=100", gotQuery)
	}
}

func TestReadTransactionTableQuery(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`[["referal_id"],["50"]]`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	if _, err := c.ReadTransactionTable(context.Background(), "50"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURL != "/?id=50&type=bonusTransactions" {
		t.Errorf("url = %q", gotURL)
	}
}

func TestFetchMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call should happen without an id")
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	_, err := c.ReadReferralTable(context.Background(), "  ")
	if !errors.Is(err, core.ErrMissingUserID) {
		t.Errorf("expected ErrMissingUserID, got %v", err)
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	_, err := c.ReadReferralTable(context.Background(), "100")
	var statusErr *source.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", statusErr.StatusCode)
	}
}

func TestFetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	_, err := c.ReadReferralTable(context.Background(), "100")
	var decodeErr *source.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", nil); err == nil {
		t.Error("expected error for empty URL")
	}
}
