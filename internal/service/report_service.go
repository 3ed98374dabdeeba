// Package service orchestrates table fetching and reshaping into datasets.
package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"refboard/internal/core"
	applog "refboard/internal/log"
	"refboard/internal/report"
	"refboard/internal/source"
	"refboard/internal/table"
)

// ReportService loads both report tables for a user and reshapes them into
// an immutable dataset.
type ReportService struct {
	src source.TableReader
	sl  *applog.StructuredLogger
}

func NewReportService(src source.TableReader) *ReportService {
	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentService)
	return &ReportService{
		src: src,
		sl:  applog.NewStructuredLogger(logger),
	}
}

// Load fetches the referral and transaction tables concurrently and runs
// both processors. Empty tables produce an empty dataset, not an error;
// only transport failures and a missing user id propagate.
func (s *ReportService) Load(ctx context.Context, userID string) (*core.Dataset, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, core.ErrMissingUserID
	}

	var referralTable, transactionTable table.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.src.ReadReferralTable(gctx, userID)
		if err != nil {
			return err
		}
		referralTable = t
		return nil
	})
	g.Go(func() error {
		t, err := s.src.ReadTransactionTable(gctx, userID)
		if err != nil {
			return err
		}
		transactionTable = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &core.Dataset{
		UserID:       userID,
		Referrals:    report.ExtractReferrals(referralTable, userID),
		Transactions: report.NormalizeTransactions(transactionTable),
		LoadedAt:     time.Now(),
	}
	if profile, ok := report.ExtractProfile(referralTable, userID); ok {
		ds.Profile = &profile
	}

	s.sl.LogDatasetLoaded(ctx, userID, len(ds.Referrals), len(ds.Transactions))

	return ds, nil
}

// Transactions runs the owner+month query against a dataset's normalized
// records.
func (s *ReportService) Transactions(ds *core.Dataset, month *core.Month) []core.TransactionRecord {
	return report.QueryTransactions(ds.Transactions, ds.UserID, month)
}

// Holder owns the current dataset reference. Loads replace the pointer
// atomically; readers keep whatever dataset they already resolved, so a
// search view and a fresh load can never observe a half-updated
// collection. When loads race, the last one to finish wins.
type Holder struct {
	current atomic.Pointer[core.Dataset]
}

func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the latest dataset, or nil before the first load.
func (h *Holder) Current() *core.Dataset {
	return h.current.Load()
}

// Replace installs a freshly loaded dataset as the current one.
func (h *Holder) Replace(ds *core.Dataset) {
	h.current.Store(ds)
}
