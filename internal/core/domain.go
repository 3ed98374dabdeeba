package core

import (
	"errors"
	"time"
)

const (
	LevelDirect   = 1
	LevelIndirect = 2
)

type (
	// ReferralRecord is one classified row of the referral table: a user
	// sitting at level 1 (invited directly by the target user) or level 2
	// (invited by one of the target's level-1 referrals).
	ReferralRecord struct {
		Level            int
		RegistrationDate string // YYYY-MM-DD, or the raw cell when unparseable
		Nickname         string
		Name             string
		InviterNickname  string
		InviterName      string
		FreeSprints      float64
		BonusPoints      float64
		TotalPayments    float64
		Level1Count      float64
		Level2Count      float64
		TotalEarned      float64
		TotalWithdrawn   float64
		Balance          float64
		TotalReferrals   float64
		ReferralID       string // hidden join key, always present
	}

	// UserProfile is the target user's own row of the referral table.
	UserProfile struct {
		UserID          string  `json:"userId"`
		Name            string  `json:"name"`
		Nickname        string  `json:"nickname"`
		RefererName     string  `json:"refererName"`
		RefererNickname string  `json:"refererNick"`
		Level1Count     float64 `json:"level1Count"`
		Level2Count     float64 `json:"level2Count"`
		BonusPoints     float64 `json:"bonusPoints"`
		TotalEarned     float64 `json:"totalEarned"`
		TotalWithdrawal float64 `json:"totalWithdrawal"`
		Balance         float64 `json:"balance"`
	}

	// TransactionRecord is one normalized bonus-ledger row.
	TransactionRecord struct {
		ReferralOwnerID string     `json:"referalId"`
		ReferralLevel   int        `json:"referalLevel"`
		BuyerLevel      int        `json:"buyerLevel"`
		BonusLevel      string     `json:"bonusLevel"`
		BonusAmount     float64    `json:"bonusAmount"`
		BonusPoints     float64    `json:"bonusPoints"`
		BonusPercent    float64    `json:"bonusPercent"`
		BuyerName       string     `json:"buyerName"`
		PaymentAmount   float64    `json:"paymentAmount"`
		RawDateText     string     `json:"dateStr"`
		Date            *time.Time `json:"date"`
		Status          string     `json:"status"`
	}

	// Month is a calendar year/month filter; Month is 1-indexed.
	Month struct {
		Year  int
		Month int
	}

	// Dataset is everything derived from one load: the target user's
	// profile plus their classified referrals and normalized bonus
	// transactions. Datasets are immutable once built; a fresh load
	// replaces the current dataset wholesale instead of mutating it.
	Dataset struct {
		UserID       string
		Profile      *UserProfile
		Referrals    []ReferralRecord
		Transactions []TransactionRecord
		LoadedAt     time.Time
	}
)

var ErrMissingUserID = errors.New("user id is required")

// Tuple renders the legacy fixed-order row consumed by the table renderer.
// Order is part of the outbound contract and must not change.
func (r ReferralRecord) Tuple() []any {
	return []any{
		r.Level,
		r.RegistrationDate,
		r.Nickname,
		r.Name,
		r.InviterNickname,
		r.InviterName,
		r.FreeSprints,
		r.BonusPoints,
		r.TotalPayments,
		r.Level1Count,
		r.Level2Count,
		r.TotalEarned,
		r.TotalWithdrawn,
		r.Balance,
		r.TotalReferrals,
		r.ReferralID,
	}
}

// Level1 returns the direct referrals in source order.
func (d *Dataset) Level1() []ReferralRecord {
	return d.byLevel(LevelDirect)
}

// Level2 returns the indirect referrals in source order.
func (d *Dataset) Level2() []ReferralRecord {
	return d.byLevel(LevelIndirect)
}

func (d *Dataset) byLevel(level int) []ReferralRecord {
	var out []ReferralRecord
	for _, r := range d.Referrals {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// InMonth reports whether the record's parsed date falls in m. Records
// without a parsed date never match a month filter.
func (t TransactionRecord) InMonth(m Month) bool {
	if t.Date == nil {
		return false
	}
	return t.Date.Year() == m.Year && int(t.Date.Month()) == m.Month
}
