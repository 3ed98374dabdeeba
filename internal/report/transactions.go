package report

import (
	"sort"
	"strings"

	"refboard/internal/core"
	"refboard/internal/table"
)

var transactionColumns = []table.Column{
	table.Col("referal_id"),
	table.Col("referal_level"),
	table.Col("buyer_level"),
	table.Col("bonus_level"),
	table.Col("bonus_amount"),
	table.Col("bonus_points"),
	table.Col("bonus_percent"),
	table.Col("buyer_name"),
	table.Col("payment_amount"),
	table.Col("created_at"),
	table.Col("status"),
}

// NormalizeTransactions converts the bonus-transaction table into typed
// records. Headers are trimmed before indexing because exported ledgers
// carry incidental whitespace. The only filtering here is dropping rows
// whose owner id trims to empty; level and status are kept raw for the
// query step.
func NormalizeTransactions(t table.Table) []core.TransactionRecord {
	if t.Empty() {
		return nil
	}
	idx := table.NewTrimmedIndex(t.Header(), transactionColumns)

	var out []core.TransactionRecord
	for _, row := range t.Rows() {
		ownerID := strings.TrimSpace(idx.Text(row, "referal_id"))
		if ownerID == "" {
			continue
		}
		rec := core.TransactionRecord{
			ReferralOwnerID: ownerID,
			ReferralLevel:   core.ToInt(idx.Cell(row, "referal_level")),
			BuyerLevel:      core.ToInt(idx.Cell(row, "buyer_level")),
			BonusLevel:      idx.Text(row, "bonus_level"),
			BonusAmount:     core.ToNumber(idx.Cell(row, "bonus_amount")),
			BonusPoints:     core.ToNumber(idx.Cell(row, "bonus_points")),
			BonusPercent:    core.ToNumber(idx.Cell(row, "bonus_percent")),
			BuyerName:       strings.TrimSpace(idx.Text(row, "buyer_name")),
			PaymentAmount:   core.ToNumber(idx.Cell(row, "payment_amount")),
			RawDateText:     idx.Text(row, "created_at"),
			Status:          idx.Text(row, "status"),
		}
		if d, ok := core.ToDateOnly(idx.Cell(row, "created_at")); ok {
			rec.Date = &d
		}
		out = append(out, rec)
	}
	return out
}

// QueryTransactions filters records to one owner, optionally to one
// calendar month, and sorts newest-first. With a month filter active,
// records without a parsed date are excluded; without one they are kept
// but always sort after every dated record, preserving their relative
// input order.
func QueryTransactions(records []core.TransactionRecord, ownerID string, month *core.Month) []core.TransactionRecord {
	var out []core.TransactionRecord
	for _, rec := range records {
		if rec.ReferralOwnerID != ownerID {
			continue
		}
		if month != nil && !rec.InMonth(*month) {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Date, out[j].Date
		switch {
		case a == nil:
			return false // undated sinks
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out
}
