// Package report reshapes raw spreadsheet tables into the referral tree
// and bonus-transaction views. Both processors are pure functions over a
// table.Table; malformed cells degrade to defaults and never abort a row.
package report

import (
	"refboard/internal/core"
	"refboard/internal/table"
)

// Referral-table column set. Two deployment variants exist: the newer one
// carries total_bonus_points plus balance_bonus_points and names the totals
// column total_referals; the older one has a single total_bonus_points
// field and spells the totals column totalReferals. Aliases let one
// pipeline serve both.
var referralColumns = []table.Column{
	table.Col("referal_id"),
	table.Col("referalName"),
	table.Col("referal_nickname"),
	table.Col("referer_id"),
	table.Col("referer_nickname"),
	table.Col("referer_name"),
	table.Col("reg_date"),
	table.Col("lev1"),
	table.Col("lev2"),
	table.Col("free_sprints"),
	{Name: "balance_bonus_points", Aliases: []string{"total_bonus_points"}},
	table.Col("total_payment"),
	table.Col("total_earned"),
	table.Col("total_withdrawal"),
	table.Col("balance"),
	{Name: "total_referals", Aliases: []string{"totalReferals"}},
}

// ExtractProfile finds the target user's own row and returns it as a
// profile. The second return is false when no row's referral id matches,
// including for tables with no data rows.
func ExtractProfile(t table.Table, userID string) (core.UserProfile, bool) {
	if t.Empty() {
		return core.UserProfile{}, false
	}
	idx := table.NewIndex(t.Header(), referralColumns)

	for _, row := range t.Rows() {
		if idx.Text(row, "referal_id") != userID {
			continue
		}
		return core.UserProfile{
			UserID:          userID,
			Name:            idx.Label(row, "referalName"),
			Nickname:        idx.Label(row, "referal_nickname"),
			RefererName:     idx.Label(row, "referer_name"),
			RefererNickname: idx.Label(row, "referer_nickname"),
			Level1Count:     core.ToNumber(idx.Cell(row, "lev1")),
			Level2Count:     core.ToNumber(idx.Cell(row, "lev2")),
			BonusPoints:     core.ToNumber(idx.Cell(row, "balance_bonus_points")),
			TotalEarned:     core.ToNumber(idx.Cell(row, "total_earned")),
			TotalWithdrawal: core.ToNumber(idx.Cell(row, "total_withdrawal")),
			Balance:         core.ToNumber(idx.Cell(row, "balance")),
		}, true
	}
	return core.UserProfile{}, false
}

// ExtractReferrals classifies every row of the referral table as a level-1
// or level-2 referral of the target user, dropping everything else.
//
// Classification needs two passes: level 2 means "invited by any level-1
// referral", and a level-1 row may appear after the level-2 rows it
// explains, so the full direct-referral id set is collected before any
// level is assigned. The user's own row is never listed, even when its
// referer id points at itself. Output keeps source row order.
func ExtractReferrals(t table.Table, userID string) []core.ReferralRecord {
	if t.Empty() {
		return nil
	}
	idx := table.NewIndex(t.Header(), referralColumns)
	rows := t.Rows()

	directIDs := make(map[string]struct{})
	for _, row := range rows {
		referralID := idx.Text(row, "referal_id")
		if idx.Text(row, "referer_id") == userID && referralID != userID {
			directIDs[referralID] = struct{}{}
		}
	}

	var out []core.ReferralRecord
	for _, row := range rows {
		referralID := idx.Text(row, "referal_id")
		if referralID == userID {
			continue
		}
		refererID := idx.Text(row, "referer_id")

		var level int
		switch {
		case refererID == userID:
			level = core.LevelDirect
		default:
			if _, ok := directIDs[refererID]; ok {
				level = core.LevelIndirect
			}
		}
		if level == 0 {
			continue
		}

		out = append(out, core.ReferralRecord{
			Level:            level,
			RegistrationDate: core.FormatDateCompact(idx.Cell(row, "reg_date")),
			Nickname:         idx.Label(row, "referal_nickname"),
			Name:             idx.Label(row, "referalName"),
			InviterNickname:  idx.Label(row, "referer_nickname"),
			InviterName:      idx.Label(row, "referer_name"),
			FreeSprints:      core.ToNumber(idx.Cell(row, "free_sprints")),
			BonusPoints:      core.ToNumber(idx.Cell(row, "balance_bonus_points")),
			TotalPayments:    core.ToNumber(idx.Cell(row, "total_payment")),
			Level1Count:      core.ToNumber(idx.Cell(row, "lev1")),
			Level2Count:      core.ToNumber(idx.Cell(row, "lev2")),
			TotalEarned:      core.ToNumber(idx.Cell(row, "total_earned")),
			TotalWithdrawn:   core.ToNumber(idx.Cell(row, "total_withdrawal")),
			Balance:          core.ToNumber(idx.Cell(row, "balance")),
			TotalReferrals:   core.ToNumber(idx.Cell(row, "total_referals")),
			ReferralID:       referralID,
		})
	}
	return out
}
