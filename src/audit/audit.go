// Package audit checks extracted bets for signs of under-extraction. It never
// changes a bet; it only reports what looks wrong.
package audit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/extract"
	"mxshs/betledger/src/market"
)

type Code string

const (
	LegCountMismatch  Code = "leg_count_mismatch"
	MissingLegOdds    Code = "missing_leg_odds"
	MalformedTotal    Code = "malformed_total_description"
	EmptyLegs         Code = "empty_legs"
	PayoutMismatch    Code = "payout_mismatch"
	MissingPlacedTime Code = "missing_placed_at"
)

// Issue is one finding about one bet.
type Issue struct {
	BetID   string `json:"betId"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

var (
	legCountRegex = regexp.MustCompile(`(?i)\b(\d+)\s*-\s*leg\b`)
	sgpTextRegex  = regexp.MustCompile(`(?i)same\s+game\s+parlay`)
)

// Check runs every rule over bets and returns the findings in bet order.
func Check(bets []domain.Bet) []Issue {
	var issues []Issue
	for _, b := range bets {
		issues = append(issues, checkBet(b)...)
	}
	return issues
}

func checkBet(b domain.Bet) []Issue {
	var out []Issue
	add := func(code Code, format string, args ...any) {
		out = append(out, Issue{BetID: b.BetID, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if m := legCountRegex.FindStringSubmatch(b.Description); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n != len(b.Legs) {
			add(LegCountMismatch, "description says %d legs, found %d", n, len(b.Legs))
		}
	}

	if b.BetType.IsParlay() && len(b.Legs) == 0 {
		add(EmptyLegs, "%s ticket without legs", b.BetType)
	}

	// legs of a same game parlay are priced together
	if b.BetType.IsParlay() && !sgpTextRegex.MatchString(b.Raw) {
		for i, l := range b.Legs {
			if !l.IsGroupLeg && l.Odds == nil {
				add(MissingLegOdds, "leg %d (%s) has no odds", i, strings.TrimSpace(l.Entity()+" "+l.Market))
			}
		}
	}

	if b.BetType == domain.BetSingle && isTotal(b) && !extract.WellFormed(b.Description) {
		add(MalformedTotal, "total description %q is not well formed", b.Description)
	}

	if b.PlacedAt == "" {
		add(MissingPlacedTime, "placement time missing")
	}

	if b.BetType == domain.BetSingle && b.Result == domain.Win && b.Odds != 0 && b.Stake > 0 {
		if want, err := extract.ExpectedPayout(b.Stake, b.Odds); err == nil {
			got := decimal.NewFromFloat(b.Payout).Round(2)
			if !got.Equal(decimal.NewFromFloat(want).Round(2)) {
				add(PayoutMismatch, "payout %s, stake %.2f at %+d should return %.2f", got.StringFixed(2), b.Stake, b.Odds, want)
			}
		}
	}

	return out
}

func isTotal(b domain.Bet) bool {
	if len(b.Legs) == 1 && b.Legs[0].Market == market.Total {
		return true
	}
	return extract.IsTotalDescription(b.Description)
}
