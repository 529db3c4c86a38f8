package core

import (
	"testing"
	"time"

	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/market"
)

func TestParseFooter(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   domain.FooterMeta
		placed string
	}{
		{
			name:   "won",
			raw:    "Will Richard 3+ MADE THREES +360 TOTAL WAGER $1.00 WON ON FANDUEL $4.60 BET ID: O/0242888/0027982 PLACED: 11/16/2025 8:12PM ET",
			want:   domain.FooterMeta{BetID: "O/0242888/0027982", Stake: 1, Payout: 4.6, HasPayout: true, Result: domain.Win},
			placed: "11/16/2025 8:12PM",
		},
		{
			name:   "lost",
			raw:    "TOTAL WAGER $11.00 LOST BET ID: O/1 PLACED: Nov 14, 2025 7:05PM ET",
			want:   domain.FooterMeta{BetID: "O/1", Stake: 11, HasPayout: true, Result: domain.Loss},
			placed: "Nov 14, 2025 7:05PM",
		},
		{
			name: "returned",
			raw:  "TOTAL WAGER $5.00 RETURNED $5.00 BET ID: X1",
			want: domain.FooterMeta{BetID: "X1", Stake: 5, Payout: 5, HasPayout: true, Result: domain.Push},
		},
		{
			name: "void ticket refunds the stake",
			raw:  "TOTAL WAGER $5.00 VOID BET ID: X2",
			want: domain.FooterMeta{BetID: "X2", Stake: 5, Payout: 5, HasPayout: true, Result: domain.Push},
		},
		{
			name: "cashed out",
			raw:  "TOTAL WAGER $5.00 CASHED OUT $7.25 BET ID: X3",
			want: domain.FooterMeta{BetID: "X3", Stake: 5, Payout: 7.25, HasPayout: true, Result: domain.Win},
		},
		{
			name: "open",
			raw:  "TOTAL WAGER $5.00 BET ID: X4",
			want: domain.FooterMeta{BetID: "X4", Stake: 5, Result: domain.Pending},
		},
		{
			name:   "potential payout is still open",
			raw:    "TOTAL WAGER $1.00 POTENTIAL PAYOUT $4.60 BET ID: X6 PLACED: 11/16/2025 8:12PM ET",
			want:   domain.FooterMeta{BetID: "X6", Stake: 1, Result: domain.Pending},
			placed: "11/16/2025 8:12PM",
		},
		{
			name: "to pay is still open",
			raw:  "TOTAL WAGER $2.00 TO PAY $5.00 BET ID: X7",
			want: domain.FooterMeta{BetID: "X7", Stake: 2, Result: domain.Pending},
		},
		{
			name: "leg status words before the footer are ignored",
			raw:  "LeBron James 25+ Points Lost TOTAL WAGER $2.00 WON ON FANDUEL $9.00 BET ID: X5",
			want: domain.FooterMeta{BetID: "X5", Stake: 2, Payout: 9, HasPayout: true, Result: domain.Win},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFooter(tt.raw)
			tt.want.PlacedAt = tt.placed
			if got != tt.want {
				t.Errorf("parseFooter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlacedAt(t *testing.T) {
	now := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
	january := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		text string
		now  time.Time
		want string
	}{
		{"11/16/2025 8:12PM ET", now, "2025-11-17T01:12:00Z"},
		{"11/15/2025 6:40 PM", now, "2025-11-15T23:40:00Z"},
		{"Nov 14, 2025 7:05PM ET", now, "2025-11-15T00:05:00Z"},
		{"NOV 14 2025 7:05PM", now, "2025-11-15T00:05:00Z"},
		{"Jul 4, 2025 1:00PM ET", now, "2025-07-04T17:00:00Z"},
		{"Nov 16, 8:12PM ET", now, "2025-11-17T01:12:00Z"},
		{"Dec 30, 8:00PM ET", january, "2024-12-31T01:00:00Z"},
		{"yesterday", now, ""},
		{"", now, ""},
	}

	for _, tt := range tests {
		if got := placedAt(tt.text, tt.now); got != tt.want {
			t.Errorf("placedAt(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestValidTarget(t *testing.T) {
	tests := []struct {
		line string
		code string
		want string
	}{
		{"-4.5", market.Spread, "-4.5"},
		{"+7", market.Spread, "+7"},
		{"-75", market.Spread, ""},
		{"-110", market.Spread, ""},
		{"+360", market.Threes, ""},
		{"25+", market.Points, "25+"},
		{"232.5", market.Total, "232.5"},
		{"", market.Points, ""},
	}
	for _, tt := range tests {
		if got := validTarget(tt.line, tt.code); got != tt.want {
			t.Errorf("validTarget(%q, %q) = %q, want %q", tt.line, tt.code, got, tt.want)
		}
	}
}

func TestLegFallback(t *testing.T) {
	tests := []struct {
		r    domain.BetResult
		want domain.LegResult
	}{
		{domain.Win, domain.LegWin},
		{domain.Loss, domain.LegLoss},
		{domain.Push, domain.LegPush},
		{domain.Pending, domain.LegPending},
		{"", domain.LegUnknown},
	}
	for _, tt := range tests {
		if got := legFallback(tt.r); got != tt.want {
			t.Errorf("legFallback(%q) = %s, want %s", tt.r, got, tt.want)
		}
	}
}

func leg(entity, code, target string, odds *int) domain.BetLeg {
	l := domain.BetLeg{Market: code, Target: target, Odds: odds, Result: domain.LegUnknown}
	if entity != "" {
		l.Entities = []string{entity}
	}
	return l
}

func TestDedupLegs(t *testing.T) {
	legs := []domain.BetLeg{
		leg("LeBron James", market.Points, "25+", nil),
		leg("lebron james", market.Points, "25+", domain.IntPtr(-150)),
		leg("LeBron James", market.Rebounds, "8+", nil),
		{IsGroupLeg: true, Market: groupMarket},
		{IsGroupLeg: true, Market: groupMarket},
	}

	got := dedupLegs(legs)
	if len(got) != 4 {
		t.Fatalf("got %d legs, want 4: %+v", len(got), got)
	}
	if got[0].Odds == nil || *got[0].Odds != -150 {
		t.Errorf("odds not backfilled from the duplicate: %v", got[0].Odds)
	}
}

func TestFilterNoise(t *testing.T) {
	p := newFanDuelParser()
	legs := []domain.BetLeg{
		leg("Parlay", market.Other, "", nil),
		leg("Los Angeles Lakers", market.Points, "110+", nil),
		leg("", market.Points, "25+", nil),
		leg("", market.Other, "", nil),
		leg("Phoenix Suns", market.Spread, "Lakers @ Suns", nil),
		leg("Phoenix Suns", market.Other, "Phoenix Suns", nil),
		leg("LeBron James", market.Points, "25+", nil),
		leg("Phoenix Suns", market.Moneyline, "", nil),
		{IsGroupLeg: true, Market: groupMarket},
	}

	got := p.filterNoise(legs)
	if len(got) != 3 {
		t.Fatalf("got %d legs, want 3: %+v", len(got), got)
	}
	if got[0].Entity() != "LeBron James" || got[1].Market != market.Moneyline || !got[2].IsGroupLeg {
		t.Errorf("kept %+v", got)
	}
}

func TestDropShadowedGeneric(t *testing.T) {
	legs := []domain.BetLeg{
		leg("Jayson Tatum", market.Other, "27.5", nil),
		leg("Jayson Tatum", market.Points, "27.5", nil),
		leg("Josh Hart", market.Other, "", nil),
	}

	got := dropShadowedGeneric(legs)
	if len(got) != 2 {
		t.Fatalf("got %d legs, want 2: %+v", len(got), got)
	}
	if got[0].Market != market.Points || got[1].Entity() != "Josh Hart" {
		t.Errorf("kept %+v", got)
	}
}

func TestFormatLegSummary(t *testing.T) {
	over := leg("Jayson Tatum", market.Points, "27.5", nil)
	over.OU = domain.Over
	total := leg("", market.Total, "232.5", nil)
	total.OU = domain.Under

	tests := []struct {
		leg  domain.BetLeg
		want string
	}{
		{leg("Los Angeles Lakers", market.Spread, "-4.5", nil), "Los Angeles Lakers -4.5"},
		{leg("Phoenix Suns", market.Moneyline, "", nil), "Phoenix Suns Moneyline"},
		{leg("Will Richard", market.Threes, "3+", nil), "Will Richard 3+ Made Threes"},
		{over, "Jayson Tatum Over 27.5 Points"},
		{total, "Under 232.5 Total Points"},
		{leg("Josh Hart", market.Other, "", nil), "Josh Hart"},
		{domain.BetLeg{IsGroupLeg: true, Target: "Boston Celtics @ New York Knicks"}, "SGP (Boston Celtics @ New York Knicks)"},
		{domain.BetLeg{IsGroupLeg: true}, "SGP"},
	}
	for _, tt := range tests {
		if got := formatLegSummary(tt.leg); got != tt.want {
			t.Errorf("formatLegSummary(%+v) = %q, want %q", tt.leg, got, tt.want)
		}
	}
}

func TestDescribeSingle(t *testing.T) {
	legs := []domain.BetLeg{leg("Will Richard", market.Threes, "3+", nil)}

	kept := describe(domain.BetSingle, domain.HeaderInfo{Description: "Will Richard 3+ Made Threes"}, legs)
	if kept != "Will Richard 3+ Made Threes" {
		t.Errorf("well-formed header rewritten to %q", kept)
	}

	rebuilt := describe(domain.BetSingle, domain.HeaderInfo{Description: "WILL RICHARD 3+ MADE THREES"}, legs)
	if rebuilt != "Will Richard 3+ Made Threes" {
		t.Errorf("describe() = %q", rebuilt)
	}

	if got := describe(domain.BetSingle, domain.HeaderInfo{Description: "Futures"}, nil); got != "Futures" {
		t.Errorf("describe() without legs = %q", got)
	}
}
