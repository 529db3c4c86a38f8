package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/market"
)

var fixedNow = time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func parseFixture(t *testing.T, name string) []domain.Bet {
	t.Helper()
	p := newFanDuelParser(WithNow(func() time.Time { return fixedNow }))
	bets, err := p.ParseBets(fixture(t, name))
	if err != nil {
		t.Fatalf("ParseBets(%s): %v", name, err)
	}
	return bets
}

func TestParseBetsSingle(t *testing.T) {
	bets := parseFixture(t, "single.html")
	if len(bets) != 1 {
		t.Fatalf("got %d bets, want 1", len(bets))
	}
	b := bets[0]

	if b.BetType != domain.BetSingle {
		t.Errorf("betType = %q, want single", b.BetType)
	}
	if b.Odds != 360 || b.Stake != 1.00 || b.Payout != 4.60 {
		t.Errorf("odds/stake/payout = %d/%v/%v, want 360/1/4.6", b.Odds, b.Stake, b.Payout)
	}
	if b.Result != domain.Win {
		t.Errorf("result = %q, want win", b.Result)
	}
	if b.BetID != "O/0242888/0027982" {
		t.Errorf("betId = %q", b.BetID)
	}
	if b.PlacedAt != "2025-11-17T01:12:00Z" {
		t.Errorf("placedAt = %q", b.PlacedAt)
	}
	if b.ID != "FanDuel:O/0242888/0027982:2025-11-17T01:12:00Z" {
		t.Errorf("id = %q", b.ID)
	}
	if b.Sport != "NBA" {
		t.Errorf("sport = %q, want NBA", b.Sport)
	}
	if b.MarketCategory != market.CategoryProps {
		t.Errorf("marketCategory = %q", b.MarketCategory)
	}
	if b.Description != "Will Richard 3+ Made Threes" {
		t.Errorf("description = %q", b.Description)
	}
	if b.Name != "Will Richard" {
		t.Errorf("name = %q", b.Name)
	}

	if len(b.Legs) != 1 {
		t.Fatalf("got %d legs, want 1: %+v", len(b.Legs), b.Legs)
	}
	leg := b.Legs[0]
	if leg.Entity() != "Will Richard" || leg.Market != market.Threes || leg.Target != "3+" || leg.Result != domain.LegWin {
		t.Errorf("leg = %+v", leg)
	}
}

func TestParseBetsParlayAndTotal(t *testing.T) {
	bets := parseFixture(t, "parlay.html")
	if len(bets) != 2 {
		t.Fatalf("got %d bets, want 2", len(bets))
	}

	parlay := bets[0]
	if parlay.BetType != domain.BetParlay || parlay.Odds != 596 || parlay.Result != domain.Loss {
		t.Errorf("parlay = %s/%d/%s", parlay.BetType, parlay.Odds, parlay.Result)
	}
	if parlay.MarketCategory != market.CategoryParlays {
		t.Errorf("marketCategory = %q", parlay.MarketCategory)
	}

	want := []struct {
		entity string
		market string
		target string
		ou     domain.OverUnder
		odds   int
		result domain.LegResult
	}{
		{"Los Angeles Lakers", market.Spread, "-4.5", "", -110, domain.LegWin},
		{"LeBron James", market.Points, "25+", "", -150, domain.LegLoss},
		{"Jayson Tatum", market.Points, "27.5", domain.Over, 100, domain.LegLoss},
	}
	if len(parlay.Legs) != len(want) {
		t.Fatalf("got %d legs, want %d: %+v", len(parlay.Legs), len(want), parlay.Legs)
	}
	for i, w := range want {
		l := parlay.Legs[i]
		if l.Entity() != w.entity || l.Market != w.market || l.Target != w.target || l.OU != w.ou || l.Result != w.result {
			t.Errorf("leg %d = %+v, want %+v", i, l, w)
		}
		if l.Odds == nil || *l.Odds != w.odds {
			t.Errorf("leg %d odds = %v, want %d", i, l.Odds, w.odds)
		}
	}

	wantDesc := "Los Angeles Lakers -4.5, LeBron James 25+ Points, Jayson Tatum Over 27.5 Points"
	if parlay.Description != wantDesc {
		t.Errorf("description = %q, want %q", parlay.Description, wantDesc)
	}

	total := bets[1]
	if total.Description != "Over 232.5 Total Points" {
		t.Errorf("well-formed total description rewritten to %q", total.Description)
	}
	if total.MarketCategory != market.CategoryMainMarkets || total.Result != domain.Loss {
		t.Errorf("total = %s/%s", total.MarketCategory, total.Result)
	}
	if total.PlacedAt != "2025-11-15T00:05:00Z" {
		t.Errorf("placedAt = %q", total.PlacedAt)
	}
	if len(total.Legs) != 1 {
		t.Fatalf("got %d legs, want 1", len(total.Legs))
	}
	tl := total.Legs[0]
	if tl.Market != market.Total || tl.OU != domain.Over || tl.Target != "232.5" || tl.Result != domain.LegLoss {
		t.Errorf("total leg = %+v", tl)
	}
}

func TestParseBetsSGP(t *testing.T) {
	bets := parseFixture(t, "sgp.html")
	if len(bets) != 2 {
		t.Fatalf("got %d bets, want 2", len(bets))
	}

	t.Run("labeled rows", func(t *testing.T) {
		b := bets[0]
		if b.BetType != domain.BetSGP || b.Odds != 450 || b.Result != domain.Win {
			t.Fatalf("bet = %s/%d/%s", b.BetType, b.Odds, b.Result)
		}
		if b.PlacedAt != "2025-11-17T01:12:00Z" {
			t.Errorf("placedAt = %q", b.PlacedAt)
		}
		if len(b.Legs) != 1 || !b.Legs[0].IsGroupLeg {
			t.Fatalf("want one group leg, got %+v", b.Legs)
		}

		g := b.Legs[0]
		if g.Target != "Los Angeles Lakers @ Phoenix Suns" {
			t.Errorf("matchup = %q", g.Target)
		}
		if g.Odds == nil || *g.Odds != 450 {
			t.Errorf("group odds = %v", g.Odds)
		}
		if g.Result != domain.LegWin {
			t.Errorf("group result = %q", g.Result)
		}
		if len(g.Children) != 3 {
			t.Fatalf("got %d children, want 3: %+v", len(g.Children), g.Children)
		}
		for i, c := range g.Children {
			if c.Odds != nil {
				t.Errorf("child %d carries odds %d", i, *c.Odds)
			}
		}
		if g.Children[2].Market != market.Moneyline || g.Children[2].Entity() != "Los Angeles Lakers" {
			t.Errorf("moneyline child = %+v", g.Children[2])
		}

		wantDesc := "LeBron James 25+ Points, Anthony Davis 10+ Rebounds, Los Angeles Lakers Moneyline"
		if b.Description != wantDesc {
			t.Errorf("description = %q", b.Description)
		}
	})

	t.Run("text scan rows", func(t *testing.T) {
		b := bets[1]
		if b.BetType != domain.BetSGP || b.Odds != 600 || b.Result != domain.Loss {
			t.Fatalf("bet = %s/%d/%s", b.BetType, b.Odds, b.Result)
		}
		if len(b.Legs) != 1 || !b.Legs[0].IsGroupLeg {
			t.Fatalf("want one group leg, got %+v", b.Legs)
		}
		g := b.Legs[0]
		if g.Target != "Boston Celtics @ New York Knicks" {
			t.Errorf("matchup = %q", g.Target)
		}
		if len(g.Children) != 2 {
			t.Fatalf("got %d children, want 2: %+v", len(g.Children), g.Children)
		}
		if g.Children[0].Entity() != "Jalen Brunson" || g.Children[1].Market != market.Rebounds {
			t.Errorf("children = %+v", g.Children)
		}
		for _, c := range g.Children {
			if c.Result != domain.LegLoss {
				t.Errorf("child %s result = %q, want the ticket's LOSS", c.Entity(), c.Result)
			}
		}
		if g.Result != domain.LegLoss {
			t.Errorf("group result = %q, want LOSS", g.Result)
		}
	})
}

func TestParseBetsSGPPlus(t *testing.T) {
	bets := parseFixture(t, "sgp_plus.html")
	if len(bets) != 2 {
		t.Fatalf("got %d bets, want 2", len(bets))
	}

	t.Run("nested containers with a void leg", func(t *testing.T) {
		b := bets[0]
		if b.BetType != domain.BetSGPPlus || b.Odds != 1200 {
			t.Fatalf("bet = %s/%d", b.BetType, b.Odds)
		}
		if len(b.Legs) != 3 {
			t.Fatalf("got %d legs, want 3: %+v", len(b.Legs), b.Legs)
		}

		voided := b.Legs[0]
		if !voided.IsGroupLeg || voided.Target != "Los Angeles Lakers @ Phoenix Suns" {
			t.Errorf("first group = %+v", voided)
		}
		if voided.Odds == nil || *voided.Odds != 300 {
			t.Errorf("first group odds = %v", voided.Odds)
		}
		if voided.Result != domain.LegPush {
			t.Errorf("voided group result = %q, want PUSH", voided.Result)
		}
		if len(voided.Children) != 2 {
			t.Fatalf("voided group children = %+v", voided.Children)
		}
		if voided.Children[0].Result != domain.LegPush || voided.Children[1].Result != domain.LegVoid {
			t.Errorf("children results = %s, %s", voided.Children[0].Result, voided.Children[1].Result)
		}

		nfl := b.Legs[1]
		if !nfl.IsGroupLeg || nfl.Target != "San Francisco 49ers @ Arizona Cardinals" {
			t.Errorf("second group = %+v", nfl)
		}
		if nfl.Result != domain.LegWin || len(nfl.Children) != 2 {
			t.Errorf("second group = %s with %d children", nfl.Result, len(nfl.Children))
		}
		if nfl.Children[0].Market != market.Yards || nfl.Children[0].OU != domain.Over || nfl.Children[0].Target != "245.5" {
			t.Errorf("yards child = %+v", nfl.Children[0])
		}
		if nfl.Children[1].Market != market.Touchdown || nfl.Children[1].Entity() != "Christian McCaffrey" {
			t.Errorf("touchdown child = %+v", nfl.Children[1])
		}

		plain := b.Legs[2]
		if plain.IsGroupLeg || plain.Market != market.Moneyline || plain.Odds == nil || *plain.Odds != 150 {
			t.Errorf("plain leg = %+v", plain)
		}

		wantDesc := "3-leg Same Game Parlay Plus: SGP (Los Angeles Lakers @ Phoenix Suns) + SGP (San Francisco 49ers @ Arizona Cardinals) + Phoenix Suns Moneyline"
		if b.Description != wantDesc {
			t.Errorf("description = %q", b.Description)
		}
	})

	t.Run("odds clustering fallback", func(t *testing.T) {
		b := bets[1]
		if len(b.Legs) != 2 {
			t.Fatalf("got %d legs, want 2: %+v", len(b.Legs), b.Legs)
		}
		g := b.Legs[0]
		if !g.IsGroupLeg || g.Odds == nil || *g.Odds != 300 || len(g.Children) != 2 {
			t.Fatalf("group = %+v", g)
		}
		for _, c := range g.Children {
			if c.Odds != nil {
				t.Errorf("clustered child keeps odds: %+v", c)
			}
		}
		if g.Target != "Los Angeles Lakers @ Phoenix Suns" {
			t.Errorf("matchup = %q", g.Target)
		}
		if b.Legs[1].Market != market.Moneyline {
			t.Errorf("plain leg = %+v", b.Legs[1])
		}
		if !strings.HasPrefix(b.Description, "2-leg Same Game Parlay Plus: SGP (") {
			t.Errorf("description = %q", b.Description)
		}
	})
}

func TestParseBetsIdempotent(t *testing.T) {
	for _, name := range []string{"single.html", "parlay.html", "sgp.html", "sgp_plus.html"} {
		t.Run(name, func(t *testing.T) {
			first, err := json.Marshal(parseFixture(t, name))
			if err != nil {
				t.Fatal(err)
			}
			second, err := json.Marshal(parseFixture(t, name))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(first, second) {
				t.Errorf("two parses differ:\n%s\n%s", first, second)
			}
		})
	}
}

func TestParseBetsEmpty(t *testing.T) {
	p := newFanDuelParser()
	if _, err := p.ParseBets("  \n "); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}

	bets, err := p.ParseBets("<html><body><p>No settled bets</p></body></html>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bets) != 0 {
		t.Errorf("got %d bets from a page without cards", len(bets))
	}
}

func TestParseCard(t *testing.T) {
	p := newFanDuelParser(WithNow(func() time.Time { return fixedNow }))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fixture(t, "parlay.html")))
	if err != nil {
		t.Fatal(err)
	}

	bet, err := p.ParseCard(doc.Find(".bet-card").Last())
	if err != nil {
		t.Fatalf("ParseCard: %v", err)
	}
	if bet.BetID != "O/0242888/0027990" {
		t.Errorf("betId = %q", bet.BetID)
	}

	if _, err := p.ParseCard(doc.Find(".settled-bets")); !errors.Is(err, ErrNotACard) {
		t.Errorf("err = %v, want ErrNotACard for a node with two cards", err)
	}
	if _, err := p.ParseCard(doc.Find(".missing")); !errors.Is(err, ErrNotACard) {
		t.Errorf("err = %v, want ErrNotACard for an empty selection", err)
	}
}

func TestSafeParseCardRecovers(t *testing.T) {
	p := newFanDuelParser()
	if _, err := p.safeParseCard(nil); !errors.Is(err, ErrCardPanic) {
		t.Errorf("err = %v, want ErrCardPanic", err)
	}
}

func TestMissingBetIDIsDeterministic(t *testing.T) {
	p := newFanDuelParser()
	page := `<div><div><span>Phoenix Suns Moneyline</span><span>+150</span></div>
<div><span>TOTAL WAGER $2.00</span><span>LOST</span><span>BET ID:</span></div></div>`

	first, err := p.ParseBets(page)
	if err != nil || len(first) != 1 {
		t.Fatalf("ParseBets = %v, %v", first, err)
	}
	second, _ := p.ParseBets(page)
	if first[0].BetID == "" || first[0].BetID != second[0].BetID {
		t.Errorf("fallback ids %q and %q", first[0].BetID, second[0].BetID)
	}
}

func TestDetectBetType(t *testing.T) {
	tests := []struct {
		text string
		want domain.BetType
	}{
		{"Same Game Parlay Plus +1200", domain.BetSGPPlus},
		{"Includes: 2 Same Game Parlays + 1 selection", domain.BetSGPPlus},
		{"Same Game Parlay +450", domain.BetSGP},
		{"3 leg parlay +596", domain.BetParlay},
		{"Will Richard 3+ MADE THREES +360", domain.BetSingle},
	}
	for _, tt := range tests {
		if got := detectBetType(tt.text); got != tt.want {
			t.Errorf("detectBetType(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestParseBetsBannerWithoutOdds(t *testing.T) {
	bets := parseFixture(t, "parlay_plain_banner.html")
	if len(bets) != 1 {
		t.Fatalf("got %d bets, want 1", len(bets))
	}
	b := bets[0]

	if b.BetType != domain.BetParlay || b.Result != domain.Loss {
		t.Errorf("bet = %s/%s", b.BetType, b.Result)
	}
	if b.Odds != 0 {
		t.Errorf("odds = %d, want 0 since the banner has none", b.Odds)
	}

	want := []struct {
		entity string
		odds   int
		result domain.LegResult
	}{
		{"LeBron James", -150, domain.LegLoss},
		{"Jayson Tatum", 100, domain.LegWin},
	}
	if len(b.Legs) != len(want) {
		t.Fatalf("got %d legs, want %d: %+v", len(b.Legs), len(want), b.Legs)
	}
	for i, w := range want {
		l := b.Legs[i]
		if l.Entity() != w.entity || l.Result != w.result {
			t.Errorf("leg %d = %+v, want %+v", i, l, w)
		}
		if l.Odds == nil || *l.Odds != w.odds {
			t.Errorf("leg %d odds = %v, want %d", i, l.Odds, w.odds)
		}
	}

	wantDesc := "LeBron James 25+ Points, Jayson Tatum Over 27.5 Points"
	if b.Description != wantDesc {
		t.Errorf("description = %q, want %q", b.Description, wantDesc)
	}
}

func TestParseBetsKeepsFooterResultOnConflict(t *testing.T) {
	page := strings.Replace(fixture(t, "sgp.html"),
		"<span>WON ON FANDUEL</span><span>$55.00</span>", "<span>LOST</span>", 1)

	obs, logs := observer.New(zapcore.WarnLevel)
	p := newFanDuelParser(
		WithLogger(zap.New(obs)),
		WithNow(func() time.Time { return fixedNow }),
	)

	bets, err := p.ParseBets(page)
	if err != nil {
		t.Fatalf("ParseBets: %v", err)
	}
	if len(bets) != 2 {
		t.Fatalf("got %d bets, want 2", len(bets))
	}

	b := bets[0]
	if b.Result != domain.Loss {
		t.Errorf("result = %q, want the footer's loss", b.Result)
	}
	if len(b.Legs) != 1 || b.Legs[0].Result != domain.LegWin {
		t.Fatalf("legs = %+v, want one winning group", b.Legs)
	}

	warned := logs.FilterMessage("all legs won but ticket lost, legs are probably missing")
	if warned.Len() != 1 {
		t.Fatalf("got %d warnings, want 1: %v", warned.Len(), logs.All())
	}
	if id := warned.All()[0].ContextMap()["betId"]; id != "O/0242888/0028001" {
		t.Errorf("warning betId = %v", id)
	}
}

func TestParseBetsSkipsFailingCard(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		if calls == 1 {
			panic("clock unavailable")
		}
		return fixedNow
	}

	obs, logs := observer.New(zapcore.WarnLevel)
	p := newFanDuelParser(WithLogger(zap.New(obs)), WithNow(clock))

	bets, err := p.ParseBets(fixture(t, "parlay.html"))
	if err != nil {
		t.Fatalf("ParseBets: %v", err)
	}
	if len(bets) != 1 {
		t.Fatalf("got %d bets, want the 1 card that did not fail", len(bets))
	}
	if bets[0].BetID != "O/0242888/0027990" {
		t.Errorf("betId = %q, want the second card", bets[0].BetID)
	}

	skipped := logs.FilterMessage("skipping bet card")
	if skipped.Len() != 1 {
		t.Fatalf("got %d skip warnings, want 1", skipped.Len())
	}
	if err, _ := skipped.All()[0].ContextMap()["error"].(string); !strings.Contains(err, ErrCardPanic.Error()) {
		t.Errorf("skip warning error = %q", err)
	}
}
