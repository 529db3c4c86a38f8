package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/extract"
	"mxshs/betledger/src/market"
)

// assemble combines header, footer and legs into the final bet.
func (p *FanDuelParser) assemble(raw string, header domain.HeaderInfo, footer domain.FooterMeta, t domain.BetType, legs []domain.BetLeg) *domain.Bet {
	if t == domain.BetSingle && len(legs) > 1 {
		t = domain.BetParlay
	}

	bet := &domain.Bet{
		Book:    Book,
		BetID:   footer.BetID,
		BetType: t,
		Stake:   footer.Stake,
		Payout:  footer.Payout,
		Result:  footer.Result,
		Legs:    legs,
		IsLive:  header.IsLive,
		Raw:     raw,
	}

	if bet.BetID == "" {
		bet.BetID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(raw)).String()
	}
	bet.PlacedAt = placedAt(footer.PlacedAt, p.Now())
	bet.ID = strings.Join([]string{Book, bet.BetID, bet.PlacedAt}, ":")

	switch {
	case header.HasOdds:
		bet.Odds = header.Odds
	case len(legs) == 1 && legs[0].Odds != nil:
		bet.Odds = *legs[0].Odds
	}

	code := ""
	if len(legs) == 1 && !legs[0].IsGroupLeg {
		code = legs[0].Market
	}
	if t == domain.BetSingle && len(legs) == 1 {
		bet.Name = legs[0].Entity()
	}

	bet.MarketCategory = market.Category(t, code, market.IsFutures(header.Text))
	bet.Sport = p.Dictionary.SportOf(raw)
	if bet.Sport == "" {
		bet.Sport = p.sportFromLegs(legs)
	}
	if bet.Sport == "" {
		bet.Sport = header.Sport
	}

	bet.Description = describe(t, header, legs)
	p.checkConsistency(bet)

	return bet
}

func (p *FanDuelParser) sportFromLegs(legs []domain.BetLeg) string {
	for _, l := range legs {
		if s := p.Dictionary.SportForMarket(l.Market); s != "" {
			return s
		}
		if s := p.sportFromLegs(l.Children); s != "" {
			return s
		}
	}
	return ""
}

// checkConsistency logs tickets whose legs all won while the footer says the
// ticket lost. The footer result is kept: legs may be under-extracted, the
// vendor's settlement is not.
func (p *FanDuelParser) checkConsistency(bet *domain.Bet) {
	if bet.BetType != domain.BetSGP && bet.BetType != domain.BetSGPPlus {
		return
	}
	if bet.Result != domain.Loss || len(bet.Legs) == 0 {
		return
	}
	for _, l := range bet.Legs {
		if l.Result != domain.LegWin {
			return
		}
	}
	p.Logger.Warn("all legs won but ticket lost, legs are probably missing",
		zap.String("betId", bet.BetID),
		zap.Int("legs", len(bet.Legs)),
	)
}

func describe(t domain.BetType, header domain.HeaderInfo, legs []domain.BetLeg) string {
	var desc string

	switch t {
	case domain.BetSGPPlus:
		if len(legs) > 0 {
			desc = fmt.Sprintf("%d-leg Same Game Parlay Plus: %s", len(legs), joinSummaries(legs, " + "))
		}
	case domain.BetSGP:
		if len(legs) == 1 && legs[0].IsGroupLeg {
			desc = joinSummaries(legs[0].Children, ", ")
		} else {
			desc = joinSummaries(legs, ", ")
		}
	case domain.BetParlay:
		desc = joinSummaries(legs, ", ")
	default:
		switch {
		case extract.WellFormed(header.Description):
			desc = header.Description
		case len(legs) == 1:
			desc = formatLegSummary(legs[0])
		}
	}

	if desc == "" {
		desc = header.Description
	}
	return desc
}

func joinSummaries(legs []domain.BetLeg, sep string) string {
	parts := make([]string, 0, len(legs))
	for _, l := range legs {
		if s := formatLegSummary(l); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

// formatLegSummary renders one leg as "<Name> <Target> <Market>".
func formatLegSummary(l domain.BetLeg) string {
	if l.IsGroupLeg {
		if l.Target == "" {
			return "SGP"
		}
		return "SGP (" + l.Target + ")"
	}

	name := l.Entity()
	switch l.Market {
	case market.Spread:
		return joinWords(name, l.Target)
	case market.Moneyline:
		return joinWords(name, "Moneyline")
	case market.Threes:
		return joinWords(name, string(l.OU), l.Target, "Made Threes")
	case market.Total:
		return joinWords(name, string(l.OU), l.Target, "Total Points")
	case market.Other:
		return joinWords(name, string(l.OU), l.Target)
	}
	return joinWords(name, string(l.OU), l.Target, market.Label(l.Market))
}

func joinWords(words ...string) string {
	kept := words[:0]
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
