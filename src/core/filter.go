package core

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/market"
)

var genericEntities = map[string]bool{
	"parlay":           true,
	"parlay™":          true,
	"same game":        true,
	"same game parlay": true,
	"sgp":              true,
	"sgp+":             true,
	"made":             true,
	"threes":           true,
	"points":           true,
	"rebounds":         true,
	"assists":          true,
	"over":             true,
	"under":            true,
	"total":            true,
	"includes":         true,
	"selection":        true,
	"selections":       true,
	"leg":              true,
	"legs":             true,
	"finished":         true,
	"box score":        true,
}

var noisyTargetRegex = regexp.MustCompile(`@|(?i)\b(?:finished|final|box score)\b`)

// cleanLegs runs dedup, the noise filter and the shadowed-generic pass.
func (p *FanDuelParser) cleanLegs(legs []domain.BetLeg) []domain.BetLeg {
	return dropShadowedGeneric(p.filterNoise(dedupLegs(legs)))
}

func legKey(l domain.BetLeg) string {
	return strings.ToLower(strings.Join([]string{l.Entity(), l.Market, l.Target, string(l.OU)}, "|"))
}

// dedupLegs keeps the first of every (entity, market, target, over/under)
// and backfills its odds from a later duplicate.
func dedupLegs(legs []domain.BetLeg) []domain.BetLeg {
	out := make([]domain.BetLeg, 0, len(legs))
	index := map[string]int{}

	for _, l := range legs {
		if l.IsGroupLeg {
			out = append(out, l)
			continue
		}
		key := legKey(l)
		if i, ok := index[key]; ok {
			if out[i].Odds == nil && l.Odds != nil {
				out[i].Odds = domain.IntPtr(*l.Odds)
			}
			continue
		}
		index[key] = len(out)
		out = append(out, l)
	}
	return out
}

// filterNoise drops promotional entities, team names on player props,
// floating stat fragments and legs whose target is still game-line noise.
func (p *FanDuelParser) filterNoise(legs []domain.BetLeg) []domain.BetLeg {
	out := legs[:0]
	for _, l := range legs {
		if l.IsGroupLeg {
			out = append(out, l)
			continue
		}

		entity := strings.TrimSpace(l.Entity())
		switch {
		case entity != "" && genericEntities[strings.ToLower(entity)]:
			p.Logger.Debug("dropping promotional leg", zap.String("entity", entity))
			continue
		case entity != "" && market.IsProp(l.Market) && p.Dictionary.IsTeam(entity):
			continue
		case entity == "" && (l.Market == market.Other || l.Market == "" || market.IsProp(l.Market)):
			continue
		case noisyTargetRegex.MatchString(l.Target) || p.Dictionary.IsTeam(l.Target):
			continue
		}
		out = append(out, l)
	}
	return out
}

// dropShadowedGeneric removes "Other" legs when a leg with a real market
// exists for the same entity and target.
func dropShadowedGeneric(legs []domain.BetLeg) []domain.BetLeg {
	specific := map[string]bool{}
	for _, l := range legs {
		if !l.IsGroupLeg && l.Market != market.Other {
			specific[shadowKey(l)] = true
		}
	}

	out := legs[:0]
	for _, l := range legs {
		if !l.IsGroupLeg && l.Market == market.Other && specific[shadowKey(l)] {
			continue
		}
		out = append(out, l)
	}
	return out
}

func shadowKey(l domain.BetLeg) string {
	return strings.ToLower(l.Entity() + "|" + l.Target)
}
