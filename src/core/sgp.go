package core

import (
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/extract"
)

const groupMarket = "SGP"

var (
	sgpMarkerRegex    = regexp.MustCompile(`(?i)same\s+game\s+parlay|\bsgp\b`)
	sgpNotMarkerRegex = regexp.MustCompile(`(?i)\bplus\b|sgp\+|\bincludes\b`)
)

// container is one nested same game parlay found in the card.
type container struct {
	node *html.Node
	odds *int
	rows []*html.Node
}

// sgpContainers locates same game parlay containers. From every marker
// ("Same Game Parlay" as an element's own text) it climbs to the narrowest
// ancestor that owns leg rows. With nested set the card itself never counts
// as a container.
func (p *FanDuelParser) sgpContainers(card, header *html.Node, nested bool) []container {
	var found []container
	seen := map[*html.Node]bool{}

	for _, m := range elements(card) {
		own := ownText(m)
		if !sgpMarkerRegex.MatchString(own) || sgpNotMarkerRegex.MatchString(own) {
			continue
		}
		if nested && header != nil && contains(header, m) {
			continue
		}

		for c := m; c != nil && contains(card, c); c = c.Parent {
			if nested && c == card {
				break
			}
			rows := p.locateRows(c, []*html.Node{header}, true)
			if len(rows) == 0 {
				continue
			}
			if !seen[c] {
				seen[c] = true
				found = append(found, container{node: c, odds: containerOdds(c, p.sel), rows: rows})
			}
			break
		}
	}

	return p.dedupContainers(found)
}

func containerOdds(n *html.Node, sel Selector) *int {
	els := oddsElements(n, sel)
	if len(els) == 0 {
		return nil
	}
	if v, ok := oddsOf(els[0]); ok {
		return domain.IntPtr(v)
	}
	return nil
}

// dedupContainers merges containers that stand for the same nested parlay:
// among nesting containers with the same odds the one with fewer rows wins,
// and any container wrapping another one is dropped.
func (p *FanDuelParser) dedupContainers(list []container) []container {
	drop := make([]bool, len(list))

	for i := range list {
		for j := range list {
			if i == j || drop[i] || drop[j] {
				continue
			}
			a, b := list[i], list[j]
			if !contains(a.node, b.node) {
				continue
			}
			if sameOdds(a.odds, b.odds) && len(a.rows) < len(b.rows) {
				drop[j] = true
				continue
			}
			drop[i] = true
		}
	}

	var out []container
	for i, c := range list {
		if !drop[i] {
			out = append(out, c)
		}
	}
	return out
}

func sameOdds(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// groupLeg builds the synthetic leg for one container. Children never carry
// odds; the group carries the container's odds or, failing that, the
// header's.
func (p *FanDuelParser) groupLeg(c container, others []*html.Node, headerOdds *int, fallback domain.LegResult) *domain.BetLeg {
	scope := append(append([]*html.Node(nil), others...), c.rows...)

	var children []domain.BetLeg
	for _, r := range c.rows {
		leg := p.buildLeg(r, c.node, scope, legHints{result: fallback, suppressOdds: true})
		if leg != nil {
			children = append(children, *leg)
		}
	}
	children = p.cleanLegs(children)
	if len(children) == 0 {
		return nil
	}

	g := &domain.BetLeg{
		Market:     groupMarket,
		IsGroupLeg: true,
		Children:   children,
		Target:     extract.Matchup(textExcluding(c.node, scope), p.Dictionary.TeamNames()),
	}
	switch {
	case c.odds != nil:
		g.Odds = domain.IntPtr(*c.odds)
	case headerOdds != nil:
		g.Odds = domain.IntPtr(*headerOdds)
	}

	domain.SettleGroup(g)
	return g
}

type placedLeg struct {
	node *html.Node
	leg  domain.BetLeg
}

// clusterByOdds is the fallback when no container could be matched: legs
// sharing one odds figure are taken as one nested parlay.
func (p *FanDuelParser) clusterByOdds(card *html.Node, legs []placedLeg) []placedLeg {
	type cluster struct {
		odds    int
		members []int
	}
	var clusters []*cluster
	byOdds := map[int]*cluster{}

	for i, pl := range legs {
		if pl.leg.Odds == nil || pl.leg.IsGroupLeg {
			continue
		}
		c, ok := byOdds[*pl.leg.Odds]
		if !ok {
			c = &cluster{odds: *pl.leg.Odds}
			byOdds[c.odds] = c
			clusters = append(clusters, c)
		}
		c.members = append(c.members, i)
	}

	grouped := make([]bool, len(legs))
	var out []placedLeg
	emitted := map[*cluster]bool{}

	for i, pl := range legs {
		if grouped[i] {
			continue
		}
		var c *cluster
		if pl.leg.Odds != nil {
			c = byOdds[*pl.leg.Odds]
		}
		if c == nil || len(c.members) < 2 || emitted[c] {
			out = append(out, pl)
			continue
		}

		emitted[c] = true
		var (
			children []domain.BetLeg
			nodes    []*html.Node
		)
		for _, idx := range c.members {
			grouped[idx] = true
			child := legs[idx].leg
			child.Odds = nil
			children = append(children, child)
			nodes = append(nodes, legs[idx].node)
		}

		g := domain.BetLeg{
			Market:     groupMarket,
			IsGroupLeg: true,
			Odds:       domain.IntPtr(c.odds),
			Children:   children,
			Target:     extract.Matchup(textExcluding(commonAncestor(card, nodes), nodes), p.Dictionary.TeamNames()),
		}
		domain.SettleGroup(&g)
		p.Logger.Debug("synthesized group from shared odds",
			zap.Int("odds", c.odds),
			zap.Int("legs", len(children)),
		)
		out = append(out, placedLeg{node: pl.node, leg: g})
	}

	return out
}

func commonAncestor(root *html.Node, list []*html.Node) *html.Node {
	if len(list) == 0 {
		return root
	}
	for a := list[0]; a != nil; a = a.Parent {
		all := true
		for _, n := range list[1:] {
			if !contains(a, n) {
				all = false
				break
			}
		}
		if all {
			return a
		}
		if a == root {
			break
		}
	}
	return root
}
