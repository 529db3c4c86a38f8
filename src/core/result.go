package core

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"mxshs/betledger/src/domain"
)

const iconClimbDepth = 4

const (
	fillWin  = "#128000"
	fillLoss = "#d22839"
	fillVoid = "#f5a623"
)

// resolveResult settles one row: icon in the row, then icons next to the row
// up to four ancestors high (never inside another row), then "void" text,
// then the fallback.
func (p *FanDuelParser) resolveResult(row, boundary *html.Node, rows []*html.Node, fallback domain.LegResult) domain.LegResult {
	if r, ok := p.iconResult(row); ok {
		return r
	}

	child := row
	for depth := 0; depth < iconClimbDepth; depth++ {
		parent := child.Parent
		if parent == nil || parent == boundary.Parent {
			break
		}
		for _, sib := range elementChildren(parent) {
			if sib == child || containsAny(sib, rows) || len(oddsElements(sib, p.sel)) > 0 {
				continue
			}
			if r, ok := p.iconResult(sib); ok {
				return r
			}
		}
		if parent == boundary {
			break
		}
		child = parent
	}

	if voidRegex.MatchString(textOf(row)) {
		return domain.LegVoid
	}
	if fallback == "" {
		return domain.LegUnknown
	}
	return fallback
}

// iconResult reads the first status icon in n's subtree, n included.
func (p *FanDuelParser) iconResult(n *html.Node) (domain.LegResult, bool) {
	if r, ok := iconNodeResult(n); ok {
		return r, true
	}
	var (
		r     domain.LegResult
		found bool
	)
	selection(n).Find(p.sel.Icon).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		r, found = iconNodeResult(s.Get(0))
		return !found
	})
	return r, found
}

func iconNodeResult(n *html.Node) (domain.LegResult, bool) {
	if n == nil || n.Type != html.ElementNode {
		return "", false
	}

	fill, _ := attr(n, "fill")
	fill = strings.ToLower(strings.TrimSpace(fill))
	switch fill {
	case fillWin:
		return domain.LegWin, true
	case fillLoss:
		return domain.LegLoss, true
	case fillVoid:
		return domain.LegVoid, true
	}

	for _, key := range []string{"id", "href", "xlink:href", "data-icon"} {
		v, ok := attr(n, key)
		if !ok {
			continue
		}
		v = strings.ToLower(v)
		switch {
		case strings.Contains(v, "tick-circle"):
			return domain.LegWin, true
		case strings.Contains(v, "cross-circle"):
			return domain.LegLoss, true
		case strings.Contains(v, "warning"):
			return domain.LegVoid, true
		}
	}
	return "", false
}
