package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/extract"
	"mxshs/betledger/src/market"
	"mxshs/betledger/src/normalize"
)

const maxSpread = 60

var statusWordRegex = regexp.MustCompile(`(?i)\b(?:won|lost|void(?:ed)?|pushed|pending|settled|live)\b`)

// legHints carry what the caller already knows about a leg.
type legHints struct {
	odds         *int
	market       string
	result       domain.LegResult
	suppressOdds bool
}

// buildLeg turns one row into a leg. others are the rows and containers the
// odds and icon searches must not reach into. Returns nil when the row has
// neither an entity nor a recognizable market.
func (p *FanDuelParser) buildLeg(row, boundary *html.Node, others []*html.Node, h legHints) *domain.BetLeg {
	var leg *domain.BetLeg
	if label, ok := attr(row, "aria-label"); ok {
		if _, isOdds := extract.ParseOddsLabel(label); !isOdds {
			leg = p.legFromDescription(label, h)
		}
	}
	if leg == nil {
		leg = p.legFromDescription(textOf(row), h)
	}
	if leg == nil {
		return nil
	}

	if !h.suppressOdds {
		if v, ok := p.rowOdds(row, others); ok {
			leg.Odds = domain.IntPtr(v)
		} else if h.odds != nil {
			leg.Odds = domain.IntPtr(*h.odds)
		}
	}

	leg.Result = p.resolveResult(row, boundary, others, h.result)
	return leg
}

// buildLegFromText is buildLeg for a bare text fragment such as a header.
func (p *FanDuelParser) buildLegFromText(text string, h legHints) *domain.BetLeg {
	leg := p.legFromDescription(text, h)
	if leg == nil {
		return nil
	}

	if !h.suppressOdds {
		if v, ok := extract.ParseOdds(text); ok {
			leg.Odds = domain.IntPtr(v)
		} else if h.odds != nil {
			leg.Odds = domain.IntPtr(*h.odds)
		}
	}

	switch {
	case voidRegex.MatchString(text):
		leg.Result = domain.LegVoid
	case h.result != "":
		leg.Result = h.result
	default:
		leg.Result = domain.LegUnknown
	}
	return leg
}

func (p *FanDuelParser) legFromDescription(desc string, h legHints) *domain.BetLeg {
	teams := p.Dictionary.TeamNames()
	clean := p.legText(desc)
	if clean == "" {
		return nil
	}

	f := extract.DeriveFields(clean)
	name := normalize.EntityName(f.Name, teams...)

	code := f.Type
	if code == "" {
		code = h.market
	}
	if name == "" && code == "" {
		return nil
	}
	if code == "" {
		code = market.Other
	}

	leg := &domain.BetLeg{
		Market: code,
		Target: validTarget(f.Line, code),
		OU:     f.OU,
	}
	if name != "" {
		leg.Entities = []string{name}
	}
	return leg
}

// legText strips odds, status words and a trailing "<Team> @ <Team>" game
// line from a row's text.
func (p *FanDuelParser) legText(desc string) string {
	text := normalize.Text(desc)
	text = extract.StripOdds(text)
	text = normalize.Spaces(statusWordRegex.ReplaceAllString(text, " "))

	m := extract.Matchup(text, p.Dictionary.TeamNames())
	if m == "" {
		return text
	}

	left := strings.SplitN(m, " @ ", 2)[0]
	at := strings.Index(text, "@")
	if at < 0 {
		return text
	}
	cut := strings.LastIndex(strings.ToLower(text[:at]), strings.ToLower(left))
	if cut > 0 {
		return strings.TrimSpace(text[:cut])
	}
	return text
}

// validTarget rejects lines that are really odds and spreads too large to be
// spreads.
func validTarget(line, code string) string {
	if line == "" || extract.OddsTokenRegex.MatchString(line) {
		return ""
	}
	if code == market.Spread {
		v, err := strconv.ParseFloat(strings.TrimPrefix(line, "+"), 64)
		if err != nil || math.Abs(v) > maxSpread {
			return ""
		}
	}
	return line
}

// rowOdds runs the node-level odds search: labeled odds in the row, an odds
// span in the row, the row's next sibling, the parent's other children,
// then free text.
func (p *FanDuelParser) rowOdds(row *html.Node, others []*html.Node) (int, bool) {
	if v, ok := oddsOf(row); ok {
		return v, true
	}
	for _, q := range []string{p.sel.OddsLabel, p.sel.OddsSpan} {
		var (
			v  int
			ok bool
		)
		selection(row).Find(q).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v, ok = oddsOf(s.Get(0))
			return !ok
		})
		if ok {
			return v, true
		}
	}

	if sib := nextElementSibling(row); sib != nil && !containsAny(sib, others) {
		if v, ok := oddsOf(sib); ok {
			return v, true
		}
		if els := oddsElements(sib, p.sel); len(els) > 0 {
			return oddsOf(els[0])
		}
	}

	if row.Parent != nil {
		for _, c := range elementChildren(row.Parent) {
			if c == row || containsAny(c, others) {
				continue
			}
			if v, ok := oddsOf(c); ok {
				return v, true
			}
		}
	}

	return extract.ParseOdds(textOf(row))
}
