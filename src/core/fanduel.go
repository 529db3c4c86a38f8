package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"mxshs/betledger/src/domain"
)

const Book = "FanDuel"

var fanDuelSelector = Selector{
	CardMarker:  "body *",
	OddsLabel:   `[aria-label^="Odds"], [aria-label^="odds"]`,
	LabeledNode: "[aria-label]",
	NotRow:      "span, svg, path, g, use, a, button, img",
	Icon:        "svg, path, use, g, img",
	OddsSpan:    "span",
}

var (
	sgpPlusRegex = regexp.MustCompile(`(?i)same\s+game\s+parlay\s+plus|\bsgp\+|includes\s*:?\s*\d+\s+same\s+game\s+parlays?`)
	sgpRegex     = regexp.MustCompile(`(?i)same\s+game\s+parlay|\bsgp\b`)
	parlayRegex  = regexp.MustCompile(`(?i)\b\d+\s*-?\s*leg\s+parlay|\bparlay\b`)
)

func GetFanDuelParser(opts ...Option) BetParser {
	return newFanDuelParser(opts...)
}

type FanDuelParser struct {
	Parser
	sel Selector
}

func newFanDuelParser(opts ...Option) *FanDuelParser {
	return &FanDuelParser{
		Parser: newParser(opts...),
		sel:    fanDuelSelector,
	}
}

// ParseBets extracts every bet card of a settled-bets page. A card that
// fails is logged and skipped; only an empty or unparsable document is an
// error.
func (p *FanDuelParser) ParseBets(page string) ([]domain.Bet, error) {
	if strings.TrimSpace(page) == "" {
		return nil, ErrEmptyDocument
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	cards := splitCards(doc, p.sel)
	bets := make([]domain.Bet, 0, len(cards))

	for i, card := range cards {
		bet, err := p.safeParseCard(card)
		if err != nil {
			p.Logger.Warn("skipping bet card", zap.Int("card", i), zap.Error(err))
			continue
		}
		bets = append(bets, *bet)
	}

	p.Logger.Debug("parsed page",
		zap.Int("cards", len(cards)),
		zap.Int("bets", len(bets)),
	)

	return bets, nil
}

// ParseCard extracts a single card that the caller already located.
func (p *FanDuelParser) ParseCard(card *goquery.Selection) (*domain.Bet, error) {
	if card == nil || card.Length() == 0 {
		return nil, ErrNotACard
	}
	n := card.Get(0)
	if countBetIDs(n) != 1 {
		return nil, ErrNotACard
	}
	return p.safeParseCard(n)
}

func (p *FanDuelParser) safeParseCard(card *html.Node) (bet *domain.Bet, err error) {
	defer func() {
		if r := recover(); r != nil {
			bet, err = nil, fmt.Errorf("%w: %v", ErrCardPanic, r)
		}
	}()
	return p.parseCard(card), nil
}

func (p *FanDuelParser) parseCard(card *html.Node) *domain.Bet {
	raw := textOf(card)
	header, headerNode := parseHeader(card, p.sel)
	footer := parseFooter(raw)
	betType := detectBetType(raw)
	fallback := legFallback(footer.Result)

	var legs []domain.BetLeg
	switch betType {
	case domain.BetSGPPlus:
		legs = p.groupedLegs(card, headerNode, header, fallback, true)
	case domain.BetSGP:
		legs = p.groupedLegs(card, headerNode, header, fallback, false)
	default:
		legs = p.plainLegs(card, headerNode, header, betType, fallback)
	}

	return p.assemble(raw, header, footer, betType, legs)
}

func detectBetType(text string) domain.BetType {
	switch {
	case sgpPlusRegex.MatchString(text):
		return domain.BetSGPPlus
	case sgpRegex.MatchString(text):
		return domain.BetSGP
	case parlayRegex.MatchString(text):
		return domain.BetParlay
	}
	return domain.BetSingle
}

// legFallback is the result given to legs without any icon or void text:
// the ticket's own settlement.
func legFallback(r domain.BetResult) domain.LegResult {
	return domain.LegResultFor(r)
}

func headerOdds(h domain.HeaderInfo) *int {
	if !h.HasOdds {
		return nil
	}
	return domain.IntPtr(h.Odds)
}

func nonNil(list ...*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(list))
	for _, n := range list {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// plainLegs handles singles and parlays: every row is one leg. A single
// without rows falls back to its header.
func (p *FanDuelParser) plainLegs(card, headerNode *html.Node, header domain.HeaderInfo, t domain.BetType, fallback domain.LegResult) []domain.BetLeg {
	exclude := nonNil(headerNode)
	rows := p.locateRows(card, exclude, false)
	others := append(append([]*html.Node(nil), exclude...), rows...)

	hints := legHints{result: fallback}
	if t == domain.BetSingle {
		hints.odds = headerOdds(header)
	}

	var legs []domain.BetLeg
	for _, r := range rows {
		if leg := p.buildLeg(r, card, others, hints); leg != nil {
			legs = append(legs, *leg)
		}
	}
	legs = p.cleanLegs(legs)

	if len(legs) == 0 && header.Description != "" {
		if leg := p.buildLegFromText(header.Description, hints); leg != nil {
			legs = p.cleanLegs([]domain.BetLeg{*leg})
		}
	}
	return legs
}

// groupedLegs handles same game parlays. nested is set for SGP+ tickets,
// where the containers sit inside the card and any row outside them is a
// plain selection with its own odds. For a plain SGP the whole card may be
// the container and loose rows never carry odds.
func (p *FanDuelParser) groupedLegs(card, headerNode *html.Node, header domain.HeaderInfo, fallback domain.LegResult, nested bool) []domain.BetLeg {
	hOdds := headerOdds(header)

	containers := p.sgpContainers(card, headerNode, nested)
	if len(containers) == 0 && !nested {
		if rows := p.locateRows(card, nonNil(headerNode), true); len(rows) > 0 {
			containers = []container{{node: card, odds: hOdds, rows: rows}}
		}
	}

	exclude := nonNil(headerNode)
	for _, c := range containers {
		exclude = append(exclude, c.node)
	}

	var placed []placedLeg
	for _, c := range containers {
		others := nonNil(headerNode)
		for _, o := range containers {
			if o.node != c.node {
				others = append(others, o.node)
			}
		}
		if g := p.groupLeg(c, others, hOdds, fallback); g != nil {
			placed = append(placed, placedLeg{node: c.node, leg: *g})
		}
	}

	rows := p.locateRows(card, exclude, len(containers) == 0)
	others := append(append([]*html.Node(nil), exclude...), rows...)
	var loose []placedLeg
	for _, r := range rows {
		leg := p.buildLeg(r, card, others, legHints{result: fallback, suppressOdds: !nested})
		if leg != nil {
			loose = append(loose, placedLeg{node: r, leg: *leg})
		}
	}

	if len(containers) == 0 && nested {
		loose = p.clusterByOdds(card, loose)
	}
	placed = append(placed, loose...)

	sortPlaced(card, placed)

	legs := make([]domain.BetLeg, 0, len(placed))
	for _, pl := range placed {
		legs = append(legs, pl.leg)
	}
	return p.cleanLegs(legs)
}

func sortPlaced(scope *html.Node, list []placedLeg) {
	pos := docOrder(scope)
	sort.SliceStable(list, func(i, j int) bool {
		return pos[list[i].node] < pos[list[j].node]
	})
}
