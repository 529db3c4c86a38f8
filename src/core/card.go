package core

import (
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/extract"
	"mxshs/betledger/src/normalize"
)

var (
	stakeRegex     = regexp.MustCompile(`(?i)total\s+wager\s*:?\s*-?\$?\s*([\d,]+(?:\.\d+)?)`)
	wonRegex       = regexp.MustCompile(`(?i)won\s+on\s+fanduel\s*:?\s*\$?\s*([\d,]+(?:\.\d+)?)`)
	returnedRegex  = regexp.MustCompile(`(?i)\b(?:returned|refunded)\s*:?\s*\$?\s*([\d,]+(?:\.\d+)?)`)
	potentialRegex = regexp.MustCompile(`(?i)\b(?:potential\s+payout|to\s+pay|to\s+win)\s*:?\s*\$?\s*([\d,]+(?:\.\d+)?)`)
	payoutRegex    = regexp.MustCompile(`(?i)\b(?:payout|cashed\s+out)\s*:?\s*\$?\s*([\d,]+(?:\.\d+)?)`)
	lostRegex      = regexp.MustCompile(`(?i)\blost\b`)
	voidRegex      = regexp.MustCompile(`(?i)\bvoid(?:ed)?\b`)
	betIDRegex     = regexp.MustCompile(`(?i)bet\s*id\s*:?\s*([A-Z0-9][A-Z0-9/\-]*)`)
	placedRegex    = regexp.MustCompile(`(?i)placed\s*:?\s*(.+?\d{1,2}:\d{2}\s*(?:am|pm))`)
	liveRegex      = regexp.MustCompile(`\bLIVE\b`)
	meridiemRegex  = regexp.MustCompile(`\s*(AM|PM)\b`)
	easternRegex   = regexp.MustCompile(`\b(?:ET|EST|EDT)\b`)

	betIDMarker = "BET ID"
)

// splitCards finds every bet card in the document. A card is the highest
// ancestor of a "BET ID" label that still holds exactly one such label.
func splitCards(doc *goquery.Document, sel Selector) []*html.Node {
	var cards []*html.Node
	seen := map[*html.Node]bool{}

	doc.Find(sel.CardMarker).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if !strings.Contains(strings.ToUpper(ownText(n)), betIDMarker) {
			return
		}

		card := n
		for p := card.Parent; p != nil && !isTag(p, "body", "html") && p.Type == html.ElementNode; p = p.Parent {
			if countBetIDs(p) != 1 {
				break
			}
			card = p
		}

		if !seen[card] {
			seen[card] = true
			cards = append(cards, card)
		}
	})

	return cards
}

func countBetIDs(n *html.Node) int {
	return strings.Count(strings.ToUpper(textOf(n)), betIDMarker)
}

// oddsElements lists the elements of scope that carry odds: an "Odds ..."
// accessible label or a span holding nothing but an odds figure.
func oddsElements(scope *html.Node, sel Selector) []*html.Node {
	s := selection(scope)
	var out []*html.Node
	s.Find(sel.OddsLabel + ", " + sel.OddsSpan).Each(func(_ int, e *goquery.Selection) {
		if _, ok := oddsOf(e.Get(0)); ok {
			out = append(out, e.Get(0))
		}
	})
	return out
}

// oddsOf reads the odds carried by n itself.
func oddsOf(n *html.Node) (int, bool) {
	if label, ok := attr(n, "aria-label"); ok {
		if v, ok := extract.ParseOddsLabel(label); ok {
			return v, true
		}
	}
	if isTag(n, "span") {
		return extract.ParseOddsToken(textOf(n))
	}
	return 0, false
}

// parseHeader reads the banner of a card. The header is the parent of the
// first odds element; its text minus the odds is the description. When that
// parent is a leg row the banner has no odds and there is no header node.
func parseHeader(card *html.Node, sel Selector) (domain.HeaderInfo, *html.Node) {
	var h domain.HeaderInfo

	odds := oddsElements(card, sel)
	if len(odds) == 0 {
		h.Text = textOf(card)
		return h, nil
	}

	node := odds[0].Parent
	if node == nil || node == card {
		node = odds[0]
	}
	if holdsLegRow(node, sel) {
		h.Text = textOf(card)
		return h, nil
	}

	h.Odds, h.HasOdds = oddsOf(odds[0])

	raw := textOf(node)
	h.Text = raw
	h.IsLive = liveRegex.MatchString(raw)
	h.Description = normalize.Spaces(liveRegex.ReplaceAllString(extract.StripOdds(raw), " "))

	return h, node
}

// holdsLegRow reports whether n is, or contains, an element labeled with a
// selection rather than with odds.
func holdsLegRow(n *html.Node, sel Selector) bool {
	isRow := func(e *html.Node) bool {
		label, ok := attr(e, "aria-label")
		if !ok || strings.TrimSpace(label) == "" {
			return false
		}
		_, isOdds := extract.ParseOddsLabel(label)
		return !isOdds
	}

	s := selection(n)
	if !s.Is(sel.NotRow) && isRow(n) {
		return true
	}

	found := false
	s.Find(sel.LabeledNode).Not(sel.NotRow).EachWithBreak(func(_ int, e *goquery.Selection) bool {
		found = isRow(e.Get(0))
		return !found
	})
	return found
}

// parseFooter reads stake, payout, result, bet id and placement time. It runs
// on raw text since normalization drops the long numbers the footer carries.
func parseFooter(raw string) domain.FooterMeta {
	var f domain.FooterMeta

	if m := stakeRegex.FindStringSubmatch(raw); m != nil {
		f.Stake, _ = extract.ParseMoney(m[1])
	}

	footer := raw
	if idx := strings.LastIndex(strings.ToUpper(raw), "TOTAL WAGER"); idx >= 0 {
		footer = raw[idx:]
	}

	switch {
	case wonRegex.MatchString(footer):
		m := wonRegex.FindStringSubmatch(footer)
		f.Payout, f.HasPayout = extract.ParseMoney(m[1])
		f.Result = domain.Win
	case returnedRegex.MatchString(footer):
		m := returnedRegex.FindStringSubmatch(footer)
		f.Payout, f.HasPayout = extract.ParseMoney(m[1])
		f.Result = domain.Push
	case voidRegex.MatchString(footer):
		f.Payout, f.HasPayout = f.Stake, true
		f.Result = domain.Push
	case lostRegex.MatchString(footer):
		f.HasPayout = true
		f.Result = domain.Loss
	case potentialRegex.MatchString(footer):
		f.Result = domain.Pending
	case payoutRegex.MatchString(footer):
		m := payoutRegex.FindStringSubmatch(footer)
		f.Payout, f.HasPayout = extract.ParseMoney(m[1])
		if f.Payout > 0 {
			f.Result = domain.Win
		} else {
			f.Result = domain.Loss
		}
	default:
		f.Result = domain.Pending
	}

	if m := betIDRegex.FindStringSubmatch(footer); m != nil {
		f.BetID = m[1]
	}
	if m := placedRegex.FindStringSubmatch(footer); m != nil {
		f.PlacedAt = normalize.Spaces(m[1])
	}

	return f
}

var placedLayouts = []string{
	"1/2/2006 3:04PM",
	"1/2/06 3:04PM",
	"Jan 2 2006 3:04PM",
	"January 2 2006 3:04PM",
	"2006-01-02 3:04PM",
}

var placedLayoutsNoYear = []string{
	"Jan 2 3:04PM",
	"January 2 3:04PM",
}

// placedAt converts "11/16/2025 8:12PM ET" (Eastern time, year optional) to
// RFC3339 UTC. Dates without a year take the year of now, or the year
// before when that would put them in the future. Returns "" when the text
// matches no known layout.
func placedAt(text string, now time.Time) string {
	if text == "" {
		return ""
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}

	s := strings.ToUpper(strings.ReplaceAll(text, ",", " "))
	s = meridiemRegex.ReplaceAllString(s, "$1")
	s = easternRegex.ReplaceAllString(s, "")
	s = normalize.Spaces(s)
	s = titleMonth(s)

	for _, layout := range placedLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}

	ref := now.In(loc)
	for _, layout := range placedLayoutsNoYear {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		t = time.Date(ref.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		if t.After(ref.Add(24 * time.Hour)) {
			t = t.AddDate(-1, 0, 0)
		}
		return t.UTC().Format(time.RFC3339)
	}

	return ""
}

// titleMonth turns "NOV 16 2025" into "Nov 16 2025" so month layouts match.
func titleMonth(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	w := fields[0]
	if w[0] >= 'A' && w[0] <= 'Z' {
		fields[0] = w[:1] + strings.ToLower(w[1:])
	}
	return strings.Join(fields, " ")
}
