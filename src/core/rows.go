package core

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"mxshs/betledger/src/extract"
	"mxshs/betledger/src/normalize"
)

var (
	footerTextRegex = regexp.MustCompile(`(?i)total\s+wager|bet\s*id|placed\s*:|won\s+on\s+fanduel`)

	bannerTextRegex = regexp.MustCompile(`(?i)^(?:\d+\s*-?\s*leg\s+)?(?:same\s+game\s+parlay(?:\s+plus)?|sgp\+?|parlay)™?(?:\s+|$)|\bincludes\s*:`)

	// "<Name> 25+ Points", "<Name> Over 24.5 Rebounds", "<Name> To Record A Double Double"
	legTextRegex = regexp.MustCompile(`(?:[A-Z][\w.'’\-]+\s+){1,2}[A-Z][\w.'’\-]+\s+(?:(?:\d+\+|(?:Over|Under)\s+\d+(?:\.\d)?)\s+(?i:alt\s+)?(?i:points|rebounds|assists|made\s+threes|threes|receiving\s+yards|rushing\s+yards|passing\s+yards|yards|receptions)|To\s+(?:Record|Score)\s+(?:An?\s+)?[A-Za-z]+(?:\s+[A-Za-z]+)?)`)
)

// locateRows finds the leg rows of scope in document order. Rows inside an
// excluded subtree are ignored, so a nested same game parlay never pulls in
// rows of a sibling container. textScan enables the raw-text fallback used
// for same game parlays whose rows carry no labels.
func (p *FanDuelParser) locateRows(scope *html.Node, exclude []*html.Node, textScan bool) []*html.Node {
	var cands []*html.Node

	selection(scope).Find(p.sel.LabeledNode).Not(p.sel.NotRow).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if _, ok := oddsOf(n); ok {
			return
		}
		cands = append(cands, n)
	})

	for _, o := range oddsElements(scope, p.sel) {
		if o.Parent != nil && o.Parent != scope {
			cands = append(cands, o.Parent)
		}
	}

	rows := p.filterRows(scope, cands, exclude)
	if len(rows) == 0 && textScan {
		rows = p.filterRows(scope, scanRows(scope, exclude), exclude)
	}
	return rows
}

func (p *FanDuelParser) filterRows(scope *html.Node, cands, exclude []*html.Node) []*html.Node {
	var kept []*html.Node
	for _, n := range cands {
		if n == scope || !contains(scope, n) {
			continue
		}
		if insideAny(n, exclude) || containsAny(n, exclude) {
			continue
		}
		text := textOf(n)
		label, _ := attr(n, "aria-label")
		if text == "" && label == "" {
			continue
		}
		if footerTextRegex.MatchString(text) || isBanner(strings.TrimSpace(label+" "+text)) {
			continue
		}
		kept = append(kept, n)
	}

	kept = topLevel(kept)

	// rows whose text is only their odds differ by label alone
	seen := map[string]bool{}
	out := kept[:0]
	for _, n := range kept {
		label, _ := attr(n, "aria-label")
		key := strings.ToLower(normalize.Text(label + " " + textOf(n)))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}

	sortDocumentOrder(scope, out)
	return out
}

// isBanner reports parlay header text such as "3 leg parlay +596" or
// "Includes: 2 Same Game Parlays + 1 selection".
func isBanner(text string) bool {
	text = normalize.Spaces(extract.StripOdds(text))
	if text == "" {
		return true
	}
	return bannerTextRegex.MatchString(text)
}

// topLevel drops every node that lies inside another node of the list.
func topLevel(list []*html.Node) []*html.Node {
	var out []*html.Node
	for i, n := range list {
		nested := false
		for j, m := range list {
			if i == j || m == n {
				continue
			}
			if contains(m, n) {
				nested = true
				break
			}
		}
		if nested {
			continue
		}
		dup := false
		for _, o := range out {
			if o == n {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, n)
		}
	}
	return out
}

func sortDocumentOrder(scope *html.Node, list []*html.Node) {
	pos := docOrder(scope)
	sort.SliceStable(list, func(i, j int) bool {
		return pos[list[i]] < pos[list[j]]
	})
}

// scanRows maps each leg-shaped text fragment of scope to the narrowest
// element whose text holds the whole fragment. A fragment may start with the
// tail of a matchup or banner ("Suns LeBron James 25+ Points"), so shorter
// suffixes are tried too and the deepest holder wins.
func scanRows(scope *html.Node, exclude []*html.Node) []*html.Node {
	text := normalize.MatchupNoise(textExcluding(scope, exclude))

	var out []*html.Node
	for _, hit := range legTextRegex.FindAllString(text, -1) {
		var best *html.Node
		words := strings.Fields(hit)
		for i := 0; i < len(words) && i < 3; i++ {
			frag := strings.Join(words[i:], " ")
			if legTextRegex.FindString(frag) != frag {
				break
			}
			n := narrowestHolding(scope, frag, exclude)
			if n != nil && (best == nil || (n != best && contains(best, n))) {
				best = n
			}
		}
		if best != nil {
			out = append(out, best)
		}
	}
	return out
}

func narrowestHolding(scope *html.Node, fragment string, exclude []*html.Node) *html.Node {
	var best *html.Node
	for _, e := range elements(scope) {
		if insideAny(e, exclude) {
			continue
		}
		if !strings.Contains(normalize.Text(textOf(e)), fragment) {
			continue
		}
		if best == nil || contains(best, e) {
			best = e
		}
	}
	return best
}
