package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"mxshs/betledger/src/normalize"
)

const maxTeamWords = 4

// words that mean the window slipped past the matchup into leg text
var statKeywordRegex = regexp.MustCompile(`(?i)\b(?:points?|rebounds?|assists?|threes|made|yards|yds|receptions?|over|under|spread|moneyline|total|alt|record|score|scorer|leg|legs|parlay|wager|selections?|includes)\b`)

// Matchup infers "<Team> @ <Team>" from noisy text. teams is an optional list
// of known team names used to trim each side and as a fallback when the text
// has no "@" separator. Returns "" when nothing trustworthy is found.
func Matchup(text string, teams []string) string {
	clean := normalize.MatchupNoise(strings.ReplaceAll(text, "@", " @ "))
	tokens := strings.Fields(clean)

	best := ""
	for i, tok := range tokens {
		if tok != "@" {
			continue
		}

		left := teamRunBefore(tokens[:i])
		right := teamRunAfter(tokens[i+1:])
		if t := longestTeam(left, teams, false); t != "" {
			left = t
		}
		if t := longestTeam(right, teams, true); t != "" {
			right = t
		}

		if !validSide(left) || !validSide(right) {
			continue
		}
		cand := left + " @ " + right
		if best == "" || len(cand) < len(best) {
			best = cand
		}
	}
	if best != "" {
		return best
	}

	found := FindTeams(clean, teams)
	if len(found) >= 2 {
		return found[0] + " @ " + found[1]
	}
	return ""
}

// FindTeams returns the distinct known teams in text, in order of appearance.
// At each position the longest name wins, so "San Francisco 49ers" is not
// also reported as "49ers".
func FindTeams(text string, teams []string) []string {
	if len(teams) == 0 {
		return nil
	}

	sorted := append([]string(nil), teams...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	lower := strings.ToLower(text)
	type hit struct {
		pos  int
		end  int
		name string
	}
	var hits []hit
	for _, team := range sorted {
		if team == "" {
			continue
		}
		needle := strings.ToLower(team)
		for from := 0; from < len(lower); {
			idx := strings.Index(lower[from:], needle)
			if idx < 0 {
				break
			}
			pos := from + idx
			end := pos + len(needle)
			from = end
			if !wordBoundary(lower, pos, end) {
				continue
			}
			overlaps := false
			for _, h := range hits {
				if pos < h.end && end > h.pos {
					overlaps = true
					break
				}
			}
			if !overlaps {
				hits = append(hits, hit{pos: pos, end: end, name: team})
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var out []string
	seen := map[string]bool{}
	for _, h := range hits {
		key := strings.ToLower(h.name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h.name)
	}
	return out
}

func teamRunBefore(tokens []string) string {
	var run []string
	for i := len(tokens) - 1; i >= 0 && len(run) < maxTeamWords; i-- {
		if !teamToken(tokens[i]) {
			break
		}
		run = append([]string{tokens[i]}, run...)
	}
	return strings.Join(run, " ")
}

func teamRunAfter(tokens []string) string {
	var run []string
	for i := 0; i < len(tokens) && len(run) < maxTeamWords; i++ {
		if !teamToken(tokens[i]) {
			break
		}
		run = append(run, tokens[i])
	}
	return strings.Join(run, " ")
}

// teamToken accepts capitalized words and digit-leading names like "49ers".
func teamToken(tok string) bool {
	if tok == "@" || statKeywordRegex.MatchString(tok) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tok)
	if unicode.IsUpper(r) {
		return true
	}
	if unicode.IsDigit(r) {
		return strings.IndexFunc(tok, unicode.IsLetter) > 0
	}
	return false
}

// longestTeam returns the longest known team that starts (prefix) or ends
// (!prefix) the side on a word boundary.
func longestTeam(side string, teams []string, prefix bool) string {
	best := ""
	lower := strings.ToLower(side)
	for _, team := range teams {
		t := strings.ToLower(team)
		if t == "" || len(t) > len(lower) {
			continue
		}
		start := len(lower) - len(t)
		if prefix {
			start = 0
		}
		if lower[start:start+len(t)] != t || !wordBoundary(lower, start, start+len(t)) {
			continue
		}
		if len(team) > len(best) {
			best = team
		}
	}
	return best
}

func validSide(side string) bool {
	if len(side) < 4 {
		return false
	}
	return !statKeywordRegex.MatchString(side)
}

func wordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
