package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	promoPrefixRegex = regexp.MustCompile(`(?i)^(?:parlay™|parlay|same game parlay(?:\s+plus)?|same game|sgp\+?)\s*[:\-]?\s*`)

	// stat-line leftovers after a name: "25+", "Over", "Points", "Alt", ...
	trailingStatRegex = regexp.MustCompile(`(?i)\s+(?:[+-]?\d+(?:\.\d+)?\+?|over|under|alt|points?|pts|rebounds?|reb|assists?|ast|made|threes|3pt|yds|yards|receptions?|to record.*|to score.*)$`)
)

// EntityName strips promotional prefixes, a team name glued to the front of a
// player name, trailing stat fragments and a name repeated twice.
func EntityName(name string, teams ...string) string {
	name = Spaces(name)
	if name == "" {
		return ""
	}

	for {
		next := promoPrefixRegex.ReplaceAllString(name, "")
		if next == name {
			break
		}
		name = next
	}

	name = stripGluedTeam(name, teams)

	for {
		next := trailingStatRegex.ReplaceAllString(name, "")
		if next == name {
			break
		}
		name = next
	}

	name = strings.Trim(name, " ,:-–")
	return dedupRepeated(name)
}

// stripGluedTeam removes "Lakers" from "LakersLeBron James". A team followed by
// a space is left alone since "Los Angeles Lakers" is a valid entity on its own.
func stripGluedTeam(name string, teams []string) string {
	if len(teams) == 0 {
		return name
	}

	sorted := append([]string(nil), teams...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	for _, team := range sorted {
		if team == "" || len(name) <= len(team) {
			continue
		}
		if !strings.EqualFold(name[:len(team)], team) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(name[len(team):])
		if unicode.IsUpper(next) {
			return strings.TrimSpace(name[len(team):])
		}
	}
	return name
}

func dedupRepeated(name string) string {
	words := strings.Fields(name)
	n := len(words)
	if n < 2 || n%2 != 0 {
		return name
	}
	half := n / 2
	for i := 0; i < half; i++ {
		if !strings.EqualFold(words[i], words[half+i]) {
			return name
		}
	}
	return strings.Join(words[:half], " ")
}
