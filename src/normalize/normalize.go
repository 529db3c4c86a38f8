// Package normalize cleans text pulled out of the vendor DOM before any
// field extraction runs. Every function here is pure and never fails.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRegex = regexp.MustCompile(`\s+`)

	// "Nov 16, 8:12pm ET", "November 16, 2025 8:12 PM ET"
	monthDateRegex = regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,\s*\d{4})?(?:,?\s*\d{1,2}:\d{2}\s*(?:am|pm)?)?(?:\s*(?:ET|EST|EDT|CT|CST|CDT|PT|PST|PDT|MT))?\b`)

	// "11/16/2025 8:12PM ET"
	slashDateRegex = regexp.MustCompile(`(?i)\b\d{1,2}/\d{1,2}/\d{2,4}(?:,?\s*\d{1,2}:\d{2}\s*(?:am|pm)?)?(?:\s*(?:ET|EST|EDT|CT|PT|MT))?\b`)

	// bare clock or kickoff time: "8:12 PM ET", "2:31"
	clockRegex = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?:\s*(?:am|pm))?(?:\s*(?:ET|EST|EDT|CT|PT|MT)\b)?`)

	// vendor internal identifiers
	longNumberRegex = regexp.MustCompile(`\b\d{6,}\b`)

	bannerRegex = regexp.MustCompile(`(?i)\b(?:finished|final(?:/ot)?|box score|play-by-play|play by play)\b`)

	promoRegex = regexp.MustCompile(`(?i)(?:same game parlay(?:\s+plus)?|\bsgp\+?|parlay™|\bparlay\b)`)

	bareIntRegex = regexp.MustCompile(`^\d{1,3}$`)
)

// Spaces collapses every whitespace run to one space and trims the result.
func Spaces(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

// Text collapses whitespace and strips scoreboard digits, game-state banners,
// dates, clock times and long numeric ids.
func Text(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = monthDateRegex.ReplaceAllString(s, " ")
	s = slashDateRegex.ReplaceAllString(s, " ")
	s = clockRegex.ReplaceAllString(s, " ")
	s = longNumberRegex.ReplaceAllString(s, " ")
	s = bannerRegex.ReplaceAllString(s, " ")

	return stripScoreRuns(Spaces(s))
}

// MatchupNoise is Text plus removal of every bare integer and the parlay
// promo phrases, leaving team names next to the "@" separator.
func MatchupNoise(s string) string {
	s = promoRegex.ReplaceAllString(Text(s), " ")

	tokens := strings.Fields(s)
	kept := tokens[:0]
	for _, t := range tokens {
		if isBareInt(t) {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}

// stripScoreRuns drops runs of two or more bare integers ("112 108", "7 14 3 0").
// A single integer is kept since it may be a real line or count.
func stripScoreRuns(s string) string {
	tokens := strings.Fields(s)
	out := make([]string, 0, len(tokens))

	for i := 0; i < len(tokens); {
		if !bareIntRegex.MatchString(tokens[i]) {
			out = append(out, tokens[i])
			i++
			continue
		}
		j := i
		for j < len(tokens) && bareIntRegex.MatchString(tokens[j]) {
			j++
		}
		if j-i == 1 {
			out = append(out, tokens[i])
		}
		i = j
	}

	return strings.Join(out, " ")
}

func isBareInt(t string) bool {
	if t == "" {
		return false
	}
	for _, r := range t {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
