// Package extract pulls single semantic fields (odds, money amounts,
// name/market/line/over-under, matchups) out of normalized text fragments.
// Every extractor reports absence with an ok flag or a zero value; none of
// them return errors.
package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// a whole token that is American odds
	OddsTokenRegex = regexp.MustCompile(`^[+-]\d{3,}$`)

	oddsTextRegex = regexp.MustCompile(`(?:^|[\s(])([+-]\d{3,})(?:$|[\s)])`)

	oddsLabelRegex = regexp.MustCompile(`(?i)^odds\s*:?\s*([+-]?\d{3,}|even|evs)`)
)

// ParseOdds finds the first American odds figure in free text. Values whose
// magnitude is below 100 are skipped since they are stat lines or spreads.
func ParseOdds(text string) (int, bool) {
	for _, m := range oddsTextRegex.FindAllStringSubmatch(text, -1) {
		if v, ok := oddsValue(m[1]); ok {
			return v, true
		}
	}
	return 0, false
}

// ParseOddsLabel reads an accessible label such as "Odds +360" or "Odds: -110".
func ParseOddsLabel(label string) (int, bool) {
	m := oddsLabelRegex.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, false
	}
	if strings.EqualFold(m[1], "even") || strings.EqualFold(m[1], "evs") {
		return 100, true
	}
	return oddsValue(m[1])
}

// ParseOddsToken parses a token that must be odds and nothing else ("+360").
func ParseOddsToken(token string) (int, bool) {
	token = strings.TrimSpace(token)
	if !OddsTokenRegex.MatchString(token) {
		return 0, false
	}
	return oddsValue(token)
}

// StripOdds removes odds tokens from text so they are not mistaken for lines.
func StripOdds(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := ParseOddsToken(strings.Trim(f, "(),")); ok {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func oddsValue(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, false
	}
	if v > -100 && v < 100 {
		return 0, false
	}
	return v, true
}

// AmericanToDecimal converts American odds to decimal odds.
// +150 -> 2.50, -150 -> 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// ExpectedPayout is the gross return of a winning stake at the given odds,
// rounded to cents.
func ExpectedPayout(stake float64, american int) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return math.Round(stake*dec*100) / 100, nil
}
