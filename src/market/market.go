// Package market maps raw market text to a canonical short code and a
// market category.
package market

import (
	"regexp"

	"mxshs/betledger/src/domain"
)

const (
	Points       = "Pts"
	Rebounds     = "Reb"
	Assists      = "Ast"
	Threes       = "3pt"
	Yards        = "Yds"
	Receptions   = "Rec"
	Spread       = "Spread"
	Moneyline    = "Moneyline"
	Total        = "Total"
	TripleDouble = "TD"
	Touchdown    = "TD"
	DoubleDouble = "DD"
	FirstBasket  = "FB"
	TopPoints    = "Top Pts"
	Other        = "Other"
)

const (
	CategoryProps       = "Props"
	CategoryMainMarkets = "Main Markets"
	CategoryParlays     = "Parlays"
	CategoryFutures     = "Futures"
)

type rule struct {
	code string
	re   *regexp.Regexp
}

// Order matters: assists before threes so "10+ Assists" is never read as a
// three-point target, total before points so "Total Points" is a total.
var rules = []rule{
	{TripleDouble, regexp.MustCompile(`(?i)triple[\s-]?double`)},
	{DoubleDouble, regexp.MustCompile(`(?i)double[\s-]?double`)},
	{FirstBasket, regexp.MustCompile(`(?i)first\s+(?:basket|field\s+goal|fg)`)},
	{TopPoints, regexp.MustCompile(`(?i)top\s+(?:points?\s+)?scorer|top\s+pts|most\s+points`)},
	{Touchdown, regexp.MustCompile(`(?i)touchdown|\btd\s+scorer|\banytime\s+td\b`)},
	{Moneyline, regexp.MustCompile(`(?i)money\s?line|\bml\b|\bto\s+win\b`)},
	{Spread, regexp.MustCompile(`(?i)spread|handicap|run\s+line|puck\s+line`)},
	{Assists, regexp.MustCompile(`(?i)\bassists?\b|\bast\b`)},
	{Threes, regexp.MustCompile(`(?i)threes?\b|3[\s-]?(?:pt|pointers?)\b|\b3pm\b`)},
	{Rebounds, regexp.MustCompile(`(?i)\brebounds?\b|\breb\b`)},
	{Total, regexp.MustCompile(`(?i)\btotal\b|\bo/u\b`)},
	{Points, regexp.MustCompile(`(?i)\bpoints?\b|\bpts\b`)},
	{Yards, regexp.MustCompile(`(?i)\byards?\b|\byds\b`)},
	{Receptions, regexp.MustCompile(`(?i)\breceptions?\b|\brec\b`)},
}

var futuresRegex = regexp.MustCompile(`(?i)\bfutures?\b|\boutright\b|\bchampionship\b|\bmvp\b|\bwin\s+totals?\b|\bto\s+win\s+the\b`)

var propCodes = map[string]bool{
	Points:       true,
	Rebounds:     true,
	Assists:      true,
	Threes:       true,
	Yards:        true,
	Receptions:   true,
	TripleDouble: true,
	DoubleDouble: true,
	FirstBasket:  true,
	TopPoints:    true,
}

// Classify returns the canonical market code for raw text, or Other.
func Classify(text string) string {
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.code
		}
	}
	return Other
}

// IsProp reports whether code is a player-prop market.
func IsProp(code string) bool {
	return propCodes[code]
}

// IsFutures reports whether text describes a futures/outright market.
func IsFutures(text string) bool {
	return futuresRegex.MatchString(text)
}

// Category maps a bet type and market code to a market category.
func Category(betType domain.BetType, code string, futures bool) string {
	switch {
	case betType.IsParlay():
		return CategoryParlays
	case futures:
		return CategoryFutures
	case code == Spread || code == Moneyline || code == Total:
		return CategoryMainMarkets
	}
	return CategoryProps
}

// Label is the human word used for a code in descriptions.
func Label(code string) string {
	switch code {
	case Points:
		return "Points"
	case Rebounds:
		return "Rebounds"
	case Assists:
		return "Assists"
	case Threes:
		return "Made Threes"
	case Yards:
		return "Yards"
	case Receptions:
		return "Receptions"
	case Total:
		return "Total Points"
	}
	return code
}
