package extract

import "regexp"

// shapes a vendor description already has when it needs no rewriting
var wellFormedRegexes = []*regexp.Regexp{
	regexp.MustCompile(`^(?:[A-Z][\w.'’\-]*(?:\s+[A-Z0-9][\w.'’\-]*)*\s+)?(?:Over|Under)\s+\d+(?:\.\d+)?\s+Total\s+Points$`),
	regexp.MustCompile(`^[A-Z][\w.'’\-]*(?:\s+[A-Z0-9][\w.'’\-]*)*\s+[+-]\d{1,2}(?:\.\d)?$`),
	regexp.MustCompile(`^[A-Z][\w.'’\-]*(?:\s+[A-Z0-9][\w.'’\-]*)*\s+Moneyline$`),
	regexp.MustCompile(`^[A-Z][\w.'’\-]*(?:\s+[A-Z][\w.'’\-]*)+\s+(?:\d+\+|(?:Over|Under)\s+\d+(?:\.\d+)?)\s+(?:Points|Rebounds|Assists|Made Threes|Yards|Receptions)$`),
}

var totalDescRegex = regexp.MustCompile(`(?i)\btotal\b`)

// WellFormed reports whether desc already reads like a clean bet
// description, e.g. "Over 232.5 Total Points" or "Phoenix Suns Moneyline".
func WellFormed(desc string) bool {
	for _, re := range wellFormedRegexes {
		if re.MatchString(desc) {
			return true
		}
	}
	return false
}

// IsTotalDescription reports whether desc talks about a game total.
func IsTotalDescription(desc string) bool {
	return totalDescRegex.MatchString(desc)
}
