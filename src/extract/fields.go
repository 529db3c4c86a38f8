package extract

import (
	"regexp"
	"strings"

	"mxshs/betledger/src/domain"
	"mxshs/betledger/src/market"
	"mxshs/betledger/src/normalize"
)

// Fields is what the description cascade could derive from one text fragment.
// Empty strings mean "not found".
type Fields struct {
	Name string
	Type string
	Line string
	OU   domain.OverUnder
}

func (f Fields) complete() bool {
	return f.Name != "" && f.Type != "" && f.Line != ""
}

// fieldRule is one step of the cascade. apply receives the submatches and may
// only fill fields that are still empty; it returns false to reject the match.
// A final rule ends the cascade once it has been accepted.
type fieldRule struct {
	name  string
	re    *regexp.Regexp
	apply func(m []string, f *Fields) bool
	final bool
}

const statWords = `points|rebounds|assists|made threes|threes|receiving yards|rushing yards|passing yards|yards|receptions`

// fieldRules runs from the most specific shape to the least specific one.
// Reordering changes which rule wins when several could match.
var fieldRules = []fieldRule{
	{
		name:  "triple double",
		re:    regexp.MustCompile(`(?i)^(.+?)\s+(?:to\s+record\s+an?\s+)?triple[\s-]?double\b`),
		apply: nameAndType(1, market.TripleDouble),
		final: true,
	},
	{
		name:  "double double",
		re:    regexp.MustCompile(`(?i)^(.+?)\s+(?:to\s+record\s+an?\s+)?double[\s-]?double\b`),
		apply: nameAndType(1, market.DoubleDouble),
		final: true,
	},
	{
		name:  "first basket prefix",
		re:    regexp.MustCompile(`(?i)^first\s+(?:basket|field\s+goal)(?:\s+scorer)?\s*[:\-]?\s*(.+)$`),
		apply: nameAndType(1, market.FirstBasket),
		final: true,
	},
	{
		name:  "first basket suffix",
		re:    regexp.MustCompile(`(?i)^(.+?)\s+(?:to\s+score\s+(?:the\s+)?)?first\s+(?:basket|field\s+goal)`),
		apply: nameAndType(1, market.FirstBasket),
		final: true,
	},
	{
		name:  "top scorer prefix",
		re:    regexp.MustCompile(`(?i)^top\s+(?:points?\s+)?scorer\s*[:\-]?\s*(.+)$`),
		apply: nameAndType(1, market.TopPoints),
		final: true,
	},
	{
		name:  "top scorer suffix",
		re:    regexp.MustCompile(`(?i)^(.+?)\s+(?:to\s+be\s+(?:the\s+)?)?top\s+(?:points?\s+)?scorer`),
		apply: nameAndType(1, market.TopPoints),
		final: true,
	},
	{
		name:  "anytime td prefix",
		re:    regexp.MustCompile(`(?i)^anytime\s+(?:td|touchdown)(?:\s+scorer)?\s*[:\-]?\s*(.+)$`),
		apply: nameAndType(1, market.Touchdown),
		final: true,
	},
	{
		name:  "anytime td suffix",
		re:    regexp.MustCompile(`(?i)^(.+?)\s+(?:to\s+score\s+(?:an?\s+)?|anytime\s+)?(?:td|touchdown)(?:\s+scorer)?$`),
		apply: nameAndType(1, market.Touchdown),
		final: true,
	},
	{
		name: "named total",
		re:   regexp.MustCompile(`(?i)^(?:(.+?)\s+)?(over|under)\s+(\d+(?:\.\d+)?)\s+total(?:\s+points?)?\b`),
		apply: func(m []string, f *Fields) bool {
			if validName(m[1]) {
				setIfEmpty(&f.Name, m[1])
			}
			setOU(f, m[2])
			setIfEmpty(&f.Line, m[3])
			setIfEmpty(&f.Type, market.Total)
			return true
		},
		final: true,
	},
	{
		name: "total prefix",
		re:   regexp.MustCompile(`(?i)^total(?:\s+points?)?\s*[:\-]?\s*(over|under)\s+(\d+(?:\.\d+)?)`),
		apply: func(m []string, f *Fields) bool {
			setOU(f, m[1])
			setIfEmpty(&f.Line, m[2])
			setIfEmpty(&f.Type, market.Total)
			return true
		},
		final: true,
	},
	{
		name: "bare total",
		re:   regexp.MustCompile(`(?i)^(over|under)\s+(\d+(?:\.\d+)?)$`),
		apply: func(m []string, f *Fields) bool {
			setOU(f, m[1])
			setIfEmpty(&f.Line, m[2])
			setIfEmpty(&f.Type, market.Total)
			return true
		},
		final: true,
	},
	{
		name: "player over/under",
		re:   regexp.MustCompile(`(?i)^(.+?)\s+(over|under)\s+(\d+(?:\.\d+)?)\s+(.+)$`),
		apply: func(m []string, f *Fields) bool {
			if !validName(m[1]) {
				return false
			}
			setIfEmpty(&f.Name, m[1])
			setOU(f, m[2])
			setIfEmpty(&f.Line, m[3])
			setClassified(f, m[4])
			return true
		},
	},
	{
		name: "player market over/under",
		re:   regexp.MustCompile(`(?i)^(.+?)\s+-?\s*(?:alt\s+)?(` + statWords + `)\s+(over|under)\s+(\d+(?:\.\d+)?)`),
		apply: func(m []string, f *Fields) bool {
			if !validName(m[1]) {
				return false
			}
			setIfEmpty(&f.Name, m[1])
			setClassified(f, m[2])
			setOU(f, m[3])
			setIfEmpty(&f.Line, m[4])
			return true
		},
	},
	{
		name: "threshold",
		re:   regexp.MustCompile(`(?i)^(.+?)\s+(\d+\+)\s+(.+)$`),
		apply: func(m []string, f *Fields) bool {
			if !validName(m[1]) {
				return false
			}
			setIfEmpty(&f.Name, m[1])
			setIfEmpty(&f.Line, m[2])
			setClassified(f, m[3])
			return true
		},
	},
	{
		name: "reversed threshold",
		re:   regexp.MustCompile(`(?i)^(.+?)\s+-?\s*(?:alt\s+)?(` + statWords + `)\s*:?\s*(\d+\+)`),
		apply: func(m []string, f *Fields) bool {
			if !validName(m[1]) {
				return false
			}
			setIfEmpty(&f.Name, m[1])
			setClassified(f, m[2])
			setIfEmpty(&f.Line, m[3])
			return true
		},
	},
	{
		name: "spread",
		re:   regexp.MustCompile(`(?i)^(.+?)\s+(?:spread\s*:?\s*)?([+-]\d{1,2}(?:\.\d)?)(?:\s+spread)?$`),
		apply: func(m []string, f *Fields) bool {
			if !validName(m[1]) {
				return false
			}
			setIfEmpty(&f.Name, m[1])
			setIfEmpty(&f.Line, m[2])
			setIfEmpty(&f.Type, market.Spread)
			return true
		},
		final: true,
	},
	{
		name:  "moneyline suffix",
		re:    regexp.MustCompile(`(?i)^(.+?)\s+(?:money\s?line|ml|to\s+win)$`),
		apply: nameAndType(1, market.Moneyline),
		final: true,
	},
	{
		name:  "moneyline prefix",
		re:    regexp.MustCompile(`(?i)^money\s?line\s*[:\-]?\s*(.+)$`),
		apply: nameAndType(1, market.Moneyline),
		final: true,
	},
	{
		name: "any over/under",
		re:   regexp.MustCompile(`(?i)\b(over|under)\s+(\d+(?:\.\d+)?)`),
		apply: func(m []string, f *Fields) bool {
			setOU(f, m[1])
			setIfEmpty(&f.Line, m[2])
			return true
		},
	},
	{
		name: "any threshold",
		re:   regexp.MustCompile(`\b(\d+\+)`),
		apply: func(m []string, f *Fields) bool {
			setIfEmpty(&f.Line, m[1])
			return true
		},
	},
	{
		name: "words before market keyword",
		re:   regexp.MustCompile(`^((?:[A-Z][\w.'’\-]*\s+){0,2}[A-Z][\w.'’\-]*)\s+.*?\b(?i:points|rebounds|assists|threes|yards|yds|receptions|double|basket|touchdown)\b`),
		apply: func(m []string, f *Fields) bool {
			if !validName(m[1]) {
				return false
			}
			setIfEmpty(&f.Name, m[1])
			return true
		},
	},
}

var nameStopWords = map[string]bool{
	"over": true, "under": true, "total": true, "alt": true, "the": true,
	"made": true, "points": true, "rebounds": true, "assists": true,
	"threes": true, "spread": true, "moneyline": true, "to": true,
}

// DeriveFields runs the description cascade over one text fragment.
func DeriveFields(desc string) Fields {
	text := normalize.Spaces(strings.ReplaceAll(desc, ",", " "))

	var f Fields
	if text == "" {
		return f
	}

	for _, r := range fieldRules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if !r.apply(m, &f) {
			continue
		}
		if r.final || f.complete() {
			break
		}
	}

	if f.Type == "" {
		if code := market.Classify(text); code != market.Other {
			f.Type = code
		}
	}
	return f
}

func nameAndType(group int, code string) func(m []string, f *Fields) bool {
	return func(m []string, f *Fields) bool {
		if !validName(m[group]) {
			return false
		}
		setIfEmpty(&f.Name, m[group])
		setIfEmpty(&f.Type, code)
		return true
	}
}

func validName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 60 || strings.Contains(name, "@") {
		return false
	}
	if nameStopWords[strings.ToLower(name)] {
		return false
	}
	return strings.IndexFunc(name, isLetter) >= 0
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func setIfEmpty(dst *string, v string) {
	v = strings.TrimSpace(v)
	if *dst == "" && v != "" {
		*dst = v
	}
}

func setOU(f *Fields, v string) {
	if f.OU != "" {
		return
	}
	switch strings.ToLower(v) {
	case "over":
		f.OU = domain.Over
	case "under":
		f.OU = domain.Under
	}
}

func setClassified(f *Fields, text string) {
	if code := market.Classify(text); code != market.Other {
		setIfEmpty(&f.Type, code)
	}
}
