// Package dictionary holds the known sports and teams the extractor uses to
// recognise team names, trim matchups and tag a bet with its sport.
package dictionary

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"mxshs/betledger/src/extract"
)

//go:embed default.yaml
var defaultYAML []byte

type Dictionary struct {
	Sports []Sport `yaml:"sports"`

	teams    map[string]string // lower(name or alias) -> canonical name
	sportOf  map[string]string // canonical team -> sport
	markets  map[string]string // market code -> sport
	names    []string
	keywords []*regexp.Regexp
	kwSport  []string
}

type Sport struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Markets  []string `yaml:"markets"`
	Teams    []Team   `yaml:"teams"`
}

type Team struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// Load reads a dictionary from a YAML file.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file: %w", err)
	}
	return Parse(data)
}

// Parse builds a dictionary from YAML.
func Parse(data []byte) (*Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	if err := d.index(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Default returns the embedded NBA/NFL dictionary.
func Default() *Dictionary {
	d, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded dictionary: %v", err))
	}
	return d
}

func (d *Dictionary) index() error {
	d.teams = map[string]string{}
	d.sportOf = map[string]string{}
	d.markets = map[string]string{}

	for _, s := range d.Sports {
		if s.Name == "" {
			return fmt.Errorf("dictionary: sport without a name")
		}
		for _, kw := range s.Keywords {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
			if err != nil {
				return fmt.Errorf("dictionary: keyword %q: %w", kw, err)
			}
			d.keywords = append(d.keywords, re)
			d.kwSport = append(d.kwSport, s.Name)
		}
		for _, m := range s.Markets {
			d.markets[m] = s.Name
		}
		for _, t := range s.Teams {
			if t.Name == "" {
				return fmt.Errorf("dictionary: team without a name in %s", s.Name)
			}
			d.sportOf[t.Name] = s.Name
			for _, n := range append([]string{t.Name}, t.Aliases...) {
				key := strings.ToLower(strings.TrimSpace(n))
				if _, dup := d.teams[key]; dup {
					continue
				}
				d.teams[key] = t.Name
				d.names = append(d.names, n)
			}
		}
	}
	return nil
}

// TeamNames lists every team name and alias.
func (d *Dictionary) TeamNames() []string {
	if d == nil {
		return nil
	}
	return d.names
}

// IsTeam reports whether s is exactly a known team name or alias.
func (d *Dictionary) IsTeam(s string) bool {
	if d == nil {
		return false
	}
	_, ok := d.teams[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Canonical maps a team name or alias to its full name, or returns s unchanged.
func (d *Dictionary) Canonical(s string) string {
	if d == nil {
		return s
	}
	if name, ok := d.teams[strings.ToLower(strings.TrimSpace(s))]; ok {
		return name
	}
	return s
}

// SportOf guesses the sport of a bet from its text: first by the teams it
// mentions, then by sport keywords. Returns "" when nothing matches.
func (d *Dictionary) SportOf(text string) string {
	if d == nil {
		return ""
	}
	for _, team := range extract.FindTeams(text, d.names) {
		if sport, ok := d.sportOf[d.Canonical(team)]; ok {
			return sport
		}
	}
	for i, re := range d.keywords {
		if re.MatchString(text) {
			return d.kwSport[i]
		}
	}
	return ""
}

// SportForMarket returns the sport a market code belongs to, if unambiguous.
func (d *Dictionary) SportForMarket(code string) string {
	if d == nil {
		return ""
	}
	return d.markets[code]
}
