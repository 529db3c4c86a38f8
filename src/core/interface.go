package core

import (
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"mxshs/betledger/src/dictionary"
	"mxshs/betledger/src/domain"
)

var (
	ErrEmptyDocument = errors.New("empty html document")
	ErrCardPanic     = errors.New("bet card extraction panicked")
	ErrNotACard      = errors.New("selection is not a bet card")
)

// BetParser turns one vendor's settled-bets page into bets.
type BetParser interface {
	ParseBets(html string) ([]domain.Bet, error)
	ParseCard(card *goquery.Selection) (*domain.Bet, error)
}

// Parser holds what every vendor extractor shares. The zero value is usable:
// no logging, the embedded dictionary and the wall clock.
type Parser struct {
	Logger     *zap.Logger
	Dictionary *dictionary.Dictionary
	Now        func() time.Time
}

type Option func(*Parser)

// WithLogger injects a logger. Extraction is silent without one.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.Logger = l
		}
	}
}

func WithDictionary(d *dictionary.Dictionary) Option {
	return func(p *Parser) {
		if d != nil {
			p.Dictionary = d
		}
	}
}

// WithNow fixes the clock used to complete dates printed without a year.
func WithNow(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.Now = now
		}
	}
}

func newParser(opts ...Option) Parser {
	p := Parser{
		Logger: zap.NewNop(),
		Now:    time.Now,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.Dictionary == nil {
		p.Dictionary = dictionary.Default()
	}
	return p
}

// Selector holds the markup hooks of one vendor.
type Selector struct {
	CardMarker  string
	OddsLabel   string
	LabeledNode string
	NotRow      string
	Icon        string
	OddsSpan    string
}
