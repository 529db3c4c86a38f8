package domain

type BetType string

const (
	BetSingle  BetType = "single"
	BetParlay  BetType = "parlay"
	BetSGP     BetType = "sgp"
	BetSGPPlus BetType = "sgp_plus"
)

// IsParlay reports whether the ticket is made of more than one selection.
func (t BetType) IsParlay() bool {
	return t == BetParlay || t == BetSGP || t == BetSGPPlus
}

type BetResult string

const (
	Win     BetResult = "win"
	Loss    BetResult = "loss"
	Push    BetResult = "push"
	Pending BetResult = "pending"
)

type OverUnder string

const (
	Over  OverUnder = "Over"
	Under OverUnder = "Under"
)

// Bet is one settled (or open) wager ticket as rendered on the vendor page.
type Bet struct {
	ID             string    `json:"id"`
	Book           string    `json:"book"`
	BetID          string    `json:"betId"`
	PlacedAt       string    `json:"placedAt"`
	BetType        BetType   `json:"betType"`
	MarketCategory string    `json:"marketCategory"`
	Sport          string    `json:"sport"`
	Description    string    `json:"description"`
	Name           string    `json:"name,omitempty"`
	Odds           int       `json:"odds"`
	Stake          float64   `json:"stake"`
	Payout         float64   `json:"payout"`
	Result         BetResult `json:"result"`
	Legs           []BetLeg  `json:"legs,omitempty"`
	IsLive         bool      `json:"isLive"`
	Raw            string    `json:"raw"`
}

// BetLeg is one selection. A group leg stands for a whole nested same game
// parlay: Target holds the matchup and Children the real selections.
type BetLeg struct {
	Entities   []string  `json:"entities,omitempty"`
	Market     string    `json:"market"`
	Target     string    `json:"target,omitempty"`
	OU         OverUnder `json:"ou,omitempty"`
	Odds       *int      `json:"odds"`
	Result     LegResult `json:"result"`
	IsGroupLeg bool      `json:"isGroupLeg,omitempty"`
	Children   []BetLeg  `json:"children,omitempty"`
}

// Entity returns the first entity name or "".
func (l BetLeg) Entity() string {
	if len(l.Entities) == 0 {
		return ""
	}
	return l.Entities[0]
}

// HeaderInfo is the top banner of a bet card.
type HeaderInfo struct {
	Odds        int
	HasOdds     bool
	Description string
	Sport       string
	IsLive      bool
	Text        string
}

// FooterMeta is the summary block at the bottom of a bet card.
type FooterMeta struct {
	BetID     string
	Stake     float64
	Payout    float64
	HasPayout bool
	PlacedAt  string
	Result    BetResult
}

// IntPtr is a small helper for optional odds.
func IntPtr(v int) *int {
	return &v
}
