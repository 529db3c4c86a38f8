package domain

type LegResult string

const (
	LegWin     LegResult = "WIN"
	LegLoss    LegResult = "LOSS"
	LegPush    LegResult = "PUSH"
	LegPending LegResult = "PENDING"
	LegVoid    LegResult = "VOID"
	LegUnknown LegResult = "UNKNOWN"
)

// Refunded reports whether the leg settles as a refund (void and push pay the same).
func (r LegResult) Refunded() bool {
	return r == LegPush || r == LegVoid
}

// LegResultFor maps a ticket result onto a leg result.
func LegResultFor(r BetResult) LegResult {
	switch r {
	case Win:
		return LegWin
	case Loss:
		return LegLoss
	case Push:
		return LegPush
	case Pending:
		return LegPending
	}
	return LegUnknown
}

// Aggregate folds child results into a group result.
// Precedence is PUSH (VOID counts as PUSH) > LOSS > PENDING > UNKNOWN > WIN.
func Aggregate(children []LegResult) LegResult {
	if len(children) == 0 {
		return LegUnknown
	}

	var loss, pending, unknown bool
	for _, r := range children {
		switch {
		case r.Refunded():
			return LegPush
		case r == LegLoss:
			loss = true
		case r == LegPending:
			pending = true
		case r == LegUnknown:
			unknown = true
		}
	}

	switch {
	case loss:
		return LegLoss
	case pending:
		return LegPending
	case unknown:
		return LegUnknown
	}
	return LegWin
}

// PropagateVoid forces every sibling of a void or pushed leg to PUSH.
// One voided leg voids the whole inner parlay.
func PropagateVoid(children []BetLeg) {
	refunded := -1
	for i := range children {
		if children[i].Result.Refunded() {
			refunded = i
			break
		}
	}
	if refunded < 0 {
		return
	}
	for i := range children {
		if !children[i].Result.Refunded() {
			children[i].Result = LegPush
		}
	}
}

// SettleGroup applies void propagation to g's children and recomputes g.Result.
func SettleGroup(g *BetLeg) {
	if !g.IsGroupLeg {
		return
	}
	PropagateVoid(g.Children)

	results := make([]LegResult, 0, len(g.Children))
	for _, c := range g.Children {
		results = append(results, c.Result)
	}
	g.Result = Aggregate(results)
}
