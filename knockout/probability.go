/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

// The fill estimator answers one question for any branch: how likely is it
// that this slot will eventually hold a real competitor? The answer drives
// editability checks and UI affordances only, never outcomes. All results
// are recomputed on demand by walking the producing-race references back
// toward the first round; nothing is cached.

// FillProbability estimates whether a branch will eventually hold a
// competitor. Values are ordered from Impossible to Guaranteed.
type FillProbability int

const (
	Impossible FillProbability = iota
	Unlikely
	Likely
	Guaranteed
)

func (p FillProbability) String() string {
	switch p {
	case Impossible:
		return "impossible"
	case Unlikely:
		return "unlikely"
	case Likely:
		return "likely"
	case Guaranteed:
		return "guaranteed"
	}
	return "?"
}

// BranchResult classifies how a branch is fed by its prior race.
type BranchResult int

const (
	ResultNeither BranchResult = iota
	ResultWinner
	ResultLoser
)

// Result works out whether the branch is filled by a win, a loss, or neither
// (a first round or unlinked slot).
func (b *Branch) Result() BranchResult {
	prev := b.prevRace
	if prev == nil {
		return ResultNeither
	}
	if nextContains(prev.loserNext, prev, b) {
		return ResultLoser
	}
	if nextContains(prev.winnerNext, prev, b) {
		return ResultWinner
	}
	return ResultNeither
}

func nextContains(next Winnable, prev *Race, b *Branch) bool {
	if next == nil {
		return false
	}
	branches, err := next.Branches(prev)
	if err != nil {
		return false
	}
	for _, nb := range branches {
		if nb == b {
			return true
		}
	}
	return false
}

// FillProbability estimates the probability that the branch holds or will
// hold a competitor, taking the branch's own committed value into account.
func (b *Branch) FillProbability() FillProbability {
	return b.fillProbability(true)
}

func (b *Branch) fillProbability(includeSelf bool) FillProbability {
	assigned := func() FillProbability {
		if b.Car == nil {
			return Impossible
		}
		return Guaranteed
	}

	if includeSelf && b.Filled {
		return assigned()
	}

	switch b.Result() {
	case ResultWinner:
		return winnerProbability(b.prevRace)
	case ResultLoser:
		// A loser can only exist if the prior race is likely to have
		// two competitors.
		switch b.prevRace.ExpectedCompetitors(Likely) {
		case 2:
			return Likely
		case 1:
			return Unlikely
		}
		return Impossible
	}
	return assigned()
}

// winnerProbability returns the probability that the race or podium produces
// a winner: the best of its branches' fill probabilities, capped at Likely
// because a did-not-race can still deny a winner.
func winnerProbability(w Winnable) FillProbability {
	branches, err := w.Branches(nil)
	if err != nil {
		return Impossible
	}
	max := Impossible
	for _, b := range branches {
		if p := b.FillProbability(); p > max {
			max = p
		}
	}
	if max > Likely {
		return Likely
	}
	return max
}

// filledOpts control branchesFilled. The zero value requires every branch to
// be strictly filled.
type filledOpts struct {
	// prev limits the check to branches fed by this race.
	prev *Race

	// any makes a single filled branch sufficient.
	any bool

	// includeImpossible treats impossible-to-fill branches as filled.
	includeImpossible bool

	// impossibleFuture additionally treats an unfilled impossible branch
	// as filled when a downstream result already depends on it.
	impossibleFuture bool
}

// branchesFilled reports whether the branches of w have been committed,
// either with a car or with an explicit empty value.
func branchesFilled(w Winnable, o filledOpts) bool {
	branches, err := w.Branches(o.prev)
	if err != nil {
		return false
	}
	for _, b := range branches {
		impossible := b.prevRace != nil &&
			winnerProbability(b.prevRace) == Impossible
		filled := b.Filled || (o.includeImpossible && impossible)
		if !filled && impossible && o.impossibleFuture {
			filled = b.dependedOn()
		}
		if filled && o.any {
			return true
		}
		if !filled && !o.any {
			return false
		}
	}
	return !o.any
}

// dependedOn reports whether a downstream race already committed a result
// that depends on this branch's prior race.
func (b *Branch) dependedOn() bool {
	prev := b.prevRace
	if prev == nil {
		return false
	}
	decided := func(next Winnable) bool {
		return next != nil && next.ResultDecided()
	}
	return decided(prev.winnerNext) || decided(prev.loserNext)
}

// IsEditable reports whether the branch may currently be edited: its kind
// permits editing (overrideKind treats DependentNotEditable as editable),
// no downstream result depends on it yet, every competitor of the prior
// race is resolved, and ignoring its own value the branch still has a
// chance of being filled.
func (b *Branch) IsEditable(overrideKind bool) bool {
	okKind := b.Kind == DependentEditable ||
		(overrideKind && b.Kind == DependentNotEditable)

	available := true
	if b.prevRace != nil {
		available = branchesFilled(b.prevRace,
			filledOpts{includeImpossible: true})
	}

	return okKind && !b.dependedOn() && available &&
		b.fillProbability(false) > Impossible
}
