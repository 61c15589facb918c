/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import "fmt"

// BranchKind classifies a branch slot and whether its value may be edited.
type BranchKind int

const (
	// Fixed marks a first round branch whose competitor was assigned when
	// the draw was created and may not be edited.
	Fixed BranchKind = iota

	// DependentEditable marks a branch filled from a prior race whose
	// value may be edited.
	DependentEditable

	// DependentNotEditable marks a branch filled from a prior race whose
	// value is asserted rather than chosen (e.g. the loser of a bye).
	DependentNotEditable
)

func (k BranchKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case DependentEditable:
		return "editable"
	case DependentNotEditable:
		return "not-editable"
	}
	return "?"
}

func parseBranchKind(s string) (BranchKind, error) {
	switch s {
	case "fixed":
		return Fixed, nil
	case "editable":
		return DependentEditable, nil
	case "not-editable":
		return DependentNotEditable, nil
	}
	return Fixed, fmt.Errorf("unknown branch kind %q: %w", s, ErrMalformedBracket)
}

// Branch represents one competitor slot of a race or podium. Filled is true
// once a value has been committed to the slot, including an explicit "no
// competitor" value from a bye or a did-not-race.
type Branch struct {
	Seed   int
	Kind   BranchKind
	Car    *Car
	Filled bool

	// prevRace is the race whose outcome feeds this branch; nil for
	// unlinked branches such as free consolation slots.
	prevRace *Race
}

func newBranch(seed int, kind BranchKind) *Branch {
	return &Branch{Seed: seed, Kind: kind}
}

func newLinkedBranch(seed int, kind BranchKind, prev *Race) *Branch {
	return &Branch{Seed: seed, Kind: kind, prevRace: prev}
}

// PrevRace returns the race whose outcome feeds this branch, or nil.
func (b *Branch) PrevRace() *Race {
	return b.prevRace
}

// Winnable is a unit that can receive a result from a prior race: either a
// Race (two branches, two downstream links) or a Podium (one branch,
// terminal).
type Winnable interface {
	// Branches returns the branches of the unit. With a non-nil
	// filterPrev only the branches fed by that race are returned; it is
	// an ErrInvalidPriorRace error if none are.
	Branches(filterPrev *Race) ([]*Branch, error)

	// ExpectedCompetitors counts branches with at least the given fill
	// probability: 1 for a bye or podium, up to 2 for a race.
	ExpectedCompetitors(min FillProbability) int

	// ResultDecided reports whether a downstream unit already committed
	// a value that depends on this unit's outcome.
	ResultDecided() bool

	// IsConsolation reports whether the unit is a consolation race.
	IsConsolation() bool

	// Name returns a short display name, e.g. "R12" or "2nd place".
	Name() string

	updateFromPrevRace(prev *Race, car *Car, filled bool) error
}

// Sentinel car ids accepted by SetWinner in place of a real competitor.
const (
	// WinnerEmpty retracts a previously entered result.
	WinnerEmpty = -1

	// WinnerDNR records that no occupant of the race produced a usable
	// result (did not race).
	WinnerDNR = -2
)

// Race represents a single knockout race between two branches.
type Race struct {
	Left   *Branch
	Right  *Branch
	Number int

	winnerNext  Winnable
	loserNext   Winnable
	consolation bool
}

// WinnerNext returns the race or podium fed by this race's winner, or nil.
func (r *Race) WinnerNext() Winnable {
	return r.winnerNext
}

// LoserNext returns the race or podium fed by this race's loser, or nil.
func (r *Race) LoserNext() Winnable {
	return r.loserNext
}

// TheoreticalWinner returns the branch with the best (lowest) seed.
func (r *Race) TheoreticalWinner() *Branch {
	if r.Left.Seed < r.Right.Seed {
		return r.Left
	}
	return r.Right
}

// TheoreticalLoser returns the branch with the worst (highest) seed.
func (r *Race) TheoreticalLoser() *Branch {
	if r.Left.Seed > r.Right.Seed {
		return r.Left
	}
	return r.Right
}

func (r *Race) Branches(filterPrev *Race) ([]*Branch, error) {
	if filterPrev == nil {
		return []*Branch{r.Left, r.Right}, nil
	}
	if r.Left.prevRace == filterPrev {
		if r.Right.prevRace == filterPrev {
			// Both branches point at the same prior race; this only
			// happens for in-use consolation races.
			return []*Branch{r.Left, r.Right}, nil
		}
		return []*Branch{r.Left}, nil
	}
	if r.Right.prevRace == filterPrev {
		return []*Branch{r.Right}, nil
	}
	return nil, fmt.Errorf("%v is not fed by %v: %w", r.Name(),
		filterPrev.Name(), ErrInvalidPriorRace)
}

// IsBye reports whether the race has a single fixed competitor who advances
// without a contest.
func (r *Race) IsBye() bool {
	return r.ExpectedCompetitors(Unlikely) == 1 &&
		(r.Left.Kind == Fixed || r.Right.Kind == Fixed)
}

// Options returns the 0, 1, or 2 cars currently occupying the race's
// branches. The UI builds its winner choice set from this, and SetWinner
// uses it to classify a did-not-race.
func (r *Race) Options() []*Car {
	var opts []*Car
	if r.Left.Car != nil {
		opts = append(opts, r.Left.Car)
	}
	if r.Right.Car != nil {
		opts = append(opts, r.Right.Car)
	}
	return opts
}

// SetWinner records the outcome of the race and propagates it one hop to the
// downstream winner and loser slots. carID is either the id of an occupant,
// WinnerEmpty to retract a previous result, or WinnerDNR when neither
// occupant produced a result. Mutations are all-or-nothing: the outcome is
// validated before any branch is written.
func (r *Race) SetWinner(carID int, pool *ConsolationPool) error {
	switch {
	case carID == WinnerDNR || carID == WinnerEmpty:
	case r.Left.Car != nil && carID == r.Left.Car.ID:
	case r.Right.Car != nil && carID == r.Right.Car.ID:
	default:
		return fmt.Errorf("car %d is not a competitor in %v: %w", carID,
			r.Name(), ErrUnknownCompetitor)
	}

	// A did-not-race with two occupants will need a spare consolation
	// race; reject up front rather than after half the propagation.
	if carID == WinnerDNR && r.loserNext != nil &&
		!r.loserNext.IsConsolation() && len(r.Options()) == 2 {
		if pool.freeSlot() == nil {
			return fmt.Errorf("cannot record did-not-race for %v: %w",
				r.Name(), ErrConsolationPoolExhausted)
		}
	}

	// Leaving the did-not-race state removes the consolation race first.
	if r.loserNext != nil && r.loserNext.IsConsolation() && carID != WinnerDNR {
		if err := pool.Remove(r); err != nil {
			return err
		}
	}

	switch {
	case carID == WinnerDNR:
		return r.setDidNotRace(pool)
	case r.Left.Car != nil && carID == r.Left.Car.ID:
		if err := r.updateNext(r.winnerNext, r.Left.Car, true); err != nil {
			return err
		}
		return r.updateNext(r.loserNext, r.Right.Car, true)
	case r.Right.Car != nil && carID == r.Right.Car.ID:
		if err := r.updateNext(r.winnerNext, r.Right.Car, true); err != nil {
			return err
		}
		return r.updateNext(r.loserNext, r.Left.Car, true)
	default: // WinnerEmpty
		if err := r.updateNext(r.winnerNext, nil, false); err != nil {
			return err
		}
		return r.updateNext(r.loserNext, nil, false)
	}
}

// setDidNotRace handles the WinnerDNR outcome: no winner advances, and the
// loser slot is resolved either by splicing in a consolation race (two
// occupants) or by dropping a bye's single occupant straight into it.
func (r *Race) setDidNotRace(pool *ConsolationPool) error {
	opts := r.Options()
	if len(opts) == 0 {
		return fmt.Errorf("%v has no competitors to mark as did-not-race:"+
			" %w", r.Name(), ErrConsolationSplice)
	}

	if err := r.updateNext(r.winnerNext, nil, true); err != nil {
		return err
	}
	if r.loserNext == nil || r.loserNext.IsConsolation() {
		return nil
	}

	if len(opts) == 1 {
		return r.updateNext(r.loserNext, opts[0], true)
	}

	// Two competitors vying for the losing spot; clear the loser slot then
	// splice in a consolation race to decide it.
	if err := r.updateNext(r.loserNext, nil, false); err != nil {
		return err
	}
	_, err := pool.Add(r)
	return err
}

func (r *Race) updateNext(next Winnable, car *Car, filled bool) error {
	if next == nil {
		return nil
	}
	return next.updateFromPrevRace(r, car, filled)
}

func (r *Race) updateFromPrevRace(prev *Race, car *Car, filled bool) error {
	branches, err := r.Branches(prev)
	if err != nil {
		return err
	}
	if len(branches) != 1 {
		return fmt.Errorf("%v has %d branches fed by %v, want 1: %w",
			r.Name(), len(branches), prev.Name(), ErrInvalidPriorRace)
	}
	branches[0].Car = car
	branches[0].Filled = filled
	return nil
}

func (r *Race) ExpectedCompetitors(min FillProbability) int {
	n := 0
	if r.Left.FillProbability() >= min {
		n++
	}
	if r.Right.FillProbability() >= min {
		n++
	}
	return n
}

func (r *Race) ResultDecided() bool {
	check := func(next Winnable) bool {
		if next == nil {
			return false
		}
		return branchesFilled(next, filledOpts{prev: r, impossibleFuture: true})
	}
	return check(r.winnerNext) || check(r.loserNext)
}

func (r *Race) IsConsolation() bool {
	return r.consolation
}

func (r *Race) Name() string {
	if r.consolation {
		return fmt.Sprintf("CR%d", r.Number)
	}
	return fmt.Sprintf("R%d", r.Number)
}

func (r *Race) String() string {
	cell := func(b *Branch) string {
		if b.Car == nil {
			return "<___, __>"
		}
		return b.Car.String()
	}
	return fmt.Sprintf("%v(%2d %v, %2d %v)", r.Name(), r.Left.Seed,
		cell(r.Left), r.Right.Seed, cell(r.Right))
}

// Podium represents a final placing (1st through 4th) in the event. It is a
// terminal node with a single input branch and no outgoing links.
type Podium struct {
	Position int
	Branch   *Branch
}

func newPodium(position int) *Podium {
	return &Podium{
		Position: position,
		Branch:   newBranch(position, DependentNotEditable),
	}
}

func (p *Podium) Branches(filterPrev *Race) ([]*Branch, error) {
	if filterPrev == nil || p.Branch.prevRace == filterPrev {
		return []*Branch{p.Branch}, nil
	}
	return nil, fmt.Errorf("%v is not fed by %v: %w", p.Name(),
		filterPrev.Name(), ErrInvalidPriorRace)
}

func (p *Podium) updateFromPrevRace(prev *Race, car *Car, filled bool) error {
	if _, err := p.Branches(prev); err != nil {
		return err
	}
	p.Branch.Car = car
	p.Branch.Filled = filled
	return nil
}

func (p *Podium) ExpectedCompetitors(min FillProbability) int {
	return 1
}

// ResultDecided always reports false for a podium: its input branch must
// stay editable so the grand final result can be corrected.
func (p *Podium) ResultDecided() bool {
	return false
}

func (p *Podium) IsConsolation() bool {
	return false
}

func (p *Podium) Name() string {
	suffix := "th"
	switch p.Position % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s place", p.Position, suffix)
}
