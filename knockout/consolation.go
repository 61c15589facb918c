/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import "fmt"

// ConsolationPool owns a fixed set of spare races that can be spliced into
// the losers path when a two competitor race produces no result. A free slot
// has both branches unlinked; an in-use slot has both branches pointing at
// the race it was spliced after.
type ConsolationPool struct {
	races []*Race
}

func newConsolationPool(size int) *ConsolationPool {
	races := make([]*Race, size)
	for i := range races {
		races[i] = &Race{
			Left:        newBranch(-1, DependentNotEditable),
			Right:       newBranch(-1, DependentNotEditable),
			Number:      i + 1,
			consolation: true,
		}
	}
	return &ConsolationPool{races: races}
}

// Races returns all pool slots, in-use or free, in slot order.
func (p *ConsolationPool) Races() []*Race {
	return p.races
}

// Size returns the fixed number of slots in the pool.
func (p *ConsolationPool) Size() int {
	return len(p.races)
}

// InUse counts slots currently spliced into the draw.
func (p *ConsolationPool) InUse() int {
	n := 0
	for _, r := range p.races {
		if r.Left.prevRace != nil || r.Right.prevRace != nil {
			n++
		}
	}
	return n
}

func (p *ConsolationPool) freeSlot() *Race {
	for _, r := range p.races {
		if r.Left.prevRace == nil && r.Right.prevRace == nil {
			return r
		}
	}
	return nil
}

func (p *ConsolationPool) contains(race *Race) bool {
	for _, r := range p.races {
		if r == race {
			return true
		}
	}
	return false
}

// Add splices a consolation race between prior and its current loser link so
// the two non-finishers race again for the losing spot. prior must have two
// occupants pending a did-not-race.
func (p *ConsolationPool) Add(prior *Race) (*Race, error) {
	if prior.ExpectedCompetitors(Unlikely) != 2 {
		return nil, fmt.Errorf("%v does not have two competitors pending a"+
			" did-not-race: %w", prior.Name(), ErrConsolationSplice)
	}
	slot := p.freeSlot()
	if slot == nil {
		return nil, fmt.Errorf("cannot splice after %v: %w", prior.Name(),
			ErrConsolationPoolExhausted)
	}
	if err := p.insert(prior, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// insert wires slot in between prior's loser and prior's old loser link. The
// slot's branches mirror prior's occupants swapped, so the consolation race
// replays the two non-finishers against each other.
func (p *ConsolationPool) insert(prior, slot *Race) error {
	next := prior.loserNext
	if next == nil {
		return fmt.Errorf("%v has no losers race to splice before: %w",
			prior.Name(), ErrConsolationSplice)
	}
	branches, err := next.Branches(prior)
	if err != nil {
		return err
	}
	if len(branches) != 1 {
		return fmt.Errorf("%v feeds %d branches of %v, want 1: %w",
			prior.Name(), len(branches), next.Name(), ErrConsolationSplice)
	}
	branches[0].prevRace = slot

	slot.winnerNext = next

	mirror := func(slotBranch, priorBranch *Branch) {
		slotBranch.prevRace = prior
		slotBranch.Car = priorBranch.Car
		slotBranch.Filled = priorBranch.Filled
	}
	mirror(slot.Left, prior.Right)
	mirror(slot.Right, prior.Left)

	prior.loserNext = slot

	return nil
}

// Remove un-splices the consolation race currently following prior and
// returns the slot to the free pool. The slot's own result must not have
// been decided yet.
func (p *ConsolationPool) Remove(prior *Race) error {
	slot, ok := prior.loserNext.(*Race)
	if !ok || !slot.consolation || !p.contains(slot) {
		return fmt.Errorf("%v does not feed a consolation race: %w",
			prior.Name(), ErrConsolationSplice)
	}
	if slot.ResultDecided() {
		return fmt.Errorf("%v already has a decided result: %w",
			slot.Name(), ErrConsolationSplice)
	}

	next := slot.winnerNext
	if next == nil {
		return fmt.Errorf("%v is not linked to a losers race: %w",
			slot.Name(), ErrConsolationSplice)
	}
	branches, err := next.Branches(slot)
	if err != nil {
		return err
	}
	if len(branches) != 1 {
		return fmt.Errorf("%v feeds %d branches of %v, want 1: %w",
			slot.Name(), len(branches), next.Name(), ErrConsolationSplice)
	}
	branches[0].prevRace = prior

	slot.winnerNext = nil
	for _, b := range []*Branch{slot.Left, slot.Right} {
		b.prevRace = nil
		b.Car = nil
		b.Filled = false
	}

	prior.loserNext = next

	return nil
}
