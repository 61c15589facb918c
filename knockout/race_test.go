/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import (
	"errors"
	"testing"
)

func TestSetWinnerPropagation(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	// R2 of the first round pairs seeds 4 and 5 (cars 103 and 102).
	race := e.Winners[0][1]
	if err := e.SetResult(race, 103); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}

	semi := e.Winners[1][0]
	if semi.Right.Car == nil || semi.Right.Car.ID != 103 {
		t.Errorf("semifinal right branch holds %v, want car 103",
			semi.Right.Car)
	}
	if !semi.Right.Filled {
		t.Error("semifinal right branch not marked filled")
	}

	firstLosers := e.Losers[0][0]
	if firstLosers.Right.Car == nil || firstLosers.Right.Car.ID != 102 {
		t.Errorf("first losers right branch holds %v, want car 102",
			firstLosers.Right.Car)
	}
	if firstLosers.Left.Filled {
		t.Error("first losers left branch filled before the bye result")
	}
}

func TestSetWinnerBye(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	bye := e.Winners[0][0]
	if opts := bye.Options(); len(opts) != 1 || opts[0].ID != 106 {
		t.Fatalf("bye options = %v, want car 106 only", opts)
	}
	if err := e.SetResult(bye, 106); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}

	semi := e.Winners[1][0]
	if semi.Left.Car == nil || semi.Left.Car.ID != 106 {
		t.Errorf("semifinal left branch holds %v, want car 106",
			semi.Left.Car)
	}

	// The bye's loser slot is committed empty.
	firstLosers := e.Losers[0][0]
	if !firstLosers.Left.Filled || firstLosers.Left.Car != nil {
		t.Errorf("first losers left branch should be filled empty, got"+
			" filled=%v car=%v", firstLosers.Left.Filled,
			firstLosers.Left.Car)
	}
}

func TestSetWinnerUnknownCompetitor(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	race := e.Winners[0][1]
	err := e.SetResult(race, 106)
	if !errors.Is(err, ErrUnknownCompetitor) {
		t.Fatalf("SetResult error = %v, want ErrUnknownCompetitor", err)
	}

	// A failed update must leave downstream slots untouched.
	semi := e.Winners[1][0]
	if semi.Right.Filled {
		t.Error("semifinal right branch filled after rejected result")
	}
}

func TestSetWinnerEmptyRetractsResult(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	race := e.Winners[0][1]
	if err := e.SetResult(race, 103); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}
	if err := e.SetResult(race, WinnerEmpty); err != nil {
		t.Fatalf("SetResult(WinnerEmpty) returned error: %v", err)
	}

	semi := e.Winners[1][0]
	if semi.Right.Filled || semi.Right.Car != nil {
		t.Errorf("semifinal right branch not cleared: filled=%v car=%v",
			semi.Right.Filled, semi.Right.Car)
	}
	firstLosers := e.Losers[0][0]
	if firstLosers.Right.Filled || firstLosers.Right.Car != nil {
		t.Errorf("first losers right branch not cleared: filled=%v car=%v",
			firstLosers.Right.Filled, firstLosers.Right.Car)
	}
}

func TestBranchResult(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	first := e.Winners[0][0]
	if got := first.Left.Result(); got != ResultNeither {
		t.Errorf("first round branch result = %v, want ResultNeither", got)
	}

	semi := e.Winners[1][0]
	if got := semi.Left.Result(); got != ResultWinner {
		t.Errorf("semifinal branch result = %v, want ResultWinner", got)
	}

	firstLosers := e.Losers[0][0]
	if got := firstLosers.Left.Result(); got != ResultLoser {
		t.Errorf("first losers branch result = %v, want ResultLoser", got)
	}
}

func TestFillProbability(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	// Fixed first round slots are certain one way or the other.
	first := e.Winners[0][0]
	if got := first.Left.FillProbability(); got != Guaranteed {
		t.Errorf("seeded slot probability = %v, want Guaranteed", got)
	}
	if got := first.Right.FillProbability(); got != Impossible {
		t.Errorf("bye slot probability = %v, want Impossible", got)
	}

	// A winner-fed slot can never be better than Likely.
	semi := e.Winners[1][0]
	if got := semi.Left.FillProbability(); got != Likely {
		t.Errorf("winner-fed slot probability = %v, want Likely", got)
	}

	// The loser of a bye is unlikely; the loser of a contested race is
	// likely.
	firstLosers := e.Losers[0][0]
	if got := firstLosers.Left.FillProbability(); got != Unlikely {
		t.Errorf("bye loser slot probability = %v, want Unlikely", got)
	}
	if got := firstLosers.Right.FillProbability(); got != Likely {
		t.Errorf("contested loser slot probability = %v, want Likely", got)
	}
}

func TestExpectedCompetitors(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	first := e.Winners[0][0]
	if got := first.ExpectedCompetitors(Unlikely); got != 1 {
		t.Errorf("bye expected competitors = %d, want 1", got)
	}

	contested := e.Winners[0][1]
	if got := contested.ExpectedCompetitors(Unlikely); got != 2 {
		t.Errorf("contested race expected competitors = %d, want 2", got)
	}

	firstLosers := e.Losers[0][0]
	if got := firstLosers.ExpectedCompetitors(Likely); got != 1 {
		t.Errorf("first losers expected competitors = %d, want 1", got)
	}
}

func TestIsEditable(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	// Fixed first round slots are never editable.
	first := e.Winners[0][1]
	if first.Left.IsEditable(false) || first.Left.IsEditable(true) {
		t.Error("fixed branch reported editable")
	}

	// Winner-fed slots are editable once every prior slot is committed,
	// which holds from the start for the first round.
	semi := e.Winners[1][0]
	if !semi.Right.IsEditable(false) {
		t.Error("semifinal branch not editable before its prior result")
	}

	// Not-editable branches unlock only with the kind override.
	firstLosers := e.Losers[0][0]
	if !firstLosers.Left.IsEditable(true) {
		t.Error("bye loser branch not editable with override")
	}
	if !firstLosers.Right.IsEditable(true) {
		t.Error("contested loser branch not editable with override")
	}
	if firstLosers.Right.IsEditable(false) {
		t.Error("not-editable branch reported editable without override")
	}

	// Once a downstream result depends on a race, its feeding branches
	// lock.
	if err := e.SetResult(first, 103); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}
	if err := e.SetResult(e.Winners[0][0], 106); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}
	if err := e.SetResult(semi, 106); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}
	if semi.Right.IsEditable(false) {
		t.Error("semifinal branch still editable after dependent result")
	}
}

func TestResultDecided(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	race := e.Winners[0][1]
	if race.ResultDecided() {
		t.Error("result decided before any result entered")
	}

	if err := e.SetResult(race, 103); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}
	if !race.ResultDecided() {
		t.Error("result not decided after result entered")
	}

	if err := e.SetResult(race, WinnerEmpty); err != nil {
		t.Fatalf("SetResult returned error: %v", err)
	}
	if race.ResultDecided() {
		t.Error("result still decided after retraction")
	}
}

func TestPodiumNames(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 0)

	want := []string{"1st place", "2nd place", "3rd place", "4th place"}
	for i, p := range e.Podiums {
		if p.Name() != want[i] {
			t.Errorf("podium %d name = %q, want %q", i, p.Name(), want[i])
		}
	}
}
