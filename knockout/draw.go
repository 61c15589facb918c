/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import (
	"fmt"
	"slices"
	"sort"
)

// roundCount returns ceil(log2(competitors)) without going through floats.
func roundCount(competitors int) int {
	size, rounds := 1, 0
	for size < competitors {
		size *= 2
		rounds++
	}
	return rounds
}

// addRound generates the round before nextRound in the winners bracket,
// working backward from the final. Each next-round race gains two feeder
// races: one pairing its high theoretical seed with that seed's complement,
// one pairing its low seed likewise. Within a freshly built round, every
// race's two seeds sum to the number of competitors in the round plus one.
func addRound(nextRound []*Race) []*Race {
	competitors := 4 * len(nextRound)
	pair := func(seed int) int {
		// The worst opponent still expected to meet this seed.
		return competitors + 1 - seed
	}

	races := make([]*Race, 0, 2*len(nextRound))
	for _, next := range nextRound {
		high := next.TheoreticalWinner().Seed
		left := &Race{
			Left:       newBranch(high, DependentEditable),
			Right:      newBranch(pair(high), DependentEditable),
			winnerNext: next,
		}
		races = append(races, left)
		next.Left.prevRace = left

		low := next.TheoreticalLoser().Seed
		right := &Race{
			Left:       newBranch(low, DependentEditable),
			Right:      newBranch(pair(low), DependentEditable),
			winnerNext: next,
		}
		races = append(races, right)
		next.Right.prevRace = right
	}

	return races
}

// createWinnersDraw builds an empty single elimination draw with optimal
// seeding, final round last.
func createWinnersDraw(competitors int) [][]*Race {
	final := &Race{
		Left:  newBranch(1, DependentEditable),
		Right: newBranch(2, DependentEditable),
	}

	draw := [][]*Race{{final}}
	for i := 0; i < roundCount(competitors)-1; i++ {
		draw = append(draw, addRound(draw[len(draw)-1]))
	}
	slices.Reverse(draw)

	return draw
}

// assignCars seeds the sorted cars into the first round and pads the draw
// out with byes. Cars are seeded best-first by round robin points; a higher
// points total earns a better seed.
func assignCars(cars []*Car, firstRound []*Race) error {
	sorted := slices.Clone(cars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points > sorted[j].Points
	})

	byes := 2*len(firstRound) - len(sorted)
	if byes < 0 {
		return fmt.Errorf("%d cars do not fit a %d race first round: %w",
			len(sorted), len(firstRound), ErrMalformedBracket)
	}
	for i := 0; i < byes; i++ {
		sorted = append(sorted, nil)
	}

	for _, race := range firstRound {
		race.Left.Car = sorted[race.Left.Seed-1]
		race.Left.Kind = Fixed
		race.Left.Filled = true
		race.Right.Car = sorted[race.Right.Seed-1]
		race.Right.Kind = Fixed
		race.Right.Filled = true
	}

	return nil
}

// addFirstLosers generates the first round of the losers bracket by pairing
// the losers of each adjacent pair of first round winners races. Byes make
// these losers deterministic, so the branches are not editable.
func addFirstLosers(winnersRound1 []*Race) ([]*Race, error) {
	if len(winnersRound1)%2 != 0 {
		return nil, fmt.Errorf("first winners round has %d races: %w",
			len(winnersRound1), ErrMalformedBracket)
	}

	var round []*Race
	for i := 0; i < len(winnersRound1); i += 2 {
		a, b := winnersRound1[i], winnersRound1[i+1]
		race := &Race{
			Left: newLinkedBranch(a.TheoreticalLoser().Seed,
				DependentNotEditable, a),
			Right: newLinkedBranch(b.TheoreticalLoser().Seed,
				DependentNotEditable, b),
		}
		a.loserNext = race
		b.loserNext = race
		round = append(round, race)
	}

	return round, nil
}

// addRepecharge adds a round where the losers of a winners round meet the
// survivors already in the losers bracket. reverseWinners flips the winners
// round ordering to delay repeat pairings for as long as possible.
func addRepecharge(winnersRound, losersRound []*Race, reverseWinners bool) ([]*Race, error) {
	if len(winnersRound) != len(losersRound) {
		return nil, fmt.Errorf("repecharge rounds have %d and %d races: %w",
			len(winnersRound), len(losersRound), ErrMalformedBracket)
	}

	ordered := winnersRound
	if reverseWinners {
		ordered = slices.Clone(winnersRound)
		slices.Reverse(ordered)
	}

	var round []*Race
	for i, winnerRace := range ordered {
		loserRace := losersRound[i]
		race := &Race{
			Left: newLinkedBranch(winnerRace.TheoreticalLoser().Seed,
				DependentNotEditable, winnerRace),
			Right: newLinkedBranch(loserRace.TheoreticalWinner().Seed,
				DependentEditable, loserRace),
		}
		winnerRace.loserNext = race
		loserRace.winnerNext = race
		round = append(round, race)
	}

	return round, nil
}

// forwardKnockout halves the previous round by winner.
func forwardKnockout(prevRound []*Race) []*Race {
	var races []*Race
	for i := 0; i+1 < len(prevRound); i += 2 {
		a, b := prevRound[i], prevRound[i+1]
		race := &Race{
			Left: newLinkedBranch(a.TheoreticalWinner().Seed,
				DependentEditable, a),
			Right: newLinkedBranch(b.TheoreticalWinner().Seed,
				DependentEditable, b),
		}
		a.winnerNext = race
		b.winnerNext = race
		races = append(races, race)
	}
	return races
}

// createLosersDraw derives the losers bracket of a double elimination
// tournament from the winners bracket, linking each winners round's losers
// into the correct spots. The result has a first round plus a reduction and
// repecharge round for every winners round after the first.
func createLosersDraw(winners [][]*Race) ([][]*Race, error) {
	first, err := addFirstLosers(winners[0])
	if err != nil {
		return nil, err
	}
	repecharge, err := addRepecharge(winners[1], first, false)
	if err != nil {
		return nil, err
	}
	losers := [][]*Race{first, repecharge}

	for i := 2; i < len(winners); i++ {
		reduction := forwardKnockout(losers[len(losers)-1])
		losers = append(losers, reduction)

		repecharge, err := addRepecharge(winners[i], reduction, i%2 == 0)
		if err != nil {
			return nil, err
		}
		losers = append(losers, repecharge)
	}

	return losers, nil
}

// addGrandFinal pairs the winners final winner against the losers final
// winner, and wires the four podium places: grand final winner and loser to
// 1st and 2nd, losers final loser to 3rd, losers semifinal loser to 4th.
func addGrandFinal(winnersFinal, losersFinal, losersSemi *Race) (*Race, [4]*Podium, error) {
	var podiums [4]*Podium
	for i := range podiums {
		podiums[i] = newPodium(i + 1)
	}

	if winnersFinal.loserNext != Winnable(losersFinal) {
		return nil, podiums, fmt.Errorf("winners final loser does not feed"+
			" the losers final: %w", ErrMalformedBracket)
	}
	if winnersFinal.winnerNext != nil || losersFinal.winnerNext != nil ||
		losersFinal.loserNext != nil {
		return nil, podiums, fmt.Errorf("final races already linked: %w",
			ErrMalformedBracket)
	}

	grandFinal := &Race{
		Left: newLinkedBranch(winnersFinal.TheoreticalWinner().Seed,
			DependentEditable, winnersFinal),
		Right: newLinkedBranch(losersFinal.TheoreticalWinner().Seed,
			DependentEditable, losersFinal),
		winnerNext: podiums[0],
		loserNext:  podiums[1],
	}
	podiums[0].Branch.prevRace = grandFinal
	podiums[1].Branch.prevRace = grandFinal

	winnersFinal.winnerNext = grandFinal
	losersFinal.winnerNext = grandFinal

	losersFinal.loserNext = podiums[2]
	podiums[2].Branch.prevRace = losersFinal
	losersSemi.loserNext = podiums[3]
	podiums[3].Branch.prevRace = losersSemi

	return grandFinal, podiums, nil
}
