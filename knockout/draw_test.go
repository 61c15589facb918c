/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import (
	"testing"
)

// demoCars returns the six car entry list used throughout the package tests.
// Car 106 has the most round robin points and so earns the #1 seed; car 101
// has the fewest and earns the #6 seed.
func demoCars() []Car {
	return []Car{
		{ID: 101, SchoolID: 1, Name: "Photon", Points: 0},
		{ID: 102, SchoolID: 2, Name: "Helios", Points: 1},
		{ID: 103, SchoolID: 3, Name: "Sunchaser", Points: 2},
		{ID: 104, SchoolID: 4, Name: "Daystar", Points: 3},
		{ID: 105, SchoolID: 5, Name: "Zenith", Points: 4},
		{ID: 106, SchoolID: 6, Name: "Corona", Points: 5},
	}
}

func mustNewEvent(t *testing.T, cars []Car, consolationRaces int) *Event {
	t.Helper()
	e, err := NewEvent(cars, "Test Knockout", consolationRaces)
	if err != nil {
		t.Fatalf("NewEvent returned error: %v", err)
	}
	return e
}

func TestRoundCount(t *testing.T) {
	testCases := []struct {
		competitors int
		want        int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{16, 4},
		{17, 5},
		{32, 5},
		{33, 6},
	}

	for _, tc := range testCases {
		if got := roundCount(tc.competitors); got != tc.want {
			t.Errorf("roundCount(%d) = %d, want %d", tc.competitors, got,
				tc.want)
		}
	}
}

func TestCreateWinnersDrawShape(t *testing.T) {
	for n := 2; n <= 33; n++ {
		draw := createWinnersDraw(n)

		rounds := roundCount(n)
		if len(draw) != rounds {
			t.Fatalf("%d cars: got %d rounds, want %d", n, len(draw), rounds)
		}

		wantRaces := 1
		for i := len(draw) - 1; i >= 0; i-- {
			if len(draw[i]) != wantRaces {
				t.Fatalf("%d cars: round %d has %d races, want %d", n, i,
					len(draw[i]), wantRaces)
			}
			wantRaces *= 2
		}

		for i, round := range draw {
			competitors := 2 * len(round)
			seen := make(map[int]bool)
			for _, race := range round {
				sum := race.Left.Seed + race.Right.Seed
				if sum != competitors+1 {
					t.Errorf("%d cars: round %d race %v seeds sum to %d,"+
						" want %d", n, i, race, sum, competitors+1)
				}
				for _, seed := range []int{race.Left.Seed, race.Right.Seed} {
					if seed < 1 || seed > competitors || seen[seed] {
						t.Errorf("%d cars: round %d has bad seed %d", n, i,
							seed)
					}
					seen[seed] = true
				}
			}
		}
	}
}

func TestAssignCarsSeeding(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 0)

	first := e.Winners[0]
	if len(first) != 4 {
		t.Fatalf("first round has %d races, want 4", len(first))
	}

	// Seeds 7 and 8 are byes with a six car entry list.
	testCases := []struct {
		race      int
		leftCar   int
		rightCar  int
		leftSeed  int
		rightSeed int
	}{
		{0, 106, 0, 1, 8},
		{1, 103, 102, 4, 5},
		{2, 105, 0, 2, 7},
		{3, 104, 101, 3, 6},
	}

	carID := func(b *Branch) int {
		if b.Car == nil {
			return 0
		}
		return b.Car.ID
	}

	for _, tc := range testCases {
		race := first[tc.race]
		if race.Left.Seed != tc.leftSeed || race.Right.Seed != tc.rightSeed {
			t.Errorf("race %d seeds (%d, %d), want (%d, %d)", tc.race,
				race.Left.Seed, race.Right.Seed, tc.leftSeed, tc.rightSeed)
		}
		if carID(race.Left) != tc.leftCar || carID(race.Right) != tc.rightCar {
			t.Errorf("race %d cars (%d, %d), want (%d, %d)", tc.race,
				carID(race.Left), carID(race.Right), tc.leftCar, tc.rightCar)
		}
		if !race.Left.Filled || !race.Right.Filled {
			t.Errorf("race %d branches not marked filled", tc.race)
		}
		if race.Left.Kind != Fixed || race.Right.Kind != Fixed {
			t.Errorf("race %d branches not marked fixed", tc.race)
		}
	}

	if !first[0].IsBye() || !first[2].IsBye() {
		t.Error("expected races 0 and 2 to be byes")
	}
	if first[1].IsBye() || first[3].IsBye() {
		t.Error("expected races 1 and 3 not to be byes")
	}
}

func TestLosersDrawShape(t *testing.T) {
	for n := 3; n <= 33; n++ {
		cars := make([]Car, n)
		for i := range cars {
			cars[i] = Car{ID: 100 + i, Name: "car", Points: i}
		}
		e := mustNewEvent(t, cars, 0)

		if len(e.Losers) != 2*(len(e.Winners)-1) {
			t.Fatalf("%d cars: %d losers rounds for %d winners rounds", n,
				len(e.Losers), len(e.Winners))
		}
		if len(e.Losers[0]) != len(e.Winners[0])/2 {
			t.Errorf("%d cars: first losers round has %d races, want %d", n,
				len(e.Losers[0]), len(e.Winners[0])/2)
		}
		if len(e.Losers[len(e.Losers)-1]) != 1 {
			t.Errorf("%d cars: losers final has %d races", n,
				len(e.Losers[len(e.Losers)-1]))
		}

		// Every winners race except the final feeds its loser somewhere.
		for i, round := range e.Winners {
			for _, race := range round {
				if race.LoserNext() == nil && i < len(e.Winners)-1 {
					t.Errorf("%d cars: winners round %d race %v has no"+
						" loser link", n, i, race)
				}
			}
		}
	}
}

func TestGrandFinalWiring(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 0)

	winnersFinal := e.Winners[len(e.Winners)-1][0]
	losersFinal := e.Losers[len(e.Losers)-1][0]
	losersSemi := e.Losers[len(e.Losers)-2][0]

	if winnersFinal.WinnerNext() != Winnable(e.GrandFinal) {
		t.Error("winners final winner does not feed the grand final")
	}
	if winnersFinal.LoserNext() != Winnable(losersFinal) {
		t.Error("winners final loser does not feed the losers final")
	}
	if losersFinal.WinnerNext() != Winnable(e.GrandFinal) {
		t.Error("losers final winner does not feed the grand final")
	}
	if e.GrandFinal.WinnerNext() != Winnable(e.Podiums[0]) {
		t.Error("grand final winner does not feed 1st place")
	}
	if e.GrandFinal.LoserNext() != Winnable(e.Podiums[1]) {
		t.Error("grand final loser does not feed 2nd place")
	}
	if losersFinal.LoserNext() != Winnable(e.Podiums[2]) {
		t.Error("losers final loser does not feed 3rd place")
	}
	if losersSemi.LoserNext() != Winnable(e.Podiums[3]) {
		t.Error("losers semifinal loser does not feed 4th place")
	}
}

func TestNewEventTooFewCars(t *testing.T) {
	_, err := NewEvent(demoCars()[:2], "Test", 0)
	if err == nil {
		t.Fatal("expected error for a two car event")
	}
}
