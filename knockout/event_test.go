/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import (
	"errors"
	"testing"
)

func TestPlayOrder(t *testing.T) {
	testCases := []struct {
		cars int
		want []string
	}{
		{3, []string{"P1", "SC1", "P2", "SC2", "Grand final"}},
		{6, []string{"P1", "SC1", "P2", "SC2", "SC3", "P3", "SC4",
			"Grand final"}},
		{32, []string{"P1", "SC1", "P2", "SC2", "SC3", "P3", "SC4", "SC5",
			"P4", "SC6", "SC7", "P5", "SC8", "Grand final"}},
	}

	for _, tc := range testCases {
		cars := make([]Car, tc.cars)
		for i := range cars {
			cars[i] = Car{ID: 100 + i, Name: "car", Points: i}
		}
		e := mustNewEvent(t, cars, 0)

		order := e.PlayOrder()
		if len(order) != len(tc.want) {
			t.Fatalf("%d cars: play order %v, want %v", tc.cars, order,
				tc.want)
		}
		for i, id := range order {
			if id.String() != tc.want[i] {
				t.Errorf("%d cars: play order entry %d = %v, want %v",
					tc.cars, i, id, tc.want[i])
			}
		}
	}
}

func TestRaceNumbering(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 0)

	want := 1
	for _, id := range e.PlayOrder() {
		round, err := e.Round(id)
		if err != nil {
			t.Fatalf("Round(%v) returned error: %v", id, err)
		}
		for _, race := range round {
			if race.Number != want {
				t.Errorf("round %v race numbered %d, want %d", id,
					race.Number, want)
			}
			want++
		}
	}

	// 4 + 2 + 2 + 2 + 1 + 1 + 1 + 1 races in a six car draw.
	if want != 15 {
		t.Errorf("numbered %d races, want 14", want-1)
	}
}

func TestRound(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 2)

	round, err := e.Round(RoundID{Type: RoundWinners, Index: 0})
	if err != nil || len(round) != 4 {
		t.Errorf("Round(P1) = %d races, err %v; want 4 races", len(round), err)
	}

	round, err = e.Round(RoundID{Type: RoundGrandFinal})
	if err != nil || len(round) != 1 || round[0] != e.GrandFinal {
		t.Error("Round(Grand final) did not return the grand final")
	}

	round, err = e.Round(RoundID{Type: RoundConsolation})
	if err != nil || len(round) != 2 {
		t.Errorf("Round(Consolation) = %d races, err %v; want 2 races",
			len(round), err)
	}

	_, err = e.Round(RoundID{Type: RoundWinners, Index: 7})
	if !errors.Is(err, ErrUnknownRound) {
		t.Errorf("Round(P8) error = %v, want ErrUnknownRound", err)
	}
	_, err = e.Round(RoundID{Type: RoundLosers, Index: -1})
	if !errors.Is(err, ErrUnknownRound) {
		t.Errorf("Round(SC0) error = %v, want ErrUnknownRound", err)
	}
}

func TestParseRoundID(t *testing.T) {
	testCases := []struct {
		in      string
		want    RoundID
		wantErr bool
	}{
		{"P1", RoundID{Type: RoundWinners, Index: 0}, false},
		{"p3", RoundID{Type: RoundWinners, Index: 2}, false},
		{"SC4", RoundID{Type: RoundLosers, Index: 3}, false},
		{"sc1", RoundID{Type: RoundLosers, Index: 0}, false},
		{"GF", RoundID{Type: RoundGrandFinal}, false},
		{"final", RoundID{Type: RoundGrandFinal}, false},
		{"CR", RoundID{Type: RoundConsolation}, false},
		{"P0", RoundID{}, true},
		{"SCx", RoundID{}, true},
		{"bogus", RoundID{}, true},
		{"", RoundID{}, true},
	}

	for _, tc := range testCases {
		got, err := ParseRoundID(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownRound) {
				t.Errorf("ParseRoundID(%q) error = %v, want ErrUnknownRound",
					tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseRoundID(%q) = %v, %v; want %v", tc.in, got, err,
				tc.want)
		}
	}
}

func TestSetResultAt(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 1)

	id := RoundID{Type: RoundWinners, Index: 0}
	if err := e.SetResultAt(id, 1, 103); err != nil {
		t.Fatalf("SetResultAt returned error: %v", err)
	}
	if e.Winners[1][0].Right.Car == nil ||
		e.Winners[1][0].Right.Car.ID != 103 {
		t.Error("result did not propagate")
	}

	err := e.SetResultAt(id, 9, 103)
	if !errors.Is(err, ErrUnknownRound) {
		t.Errorf("SetResultAt error = %v, want ErrUnknownRound", err)
	}
}

func TestFindCar(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 0)

	car := e.FindCar(104)
	if car == nil || car.Name != "Daystar" {
		t.Errorf("FindCar(104) = %v, want Daystar", car)
	}
	if e.FindCar(999) != nil {
		t.Error("FindCar(999) found a car")
	}
}

// TestFullPlaythrough runs a complete six car event to the podium.
func TestFullPlaythrough(t *testing.T) {
	e := mustNewEvent(t, demoCars(), 2)

	results := []struct {
		round string
		race  int
		carID int
	}{
		{"P1", 0, 106}, // bye
		{"P1", 1, 103},
		{"P1", 2, 105}, // bye
		{"P1", 3, 104},
		{"SC1", 0, 102}, // sole occupant after byes
		{"SC1", 1, 101},
		{"P2", 0, 106},
		{"P2", 1, 105},
		{"SC2", 0, 103},
		{"SC2", 1, 104},
		{"SC3", 0, 104},
		{"P3", 0, 106},
		{"SC4", 0, 105},
		{"GF", 0, 106},
	}

	for _, res := range results {
		id, err := ParseRoundID(res.round)
		if err != nil {
			t.Fatalf("ParseRoundID(%q) returned error: %v", res.round, err)
		}
		if err := e.SetResultAt(id, res.race, res.carID); err != nil {
			t.Fatalf("SetResultAt(%v, %d, %d) returned error: %v", id,
				res.race, res.carID, err)
		}
	}

	wantPodium := []int{106, 105, 104, 103}
	for i, p := range e.Podiums {
		if p.Branch.Car == nil || p.Branch.Car.ID != wantPodium[i] {
			t.Errorf("%v holds %v, want car %d", p.Name(), p.Branch.Car,
				wantPodium[i])
		}
	}
	if e.Consolation.InUse() != 0 {
		t.Errorf("consolation pool in use = %d, want 0", e.Consolation.InUse())
	}
}

func TestEventCarsAreCopied(t *testing.T) {
	cars := demoCars()
	e := mustNewEvent(t, cars, 0)

	cars[5].Name = "changed"
	if e.Cars[5].Name != "Corona" {
		t.Error("event car list aliases the caller's slice")
	}
}
