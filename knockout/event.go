/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// RoundType identifies which bracket a round belongs to.
type RoundType string

const (
	// RoundWinners is the primary (winners) knockout bracket.
	RoundWinners RoundType = "P"

	// RoundLosers is the secondary (losers) knockout bracket.
	RoundLosers RoundType = "SC"

	// RoundConsolation is the pool of consolation races.
	RoundConsolation RoundType = "Consolation"

	// RoundGrandFinal is the single race grand final.
	RoundGrandFinal RoundType = "Grand final"
)

// RoundID identifies one round of the event. Index is zero based and only
// meaningful for the winners and losers brackets.
type RoundID struct {
	Type  RoundType
	Index int
}

func (id RoundID) String() string {
	switch id.Type {
	case RoundWinners, RoundLosers:
		return fmt.Sprintf("%s%d", string(id.Type), id.Index+1)
	}
	return string(id.Type)
}

// ParseRoundID parses a round name as printed in the play order, e.g. "P1",
// "SC3", "GF" or "CR".
func ParseRoundID(s string) (RoundID, error) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)

	parseIndex := func(prefix string, typ RoundType) (RoundID, error) {
		n, err := strconv.Atoi(strings.TrimPrefix(upper, prefix))
		if err != nil || n < 1 {
			return RoundID{}, fmt.Errorf("round %q: %w", s, ErrUnknownRound)
		}
		return RoundID{Type: typ, Index: n - 1}, nil
	}

	switch {
	case upper == "GF" || upper == "FINAL":
		return RoundID{Type: RoundGrandFinal}, nil
	case upper == "CR" || upper == "CONSOLATION":
		return RoundID{Type: RoundConsolation}, nil
	case strings.HasPrefix(upper, "SC"):
		return parseIndex("SC", RoundLosers)
	case strings.HasPrefix(upper, "P"):
		return parseIndex("P", RoundWinners)
	}
	return RoundID{}, fmt.Errorf("round %q: %w", s, ErrUnknownRound)
}

// Event owns the entire knockout draw: both brackets, the grand final, the
// four podium places, and the consolation pool. The graph is built once by
// NewEvent and never resized; only branch contents and consolation splices
// change afterward, through SetResult. The event assumes a single caller
// and provides no internal locking.
type Event struct {
	Name        string
	Date        time.Time
	Cars        []Car
	Winners     [][]*Race
	Losers      [][]*Race
	GrandFinal  *Race
	Podiums     [4]*Podium
	Consolation *ConsolationPool
}

// NewEvent seeds the cars into a fresh double elimination draw with the
// given number of spare consolation races. At least three cars are needed
// to produce a losers bracket.
func NewEvent(cars []Car, name string, consolationRaces int) (*Event, error) {
	if len(cars) < 3 {
		return nil, fmt.Errorf("%d cars cannot fill a double elimination"+
			" draw: %w", len(cars), ErrMalformedBracket)
	}
	if consolationRaces < 0 {
		return nil, fmt.Errorf("negative consolation pool size: %w",
			ErrMalformedBracket)
	}

	e := &Event{
		Name: name,
		Cars: slices.Clone(cars),
	}

	e.Winners = createWinnersDraw(len(e.Cars))
	if err := assignCars(e.carPtrs(), e.Winners[0]); err != nil {
		return nil, err
	}

	losers, err := createLosersDraw(e.Winners)
	if err != nil {
		return nil, err
	}
	e.Losers = losers
	if len(e.Losers) != 2*(len(e.Winners)-1) {
		return nil, fmt.Errorf("losers bracket has %d rounds, want %d: %w",
			len(e.Losers), 2*(len(e.Winners)-1), ErrMalformedBracket)
	}

	winnersFinal := e.Winners[len(e.Winners)-1]
	losersFinal := e.Losers[len(e.Losers)-1]
	losersSemi := e.Losers[len(e.Losers)-2]
	if len(winnersFinal) != 1 || len(losersFinal) != 1 {
		return nil, fmt.Errorf("final rounds must hold a single race: %w",
			ErrMalformedBracket)
	}

	e.GrandFinal, e.Podiums, err = addGrandFinal(winnersFinal[0],
		losersFinal[0], losersSemi[0])
	if err != nil {
		return nil, err
	}

	e.Consolation = newConsolationPool(consolationRaces)

	if err := e.numberRaces(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Event) carPtrs() []*Car {
	ptrs := make([]*Car, len(e.Cars))
	for i := range e.Cars {
		ptrs[i] = &e.Cars[i]
	}
	return ptrs
}

// FindCar returns the car with the given id, or nil.
func (e *Event) FindCar(id int) *Car {
	for i := range e.Cars {
		if e.Cars[i].ID == id {
			return &e.Cars[i]
		}
	}
	return nil
}

// PlayOrder determines the order the rounds should be run in. An example
// ordering for a 32 car draw is:
//
//	P1, SC1, P2, SC2, SC3, P3, SC4, SC5, P4, SC6, SC7, P5, SC8, Grand final
//
// Each winners round is followed by the losers rounds it feeds, keeping the
// two brackets progressing at a comparable pace.
func (e *Event) PlayOrder() []RoundID {
	order := []RoundID{
		{Type: RoundWinners, Index: 0},
		{Type: RoundLosers, Index: 0},
	}

	for i := 1; i < len(e.Winners); i++ {
		order = append(order,
			RoundID{Type: RoundWinners, Index: i},
			RoundID{Type: RoundLosers, Index: 2*i - 1})
		if len(e.Losers) > 2*i {
			// The last pattern has a single losers round.
			order = append(order, RoundID{Type: RoundLosers, Index: 2 * i})
		}
	}

	return append(order, RoundID{Type: RoundGrandFinal})
}

// Round returns the races of the identified round in generation order.
func (e *Event) Round(id RoundID) ([]*Race, error) {
	bracketRound := func(bracket [][]*Race) ([]*Race, error) {
		if id.Index < 0 || id.Index >= len(bracket) {
			return nil, fmt.Errorf("round %v: %w", id, ErrUnknownRound)
		}
		return bracket[id.Index], nil
	}

	switch id.Type {
	case RoundWinners:
		return bracketRound(e.Winners)
	case RoundLosers:
		return bracketRound(e.Losers)
	case RoundGrandFinal:
		return []*Race{e.GrandFinal}, nil
	case RoundConsolation:
		return e.Consolation.Races(), nil
	}
	return nil, fmt.Errorf("round %v: %w", id, ErrUnknownRound)
}

// numberRaces assigns sequential race numbers starting at 1 in play order.
func (e *Event) numberRaces() error {
	order := e.PlayOrder()
	if len(order) != len(e.Winners)+len(e.Losers)+1 {
		return fmt.Errorf("play order has %d rounds, want %d: %w",
			len(order), len(e.Winners)+len(e.Losers)+1, ErrMalformedBracket)
	}

	number := 1
	for _, id := range order {
		round, err := e.Round(id)
		if err != nil {
			return err
		}
		for _, race := range round {
			race.Number = number
			number++
		}
	}

	return nil
}

// SetResult records the outcome of a race and propagates it one hop through
// the draw. carID is an occupant's id, WinnerEmpty, or WinnerDNR. Downstream
// races are not recursively decided; callers re-query after every mutation.
func (e *Event) SetResult(race *Race, carID int) error {
	return race.SetWinner(carID, e.Consolation)
}

// SetResultAt is SetResult addressed by round and race index, for callers
// holding a round id rather than a race.
func (e *Event) SetResultAt(id RoundID, race int, carID int) error {
	round, err := e.Round(id)
	if err != nil {
		return err
	}
	if race < 0 || race >= len(round) {
		return fmt.Errorf("race %d of round %v: %w", race, id,
			ErrUnknownRound)
	}
	return e.SetResult(round[race], carID)
}
