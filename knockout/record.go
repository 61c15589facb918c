/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import (
	"encoding/json"
	"fmt"
	"time"
)

// The record types are the persisted form of an event. They deliberately
// carry no graph links: the draw topology is a pure function of the car
// list, so Restore rebuilds the graph with NewEvent and then re-applies the
// recorded branch contents and consolation splices on top of it.

// BranchRecord is the persisted form of one Branch.
type BranchRecord struct {
	Seed   int    `json:"seed"`
	Kind   string `json:"kind"`
	CarID  *int   `json:"carId,omitempty"`
	Filled bool   `json:"filled"`
}

// RaceRecord is the persisted form of one Race.
type RaceRecord struct {
	Number int          `json:"raceNumber"`
	Left   BranchRecord `json:"left"`
	Right  BranchRecord `json:"right"`
}

// RaceRef locates a race within an event by round name and index.
type RaceRef struct {
	Round string `json:"round"`
	Race  int    `json:"race"`
}

// ConsolationRecord is the persisted form of one consolation pool slot.
// Prior locates the race the slot is spliced after; nil for a free slot.
type ConsolationRecord struct {
	RaceRecord
	Prior *RaceRef `json:"prior,omitempty"`
}

// PodiumRecord is the persisted form of one Podium.
type PodiumRecord struct {
	Position int          `json:"position"`
	Branch   BranchRecord `json:"branch"`
}

// EventRecord is the persisted form of an Event.
type EventRecord struct {
	Name        string              `json:"eventName"`
	Date        time.Time           `json:"eventDate"`
	Cars        []Car               `json:"cars"`
	Winners     [][]RaceRecord      `json:"winners"`
	Losers      [][]RaceRecord      `json:"losers"`
	GrandFinal  RaceRecord          `json:"grandFinal"`
	Podiums     []PodiumRecord      `json:"podiums"`
	Consolation []ConsolationRecord `json:"consolation"`
}

func snapshotBranch(b *Branch) BranchRecord {
	rec := BranchRecord{
		Seed:   b.Seed,
		Kind:   b.Kind.String(),
		Filled: b.Filled,
	}
	if b.Car != nil {
		id := b.Car.ID
		rec.CarID = &id
	}
	return rec
}

func snapshotRace(r *Race) RaceRecord {
	return RaceRecord{
		Number: r.Number,
		Left:   snapshotBranch(r.Left),
		Right:  snapshotBranch(r.Right),
	}
}

func snapshotRounds(bracket [][]*Race) [][]RaceRecord {
	rounds := make([][]RaceRecord, len(bracket))
	for i, round := range bracket {
		rounds[i] = make([]RaceRecord, len(round))
		for j, r := range round {
			rounds[i][j] = snapshotRace(r)
		}
	}
	return rounds
}

// locate finds the round and index of a race within the event's brackets.
func (e *Event) locate(race *Race) (RaceRef, error) {
	scan := func(typ RoundType, bracket [][]*Race) *RaceRef {
		for i, round := range bracket {
			for j, r := range round {
				if r == race {
					return &RaceRef{
						Round: RoundID{Type: typ, Index: i}.String(),
						Race:  j,
					}
				}
			}
		}
		return nil
	}

	if ref := scan(RoundWinners, e.Winners); ref != nil {
		return *ref, nil
	}
	if ref := scan(RoundLosers, e.Losers); ref != nil {
		return *ref, nil
	}
	if race == e.GrandFinal {
		return RaceRef{Round: RoundID{Type: RoundGrandFinal}.String()}, nil
	}
	return RaceRef{}, fmt.Errorf("%v is not part of the event: %w",
		race.Name(), ErrMalformedBracket)
}

// Snapshot captures the event's full state in a form suitable for JSON
// persistence and later Restore.
func (e *Event) Snapshot() (*EventRecord, error) {
	rec := &EventRecord{
		Name:       e.Name,
		Date:       e.Date,
		Cars:       e.Cars,
		Winners:    snapshotRounds(e.Winners),
		Losers:     snapshotRounds(e.Losers),
		GrandFinal: snapshotRace(e.GrandFinal),
	}

	for _, p := range e.Podiums {
		rec.Podiums = append(rec.Podiums, PodiumRecord{
			Position: p.Position,
			Branch:   snapshotBranch(p.Branch),
		})
	}

	for _, slot := range e.Consolation.Races() {
		crec := ConsolationRecord{RaceRecord: snapshotRace(slot)}
		if prior := slot.Left.prevRace; prior != nil {
			ref, err := e.locate(prior)
			if err != nil {
				return nil, err
			}
			crec.Prior = &ref
		}
		rec.Consolation = append(rec.Consolation, crec)
	}

	return rec, nil
}

// MarshalJSON serializes the event via its Snapshot.
func (e *Event) MarshalJSON() ([]byte, error) {
	rec, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

func (e *Event) restoreBranch(b *Branch, rec BranchRecord) error {
	if b.Seed != rec.Seed {
		return fmt.Errorf("branch seed %d does not match recorded seed %d:"+
			" %w", b.Seed, rec.Seed, ErrMalformedBracket)
	}
	kind, err := parseBranchKind(rec.Kind)
	if err != nil {
		return err
	}
	b.Kind = kind
	b.Filled = rec.Filled
	b.Car = nil
	if rec.CarID != nil {
		car := e.FindCar(*rec.CarID)
		if car == nil {
			return fmt.Errorf("recorded car %d is not entered in the event:"+
				" %w", *rec.CarID, ErrUnknownCompetitor)
		}
		b.Car = car
	}
	return nil
}

func (e *Event) restoreRace(r *Race, rec RaceRecord) error {
	if err := e.restoreBranch(r.Left, rec.Left); err != nil {
		return err
	}
	if err := e.restoreBranch(r.Right, rec.Right); err != nil {
		return err
	}
	r.Number = rec.Number
	return nil
}

func (e *Event) restoreRounds(bracket [][]*Race, rounds [][]RaceRecord) error {
	if len(bracket) != len(rounds) {
		return fmt.Errorf("recorded bracket has %d rounds, want %d: %w",
			len(rounds), len(bracket), ErrMalformedBracket)
	}
	for i, round := range bracket {
		if len(round) != len(rounds[i]) {
			return fmt.Errorf("recorded round %d has %d races, want %d: %w",
				i, len(rounds[i]), len(round), ErrMalformedBracket)
		}
		for j, r := range round {
			if err := e.restoreRace(r, rounds[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Event) raceAt(ref RaceRef) (*Race, error) {
	id, err := ParseRoundID(ref.Round)
	if err != nil {
		return nil, err
	}
	round, err := e.Round(id)
	if err != nil {
		return nil, err
	}
	if ref.Race < 0 || ref.Race >= len(round) {
		return nil, fmt.Errorf("race %d of round %v: %w", ref.Race, id,
			ErrUnknownRound)
	}
	return round[ref.Race], nil
}

// Restore reconstructs an event from a record: the draw graph is rebuilt
// from the recorded car list, consolation races are re-spliced where the
// record says they were, and the recorded branch contents are re-applied.
func Restore(rec *EventRecord) (*Event, error) {
	e, err := NewEvent(rec.Cars, rec.Name, len(rec.Consolation))
	if err != nil {
		return nil, err
	}
	e.Date = rec.Date

	// Splice before applying contents so the recorded slot values land on
	// linked branches rather than being clobbered by the mirror copy.
	for i, crec := range rec.Consolation {
		if crec.Prior == nil {
			continue
		}
		prior, err := e.raceAt(*crec.Prior)
		if err != nil {
			return nil, err
		}
		if err := e.Consolation.insert(prior, e.Consolation.races[i]); err != nil {
			return nil, err
		}
	}

	if err := e.restoreRounds(e.Winners, rec.Winners); err != nil {
		return nil, err
	}
	if err := e.restoreRounds(e.Losers, rec.Losers); err != nil {
		return nil, err
	}
	if err := e.restoreRace(e.GrandFinal, rec.GrandFinal); err != nil {
		return nil, err
	}

	if len(rec.Podiums) != len(e.Podiums) {
		return nil, fmt.Errorf("record has %d podium places, want %d: %w",
			len(rec.Podiums), len(e.Podiums), ErrMalformedBracket)
	}
	for i, prec := range rec.Podiums {
		if e.Podiums[i].Position != prec.Position {
			return nil, fmt.Errorf("recorded podium position %d does not"+
				" match place %d: %w", prec.Position, e.Podiums[i].Position,
				ErrMalformedBracket)
		}
		if err := e.restoreBranch(e.Podiums[i].Branch, prec.Branch); err != nil {
			return nil, err
		}
	}

	for i, crec := range rec.Consolation {
		slot := e.Consolation.races[i]
		if crec.Prior == nil {
			slot.Number = crec.Number
			continue
		}
		if err := e.restoreRace(slot, crec.RaceRecord); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// RestoreJSON reconstructs an event from its JSON serialized record.
func RestoreJSON(data []byte) (*Event, error) {
	var rec EventRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("cannot parse event record: %w", err)
	}
	return Restore(&rec)
}
