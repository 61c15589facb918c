/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import "errors"

var (
	// ErrUnknownCompetitor indicates a car id that is not an occupant of
	// the race being updated.
	ErrUnknownCompetitor = errors.New("unknown competitor")

	// ErrInvalidPriorRace indicates a race or podium that is not actually
	// fed by the given prior race.
	ErrInvalidPriorRace = errors.New("not a prior race")

	// ErrConsolationPoolExhausted indicates that every pre-allocated
	// consolation race is already in use.
	ErrConsolationPoolExhausted = errors.New("no spare consolation races")

	// ErrConsolationSplice indicates a consolation race splice or
	// un-splice that would violate the pool's invariants.
	ErrConsolationSplice = errors.New("consolation splice invariant violated")

	// ErrMalformedBracket indicates a construction time invariant
	// violation. It is never expected during correct use.
	ErrMalformedBracket = errors.New("malformed bracket")

	// ErrUnknownRound indicates a round id that does not exist in the
	// event.
	ErrUnknownRound = errors.New("unknown round")
)
