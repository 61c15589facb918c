/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package knockout builds and maintains the double elimination draw for the
// solar challenge knockout event: the winners and losers brackets, the grand
// final and podium places, the consolation races used to resolve did-not-race
// results, and the order the rounds should be run in.
package knockout

import "fmt"

// Car represents a single competitor as loaded from the entry list. Cars are
// immutable once the draw has been created; the draw only references them.
type Car struct {
	ID                int    `json:"carId"`
	SchoolID          int    `json:"schoolId"`
	Name              string `json:"carName"`
	Scrutineered      bool   `json:"scrutineered"`
	PresentRoundRobin bool   `json:"presentRoundRobin"`
	PresentKnockout   bool   `json:"presentKnockout"`

	// Points scored in the round robin. A higher points total earns a
	// better theoretical seed in the knockout draw.
	Points int `json:"points"`
}

func (c Car) String() string {
	return fmt.Sprintf("<%d, %s>", c.ID, c.Name)
}
