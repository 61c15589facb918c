/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"math/rand"

	"github.com/mikeb26/solarchallenge-drawbot/knockout"
)

// AssignRandomPoints gives every car a distinct random points total, for
// practice draws run before the round robin has been scored.
func AssignRandomPoints(cars []knockout.Car) {
	order := rand.Perm(len(cars))
	for i := range cars {
		cars[i].Points = order[i]
	}
}
