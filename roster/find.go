/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mikeb26/solarchallenge-drawbot/knockout"
)

// FindCar resolves user input to a car: an exact id match first, otherwise
// the best fuzzy match against the car names.
func FindCar(cars []knockout.Car, query string) (*knockout.Car, error) {
	if id, err := strconv.Atoi(query); err == nil {
		for i := range cars {
			if cars[i].ID == id {
				return &cars[i], nil
			}
		}
		return nil, fmt.Errorf("no car with id %d: %w", id,
			knockout.ErrUnknownCompetitor)
	}

	names := make([]string, len(cars))
	for i, car := range cars {
		names[i] = car.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return nil, fmt.Errorf("no car matching %q: %w", query,
			knockout.ErrUnknownCompetitor)
	}
	sort.Sort(ranks)

	return &cars[ranks[0].OriginalIndex], nil
}
