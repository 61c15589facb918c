/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package knockout

import (
	"fmt"
	"strings"
)

func branchCell(b *Branch) string {
	switch {
	case b.Car != nil:
		return b.Car.String()
	case b.Filled:
		return "(empty)"
	}
	return "(tbd)"
}

// BuildBracketOutput renders every round of the draw, one race per line, in
// play order.
func BuildBracketOutput(e *Event) string {
	var sb strings.Builder

	if e.Name != "" {
		fmt.Fprintf(&sb, "%v\n\n", e.Name)
	}

	for _, id := range e.PlayOrder() {
		round, err := e.Round(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "%v\n", id)
		appendRoundOutput(&sb, round)
		sb.WriteString("\n")
	}

	if e.Consolation.InUse() > 0 {
		sb.WriteString("Consolation\n")
		var inUse []*Race
		for _, slot := range e.Consolation.Races() {
			if slot.Left.PrevRace() != nil {
				inUse = append(inUse, slot)
			}
		}
		appendRoundOutput(&sb, inUse)
		sb.WriteString("\n")
	}

	return sb.String()
}

func appendRoundOutput(sb *strings.Builder, round []*Race) {
	nameWidth := len("Race")
	leftWidth := len("Left")
	for _, r := range round {
		nameWidth = max(nameWidth, len(r.Name()))
		leftWidth = max(leftWidth, len(branchCell(r.Left)))
	}

	fmt.Fprintf(sb, "  %-*v  %-*v  %v\n", nameWidth, "Race", leftWidth,
		"Left", "Right")
	for _, r := range round {
		suffix := ""
		if r.IsBye() {
			suffix = "  (bye)"
		}
		fmt.Fprintf(sb, "  %-*v  %-*v  %v%v\n", nameWidth, r.Name(),
			leftWidth, branchCell(r.Left), branchCell(r.Right), suffix)
	}
}

// BuildRoundOutput renders a single round of the draw.
func BuildRoundOutput(e *Event, id RoundID) (string, error) {
	round, err := e.Round(id)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%v\n", id)
	appendRoundOutput(&sb, round)

	return sb.String(), nil
}

// BuildPlayOrderOutput renders the round ordering with each round's race
// number range.
func BuildPlayOrderOutput(e *Event) string {
	var sb strings.Builder

	sb.WriteString("Order  Round        Races\n")
	for i, id := range e.PlayOrder() {
		round, err := e.Round(id)
		if err != nil || len(round) == 0 {
			continue
		}
		races := fmt.Sprintf("R%d", round[0].Number)
		if len(round) > 1 {
			races = fmt.Sprintf("R%d-R%d", round[0].Number,
				round[len(round)-1].Number)
		}
		fmt.Fprintf(&sb, "%-5d  %-11v  %v\n", i+1, id, races)
	}

	return sb.String()
}

// BuildPodiumOutput renders the four podium places.
func BuildPodiumOutput(e *Event) string {
	var sb strings.Builder

	for _, p := range e.Podiums {
		fmt.Fprintf(&sb, "%-9v  %v\n", p.Name(), branchCell(p.Branch))
	}

	return sb.String()
}

// BuildOptionsOutput renders the selectable winners of a race along with the
// current editability of each branch.
func BuildOptionsOutput(r *Race) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%v\n", r)
	for _, b := range []*Branch{r.Left, r.Right} {
		editable := "locked"
		if b.IsEditable(false) {
			editable = "editable"
		}
		fmt.Fprintf(&sb, "  seed %2d  %-12v  %-8v  fill %v\n", b.Seed,
			branchCell(b), editable, b.FillProbability())
	}
	for _, car := range r.Options() {
		fmt.Fprintf(&sb, "  winner option: %v\n", car)
	}

	return sb.String()
}
