package gotoresolve

import (
	"fmt"
	"sort"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
)

// Outcome classifies what a Resolve call decided.
type Outcome int

const (
	// OutcomeJump means PC should become Resolution.PC.
	OutcomeJump Outcome = iota
	// OutcomeAdvance means PC should simply move forward one instruction
	// (the GOTOC-unresolved case, which is not an error).
	OutcomeAdvance
	// OutcomeFault means the executor should transition to Fault with
	// Resolution.FaultMessage.
	OutcomeFault
)

// Resolution is the result of resolving one Goto/BranchIf target.
type Resolution struct {
	Outcome      Outcome
	PC           int
	FaultMessage string
}

// Resolve applies the directional target-selection rule of spec.md §4.5 for
// a jump originating at pc.
func (idx *Index) Resolve(pc int, t ail.Target) Resolution {
	candidates := idx.candidatesFor(t)

	var target int
	var found bool

	switch t.Opcode {
	case ast.OpGotoF:
		target, found = leastGreaterThan(candidates, pc)
	case ast.OpGotoB:
		target, found = greatestLessThan(candidates, pc)
	default: // GOTO, GOTOC: prefer forward, else backward
		target, found = leastGreaterThan(candidates, pc)
		if !found {
			target, found = greatestLessThan(candidates, pc)
		}
	}

	if found {
		return Resolution{Outcome: OutcomeJump, PC: target}
	}

	if t.Opcode == ast.OpGotoC {
		return Resolution{Outcome: OutcomeAdvance}
	}

	return Resolution{
		Outcome:      OutcomeFault,
		FaultMessage: fmt.Sprintf("unresolved goto target: %s", t.Target),
	}
}

func leastGreaterThan(candidates []int, pc int) (int, bool) {
	i := sort.SearchInts(candidates, pc+1)
	if i < len(candidates) {
		return candidates[i], true
	}
	return 0, false
}

func greatestLessThan(candidates []int, pc int) (int, bool) {
	i := sort.SearchInts(candidates, pc)
	if i > 0 {
		return candidates[i-1], true
	}
	return 0, false
}
