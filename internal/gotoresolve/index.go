// Package gotoresolve builds the two position indexes the executor needs to
// resolve Goto/BranchIf targets and implements the directional resolution
// rule of spec.md §4.5.
package gotoresolve

import (
	"strconv"
	"strings"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
)

// Index holds the label-name and line-number position maps built once from
// an instruction list at executor construction time.
type Index struct {
	labelPositions      map[string][]int
	lineNumberPositions map[int][]int
}

// Build scans instructions once and returns the two indexes. Multiple
// definitions of the same label, or repeated N-addresses, each contribute
// every matching instruction index, in ascending order.
func Build(instructions []ail.Instruction) *Index {
	idx := &Index{
		labelPositions:      map[string][]int{},
		lineNumberPositions: map[int][]int{},
	}

	for i, instr := range instructions {
		if instr.Kind() == ail.KindLabel {
			name := instr.AsLabel().Name
			idx.labelPositions[name] = append(idx.labelPositions[name], i)
		}
		if ln := instr.Source().LineNumber; ln != nil {
			idx.lineNumberPositions[*ln] = append(idx.lineNumberPositions[*ln], i)
		}
	}

	return idx
}

func (idx *Index) candidatesFor(t ail.Target) []int {
	switch t.TargetKind {
	case ast.TargetLabel:
		return idx.labelPositions[t.Target]
	case ast.TargetLineNumber:
		return idx.lineNumberPositions[parseNAddress(t.Target)]
	case ast.TargetNumber:
		if v, err := strconv.Atoi(t.Target); err == nil {
			return idx.lineNumberPositions[v]
		}
		return nil
	default:
		return nil
	}
}

func parseNAddress(target string) int {
	trimmed := strings.TrimPrefix(strings.ToUpper(target), "N")
	v, _ := strconv.Atoi(trimmed)
	return v
}
