// Package packet implements packetization (spec.md §4.6): turning the AIL
// instruction list into a dense stream of motion packets, skipping and
// warning on non-motion instructions.
package packet

import (
	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
)

// Kind identifies which concrete kind of motion a Packet carries.
type Kind int

const (
	KindLinearMove Kind = iota
	KindArcMove
	KindDwell
)

func (k Kind) String() string {
	switch k {
	case KindLinearMove:
		return "LinearMove"
	case KindArcMove:
		return "ArcMove"
	case KindDwell:
		return "Dwell"
	default:
		return "Unknown"
	}
}

// Packet is one densely-numbered motion unit, wrapping the AIL instruction
// it came from.
type Packet struct {
	ID          int
	Kind        Kind
	Source      ast.SourceInfo
	Instruction ail.Instruction
}

// Result is the output of Build.
type Result struct {
	Packets     []Packet
	Diagnostics []ast.Diagnostic
}

// Build walks instructions in order, emitting one densely-IDed Packet per
// motion instruction and a Warning for every non-motion instruction it
// skips.
func Build(instructions []ail.Instruction) Result {
	var res Result
	nextID := 1

	for _, instr := range instructions {
		switch instr.Kind() {
		case ail.KindLinear:
			res.Packets = append(res.Packets, Packet{ID: nextID, Kind: KindLinearMove, Source: instr.Source(), Instruction: instr})
			nextID++
		case ail.KindArc:
			res.Packets = append(res.Packets, Packet{ID: nextID, Kind: KindArcMove, Source: instr.Source(), Instruction: instr})
			nextID++
		case ail.KindDwell:
			res.Packets = append(res.Packets, Packet{ID: nextID, Kind: KindDwell, Source: instr.Source(), Instruction: instr})
			nextID++
		default:
			loc := ast.Location{Line: instr.Source().Line, Column: 1}
			res.Diagnostics = append(res.Diagnostics, ast.NewWarning(loc,
				"packetization skipped non-motion instruction: %s", instr.Kind()))
		}
	}

	return res
}
