package gotoresolve

import (
	"testing"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/stretchr/testify/assert"
)

func labelInstr(name string) ail.Instruction {
	return ail.Label{Name: name}
}

func Test_Build_And_Resolve_Label(t *testing.T) {
	instructions := []ail.Instruction{
		labelInstr("START"),
		ail.Goto{},
		labelInstr("LOOP"),
		ail.Goto{},
		labelInstr("LOOP"),
	}

	idx := Build(instructions)

	assert := assert.New(t)

	res := idx.Resolve(1, ail.Target{Opcode: ast.OpGotoF, Target: "LOOP", TargetKind: ast.TargetLabel})
	assert.Equal(OutcomeJump, res.Outcome)
	assert.Equal(2, res.PC)

	res = idx.Resolve(3, ail.Target{Opcode: ast.OpGotoB, Target: "LOOP", TargetKind: ast.TargetLabel})
	assert.Equal(OutcomeJump, res.Outcome)
	assert.Equal(2, res.PC)

	res = idx.Resolve(4, ail.Target{Opcode: ast.OpGotoF, Target: "LOOP", TargetKind: ast.TargetLabel})
	assert.Equal(OutcomeFault, res.Outcome)
	assert.Contains(res.FaultMessage, "LOOP")
}

func Test_Resolve_GotoC_UnresolvedAdvancesSilently(t *testing.T) {
	idx := Build(nil)
	res := idx.Resolve(0, ail.Target{Opcode: ast.OpGotoC, Target: "NOPE", TargetKind: ast.TargetLabel})
	assert.Equal(t, OutcomeAdvance, res.Outcome)
}

func Test_Resolve_SystemVariableTarget_NeverResolves(t *testing.T) {
	idx := Build([]ail.Instruction{labelInstr("X")})
	res := idx.Resolve(0, ail.Target{Opcode: ast.OpGoto, Target: "$SOMEVAR", TargetKind: ast.TargetSystemVariable})
	assert.Equal(t, OutcomeFault, res.Outcome)
}
