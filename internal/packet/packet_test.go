package packet

import (
	"testing"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/stretchr/testify/assert"
)

func Test_Build_DensePacketIDsAndSkipWarnings(t *testing.T) {
	instructions := []ail.Instruction{
		ail.LinearMove{},
		ail.Label{Name: "L1"},
		ail.ArcMove{},
		ail.Assign{LHS: "R1"},
		ail.Dwell{},
	}

	res := Build(instructions)

	assert := assert.New(t)
	if assert.Len(res.Packets, 3) {
		assert.Equal(1, res.Packets[0].ID)
		assert.Equal(KindLinearMove, res.Packets[0].Kind)
		assert.Equal(2, res.Packets[1].ID)
		assert.Equal(KindArcMove, res.Packets[1].Kind)
		assert.Equal(3, res.Packets[2].ID)
		assert.Equal(KindDwell, res.Packets[2].Kind)
	}

	if assert.Len(res.Diagnostics, 2) {
		assert.Equal(ast.Warning, res.Diagnostics[0].Severity)
		assert.Contains(res.Diagnostics[0].Message, "LABEL")
		assert.Contains(res.Diagnostics[1].Message, "ASSIGN")
	}
}
