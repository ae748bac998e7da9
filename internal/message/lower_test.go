package message

import (
	"testing"

	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/stretchr/testify/assert"
)

func wordLine(lineIndex int, raws ...string) ast.Line {
	var items []ast.Item
	for i, r := range raws {
		items = append(items, ast.NewWord(r, ast.Location{Line: lineIndex, Column: i + 1}))
	}
	return ast.Line{LineIndex: lineIndex, Items: items}
}

func Test_Lower_Linear(t *testing.T) {
	prog := ast.Program{Lines: []ast.Line{
		wordLine(1, "G1", "X10", "Y20", "F100"),
	}}

	res := Lower(prog, nil, Options{Filename: "a.gcode"})

	assert := assert.New(t)
	assert.Empty(res.Rejected)
	assert.Empty(res.Diagnostics)
	if assert.Len(res.Messages, 1) {
		m := res.Messages[0].AsLinear()
		assert.Equal(TypeLinear, res.Messages[0].Type())
		assert.Equal(10.0, *m.Pose.X)
		assert.Equal(20.0, *m.Pose.Y)
		assert.Equal(100.0, *m.Feed)
		assert.Equal("G1", m.Mod.Code)
		assert.Equal(ast.Motion, m.Mod.Group)
	}
}

func Test_Lower_Arc_ClockwiseAndUnsupportedWarning(t *testing.T) {
	prog := ast.Program{Lines: []ast.Line{
		wordLine(1, "G2", "X5", "I1", "J2", "AR30"),
	}}

	res := Lower(prog, nil, Options{Filename: "a.gcode"})

	assert := assert.New(t)
	if assert.Len(res.Messages, 1) {
		m := res.Messages[0].AsArc()
		assert.True(m.Clockwise)
		assert.Equal(1.0, *m.Arc.I)
		assert.Equal(2.0, *m.Arc.J)
	}
	if assert.Len(res.Diagnostics, 1) {
		assert.Equal(ast.Warning, res.Diagnostics[0].Severity)
		assert.Contains(res.Diagnostics[0].Message, "AR")
	}
}

func Test_Lower_Dwell_FirstOfFOrSWins(t *testing.T) {
	prog := ast.Program{Lines: []ast.Line{
		wordLine(1, "G4", "F2.5", "S500"),
	}}

	res := Lower(prog, nil, Options{})

	assert := assert.New(t)
	if assert.Len(res.Messages, 1) {
		m := res.Messages[0].AsDwell()
		assert.Equal(Seconds, m.DwellMode)
		assert.Equal(2.5, m.DwellValue)
	}
}

func Test_Lower_AmbiguousMotionCode_SkipsSilently(t *testing.T) {
	prog := ast.Program{Lines: []ast.Line{
		wordLine(1, "G1", "G2", "X5"),
	}}

	res := Lower(prog, nil, Options{})

	assert := assert.New(t)
	assert.Empty(res.Messages)
	assert.Empty(res.Diagnostics)
	assert.Empty(res.Rejected)
}

func Test_Lower_FailFast_RejectsAtFirstError(t *testing.T) {
	prog := ast.Program{Lines: []ast.Line{
		wordLine(1, "G1", "X5"),
		wordLine(2, "G1", "Y5"),
	}}
	priorDiags := []ast.Diagnostic{
		ast.NewError(ast.Location{Line: 2, Column: 1}, "bad line"),
	}

	res := Lower(prog, priorDiags, Options{Filename: "a.gcode"})

	assert := assert.New(t)
	if assert.Len(res.Messages, 1) {
		assert.Equal(1, res.Messages[0].Source().Line)
	}
	if assert.Len(res.Rejected, 1) {
		assert.Equal(2, res.Rejected[0].Source.Line)
		assert.Len(res.Rejected[0].Reasons, 1)
	}
}

func Test_Equal_SameValueDifferentPointers(t *testing.T) {
	n1, n2 := 5, 5
	a := LinearMessage{
		Src:  ast.SourceInfo{Filename: "f", Line: 1, LineNumber: &n1},
		Mod:  ast.ModalState{Group: ast.Motion, Code: "G1", UpdatesState: true},
		Pose: Pose{X: floatPtr(1)},
	}
	b := LinearMessage{
		Src:  ast.SourceInfo{Filename: "f", Line: 1, LineNumber: &n2},
		Mod:  ast.ModalState{Group: ast.Motion, Code: "G1", UpdatesState: true},
		Pose: Pose{X: floatPtr(1)},
	}

	assert.True(t, Equal(a, b))
}

func Test_Equal_DifferingPoseNotEqual(t *testing.T) {
	a := LinearMessage{Pose: Pose{X: floatPtr(1)}}
	b := LinearMessage{Pose: Pose{X: floatPtr(2)}}

	assert.False(t, Equal(a, b))
}
