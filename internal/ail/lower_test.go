package ail

import (
	"testing"

	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/stretchr/testify/assert"
)

func wordLine(lineIndex int, raws ...string) ast.Line {
	var items []ast.Item
	for i, r := range raws {
		items = append(items, ast.NewWord(r, ast.Location{Line: lineIndex, Column: i + 1}))
	}
	return ast.Line{LineIndex: lineIndex, Items: items}
}

func stmtLine(lineIndex int, stmt ast.Statement) ast.Line {
	return ast.Line{LineIndex: lineIndex, HasStatement: true, Statement: stmt}
}

func Test_Lower_MotionAndGoto(t *testing.T) {
	prog := ast.Program{Lines: []ast.Line{
		wordLine(1, "G1", "X5"),
		stmtLine(2, ast.Statement{Kind: ast.StmtGoto, Goto: ast.GotoStmt{
			Opcode: ast.OpGotoF, Target: "LOOP1", TargetKind: ast.TargetLabel,
		}}),
	}}

	res := Lower(prog, nil, message.Options{Filename: "a.gcode"})

	assert := assert.New(t)
	if assert.Len(res.Instructions, 2) {
		assert.Equal(KindLinear, res.Instructions[0].Kind())
		assert.Equal(KindGoto, res.Instructions[1].Kind())
		assert.Equal(ast.OpGotoF, res.Instructions[1].AsGoto().To.Opcode)
	}
}

func Test_Lower_IfElseEndIf_Desugar(t *testing.T) {
	cond := ast.Condition{
		Terms: []ast.ConditionTerm{{RawText: "R1==1", Op: ast.CmpEqual}},
		Loc:   ast.Location{Line: 1, Column: 1},
	}

	prog := ast.Program{Lines: []ast.Line{
		stmtLine(1, ast.Statement{Kind: ast.StmtIfStart, IfStart: ast.IfStart{Condition: cond}}),
		wordLine(2, "G1", "X1"),
		stmtLine(3, ast.Statement{Kind: ast.StmtElse}),
		wordLine(4, "G1", "X2"),
		stmtLine(5, ast.Statement{Kind: ast.StmtEndIf}),
	}}

	res := Lower(prog, nil, message.Options{})

	assert := assert.New(t)
	assert.Empty(res.Diagnostics)

	var kinds []Kind
	for _, in := range res.Instructions {
		kinds = append(kinds, in.Kind())
	}
	// BranchIf, Label(then), Linear, Goto(end), Label(else), Linear, Label(end)
	assert.Equal([]Kind{
		KindBranchIf, KindLabel, KindLinear, KindGoto, KindLabel, KindLinear, KindLabel,
	}, kinds)

	bi := res.Instructions[0].AsBranchIf()
	if assert.NotNil(bi.Else) {
		assert.Equal("__CF_IF_ELSE_1", bi.Else.Target)
	}
	assert.Equal("__CF_IF_THEN_1", bi.Then.Target)

	lastLabel := res.Instructions[len(res.Instructions)-1].AsLabel()
	assert.Equal("__CF_IF_END_1", lastLabel.Name)
}

func Test_Lower_IfWithoutElse_DefaultsElseToEnd(t *testing.T) {
	cond := ast.Condition{Terms: []ast.ConditionTerm{{RawText: "R1==1"}}}

	prog := ast.Program{Lines: []ast.Line{
		stmtLine(1, ast.Statement{Kind: ast.StmtIfStart, IfStart: ast.IfStart{Condition: cond}}),
		wordLine(2, "G1", "X1"),
		stmtLine(3, ast.Statement{Kind: ast.StmtEndIf}),
	}}

	res := Lower(prog, nil, message.Options{})

	assert := assert.New(t)
	bi := res.Instructions[0].AsBranchIf()
	if assert.NotNil(bi.Else) {
		assert.Equal("__CF_IF_END_1", bi.Else.Target)
	}
}

func Test_Lower_ElseWithoutIf_Errors(t *testing.T) {
	prog := ast.Program{Lines: []ast.Line{
		stmtLine(1, ast.Statement{Kind: ast.StmtElse}),
	}}

	res := Lower(prog, nil, message.Options{})

	assert := assert.New(t)
	if assert.Len(res.Diagnostics, 1) {
		assert.Contains(res.Diagnostics[0].Message, "ELSE without matching IF")
	}
}

func Test_Lower_MissingEndIf_ErrorsAtEndOfProgram(t *testing.T) {
	cond := ast.Condition{Terms: []ast.ConditionTerm{{RawText: "R1==1"}}}
	prog := ast.Program{Lines: []ast.Line{
		stmtLine(1, ast.Statement{Kind: ast.StmtIfStart, IfStart: ast.IfStart{Condition: cond}}),
		wordLine(2, "G1", "X1"),
	}}

	res := Lower(prog, nil, message.Options{})

	assert := assert.New(t)
	if assert.Len(res.Diagnostics, 1) {
		assert.Contains(res.Diagnostics[0].Message, "missing ENDIF for IF block")
	}
}

func Test_Lower_HaltsAtRejectedLine(t *testing.T) {
	prog := ast.Program{Lines: []ast.Line{
		wordLine(1, "G1", "X1"),
		wordLine(2, "G1", "X2"),
	}}
	priorDiags := []ast.Diagnostic{
		ast.NewError(ast.Location{Line: 2, Column: 1}, "bad line"),
	}

	res := Lower(prog, priorDiags, message.Options{})

	assert := assert.New(t)
	assert.Len(res.Instructions, 1)
	assert.Len(res.Rejected, 1)
}
