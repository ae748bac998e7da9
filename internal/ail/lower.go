package ail

import (
	"fmt"

	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/message"
)

// Result is the output of Lower.
type Result struct {
	Instructions []Instruction
	Diagnostics  []ast.Diagnostic
	Rejected     []message.RejectedLine
}

type ifContext struct {
	n           int
	branchIdx   int
	thenLabel   string
	elseLabel   string
	endLabel    string
	hasElse     bool
	keywordLoc  ast.Location
}

// Lower converts a Program plus its prior diagnostics into an ordered AIL
// instruction list, desugaring structured IF/ELSE/ENDIF blocks, per
// spec.md §4.4. It first runs message lowering internally to obtain the
// typed motion messages keyed by line.
func Lower(prog ast.Program, priorDiags []ast.Diagnostic, opts message.Options) Result {
	msgResult := message.Lower(prog, priorDiags, opts)
	return LowerFromMessages(prog, msgResult, opts)
}

// LowerFromMessages performs the same AIL desugar as Lower, but against an
// already-computed message.Result — useful for callers (e.g.
// internal/pipeline) that need to time or reuse the message-lowering stage
// separately instead of re-running it.
func LowerFromMessages(prog ast.Program, msgResult message.Result, opts message.Options) Result {
	msgByLine := make(map[int]message.Message, len(msgResult.Messages))
	for _, m := range msgResult.Messages {
		msgByLine[m.Source().Line] = m
	}

	var res Result
	res.Diagnostics = append(res.Diagnostics, msgResult.Diagnostics...)
	res.Rejected = msgResult.Rejected

	haltAt := -1
	if len(msgResult.Rejected) > 0 {
		haltAt = msgResult.Rejected[0].Source.Line
	}

	var instructions []Instruction
	var stack []ifContext
	counter := 0

	for _, line := range prog.Lines {
		if haltAt >= 0 && line.LineIndex == haltAt {
			break
		}

		src := sourceFor(line, opts)

		if m, ok := msgByLine[line.LineIndex]; ok {
			instructions = append(instructions, motionInstruction(src, m))
		}

		if !line.HasStatement {
			continue
		}

		stmt := line.Statement
		switch stmt.Kind {
		case ast.StmtAssignment:
			instructions = append(instructions, Assign{
				base:     base{Src: src},
				LHS:      stmt.Assignment.LHS,
				IsSystem: stmt.Assignment.IsSystem,
				RHS:      stmt.Assignment.RHS,
			})

		case ast.StmtLabel:
			instructions = append(instructions, Label{
				base: base{Src: src},
				Name: stmt.Label.Name,
			})

		case ast.StmtGoto:
			instructions = append(instructions, Goto{
				base: base{Src: src},
				To:   targetFrom(stmt.Goto),
			})

		case ast.StmtIfGoto:
			bi := BranchIf{
				base:      base{Src: src},
				Condition: stmt.IfGoto.Condition,
				Then:      targetFrom(stmt.IfGoto.Then),
			}
			if stmt.IfGoto.Else != nil {
				t := targetFrom(*stmt.IfGoto.Else)
				bi.Else = &t
			}
			instructions = append(instructions, bi)

		case ast.StmtIfStart:
			counter++
			n := counter
			ctx := ifContext{
				n:          n,
				thenLabel:  fmt.Sprintf("__CF_IF_THEN_%d", n),
				elseLabel:  fmt.Sprintf("__CF_IF_ELSE_%d", n),
				endLabel:   fmt.Sprintf("__CF_IF_END_%d", n),
				keywordLoc: ast.Location{Line: line.LineIndex, Column: 1},
			}
			ctx.branchIdx = len(instructions)
			instructions = append(instructions, BranchIf{
				base:      base{Src: src},
				Condition: stmt.IfStart.Condition,
				Then:      Target{Opcode: ast.OpGoto, Target: ctx.thenLabel, TargetKind: ast.TargetLabel},
				Else:      &Target{Opcode: ast.OpGoto, Target: ctx.endLabel, TargetKind: ast.TargetLabel},
			})
			instructions = append(instructions, Label{base: base{Src: src}, Name: ctx.thenLabel})
			stack = append(stack, ctx)

		case ast.StmtElse:
			if len(stack) == 0 {
				res.Diagnostics = append(res.Diagnostics, ast.NewError(
					ast.Location{Line: line.LineIndex, Column: 1}, "ELSE without matching IF"))
				continue
			}
			top := &stack[len(stack)-1]
			if top.hasElse {
				res.Diagnostics = append(res.Diagnostics, ast.NewError(
					ast.Location{Line: line.LineIndex, Column: 1}, "duplicate ELSE for IF block"))
				continue
			}
			top.hasElse = true
			branch := instructions[top.branchIdx].AsBranchIf()
			branch.Else = &Target{Opcode: ast.OpGoto, Target: top.elseLabel, TargetKind: ast.TargetLabel}
			instructions[top.branchIdx] = branch

			instructions = append(instructions, Goto{
				base: base{Src: src},
				To:   Target{Opcode: ast.OpGoto, Target: top.endLabel, TargetKind: ast.TargetLabel},
			})
			instructions = append(instructions, Label{base: base{Src: src}, Name: top.elseLabel})

		case ast.StmtEndIf:
			if len(stack) == 0 {
				res.Diagnostics = append(res.Diagnostics, ast.NewError(
					ast.Location{Line: line.LineIndex, Column: 1}, "ENDIF without matching IF"))
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			instructions = append(instructions, Label{base: base{Src: src}, Name: top.endLabel})

		case ast.StmtWhile, ast.StmtEndWhile, ast.StmtFor, ast.StmtEndFor,
			ast.StmtRepeat, ast.StmtUntil, ast.StmtLoop, ast.StmtEndLoop:
			// Parse-only structured loop keywords; not lowered in this core.
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		res.Diagnostics = append(res.Diagnostics, ast.NewError(stack[i].keywordLoc, "missing ENDIF for IF block"))
	}

	res.Instructions = instructions
	return res
}

func sourceFor(line ast.Line, opts message.Options) ast.SourceInfo {
	src := ast.SourceInfo{Filename: opts.Filename, Line: line.LineIndex}
	if line.LineNumber != nil {
		v := line.LineNumber.Value
		src.LineNumber = &v
	}
	return src
}

func targetFrom(g ast.GotoStmt) Target {
	return Target{Opcode: g.Opcode, Target: g.Target, TargetKind: g.TargetKind}
}

func motionInstruction(src ast.SourceInfo, m message.Message) Instruction {
	switch m.Type() {
	case message.TypeLinear:
		lm := m.AsLinear()
		return LinearMove{base: base{Src: src}, Modal: lm.Mod, Pose: lm.Pose, Feed: lm.Feed}
	case message.TypeArc:
		am := m.AsArc()
		return ArcMove{base: base{Src: src}, Modal: am.Mod, Clockwise: am.Clockwise, Pose: am.Pose, Arc: am.Arc, Feed: am.Feed}
	case message.TypeDwell:
		dm := m.AsDwell()
		return Dwell{base: base{Src: src}, Modal: dm.Mod, DwellMode: dm.DwellMode, DwellValue: dm.DwellValue}
	}
	panic("unreachable message type")
}
