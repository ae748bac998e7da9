// Package gparse implements stage 1 of the pipeline: it consumes the token
// stream internal/lexer produces and builds the concrete syntax tree defined
// in internal/ast, per spec.md §4.1. The parser never throws; every problem
// it finds becomes an ast.Diagnostic.
package gparse

import (
	"strconv"
	"strings"

	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/lexer"
)

// recognizedCommandHeads are Word heads with domain meaning in a motion or
// dwell line. A HEAD=VALUE word whose head is NOT in this set is instead
// recognized as a whole-line assignment statement.
var recognizedCommandHeads = map[string]bool{
	"G": true, "N": true,
	"X": true, "Y": true, "Z": true, "A": true, "B": true, "C": true,
	"F": true, "S": true,
	"I": true, "J": true, "K": true, "R": true, "CR": true,
	"AP": true, "RP": true, "AR": true, "CIP": true, "CT": true,
	"I1": true, "J1": true, "K1": true,
}

var gotoOpcodes = map[string]ast.GotoOpcode{
	"GOTO":  ast.OpGoto,
	"GOTOF": ast.OpGotoF,
	"GOTOB": ast.OpGotoB,
	"GOTOC": ast.OpGotoC,
}

// Parse converts raw UTF-8 source text into a Program and its syntax
// diagnostics.
func Parse(text string) (ast.Program, []ast.Diagnostic) {
	lineToks, diags := lexer.Scan(text)

	var prog ast.Program
	for i, toks := range lineToks {
		line, lineDiags := parseLine(toks, i+1)
		prog.Lines = append(prog.Lines, line)
		diags = append(diags, lineDiags...)
	}
	return prog, diags
}

func parseLine(toks []lexer.Token, lineNum int) (ast.Line, []ast.Diagnostic) {
	var diags []ast.Diagnostic
	line := ast.Line{LineIndex: lineNum}

	idx := 0
	if idx < len(toks) && toks[idx].Class == lexer.ClassSlash {
		line.BlockDelete = true
		line.BlockDeleteLoc = loc(toks[idx])
		idx++
	}

	if idx < len(toks) && toks[idx].Class == lexer.ClassLineNumber {
		val, err := strconv.Atoi(toks[idx].Lexeme[1:])
		if err == nil {
			line.LineNumber = &ast.LineNumber{Value: val, Loc: loc(toks[idx])}
			idx++
		}
	}

	remaining := toks[idx:]
	if len(remaining) == 0 {
		return line, diags
	}

	// Split out comments so statement-shape detection only looks at
	// meaningful tokens; comments are folded back in as Items regardless of
	// whether a statement was recognized.
	var nonComment []lexer.Token
	var comments []ast.Comment
	for _, t := range remaining {
		if t.Class == lexer.ClassComment {
			comments = append(comments, ast.Comment{Text: t.Lexeme, Loc: loc(t)})
		} else {
			nonComment = append(nonComment, t)
		}
	}

	if len(nonComment) > 0 {
		stmt, ok, stmtDiags := parseStatement(nonComment)
		diags = append(diags, stmtDiags...)
		if ok {
			line.HasStatement = true
			line.Statement = stmt
		} else {
			for _, t := range nonComment {
				line.Items = append(line.Items, ast.NewWord(t.Lexeme, loc(t)))
			}
		}
	}

	for _, cm := range comments {
		line.Items = append(line.Items, cm)
	}

	return line, diags
}

// parseStatement attempts to recognize one of the statement forms over a
// comment-free token slice. ok is false if toks is a plain word/value line.
func parseStatement(toks []lexer.Token) (ast.Statement, bool, []ast.Diagnostic) {
	first := toks[0]

	if first.Class == lexer.ClassKeyword {
		return parseKeywordStatement(toks)
	}

	if first.Class == lexer.ClassWord && len(toks) >= 2 && toks[1].Class == lexer.ClassColon {
		return ast.Statement{
			Kind:  ast.StmtLabel,
			Label: ast.LabelStmt{Name: strings.ToUpper(first.Lexeme)},
		}, true, nil
	}

	if first.Class == lexer.ClassSystemVar && len(toks) >= 2 && toks[1].Class == lexer.ClassEquals {
		rhs, diags := parseExpr(&cursor{toks: toks[2:]})
		if rhs == nil {
			return ast.Statement{}, false, diags
		}
		return ast.Statement{
			Kind: ast.StmtAssignment,
			Assignment: ast.AssignmentStmt{
				LHS:      strings.TrimPrefix(first.Lexeme, "$"),
				IsSystem: true,
				RHS:      rhs,
			},
		}, true, diags
	}

	if first.Class == lexer.ClassWord && len(toks) >= 2 && toks[1].Class == lexer.ClassEquals &&
		!recognizedCommandHeads[strings.ToUpper(first.Lexeme)] {
		rhs, diags := parseExpr(&cursor{toks: toks[2:]})
		if rhs == nil {
			return ast.Statement{}, false, diags
		}
		return ast.Statement{
			Kind: ast.StmtAssignment,
			Assignment: ast.AssignmentStmt{
				LHS: strings.ToUpper(first.Lexeme),
				RHS: rhs,
			},
		}, true, diags
	}

	if len(toks) == 1 && first.Class == lexer.ClassWord {
		w := ast.NewWord(first.Lexeme, loc(first))
		if w.HasEqual && !recognizedCommandHeads[w.Head] {
			fragToks, fragDiags := lexer.ScanFragment(w.Value, first.Line, first.Column+len(w.Head)+1)
			rhs, exprDiags := parseExpr(&cursor{toks: fragToks})
			diags := append(fragDiags, exprDiags...)
			if rhs == nil {
				return ast.Statement{}, false, diags
			}
			return ast.Statement{
				Kind: ast.StmtAssignment,
				Assignment: ast.AssignmentStmt{
					LHS: w.Head,
					RHS: rhs,
				},
			}, true, diags
		}
	}

	return ast.Statement{}, false, nil
}

func parseKeywordStatement(toks []lexer.Token) (ast.Statement, bool, []ast.Diagnostic) {
	kw := toks[0].Lexeme
	rest := toks[1:]

	switch kw {
	case "ELSE":
		return ast.Statement{Kind: ast.StmtElse}, true, nil
	case "ENDIF":
		return ast.Statement{Kind: ast.StmtEndIf}, true, nil
	case "ENDWHILE":
		return ast.Statement{Kind: ast.StmtEndWhile}, true, nil
	case "ENDFOR":
		return ast.Statement{Kind: ast.StmtEndFor}, true, nil
	case "LOOP":
		return ast.Statement{Kind: ast.StmtLoop}, true, nil
	case "ENDLOOP":
		return ast.Statement{Kind: ast.StmtEndLoop}, true, nil
	case "REPEAT":
		return ast.Statement{Kind: ast.StmtRepeat}, true, nil

	case "FOR":
		return ast.Statement{Kind: ast.StmtFor, Loop: ast.LoopStatement{RawHeader: rawTextOf(rest)}}, true, nil

	case "WHILE", "UNTIL":
		c := &cursor{toks: rest}
		cond, diags := parseCondition(c)
		kind := ast.StmtWhile
		if kw == "UNTIL" {
			kind = ast.StmtUntil
		}
		return ast.Statement{Kind: kind, Loop: ast.LoopStatement{Condition: &cond}}, true, diags

	case "IF":
		return parseIf(rest)

	case "GOTO", "GOTOF", "GOTOB", "GOTOC":
		g, diags := parseGoto(toks)
		return ast.Statement{Kind: ast.StmtGoto, Goto: g}, true, diags
	}

	return ast.Statement{}, false, nil
}

func parseIf(rest []lexer.Token) (ast.Statement, bool, []ast.Diagnostic) {
	splitAt := -1
	for i, t := range rest {
		if t.Class == lexer.ClassKeyword {
			if _, ok := gotoOpcodes[t.Lexeme]; ok {
				splitAt = i
				break
			}
		}
	}

	if splitAt < 0 {
		c := &cursor{toks: rest}
		cond, diags := parseCondition(c)
		return ast.Statement{Kind: ast.StmtIfStart, IfStart: ast.IfStart{Condition: cond}}, true, diags
	}

	c := &cursor{toks: rest[:splitAt]}
	cond, diags := parseCondition(c)

	thenToks := rest[splitAt:]
	elseAt := -1
	for i, t := range thenToks {
		if t.Class == lexer.ClassKeyword && t.Lexeme == "ELSE" {
			elseAt = i
			break
		}
	}

	var thenSeg, elseSeg []lexer.Token
	if elseAt >= 0 {
		thenSeg = thenToks[:elseAt]
		elseSeg = thenToks[elseAt+1:]
	} else {
		thenSeg = thenToks
	}

	thenGoto, thenDiags := parseGoto(thenSeg)
	diags = append(diags, thenDiags...)

	stmt := ast.IfGotoStmt{Condition: cond, Then: thenGoto}
	if elseSeg != nil {
		elseGoto, elseDiags := parseGoto(elseSeg)
		diags = append(diags, elseDiags...)
		stmt.Else = &elseGoto
	}

	return ast.Statement{Kind: ast.StmtIfGoto, IfGoto: stmt}, true, diags
}

// parseGoto parses "<OPCODE> <target>" from toks, toks[0] being the opcode
// keyword.
func parseGoto(toks []lexer.Token) (ast.GotoStmt, []ast.Diagnostic) {
	if len(toks) == 0 {
		return ast.GotoStmt{}, []ast.Diagnostic{ast.NewError(ast.Location{}, "expected goto opcode; check token order for this line")}
	}
	opTok := toks[0]
	opcode, ok := gotoOpcodes[opTok.Lexeme]
	if !ok {
		return ast.GotoStmt{}, []ast.Diagnostic{ast.NewError(loc(opTok), "unknown goto opcode %q; check token order for this line", opTok.Lexeme)}
	}

	if len(toks) < 2 {
		return ast.GotoStmt{}, []ast.Diagnostic{ast.NewError(loc(opTok), "missing goto target; check token order for this line")}
	}
	targetTok := toks[1]

	var kind ast.TargetKind
	target := targetTok.Lexeme
	switch targetTok.Class {
	case lexer.ClassWord:
		kind = ast.TargetLabel
		target = strings.ToUpper(target)
	case lexer.ClassLineNumber:
		kind = ast.TargetLineNumber
	case lexer.ClassNumber:
		kind = ast.TargetNumber
	case lexer.ClassSystemVar:
		kind = ast.TargetSystemVariable
	default:
		return ast.GotoStmt{}, []ast.Diagnostic{ast.NewError(loc(targetTok), "invalid goto target %q; check token order for this line", targetTok.Lexeme)}
	}

	return ast.GotoStmt{
		Opcode:     opcode,
		Target:     target,
		TargetKind: kind,
		Loc:        loc(opTok),
	}, nil
}
