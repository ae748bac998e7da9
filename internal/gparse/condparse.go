package gparse

import (
	"strings"

	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/lexer"
)

var compareOps = map[string]ast.CompareOp{
	"==": ast.CmpEqual,
	"!=": ast.CmpNotEqual,
	"<":  ast.CmpLess,
	"<=": ast.CmpLessEqual,
	">":  ast.CmpGreater,
	">=": ast.CmpGreaterEqual,
}

// parseCondition parses one "expr op expr" and, if followed by AND terms,
// folds each additional term in, per spec.md §4.1 Condition building.
func parseCondition(c *cursor) (ast.Condition, []ast.Diagnostic) {
	var diags []ast.Diagnostic
	startTok, hasStart := c.peek()

	term, termDiags := parseConditionTerm(c)
	diags = append(diags, termDiags...)

	cond := ast.Condition{}
	if hasStart {
		cond.Loc = loc(startTok)
	}
	cond.Terms = append(cond.Terms, term)

	for {
		t, ok := c.peek()
		if !ok || t.Class != lexer.ClassKeyword || t.Lexeme != "AND" {
			break
		}
		c.next()
		nextTerm, nextDiags := parseConditionTerm(c)
		diags = append(diags, nextDiags...)
		cond.Terms = append(cond.Terms, nextTerm)
	}

	return cond, diags
}

func parseConditionTerm(c *cursor) (ast.ConditionTerm, []ast.Diagnostic) {
	var diags []ast.Diagnostic
	startPos := c.pos

	lhs, lhsDiags := parseExpr(c)
	diags = append(diags, lhsDiags...)

	opTok, ok := c.next()
	if !ok || opTok.Class != lexer.ClassOperator {
		diags = append(diags, ast.NewError(tokOrZeroLoc(opTok), "expected comparison operator; check token order for this line"))
		return ast.ConditionTerm{}, diags
	}
	op, ok := compareOps[opTok.Lexeme]
	if !ok {
		diags = append(diags, ast.NewError(loc(opTok), "unexpected operator %q in condition; check token order for this line", opTok.Lexeme))
	}

	rhs, rhsDiags := parseExpr(c)
	diags = append(diags, rhsDiags...)

	endPos := c.pos
	raw := rawTextOf(c.toks[startPos:endPos])

	return ast.ConditionTerm{RawText: raw, LHS: lhs, Op: op, RHS: rhs}, diags
}

func tokOrZeroLoc(t lexer.Token) ast.Location {
	return ast.Location{Line: t.Line, Column: t.Column}
}

func rawTextOf(toks []lexer.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Lexeme
	}
	return strings.Join(parts, " ")
}
