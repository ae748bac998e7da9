package gparse

import (
	"strconv"
	"strings"

	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/lexer"
)

// cursor is a simple lookahead-1 token reader shared by expression and
// condition parsing.
type cursor struct {
	toks []lexer.Token
	pos  int
}

func (c *cursor) peek() (lexer.Token, bool) {
	if c.pos >= len(c.toks) {
		return lexer.Token{}, false
	}
	return c.toks[c.pos], true
}

func (c *cursor) next() (lexer.Token, bool) {
	t, ok := c.peek()
	if ok {
		c.pos++
	}
	return t, ok
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.toks)
}

func loc(t lexer.Token) ast.Location {
	return ast.Location{Line: t.Line, Column: t.Column}
}

// parseExpr parses an additive-precedence expression: additive ->
// multiplicative -> unary -> primary, left-associative, per spec.md §4.1.
func parseExpr(c *cursor) (ast.Expr, []ast.Diagnostic) {
	return parseAdditive(c)
}

func parseAdditive(c *cursor) (ast.Expr, []ast.Diagnostic) {
	lhs, diags := parseMultiplicative(c)
	if lhs == nil {
		return nil, diags
	}
	for {
		t, ok := c.peek()
		if !ok || t.Class != lexer.ClassOperator || (t.Lexeme != "+" && t.Lexeme != "-") {
			break
		}
		c.next()
		rhs, rdiags := parseMultiplicative(c)
		diags = append(diags, rdiags...)
		if rhs == nil {
			return nil, diags
		}
		op := ast.BinaryAdd
		if t.Lexeme == "-" {
			op = ast.BinarySub
		}
		lhs = ast.NewBinary(op, lhs, rhs, loc(t))
	}
	return lhs, diags
}

func parseMultiplicative(c *cursor) (ast.Expr, []ast.Diagnostic) {
	lhs, diags := parseUnary(c)
	if lhs == nil {
		return nil, diags
	}
	for {
		t, ok := c.peek()
		if !ok || t.Class != lexer.ClassOperator || (t.Lexeme != "*" && t.Lexeme != "/") {
			break
		}
		c.next()
		rhs, rdiags := parseUnary(c)
		diags = append(diags, rdiags...)
		if rhs == nil {
			return nil, diags
		}
		op := ast.BinaryMul
		if t.Lexeme == "/" {
			op = ast.BinaryDiv
		}
		lhs = ast.NewBinary(op, lhs, rhs, loc(t))
	}
	return lhs, diags
}

func parseUnary(c *cursor) (ast.Expr, []ast.Diagnostic) {
	t, ok := c.peek()
	if ok && t.Class == lexer.ClassOperator && (t.Lexeme == "-" || t.Lexeme == "!") {
		c.next()
		child, diags := parseUnary(c)
		if child == nil {
			return nil, diags
		}
		op := ast.UnaryNegate
		if t.Lexeme == "!" {
			op = ast.UnaryNot
		}
		return ast.NewUnary(op, child, loc(t)), diags
	}
	return parsePrimary(c)
}

func parsePrimary(c *cursor) (ast.Expr, []ast.Diagnostic) {
	t, ok := c.next()
	if !ok {
		return nil, []ast.Diagnostic{ast.NewError(ast.Location{}, "expected expression; check token order for this line")}
	}

	switch t.Class {
	case lexer.ClassNumber:
		v, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, []ast.Diagnostic{ast.NewError(loc(t), "invalid numeric literal %q", t.Lexeme)}
		}
		return ast.NewLiteral(v, loc(t)), nil
	case lexer.ClassSystemVar:
		return ast.NewVariable(strings.TrimPrefix(t.Lexeme, "$"), true, loc(t)), nil
	case lexer.ClassWord, lexer.ClassLineNumber:
		return ast.NewVariable(t.Lexeme, false, loc(t)), nil
	}
	return nil, []ast.Diagnostic{ast.NewError(loc(t), "unexpected token %q; check token order for this line", t.Lexeme)}
}
