// Package lexer is the external "grammar layer" collaborator: it turns raw
// UTF-8 source text into a stream of classified tokens that internal/gparse
// consumes to build the AST. No grammar-generator ships with this module, so
// the scanner is hand-written, but its token vocabulary is built on top of
// github.com/dekarrin/ictiobus/lex, the same token-class library
// tunascript/fe's generated frontend uses.
package lexer

import (
	ictlex "github.com/dekarrin/ictiobus/lex"
	icttypes "github.com/dekarrin/ictiobus/types"
)

// Token classes of interest, per spec.md §4.1. Declared once at package
// init, mirroring the immutable class tables ictiobus-generated frontends
// build.
var (
	ClassWord       icttypes.TokenClass = ictlex.NewTokenClass("word", "WORD")
	ClassLineNumber icttypes.TokenClass = ictlex.NewTokenClass("line_number", "LINE_NUMBER")
	ClassNumber     icttypes.TokenClass = ictlex.NewTokenClass("number", "NUMBER")
	ClassSystemVar  icttypes.TokenClass = ictlex.NewTokenClass("system_var", "SYSTEM_VAR")
	ClassComment    icttypes.TokenClass = ictlex.NewTokenClass("comment", "COMMENT")
	ClassKeyword    icttypes.TokenClass = ictlex.NewTokenClass("keyword", "KEYWORD")
	ClassOperator   icttypes.TokenClass = ictlex.NewTokenClass("operator", "OPERATOR")
	ClassEquals     icttypes.TokenClass = ictlex.NewTokenClass("equals", "EQUALS")
	ClassColon      icttypes.TokenClass = ictlex.NewTokenClass("colon", "COLON")
	ClassLParen     icttypes.TokenClass = ictlex.NewTokenClass("lparen", "LPAREN")
	ClassRParen     icttypes.TokenClass = ictlex.NewTokenClass("rparen", "RPAREN")
	ClassSlash      icttypes.TokenClass = ictlex.NewTokenClass("slash", "SLASH")
	ClassNewline    icttypes.TokenClass = ictlex.NewTokenClass("newline", "NEWLINE")
)

// Keywords is the set of reserved words recognized by the scanner,
// case-insensitively, and uppercased once recognized.
var Keywords = map[string]bool{
	"IF": true, "ELSE": true, "ENDIF": true,
	"WHILE": true, "ENDWHILE": true,
	"FOR": true, "ENDFOR": true,
	"REPEAT": true, "UNTIL": true,
	"LOOP": true, "ENDLOOP": true,
	"GOTO": true, "GOTOF": true, "GOTOB": true, "GOTOC": true,
	"AND": true,
}

// Token is one classified lexeme plus its 1-based line/column.
type Token struct {
	Class  icttypes.TokenClass
	Lexeme string
	Line   int
	Column int
}

func (t Token) Is(class icttypes.TokenClass) bool {
	return t.Class.Equal(class)
}
