package lexer

import (
	"strings"
	"unicode"

	"github.com/dekarrin/gcodec/internal/ast"
)

// Scan splits text into LF-normalized lines and tokenizes each one
// independently (this dialect has no line continuations). It never returns a
// fatal error: unrecognized characters are reported as Error diagnostics with
// a remediation hint, matching the "parser never throws" contract.
func Scan(text string) (lines [][]Token, diags []ast.Diagnostic) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	rawLines := strings.Split(text, "\n")

	for i, raw := range rawLines {
		lineNum := i + 1
		toks, lineDiags := scanLine(raw, lineNum)
		lines = append(lines, toks)
		diags = append(diags, lineDiags...)
	}
	return lines, diags
}

// ScanFragment tokenizes an arbitrary sub-expression fragment (e.g. the
// value half of a HEAD=VALUE word, or a goto-target string) that was itself
// extracted from line lineNum starting at colOffset. It shares the full
// character-class scanner so fragments and whole lines are tokenized
// identically.
func ScanFragment(s string, lineNum int, colOffset int) ([]Token, []ast.Diagnostic) {
	toks, diags := scanLine(s, lineNum)
	for i := range toks {
		toks[i].Column += colOffset - 1
	}
	for i := range diags {
		diags[i].Loc.Column += colOffset - 1
	}
	return toks, diags
}

func scanLine(raw string, lineNum int) ([]Token, []ast.Diagnostic) {
	var toks []Token
	var diags []ast.Diagnostic

	r := []rune(raw)
	i := 0
	col := func(idx int) int { return idx + 1 }

	for i < len(r) {
		c := r[i]

		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '/':
			// only a leading "/" is the block-delete slash; anywhere else it
			// is the division operator.
			class := ClassOperator
			if len(toks) == 0 {
				class = ClassSlash
			}
			toks = append(toks, Token{Class: class, Lexeme: "/", Line: lineNum, Column: col(i)})
			i++

		case c == ':':
			toks = append(toks, Token{Class: ClassColon, Lexeme: ":", Line: lineNum, Column: col(i)})
			i++

		case c == '(':
			start := i
			startCol := col(i)
			depth := 1
			i++
			for i < len(r) && depth > 0 {
				if r[i] == '(' {
					depth++
				} else if r[i] == ')' {
					depth--
				}
				i++
			}
			text := string(r[start+1 : minInt(i-1, len(r))])
			if depth > 0 {
				// unterminated comment: take rest of line, report a syntax
				// error with the standard remediation hint.
				text = string(r[start+1:])
				diags = append(diags, ast.NewError(ast.Location{Line: lineNum, Column: startCol},
					"unrecognized token; check for unsupported characters or malformed comments"))
			}
			toks = append(toks, Token{Class: ClassComment, Lexeme: text, Line: lineNum, Column: startCol})

		case c == ';':
			text := string(r[i+1:])
			toks = append(toks, Token{Class: ClassComment, Lexeme: text, Line: lineNum, Column: col(i)})
			i = len(r)

		case c == '$':
			start := i
			i++
			for i < len(r) && isIdentRune(r[i]) {
				i++
			}
			toks = append(toks, Token{Class: ClassSystemVar, Lexeme: string(r[start:i]), Line: lineNum, Column: col(start)})

		case c == '=':
			if i+1 < len(r) && r[i+1] == '=' {
				toks = append(toks, Token{Class: ClassOperator, Lexeme: "==", Line: lineNum, Column: col(i)})
				i += 2
			} else {
				toks = append(toks, Token{Class: ClassEquals, Lexeme: "=", Line: lineNum, Column: col(i)})
				i++
			}

		case c == '!':
			if i+1 < len(r) && r[i+1] == '=' {
				toks = append(toks, Token{Class: ClassOperator, Lexeme: "!=", Line: lineNum, Column: col(i)})
				i += 2
			} else {
				toks = append(toks, Token{Class: ClassOperator, Lexeme: "!", Line: lineNum, Column: col(i)})
				i++
			}

		case c == '<':
			if i+1 < len(r) && r[i+1] == '=' {
				toks = append(toks, Token{Class: ClassOperator, Lexeme: "<=", Line: lineNum, Column: col(i)})
				i += 2
			} else {
				toks = append(toks, Token{Class: ClassOperator, Lexeme: "<", Line: lineNum, Column: col(i)})
				i++
			}

		case c == '>':
			if i+1 < len(r) && r[i+1] == '=' {
				toks = append(toks, Token{Class: ClassOperator, Lexeme: ">=", Line: lineNum, Column: col(i)})
				i += 2
			} else {
				toks = append(toks, Token{Class: ClassOperator, Lexeme: ">", Line: lineNum, Column: col(i)})
				i++
			}

		case c == '+' || c == '-' || c == '*':
			toks = append(toks, Token{Class: ClassOperator, Lexeme: string(c), Line: lineNum, Column: col(i)})
			i++

		case unicode.IsDigit(c) || c == '.':
			start := i
			i++
			for i < len(r) && (unicode.IsDigit(r[i]) || r[i] == '.') {
				i++
			}
			toks = append(toks, Token{Class: ClassNumber, Lexeme: string(r[start:i]), Line: lineNum, Column: col(start)})

		case unicode.IsLetter(c):
			start := i
			i++
			seenEquals := false
			for i < len(r) {
				if r[i] == '=' {
					// a second "=" (or the start of "==") ends the word;
					// conditions use "==" as a distinct operator token.
					if seenEquals || (i+1 < len(r) && r[i+1] == '=') {
						break
					}
					seenEquals = true
					i++
					continue
				}
				if !isWordContinuation(r[i]) {
					break
				}
				i++
			}
			lexeme := string(r[start:i])
			upper := strings.ToUpper(lexeme)
			switch {
			case Keywords[upper]:
				toks = append(toks, Token{Class: ClassKeyword, Lexeme: upper, Line: lineNum, Column: col(start)})
			case isLineNumberWord(lexeme):
				toks = append(toks, Token{Class: ClassLineNumber, Lexeme: lexeme, Line: lineNum, Column: col(start)})
			default:
				toks = append(toks, Token{Class: ClassWord, Lexeme: lexeme, Line: lineNum, Column: col(start)})
			}

		default:
			diags = append(diags, ast.NewError(ast.Location{Line: lineNum, Column: col(i)},
				"unrecognized token; check for unsupported characters or malformed comments"))
			i++
		}
	}

	return toks, diags
}

// isWordContinuation reports whether r may continue a WORD/LINE_NUMBER
// lexeme after its initial letter: letters, digits, '.', '+', '-', or '=' are
// all part of the same raw lexeme per the HEAD[=?VALUE?] grammar; ast.NewWord
// performs the head/value split afterward.
func isWordContinuation(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '+' || r == '-' || r == '='
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// isLineNumberWord reports whether lexeme has the shape N<digits>, the
// LINE_NUMBER grammar production.
func isLineNumberWord(lexeme string) bool {
	if len(lexeme) < 2 {
		return false
	}
	if lexeme[0] != 'N' && lexeme[0] != 'n' {
		return false
	}
	for _, c := range lexeme[1:] {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
