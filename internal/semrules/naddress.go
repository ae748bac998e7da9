package semrules

import (
	"strconv"

	"github.com/dekarrin/gcodec/internal/ast"
)

// nAddressMisuseRule implements spec.md §4.2 rule 4. A well-formed N-address
// at block start is consumed by the parser into Line.LineNumber and never
// reaches here as an Item; any Word with head "N" surviving in Items is, by
// construction, outside the block-start position.
func nAddressMisuseRule(line ast.Line) []ast.Diagnostic {
	var diags []ast.Diagnostic
	for _, w := range line.Words() {
		if w.Head != "N" {
			continue
		}
		if n, err := strconv.Atoi(w.Value); err != nil || n < 0 {
			diags = append(diags, ast.NewError(w.Loc, "invalid N-address; use unsigned integer form like N100"))
		} else {
			diags = append(diags, ast.NewError(w.Loc, "N-address must be at block start (before statement)"))
		}
	}
	return diags
}

// duplicateLineNumberWarnings implements the cross-line pre-pass: duplicate
// N-address values emit a Warning only if some jump in the program targets a
// line-number kind.
func duplicateLineNumberWarnings(prog ast.Program) []ast.Diagnostic {
	if !anyLineNumberJump(prog) {
		return nil
	}

	seen := map[int]bool{}
	var diags []ast.Diagnostic
	for _, line := range prog.Lines {
		if line.LineNumber == nil {
			continue
		}
		v := line.LineNumber.Value
		if seen[v] {
			diags = append(diags, ast.NewWarning(line.LineNumber.Loc,
				"duplicate N-address N%d; jumps by line number may be ambiguous", v))
		}
		seen[v] = true
	}
	return diags
}

func anyLineNumberJump(prog ast.Program) bool {
	for _, line := range prog.Lines {
		if !line.HasStatement {
			continue
		}
		switch line.Statement.Kind {
		case ast.StmtGoto:
			if line.Statement.Goto.TargetKind == ast.TargetLineNumber {
				return true
			}
		case ast.StmtIfGoto:
			g := line.Statement.IfGoto
			if g.Then.TargetKind == ast.TargetLineNumber {
				return true
			}
			if g.Else != nil && g.Else.TargetKind == ast.TargetLineNumber {
				return true
			}
		}
	}
	return false
}
