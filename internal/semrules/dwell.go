package semrules

import (
	"strconv"

	"github.com/dekarrin/gcodec/internal/ast"
)

// dwellBlockRule implements spec.md §4.2 rule 1: a G4 dwell line may contain
// no other word except exactly one of F (seconds) or S (revolutions).
func dwellBlockRule(line ast.Line) []ast.Diagnostic {
	words := line.Words()

	var g4 *ast.Word
	for i := range words {
		w := words[i]
		if w.Head == "G" && isMotionCode(w.Value, 4) {
			g4 = &words[i]
			break
		}
	}
	if g4 == nil {
		return nil
	}

	var extra []ast.Word
	var fWord, sWord *ast.Word
	for i := range words {
		w := words[i]
		if w.Head == "G" && isMotionCode(w.Value, 4) {
			continue
		}
		switch w.Head {
		case "F":
			if fWord == nil {
				fWord = &words[i]
			}
		case "S":
			if sWord == nil {
				sWord = &words[i]
			}
		default:
			extra = append(extra, w)
		}
	}

	if len(extra) > 0 {
		return []ast.Diagnostic{ast.NewError(extra[0].Loc,
			"program G4 in a separate block; use only G4 with one of F (seconds) or S (revolutions)")}
	}

	if fWord == nil && sWord == nil {
		return []ast.Diagnostic{ast.NewError(g4.Loc, "G4 dwell requires F (seconds) or S (revolutions)")}
	}
	if fWord != nil && sWord != nil {
		second := fWord
		if sWord.Loc.Column > fWord.Loc.Column {
			second = sWord
		}
		return []ast.Diagnostic{ast.NewError(second.Loc,
			"G4 dwell must use either F (seconds) or S (revolutions), not both")}
	}

	chosen := fWord
	if chosen == nil {
		chosen = sWord
	}
	if _, err := strconv.ParseFloat(chosen.Value, 64); err != nil {
		return []ast.Diagnostic{ast.NewError(chosen.Loc, "G4 dwell value must be numeric")}
	}

	return nil
}

// isMotionCode reports whether raw is an integer equal to code, the way G
// words select a motion family (e.g. "4" for G4, "1" for G1).
func isMotionCode(raw string, code int) bool {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false
	}
	return n == code
}
