package semrules

import "github.com/dekarrin/gcodec/internal/ast"

// motionExclusivityRule implements spec.md §4.2 rule 2: among G1/G2/G3 only,
// at most one distinct code may appear on a line; repeats of the same code
// are fine.
func motionExclusivityRule(line ast.Line) []ast.Diagnostic {
	var firstCode string
	for _, w := range line.Words() {
		if w.Head != "G" {
			continue
		}
		code, ok := motionFamilyCode(w.Value)
		if !ok {
			continue
		}
		if firstCode == "" {
			firstCode = code
		} else if code != firstCode {
			return []ast.Diagnostic{ast.NewError(w.Loc,
				"multiple motion commands in one line; choose only one of G1/G2/G3")}
		}
	}
	return nil
}

func motionFamilyCode(value string) (string, bool) {
	switch value {
	case "1", "2", "3":
		return value, true
	default:
		return "", false
	}
}

// coordinateModeMixRule implements spec.md §4.2 rule 3: a G1 line may not mix
// cartesian (X/Y/Z/A) and polar (AP/RP) words.
func coordinateModeMixRule(line ast.Line) []ast.Diagnostic {
	hasG1 := false
	for _, w := range line.Words() {
		if w.Head == "G" && motionFamilyEquals(w.Value, "1") {
			hasG1 = true
			break
		}
	}
	if !hasG1 {
		return nil
	}

	var hasCartesian bool
	var polarWord *ast.Word
	words := line.Words()
	for i := range words {
		w := words[i]
		switch w.Head {
		case "X", "Y", "Z", "A":
			hasCartesian = true
		case "AP", "RP":
			if polarWord == nil {
				polarWord = &words[i]
			}
		}
	}

	if hasCartesian && polarWord != nil {
		return []ast.Diagnostic{ast.NewError(polarWord.Loc,
			"mixed cartesian (X/Y/Z/A) and polar (AP/RP) words in G1 line; choose one coordinate mode")}
	}
	return nil
}

func motionFamilyEquals(value, code string) bool {
	v, ok := motionFamilyCode(value)
	return ok && v == code
}
