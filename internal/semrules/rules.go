// Package semrules implements stage 2 of the pipeline: an ordered, pluggable
// list of line-level rule objects, per spec.md §4.2. Each rule consumes a
// Line and returns the diagnostics it finds; the first rule that returns any
// diagnostics for a given line short-circuits the rest of the list for that
// line, matching the source's layered-rule design
// (tunascript/syntax/hooks.go's HooksTable is the idiom this mirrors: an
// ordered table of small single-purpose functions).
package semrules

import "github.com/dekarrin/gcodec/internal/ast"

// Rule is one pluggable semantic check.
type Rule interface {
	Apply(line ast.Line) []ast.Diagnostic
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc func(line ast.Line) []ast.Diagnostic

func (f RuleFunc) Apply(line ast.Line) []ast.Diagnostic { return f(line) }

// DefaultRules is the fixed-order rule list applied per line by Analyze.
var DefaultRules = []Rule{
	RuleFunc(dwellBlockRule),
	RuleFunc(motionExclusivityRule),
	RuleFunc(coordinateModeMixRule),
	RuleFunc(nAddressMisuseRule),
}

// AnalyzeLine applies rules to line in order, stopping at the first rule
// that produces any diagnostics.
func AnalyzeLine(line ast.Line, rules []Rule) []ast.Diagnostic {
	for _, r := range rules {
		diags := r.Apply(line)
		if len(diags) > 0 {
			return diags
		}
	}
	return nil
}

// Analyze runs the full per-line rule set over every line of prog, then the
// cross-line duplicate-N-address pass, and returns all diagnostics found, in
// discovery (source line) order.
func Analyze(prog ast.Program) []ast.Diagnostic {
	var diags []ast.Diagnostic
	for _, line := range prog.Lines {
		diags = append(diags, AnalyzeLine(line, DefaultRules)...)
	}
	diags = append(diags, duplicateLineNumberWarnings(prog)...)
	return diags
}
