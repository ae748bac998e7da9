package message

import (
	"strconv"

	"github.com/dekarrin/gcodec/internal/ast"
)

// Options configures message lowering.
type Options struct {
	Filename string
}

// RejectedLine records a line whose message lowering was abandoned because
// it carried a semantic error; Reasons is the full set of matching Error
// diagnostics.
type RejectedLine struct {
	Source  ast.SourceInfo
	Reasons []ast.Diagnostic
}

// Result is the output of Lower.
type Result struct {
	Messages    []Message
	Diagnostics []ast.Diagnostic
	Rejected    []RejectedLine
}

// familyLowerer lowers one line already known to carry motion code, filling
// a Message from the line's words and emitting any lowering warnings.
type familyLowerer func(line ast.Line, opts Options) (Message, []ast.Diagnostic)

// dispatchTable is the immutable motion_code -> lowerer mapping, built once.
// This mirrors the small hook-table idiom (tunascript/syntax/hooks.go's
// HooksTable) rather than a class hierarchy of lowerer types.
var dispatchTable = map[int]familyLowerer{
	1: lowerLinear,
	2: lowerArcFactory(true, "G2"),
	3: lowerArcFactory(false, "G3"),
	4: lowerDwell,
}

var unsupportedArcHeads = map[string]bool{
	"AR": true, "AP": true, "RP": true, "CIP": true, "CT": true,
	"I1": true, "J1": true, "K1": true,
}

// Lower performs the fail-fast lowering pass of spec.md §4.3 over the whole
// program and returns one accumulated Result.
func Lower(prog ast.Program, priorDiags []ast.Diagnostic, opts Options) Result {
	var res Result
	res.Diagnostics = append(res.Diagnostics, priorDiags...)

	StreamLower(prog, priorDiags, opts, Hooks{
		OnMessage: func(m Message) {
			res.Messages = append(res.Messages, m)
		},
		OnDiagnostic: func(d ast.Diagnostic) {
			res.Diagnostics = append(res.Diagnostics, d)
		},
		OnRejectedLine: func(r RejectedLine) {
			res.Rejected = append(res.Rejected, r)
		},
	}, StreamOptions{})

	return res
}

// Hooks are the streaming callbacks; any of them may be nil.
type Hooks struct {
	OnMessage      func(Message)
	OnDiagnostic   func(ast.Diagnostic)
	OnRejectedLine func(RejectedLine)
}

// StreamOptions bounds a streaming traversal.
type StreamOptions struct {
	MaxLines        int // 0 means unbounded
	MaxMessages     int
	MaxDiagnostics  int
	Cancel          func() bool
}

// StreamLower is a callback-driven traversal over the exact same per-line
// lowering logic Lower uses, honoring cancellation and the three emission
// limits. It returns false if the stream stopped early (cancel, limit
// breach, or fail-fast rejection), true if it ran to completion.
func StreamLower(prog ast.Program, priorDiags []ast.Diagnostic, opts Options, hooks Hooks, limits StreamOptions) bool {
	var lineCount, msgCount, diagCount int

	checkLimits := func() bool {
		if limits.Cancel != nil && limits.Cancel() {
			return false
		}
		if limits.MaxLines > 0 && lineCount > limits.MaxLines {
			return false
		}
		if limits.MaxMessages > 0 && msgCount > limits.MaxMessages {
			return false
		}
		if limits.MaxDiagnostics > 0 && diagCount > limits.MaxDiagnostics {
			return false
		}
		return true
	}

	for _, line := range prog.Lines {
		lineCount++
		if !checkLimits() {
			return false
		}

		lineErrs := ast.ErrorsAtLine(priorDiags, line.LineIndex)
		if len(lineErrs) > 0 {
			if hooks.OnRejectedLine != nil {
				hooks.OnRejectedLine(RejectedLine{Source: sourceFor(line, opts), Reasons: lineErrs})
			}
			return false
		}

		msg, warnings, ok := lowerLine(line, opts)
		for _, w := range warnings {
			diagCount++
			if !checkLimits() {
				return false
			}
			if hooks.OnDiagnostic != nil {
				hooks.OnDiagnostic(w)
			}
		}
		if ok {
			msgCount++
			if !checkLimits() {
				return false
			}
			if hooks.OnMessage != nil {
				hooks.OnMessage(msg)
			}
		}
	}

	return true
}

// lowerLine lowers a single line already known to carry no semantic error.
// It is the shared core both Lower and StreamLower drive.
func lowerLine(line ast.Line, opts Options) (Message, []ast.Diagnostic, bool) {
	codes := map[int]bool{}
	for _, w := range line.Words() {
		if w.Head != "G" {
			continue
		}
		if n, err := strconv.Atoi(w.Value); err == nil && n >= 1 && n <= 4 {
			codes[n] = true
		}
	}

	if len(codes) != 1 {
		return nil, nil, false
	}

	var code int
	for c := range codes {
		code = c
	}

	lowerer := dispatchTable[code]
	msg, warnings := lowerer(line, opts)
	return msg, warnings, true
}

func sourceFor(line ast.Line, opts Options) ast.SourceInfo {
	src := ast.SourceInfo{Filename: opts.Filename, Line: line.LineIndex}
	if line.LineNumber != nil {
		v := line.LineNumber.Value
		src.LineNumber = &v
	}
	return src
}

func poseFrom(words []ast.Word) Pose {
	var p Pose
	for _, w := range words {
		v, err := strconv.ParseFloat(w.Value, 64)
		if err != nil {
			continue
		}
		switch w.Head {
		case "X":
			p.X = floatPtr(v)
		case "Y":
			p.Y = floatPtr(v)
		case "Z":
			p.Z = floatPtr(v)
		case "A":
			p.A = floatPtr(v)
		case "B":
			p.B = floatPtr(v)
		case "C":
			p.C = floatPtr(v)
		}
	}
	return p
}

func feedFrom(words []ast.Word) *float64 {
	for _, w := range words {
		if w.Head == "F" {
			if v, err := strconv.ParseFloat(w.Value, 64); err == nil {
				return floatPtr(v)
			}
		}
	}
	return nil
}

func lowerLinear(line ast.Line, opts Options) (Message, []ast.Diagnostic) {
	words := line.Words()
	return LinearMessage{
		Src:  sourceFor(line, opts),
		Mod:  ast.ModalState{Group: ast.Motion, Code: "G1", UpdatesState: true},
		Pose: poseFrom(words),
		Feed: feedFrom(words),
	}, nil
}

func lowerArcFactory(clockwise bool, code string) familyLowerer {
	return func(line ast.Line, opts Options) (Message, []ast.Diagnostic) {
		words := line.Words()

		var warnings []ast.Diagnostic
		for _, w := range words {
			if unsupportedArcHeads[w.Head] {
				warnings = append(warnings, ast.NewWarning(w.Loc, "lowering ignored unsupported arc word: %s", w.Head))
			}
		}

		arc := ArcParams{}
		for _, w := range words {
			v, err := strconv.ParseFloat(w.Value, 64)
			if err != nil {
				continue
			}
			switch w.Head {
			case "I":
				arc.I = floatPtr(v)
			case "J":
				arc.J = floatPtr(v)
			case "K":
				arc.K = floatPtr(v)
			case "R", "CR":
				arc.R = floatPtr(v)
			}
		}

		return ArcMessage{
			Src:       sourceFor(line, opts),
			Mod:       ast.ModalState{Group: ast.Motion, Code: code, UpdatesState: true},
			Clockwise: clockwise,
			Pose:      poseFrom(words),
			Arc:       arc,
			Feed:      feedFrom(words),
		}, warnings
	}
}

func lowerDwell(line ast.Line, opts Options) (Message, []ast.Diagnostic) {
	words := line.Words()
	for _, w := range words {
		switch w.Head {
		case "F":
			v, _ := strconv.ParseFloat(w.Value, 64)
			return DwellMessage{
				Src:        sourceFor(line, opts),
				Mod:        ast.ModalState{Group: ast.NonModal, Code: "G4", UpdatesState: false},
				DwellMode:  Seconds,
				DwellValue: v,
			}, nil
		case "S":
			v, _ := strconv.ParseFloat(w.Value, 64)
			return DwellMessage{
				Src:        sourceFor(line, opts),
				Mod:        ast.ModalState{Group: ast.NonModal, Code: "G4", UpdatesState: false},
				DwellMode:  Revolutions,
				DwellValue: v,
			}, nil
		}
	}
	// Unreachable for a line that passed the dwell-block semantic rule.
	return DwellMessage{
		Src: sourceFor(line, opts),
		Mod: ast.ModalState{Group: ast.NonModal, Code: "G4", UpdatesState: false},
	}, nil
}
