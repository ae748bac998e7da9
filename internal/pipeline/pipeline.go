// Package pipeline provides the one-call convenience driver CompileAll,
// running text through every stage (parse → semantic rules → message
// lowering → AIL lowering → packetization), plus per-stage timing stats.
// Supplements the original's bench/gcode_bench.cpp micro-benchmark harness
// with an in-process equivalent, per SPEC_FULL.md §3.
package pipeline

import (
	"time"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/gparse"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/dekarrin/gcodec/internal/packet"
	"github.com/dekarrin/gcodec/internal/semrules"
)

// Stats records wall-clock time spent in each stage of one CompileAll call.
type Stats struct {
	Parse        time.Duration
	SemanticRules time.Duration
	Lower        time.Duration
	Ail          time.Duration
	Packetize    time.Duration
}

// Total returns the sum of every stage's duration.
func (s Stats) Total() time.Duration {
	return s.Parse + s.SemanticRules + s.Lower + s.Ail + s.Packetize
}

// Result is everything CompileAll produces: the final-stage packets, every
// diagnostic gathered across all stages (parse, semantic, lowering,
// packetization warnings, in that discovery order per spec.md §5), the
// rejected lines reported by message lowering, and the timing breakdown.
type Result struct {
	Program     ast.Program
	Packets     []packet.Packet
	Diagnostics []ast.Diagnostic
	Rejected    []message.RejectedLine
	Stats       Stats
}

// CompileAll runs text through the full pipeline in one call.
func CompileAll(text string, opts message.Options) Result {
	var res Result
	var stats Stats

	start := time.Now()
	prog, parseDiags := gparse.Parse(text)
	stats.Parse = time.Since(start)
	res.Program = prog

	start = time.Now()
	semDiags := semrules.Analyze(prog)
	stats.SemanticRules = time.Since(start)

	priorDiags := append(append([]ast.Diagnostic{}, parseDiags...), semDiags...)

	start = time.Now()
	msgRes := message.Lower(prog, priorDiags, opts)
	stats.Lower = time.Since(start)

	start = time.Now()
	ailRes := ail.LowerFromMessages(prog, msgRes, opts)
	stats.Ail = time.Since(start)

	start = time.Now()
	pktRes := packet.Build(ailRes.Instructions)
	stats.Packetize = time.Since(start)

	res.Packets = pktRes.Packets
	res.Rejected = ailRes.Rejected
	res.Diagnostics = append(res.Diagnostics, ailRes.Diagnostics...)
	res.Diagnostics = append(res.Diagnostics, pktRes.Diagnostics...)
	res.Stats = stats

	return res
}
