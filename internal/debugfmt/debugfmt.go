// Package debugfmt writes the fixed key=value debug-format lines spec.md §6
// specifies for each stage, one line per emitted artifact.
package debugfmt

import (
	"fmt"
	"io"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/dekarrin/gcodec/internal/packet"
)

// WriteDiagnostic writes one `DIAG line=<n> col=<n> sev=<error|warning>
// msg="..."` line.
func WriteDiagnostic(w io.Writer, d ast.Diagnostic) {
	fmt.Fprintf(w, "DIAG line=%d col=%d sev=%s msg=%q\n", d.Loc.Line, d.Loc.Column, d.Severity, d.Message)
}

// WriteMessage writes one `MSG line=<n>` line for a lowered motion message.
func WriteMessage(w io.Writer, m message.Message) {
	fmt.Fprintf(w, "MSG line=%d type=%s\n", m.Source().Line, m.Type())
}

// WriteRejectedLine writes one `REJECT line=<n> errors=<n>` line.
func WriteRejectedLine(w io.Writer, r message.RejectedLine) {
	fmt.Fprintf(w, "REJECT line=%d errors=%d\n", r.Source.Line, len(r.Reasons))
}

// WriteInstruction writes one `AIL line=<n> kind=<kind>` line.
func WriteInstruction(w io.Writer, instr ail.Instruction) {
	fmt.Fprintf(w, "AIL line=%d kind=%s\n", instr.Source().Line, instr.Kind())
}

// WritePacket writes one `PACKET id=<n>` line.
func WritePacket(w io.Writer, p packet.Packet) {
	fmt.Fprintf(w, "PACKET id=%d kind=%s line=%d\n", p.ID, p.Kind, p.Source.Line)
}

// WriteSummary writes a `SUMMARY ...=<n>` line from an ordered set of
// key/value counters.
func WriteSummary(w io.Writer, counts map[string]int, order []string) {
	fmt.Fprint(w, "SUMMARY")
	for _, k := range order {
		fmt.Fprintf(w, " %s=%d", k, counts[k])
	}
	fmt.Fprint(w, "\n")
}

// WriteMessageResult writes a full message.Result: one MSG/REJECT line per
// entry (in source order where both are present, rejects terminate the
// stream), then every diagnostic, then a summary.
func WriteMessageResult(w io.Writer, res message.Result) {
	for _, m := range res.Messages {
		WriteMessage(w, m)
	}
	for _, r := range res.Rejected {
		WriteRejectedLine(w, r)
	}
	for _, d := range res.Diagnostics {
		WriteDiagnostic(w, d)
	}
	WriteSummary(w, map[string]int{
		"messages":    len(res.Messages),
		"diagnostics": len(res.Diagnostics),
		"rejected":    len(res.Rejected),
	}, []string{"messages", "diagnostics", "rejected"})
}

// WriteAilResult writes a full ail.Result in the same style.
func WriteAilResult(w io.Writer, res ail.Result) {
	for _, in := range res.Instructions {
		WriteInstruction(w, in)
	}
	for _, r := range res.Rejected {
		WriteRejectedLine(w, r)
	}
	for _, d := range res.Diagnostics {
		WriteDiagnostic(w, d)
	}
	WriteSummary(w, map[string]int{
		"instructions": len(res.Instructions),
		"diagnostics":  len(res.Diagnostics),
		"rejected":     len(res.Rejected),
	}, []string{"instructions", "diagnostics", "rejected"})
}

// WritePacketResult writes a full packet.Result in the same style.
func WritePacketResult(w io.Writer, res packet.Result) {
	for _, p := range res.Packets {
		WritePacket(w, p)
	}
	for _, d := range res.Diagnostics {
		WriteDiagnostic(w, d)
	}
	WriteSummary(w, map[string]int{
		"packets":     len(res.Packets),
		"diagnostics": len(res.Diagnostics),
	}, []string{"packets", "diagnostics"})
}

// WriteParseResult writes a program's diagnostics plus a summary line
// counting lines parsed and diagnostics raised.
func WriteParseResult(w io.Writer, lineCount int, diags []ast.Diagnostic) {
	for _, d := range diags {
		WriteDiagnostic(w, d)
	}
	WriteSummary(w, map[string]int{
		"lines":       lineCount,
		"diagnostics": len(diags),
	}, []string{"lines", "diagnostics"})
}
