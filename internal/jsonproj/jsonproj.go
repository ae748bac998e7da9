// Package jsonproj implements the stable JSON projections of spec.md §6 for
// each of the four pipeline stages, all carrying schema_version=1.
package jsonproj

import (
	"encoding/json"
	"fmt"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/dekarrin/gcodec/internal/packet"
)

// SchemaVersion is the single supported schema revision for every
// projection in this package.
const SchemaVersion = 1

// LocationJSON is Location's wire shape.
type LocationJSON struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func locJSON(l ast.Location) LocationJSON {
	return LocationJSON{Line: l.Line, Column: l.Column}
}

// DiagJSON is Diagnostic's wire shape.
type DiagJSON struct {
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

func diagJSON(d ast.Diagnostic) DiagJSON {
	sev := "warning"
	if d.Severity == ast.Error {
		sev = "error"
	}
	return DiagJSON{Severity: sev, Message: d.Message, Location: locJSON(d.Loc)}
}

func diagsJSON(diags []ast.Diagnostic) []DiagJSON {
	out := make([]DiagJSON, 0, len(diags))
	for _, d := range diags {
		out = append(out, diagJSON(d))
	}
	return out
}

// SourceJSON is SourceInfo's wire shape.
type SourceJSON struct {
	Filename   string `json:"filename,omitempty"`
	Line       int    `json:"line"`
	LineNumber *int   `json:"line_number,omitempty"`
}

func sourceJSON(s ast.SourceInfo) SourceJSON {
	return SourceJSON{Filename: s.Filename, Line: s.Line, LineNumber: s.LineNumber}
}

// ModalJSON is ModalState's wire shape.
type ModalJSON struct {
	Group        string `json:"group"`
	Code         string `json:"code"`
	UpdatesState bool   `json:"updates_state"`
}

func modalJSON(m ast.ModalState) ModalJSON {
	return ModalJSON{Group: m.Group.String(), Code: m.Code, UpdatesState: m.UpdatesState}
}

// PoseJSON is Pose's wire shape; every axis is number|null.
type PoseJSON struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
	A *float64 `json:"a"`
	B *float64 `json:"b"`
	C *float64 `json:"c"`
}

func poseJSON(p message.Pose) PoseJSON {
	return PoseJSON{X: p.X, Y: p.Y, Z: p.Z, A: p.A, B: p.B, C: p.C}
}

// ArcJSON is ArcParams' wire shape.
type ArcJSON struct {
	I *float64 `json:"i"`
	J *float64 `json:"j"`
	K *float64 `json:"k"`
	R *float64 `json:"r"`
}

func arcJSON(a message.ArcParams) ArcJSON {
	return ArcJSON{I: a.I, J: a.J, K: a.K, R: a.R}
}

// RejectedLineJSON is RejectedLine's wire shape.
type RejectedLineJSON struct {
	Source  SourceJSON `json:"source"`
	Reasons []DiagJSON `json:"reasons"`
}

func rejectedLinesJSON(rs []message.RejectedLine) []RejectedLineJSON {
	out := make([]RejectedLineJSON, 0, len(rs))
	for _, r := range rs {
		out = append(out, RejectedLineJSON{Source: sourceJSON(r.Source), Reasons: diagsJSON(r.Reasons)})
	}
	return out
}

// MessageJSON is one Message's wire shape; target_pose is always present
// (all-null for a Dwell message), arc/feed/dwell_mode/dwell_value are
// present only for the message kinds that carry them.
type MessageJSON struct {
	Type        string    `json:"type"`
	Source      SourceJSON `json:"source"`
	Modal       ModalJSON  `json:"modal"`
	TargetPose  PoseJSON   `json:"target_pose"`
	Arc         *ArcJSON   `json:"arc,omitempty"`
	Feed        *float64   `json:"feed,omitempty"`
	DwellMode   *string    `json:"dwell_mode,omitempty"`
	DwellValue  *float64   `json:"dwell_value,omitempty"`
}

func messageJSON(m message.Message) MessageJSON {
	out := MessageJSON{
		Source: sourceJSON(m.Source()),
		Modal:  modalJSON(m.Modal()),
	}

	switch m.Type() {
	case message.TypeLinear:
		lm := m.AsLinear()
		out.Type = "G1"
		out.TargetPose = poseJSON(lm.Pose)
		out.Feed = lm.Feed
	case message.TypeArc:
		am := m.AsArc()
		out.Type = arcCode(am.Clockwise)
		out.TargetPose = poseJSON(am.Pose)
		arc := arcJSON(am.Arc)
		out.Arc = &arc
		out.Feed = am.Feed
	case message.TypeDwell:
		dm := m.AsDwell()
		out.Type = "G4"
		mode := dm.DwellMode.String()
		val := dm.DwellValue
		out.DwellMode = &mode
		out.DwellValue = &val
	}

	return out
}

func arcCode(clockwise bool) string {
	if clockwise {
		return "G2"
	}
	return "G3"
}

func (mj MessageJSON) toMessage() (message.Message, error) {
	src := ast.SourceInfo{Filename: mj.Source.Filename, Line: mj.Source.Line, LineNumber: mj.Source.LineNumber}
	mod := ast.ModalState{Code: mj.Modal.Code, UpdatesState: mj.Modal.UpdatesState}
	if mj.Modal.Group == "GGroup1" {
		mod.Group = ast.Motion
	} else {
		mod.Group = ast.NonModal
	}

	switch mj.Type {
	case "G1":
		return message.LinearMessage{Src: src, Mod: mod, Pose: poseFromJSON(mj.TargetPose), Feed: mj.Feed}, nil
	case "G2", "G3":
		var arc message.ArcParams
		if mj.Arc != nil {
			arc = message.ArcParams{I: mj.Arc.I, J: mj.Arc.J, K: mj.Arc.K, R: mj.Arc.R}
		}
		return message.ArcMessage{
			Src: src, Mod: mod, Clockwise: mj.Type == "G2",
			Pose: poseFromJSON(mj.TargetPose), Arc: arc, Feed: mj.Feed,
		}, nil
	case "G4":
		dm := message.Seconds
		if mj.DwellMode != nil && *mj.DwellMode == "revolutions" {
			dm = message.Revolutions
		}
		var val float64
		if mj.DwellValue != nil {
			val = *mj.DwellValue
		}
		return message.DwellMessage{Src: src, Mod: mod, DwellMode: dm, DwellValue: val}, nil
	}
	return nil, fmt.Errorf("jsonproj: unrecognized message type %q", mj.Type)
}

func poseFromJSON(p PoseJSON) message.Pose {
	return message.Pose{X: p.X, Y: p.Y, Z: p.Z, A: p.A, B: p.B, C: p.C}
}

// LowerDoc is the stage-3 (message lowering) JSON projection.
type LowerDoc struct {
	SchemaVersion int                `json:"schema_version"`
	Messages      []MessageJSON      `json:"messages"`
	Diagnostics   []DiagJSON         `json:"diagnostics"`
	RejectedLines []RejectedLineJSON `json:"rejected_lines"`
}

// LowerToJSON builds the stable Lower projection from a message.Result.
func LowerToJSON(res message.Result) LowerDoc {
	doc := LowerDoc{SchemaVersion: SchemaVersion, Diagnostics: diagsJSON(res.Diagnostics)}
	doc.Messages = make([]MessageJSON, 0, len(res.Messages))
	for _, m := range res.Messages {
		doc.Messages = append(doc.Messages, messageJSON(m))
	}
	doc.RejectedLines = rejectedLinesJSON(res.Rejected)
	return doc
}

// MarshalLower serializes a message.Result to its stable JSON form.
func MarshalLower(res message.Result) ([]byte, error) {
	return json.Marshal(LowerToJSON(res))
}

// UnmarshalLower parses the stable Lower JSON form and returns its messages
// only. The document's diagnostics and rejected_lines are decoded but not
// returned, so a whole message.Result does not round-trip through it.
func UnmarshalLower(data []byte) ([]message.Message, error) {
	var doc LowerDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make([]message.Message, 0, len(doc.Messages))
	for _, mj := range doc.Messages {
		m, err := mj.toMessage()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// InstructionJSON is one AIL instruction's wire shape; fields are populated
// according to kind, all others omitted.
type InstructionJSON struct {
	Kind       string      `json:"kind"`
	Source     SourceJSON  `json:"source"`
	Modal      *ModalJSON  `json:"modal,omitempty"`
	TargetPose *PoseJSON   `json:"target_pose,omitempty"`
	Arc        *ArcJSON    `json:"arc,omitempty"`
	Clockwise  *bool       `json:"clockwise,omitempty"`
	Feed       *float64    `json:"feed,omitempty"`
	DwellMode  *string     `json:"dwell_mode,omitempty"`
	DwellValue *float64    `json:"dwell_value,omitempty"`
	LHS        *string     `json:"lhs,omitempty"`
	RHSExpr    *string     `json:"rhs_expr,omitempty"`
	Name       *string     `json:"name,omitempty"`
	Opcode     *string     `json:"opcode,omitempty"`
	Target     *string     `json:"target,omitempty"`
	TargetKind *string     `json:"target_kind,omitempty"`
	Condition  *string     `json:"condition,omitempty"`
	Then       *GotoRefJSON `json:"then,omitempty"`
	Else       *GotoRefJSON `json:"else,omitempty"`
	Tag        *string     `json:"tag,omitempty"`
}

// GotoRefJSON is the embedded {opcode, target, target_kind} shape BranchIf
// uses for its then/else arms.
type GotoRefJSON struct {
	Opcode     string `json:"opcode"`
	Target     string `json:"target"`
	TargetKind string `json:"target_kind"`
}

func gotoRefJSON(t ail.Target) GotoRefJSON {
	return GotoRefJSON{Opcode: string(t.Opcode), Target: t.Target, TargetKind: t.TargetKind.String()}
}

func strp(s string) *string { return &s }

func instructionJSON(instr ail.Instruction) InstructionJSON {
	src := sourceJSON(instr.Source())

	switch instr.Kind() {
	case ail.KindLinear:
		lm := instr.AsLinear()
		modal := modalJSON(lm.Modal)
		pose := poseJSON(lm.Pose)
		return InstructionJSON{Kind: "motion_linear", Source: src, Modal: &modal, TargetPose: &pose, Feed: lm.Feed}
	case ail.KindArc:
		am := instr.AsArc()
		modal := modalJSON(am.Modal)
		pose := poseJSON(am.Pose)
		arc := arcJSON(am.Arc)
		code := "motion_arc"
		cw := am.Clockwise
		return InstructionJSON{Kind: code, Source: src, Modal: &modal, TargetPose: &pose, Arc: &arc, Clockwise: &cw, Feed: am.Feed}
	case ail.KindDwell:
		dm := instr.AsDwell()
		modal := modalJSON(dm.Modal)
		mode := dm.DwellMode.String()
		val := dm.DwellValue
		return InstructionJSON{Kind: "dwell", Source: src, Modal: &modal, DwellMode: &mode, DwellValue: &val}
	case ail.KindAssign:
		a := instr.AsAssign()
		rhs := ""
		if a.RHS != nil {
			rhs = a.RHS.String()
		}
		return InstructionJSON{Kind: "assign", Source: src, LHS: strp(a.LHS), RHSExpr: strp(rhs)}
	case ail.KindLabel:
		l := instr.AsLabel()
		return InstructionJSON{Kind: "label", Source: src, Name: strp(l.Name)}
	case ail.KindGoto:
		g := instr.AsGoto()
		return InstructionJSON{
			Kind: "goto", Source: src,
			Opcode: strp(string(g.To.Opcode)), Target: strp(g.To.Target), TargetKind: strp(g.To.TargetKind.String()),
		}
	case ail.KindBranchIf:
		b := instr.AsBranchIf()
		cond := b.Condition.RawJoined()
		then := gotoRefJSON(b.Then)
		out := InstructionJSON{Kind: "branch_if", Source: src, Condition: &cond, Then: &then}
		if b.Else != nil {
			els := gotoRefJSON(*b.Else)
			out.Else = &els
		}
		return out
	case ail.KindSync:
		s := instr.AsSync()
		return InstructionJSON{Kind: "sync", Source: src, Tag: strp(s.Tag)}
	}
	panic("unreachable instruction kind")
}

// AilDoc is the stage-4 (AIL) JSON projection.
type AilDoc struct {
	SchemaVersion int                `json:"schema_version"`
	Instructions  []InstructionJSON  `json:"instructions"`
	Diagnostics   []DiagJSON         `json:"diagnostics"`
	RejectedLines []RejectedLineJSON `json:"rejected_lines"`
}

// AilToJSON builds the stable AIL projection from an ail.Result.
func AilToJSON(res ail.Result) AilDoc {
	doc := AilDoc{SchemaVersion: SchemaVersion, Diagnostics: diagsJSON(res.Diagnostics)}
	doc.Instructions = make([]InstructionJSON, 0, len(res.Instructions))
	for _, in := range res.Instructions {
		doc.Instructions = append(doc.Instructions, instructionJSON(in))
	}
	doc.RejectedLines = rejectedLinesJSON(res.Rejected)
	return doc
}

// MarshalAil serializes an ail.Result to its stable JSON form.
func MarshalAil(res ail.Result) ([]byte, error) {
	return json.Marshal(AilToJSON(res))
}

// PacketJSON is one Packet's wire shape.
type PacketJSON struct {
	PacketID int            `json:"packet_id"`
	Type     string         `json:"type"`
	Source   SourceJSON     `json:"source"`
	Modal    ModalJSON      `json:"modal"`
	Payload  PacketPayload  `json:"payload"`
}

// PacketPayload holds the motion-specific fields of a packet, matching the
// same shape across linear/arc/dwell payloads so callers need not switch.
type PacketPayload struct {
	TargetPose *PoseJSON `json:"target_pose,omitempty"`
	Arc        *ArcJSON  `json:"arc,omitempty"`
	Feed       *float64  `json:"feed,omitempty"`
	DwellMode  *string   `json:"dwell_mode,omitempty"`
	DwellValue *float64  `json:"dwell_value,omitempty"`
}

func packetTypeName(k packet.Kind) string {
	switch k {
	case packet.KindLinearMove:
		return "linear_move"
	case packet.KindArcMove:
		return "arc_move"
	case packet.KindDwell:
		return "dwell"
	}
	return "unknown"
}

func packetJSON(p packet.Packet) PacketJSON {
	out := PacketJSON{PacketID: p.ID, Type: packetTypeName(p.Kind), Source: sourceJSON(p.Source)}

	switch p.Kind {
	case packet.KindLinearMove:
		lm := p.Instruction.AsLinear()
		out.Modal = modalJSON(lm.Modal)
		pose := poseJSON(lm.Pose)
		out.Payload = PacketPayload{TargetPose: &pose, Feed: lm.Feed}
	case packet.KindArcMove:
		am := p.Instruction.AsArc()
		out.Modal = modalJSON(am.Modal)
		pose := poseJSON(am.Pose)
		arc := arcJSON(am.Arc)
		out.Payload = PacketPayload{TargetPose: &pose, Arc: &arc, Feed: am.Feed}
	case packet.KindDwell:
		dm := p.Instruction.AsDwell()
		out.Modal = modalJSON(dm.Modal)
		mode := dm.DwellMode.String()
		val := dm.DwellValue
		out.Payload = PacketPayload{DwellMode: &mode, DwellValue: &val}
	}

	return out
}

// PacketDoc is the stage-5 (packetization) JSON projection.
type PacketDoc struct {
	SchemaVersion int                `json:"schema_version"`
	Packets       []PacketJSON       `json:"packets"`
	Diagnostics   []DiagJSON         `json:"diagnostics"`
	RejectedLines []RejectedLineJSON `json:"rejected_lines"`
}

// PacketToJSON builds the stable Packet projection from a packet.Result,
// carrying forward the diagnostics and rejected lines of the stages that
// fed it.
func PacketToJSON(res packet.Result, priorDiags []ast.Diagnostic, rejected []message.RejectedLine) PacketDoc {
	doc := PacketDoc{SchemaVersion: SchemaVersion}
	doc.Diagnostics = diagsJSON(append(append([]ast.Diagnostic{}, priorDiags...), res.Diagnostics...))
	doc.Packets = make([]PacketJSON, 0, len(res.Packets))
	for _, p := range res.Packets {
		doc.Packets = append(doc.Packets, packetJSON(p))
	}
	doc.RejectedLines = rejectedLinesJSON(rejected)
	return doc
}

// MarshalPacket serializes a packet.Result to its stable JSON form.
func MarshalPacket(res packet.Result, priorDiags []ast.Diagnostic, rejected []message.RejectedLine) ([]byte, error) {
	return json.Marshal(PacketToJSON(res, priorDiags, rejected))
}
