// Package message implements stage 3 of the pipeline: it classifies each
// syntactically clean line into a typed motion message, or rejects it on the
// first semantic error (fail-fast), per spec.md §4.3.
package message

import "github.com/dekarrin/gcodec/internal/ast"

// Type identifies which concrete kind a Message is.
type Type int

const (
	TypeLinear Type = iota
	TypeArc
	TypeDwell
)

func (t Type) String() string {
	switch t {
	case TypeLinear:
		return "G1"
	case TypeArc:
		return "ARC"
	case TypeDwell:
		return "G4"
	default:
		return "UNKNOWN"
	}
}

// Message is the closed sum type {Linear, Arc, Dwell}. Implementations are
// value types; match on Type() and use the corresponding As*() accessor.
type Message interface {
	Type() Type
	AsLinear() LinearMessage
	AsArc() ArcMessage
	AsDwell() DwellMessage
	Source() ast.SourceInfo
	Modal() ast.ModalState
}

// LinearMessage is a linear (G1) move.
type LinearMessage struct {
	Src   ast.SourceInfo
	Mod   ast.ModalState
	Pose  Pose
	Feed  *float64
}

func (m LinearMessage) Type() Type               { return TypeLinear }
func (m LinearMessage) AsLinear() LinearMessage   { return m }
func (m LinearMessage) AsArc() ArcMessage         { panic("Type() is not TypeArc") }
func (m LinearMessage) AsDwell() DwellMessage     { panic("Type() is not TypeDwell") }
func (m LinearMessage) Source() ast.SourceInfo    { return m.Src }
func (m LinearMessage) Modal() ast.ModalState     { return m.Mod }

// ArcMessage is a clockwise (G2) or counter-clockwise (G3) arc move.
type ArcMessage struct {
	Src       ast.SourceInfo
	Mod       ast.ModalState
	Clockwise bool
	Pose      Pose
	Arc       ArcParams
	Feed      *float64
}

func (m ArcMessage) Type() Type               { return TypeArc }
func (m ArcMessage) AsLinear() LinearMessage   { panic("Type() is not TypeLinear") }
func (m ArcMessage) AsArc() ArcMessage         { return m }
func (m ArcMessage) AsDwell() DwellMessage     { panic("Type() is not TypeDwell") }
func (m ArcMessage) Source() ast.SourceInfo    { return m.Src }
func (m ArcMessage) Modal() ast.ModalState     { return m.Mod }

// DwellMode distinguishes a G4 dwell specified in seconds vs spindle
// revolutions.
type DwellMode int

const (
	Seconds DwellMode = iota
	Revolutions
)

func (d DwellMode) String() string {
	if d == Revolutions {
		return "revolutions"
	}
	return "seconds"
}

// DwellMessage is a timed (G4) dwell.
type DwellMessage struct {
	Src        ast.SourceInfo
	Mod        ast.ModalState
	DwellMode  DwellMode
	DwellValue float64
}

func (m DwellMessage) Type() Type               { return TypeDwell }
func (m DwellMessage) AsLinear() LinearMessage   { panic("Type() is not TypeLinear") }
func (m DwellMessage) AsArc() ArcMessage         { panic("Type() is not TypeArc") }
func (m DwellMessage) AsDwell() DwellMessage     { return m }
func (m DwellMessage) Source() ast.SourceInfo    { return m.Src }
func (m DwellMessage) Modal() ast.ModalState     { return m.Mod }

// Equal reports whether two messages are equal per spec.md §4.9's diffing
// rule: same variant, same source, same modal tuple, same pose/arc/feed/dwell
// within 1e-9.
func Equal(a, b Message) bool {
	const tol = 1e-9
	if a.Type() != b.Type() {
		return false
	}
	if !a.Source().Equal(b.Source()) {
		return false
	}
	if a.Modal() != b.Modal() {
		return false
	}

	switch a.Type() {
	case TypeLinear:
		la, lb := a.AsLinear(), b.AsLinear()
		return la.Pose.Equal(lb.Pose, tol) && floatsEqual(la.Feed, lb.Feed, tol)
	case TypeArc:
		aa, ab := a.AsArc(), b.AsArc()
		return aa.Clockwise == ab.Clockwise &&
			aa.Pose.Equal(ab.Pose, tol) &&
			aa.Arc.Equal(ab.Arc, tol) &&
			floatsEqual(aa.Feed, ab.Feed, tol)
	case TypeDwell:
		da, db := a.AsDwell(), b.AsDwell()
		diff := da.DwellValue - db.DwellValue
		if diff < 0 {
			diff = -diff
		}
		return da.DwellMode == db.DwellMode && diff <= tol
	}
	return false
}
