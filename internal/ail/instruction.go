// Package ail implements stage 4 of the pipeline: lowering a Program (plus
// its prior diagnostics) into an ordered instruction list (AIL), including
// the structured IF/ELSE/ENDIF desugar, per spec.md §4.4.
package ail

import (
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/message"
)

// Kind identifies which concrete kind an Instruction is.
type Kind int

const (
	KindLinear Kind = iota
	KindArc
	KindDwell
	KindAssign
	KindLabel
	KindGoto
	KindBranchIf
	KindSync
)

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "LINEAR"
	case KindArc:
		return "ARC"
	case KindDwell:
		return "DWELL"
	case KindAssign:
		return "ASSIGN"
	case KindLabel:
		return "LABEL"
	case KindGoto:
		return "GOTO"
	case KindBranchIf:
		return "BRANCH_IF"
	case KindSync:
		return "SYNC"
	default:
		return "UNKNOWN"
	}
}

// Instruction is the closed sum type of all AIL instruction forms. Match on
// Kind() and use the corresponding As*() accessor.
type Instruction interface {
	Kind() Kind
	Source() ast.SourceInfo
	AsLinear() LinearMove
	AsArc() ArcMove
	AsDwell() Dwell
	AsAssign() Assign
	AsLabel() Label
	AsGoto() Goto
	AsBranchIf() BranchIf
	AsSync() Sync
}

type base struct {
	Src ast.SourceInfo
}

func (b base) Source() ast.SourceInfo { return b.Src }

func wrongKind(got Kind, want string) string {
	return "Kind() is not " + want + " (got " + got.String() + ")"
}

// LinearMove mirrors message.LinearMessage as an instruction.
type LinearMove struct {
	base
	Modal ast.ModalState
	Pose  message.Pose
	Feed  *float64
}

func (i LinearMove) Kind() Kind            { return KindLinear }
func (i LinearMove) AsLinear() LinearMove  { return i }
func (i LinearMove) AsArc() ArcMove        { panic(wrongKind(i.Kind(), "KindArc")) }
func (i LinearMove) AsDwell() Dwell        { panic(wrongKind(i.Kind(), "KindDwell")) }
func (i LinearMove) AsAssign() Assign      { panic(wrongKind(i.Kind(), "KindAssign")) }
func (i LinearMove) AsLabel() Label        { panic(wrongKind(i.Kind(), "KindLabel")) }
func (i LinearMove) AsGoto() Goto          { panic(wrongKind(i.Kind(), "KindGoto")) }
func (i LinearMove) AsBranchIf() BranchIf  { panic(wrongKind(i.Kind(), "KindBranchIf")) }
func (i LinearMove) AsSync() Sync          { panic(wrongKind(i.Kind(), "KindSync")) }

// ArcMove mirrors message.ArcMessage as an instruction.
type ArcMove struct {
	base
	Modal     ast.ModalState
	Clockwise bool
	Pose      message.Pose
	Arc       message.ArcParams
	Feed      *float64
}

func (i ArcMove) Kind() Kind            { return KindArc }
func (i ArcMove) AsLinear() LinearMove  { panic(wrongKind(i.Kind(), "KindLinear")) }
func (i ArcMove) AsArc() ArcMove        { return i }
func (i ArcMove) AsDwell() Dwell        { panic(wrongKind(i.Kind(), "KindDwell")) }
func (i ArcMove) AsAssign() Assign      { panic(wrongKind(i.Kind(), "KindAssign")) }
func (i ArcMove) AsLabel() Label        { panic(wrongKind(i.Kind(), "KindLabel")) }
func (i ArcMove) AsGoto() Goto          { panic(wrongKind(i.Kind(), "KindGoto")) }
func (i ArcMove) AsBranchIf() BranchIf  { panic(wrongKind(i.Kind(), "KindBranchIf")) }
func (i ArcMove) AsSync() Sync          { panic(wrongKind(i.Kind(), "KindSync")) }

// Dwell mirrors message.DwellMessage as an instruction.
type Dwell struct {
	base
	Modal      ast.ModalState
	DwellMode  message.DwellMode
	DwellValue float64
}

func (i Dwell) Kind() Kind            { return KindDwell }
func (i Dwell) AsLinear() LinearMove  { panic(wrongKind(i.Kind(), "KindLinear")) }
func (i Dwell) AsArc() ArcMove        { panic(wrongKind(i.Kind(), "KindArc")) }
func (i Dwell) AsDwell() Dwell        { return i }
func (i Dwell) AsAssign() Assign      { panic(wrongKind(i.Kind(), "KindAssign")) }
func (i Dwell) AsLabel() Label        { panic(wrongKind(i.Kind(), "KindLabel")) }
func (i Dwell) AsGoto() Goto          { panic(wrongKind(i.Kind(), "KindGoto")) }
func (i Dwell) AsBranchIf() BranchIf  { panic(wrongKind(i.Kind(), "KindBranchIf")) }
func (i Dwell) AsSync() Sync          { panic(wrongKind(i.Kind(), "KindSync")) }

// Assign carries a variable assignment's expression tree forward unevaluated.
type Assign struct {
	base
	LHS      string
	IsSystem bool
	RHS      ast.Expr
}

func (i Assign) Kind() Kind            { return KindAssign }
func (i Assign) AsLinear() LinearMove  { panic(wrongKind(i.Kind(), "KindLinear")) }
func (i Assign) AsArc() ArcMove        { panic(wrongKind(i.Kind(), "KindArc")) }
func (i Assign) AsDwell() Dwell        { panic(wrongKind(i.Kind(), "KindDwell")) }
func (i Assign) AsAssign() Assign      { return i }
func (i Assign) AsLabel() Label        { panic(wrongKind(i.Kind(), "KindLabel")) }
func (i Assign) AsGoto() Goto          { panic(wrongKind(i.Kind(), "KindGoto")) }
func (i Assign) AsBranchIf() BranchIf  { panic(wrongKind(i.Kind(), "KindBranchIf")) }
func (i Assign) AsSync() Sync          { panic(wrongKind(i.Kind(), "KindSync")) }

// Label defines a jump target, either user-written or synthesized by the
// IF/ELSE/ENDIF desugar (prefixed __CF_IF_*).
type Label struct {
	base
	Name string
}

func (i Label) Kind() Kind            { return KindLabel }
func (i Label) AsLinear() LinearMove  { panic(wrongKind(i.Kind(), "KindLinear")) }
func (i Label) AsArc() ArcMove        { panic(wrongKind(i.Kind(), "KindArc")) }
func (i Label) AsDwell() Dwell        { panic(wrongKind(i.Kind(), "KindDwell")) }
func (i Label) AsAssign() Assign      { panic(wrongKind(i.Kind(), "KindAssign")) }
func (i Label) AsLabel() Label        { return i }
func (i Label) AsGoto() Goto          { panic(wrongKind(i.Kind(), "KindGoto")) }
func (i Label) AsBranchIf() BranchIf  { panic(wrongKind(i.Kind(), "KindBranchIf")) }
func (i Label) AsSync() Sync          { panic(wrongKind(i.Kind(), "KindSync")) }

// Target names a jump destination and its lexical classification.
type Target struct {
	Opcode     ast.GotoOpcode
	Target     string
	TargetKind ast.TargetKind
}

// Goto is an unconditional jump, either user-written or synthesized by the
// IF/ELSE/ENDIF desugar (always TargetLabel in the synthesized case).
type Goto struct {
	base
	To Target
}

func (i Goto) Kind() Kind            { return KindGoto }
func (i Goto) AsLinear() LinearMove  { panic(wrongKind(i.Kind(), "KindLinear")) }
func (i Goto) AsArc() ArcMove        { panic(wrongKind(i.Kind(), "KindArc")) }
func (i Goto) AsDwell() Dwell        { panic(wrongKind(i.Kind(), "KindDwell")) }
func (i Goto) AsAssign() Assign      { panic(wrongKind(i.Kind(), "KindAssign")) }
func (i Goto) AsLabel() Label        { panic(wrongKind(i.Kind(), "KindLabel")) }
func (i Goto) AsGoto() Goto          { return i }
func (i Goto) AsBranchIf() BranchIf  { panic(wrongKind(i.Kind(), "KindBranchIf")) }
func (i Goto) AsSync() Sync          { panic(wrongKind(i.Kind(), "KindSync")) }

// BranchIf is a single conditional branch: both the legacy "IF cond GOTOx
// tgt [ELSE GOTOy tgt]" form and the structured IF desugar lower to this.
type BranchIf struct {
	base
	Condition ast.Condition
	Then      Target
	Else      *Target
}

func (i BranchIf) Kind() Kind            { return KindBranchIf }
func (i BranchIf) AsLinear() LinearMove  { panic(wrongKind(i.Kind(), "KindLinear")) }
func (i BranchIf) AsArc() ArcMove        { panic(wrongKind(i.Kind(), "KindArc")) }
func (i BranchIf) AsDwell() Dwell        { panic(wrongKind(i.Kind(), "KindDwell")) }
func (i BranchIf) AsAssign() Assign      { panic(wrongKind(i.Kind(), "KindAssign")) }
func (i BranchIf) AsLabel() Label        { panic(wrongKind(i.Kind(), "KindLabel")) }
func (i BranchIf) AsGoto() Goto          { panic(wrongKind(i.Kind(), "KindGoto")) }
func (i BranchIf) AsBranchIf() BranchIf  { return i }
func (i BranchIf) AsSync() Sync          { panic(wrongKind(i.Kind(), "KindSync")) }

// Sync is reserved for a future synchronization-point instruction; no
// current parser construct lowers to it.
type Sync struct {
	base
	Tag string
}

func (i Sync) Kind() Kind            { return KindSync }
func (i Sync) AsLinear() LinearMove  { panic(wrongKind(i.Kind(), "KindLinear")) }
func (i Sync) AsArc() ArcMove        { panic(wrongKind(i.Kind(), "KindArc")) }
func (i Sync) AsDwell() Dwell        { panic(wrongKind(i.Kind(), "KindDwell")) }
func (i Sync) AsAssign() Assign      { panic(wrongKind(i.Kind(), "KindAssign")) }
func (i Sync) AsLabel() Label        { panic(wrongKind(i.Kind(), "KindLabel")) }
func (i Sync) AsGoto() Goto          { panic(wrongKind(i.Kind(), "KindGoto")) }
func (i Sync) AsBranchIf() BranchIf  { panic(wrongKind(i.Kind(), "KindBranchIf")) }
func (i Sync) AsSync() Sync          { return i }
