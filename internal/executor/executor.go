// Package executor implements the single-threaded cooperative stepping
// machine of spec.md §4.7 that walks an AIL instruction list, suspending at
// BranchIf and resuming on external events or elapsed time.
package executor

import (
	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/gotoresolve"
)

// Status is the executor's coarse run state.
type Status int

const (
	StatusReady Status = iota
	StatusBlockedOnCondition
	StatusCompleted
	StatusFault
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusBlockedOnCondition:
		return "BlockedOnCondition"
	case StatusCompleted:
		return "Completed"
	case StatusFault:
		return "Fault"
	default:
		return "Unknown"
	}
}

// Blocked records the state needed to resume a suspended BranchIf.
type Blocked struct {
	InstructionIndex int
	WaitKey          string
	HasWaitKey       bool
	RetryAtMs        int64
	HasRetryAt       bool
}

// ConditionResolutionKind classifies what a Resolver decided about a
// pending condition evaluation.
type ConditionResolutionKind int

const (
	ConditionTrue ConditionResolutionKind = iota
	ConditionFalse
	ConditionPending
	ConditionError
)

// ConditionResolution is what a Resolver returns for one BranchIf
// evaluation.
type ConditionResolution struct {
	Kind         ConditionResolutionKind
	WaitKey      string
	HasWaitKey   bool
	RetryAtMs    int64
	HasRetryAt   bool
	ErrorMessage string
}

// Resolver evaluates a condition at runtime. It is called synchronously and
// must not mutate executor state except via Executor.NotifyEvent.
type Resolver func(cond ast.Condition, source ast.SourceInfo) ConditionResolution

// Executor walks an instruction list one step at a time.
type Executor struct {
	instructions []ail.Instruction
	index        *gotoresolve.Index

	status  Status
	pc      int
	blocked Blocked
	pending map[string]bool

	diagnostics []ast.Diagnostic
}

// New builds an Executor over instructions, constructing its position
// indexes immediately.
func New(instructions []ail.Instruction) *Executor {
	return &Executor{
		instructions: instructions,
		index:        gotoresolve.Build(instructions),
		status:       StatusReady,
		pending:      map[string]bool{},
	}
}

// Status returns the executor's current run state.
func (e *Executor) Status() Status { return e.status }

// PC returns the current program counter.
func (e *Executor) PC() int { return e.pc }

// Diagnostics returns every fault diagnostic appended so far.
func (e *Executor) Diagnostics() []ast.Diagnostic { return e.diagnostics }

// NotifyEvent adds key to the pending event set; idempotent.
func (e *Executor) NotifyEvent(key string) {
	e.pending[key] = true
}

// Step advances the executor by at most one instruction, per spec.md §4.7.
// It returns false exactly when no progress was made this call.
func (e *Executor) Step(nowMs int64, resolve Resolver) bool {
	switch e.status {
	case StatusFault, StatusCompleted:
		return false

	case StatusBlockedOnCondition:
		resumed := false
		if e.blocked.HasWaitKey && e.pending[e.blocked.WaitKey] {
			delete(e.pending, e.blocked.WaitKey)
			resumed = true
		} else if e.blocked.HasRetryAt && nowMs >= e.blocked.RetryAtMs {
			resumed = true
		}
		if !resumed {
			return false
		}
		e.status = StatusReady
		e.pc = e.blocked.InstructionIndex
		e.blocked = Blocked{}
	}

	if e.pc >= len(e.instructions) {
		e.status = StatusCompleted
		return true
	}

	instr := e.instructions[e.pc]
	switch instr.Kind() {
	case ail.KindGoto:
		e.applyJump(instr.Source(), instr.AsGoto().To)

	case ail.KindBranchIf:
		bi := instr.AsBranchIf()
		res := resolve(bi.Condition, instr.Source())
		switch res.Kind {
		case ConditionTrue:
			e.applyJump(instr.Source(), bi.Then)
		case ConditionFalse:
			if bi.Else != nil {
				e.applyJump(instr.Source(), *bi.Else)
			} else {
				e.pc++
			}
		case ConditionPending:
			e.status = StatusBlockedOnCondition
			e.blocked = Blocked{
				InstructionIndex: e.pc,
				WaitKey:          res.WaitKey,
				HasWaitKey:       res.HasWaitKey,
				RetryAtMs:        res.RetryAtMs,
				HasRetryAt:       res.HasRetryAt,
			}
		case ConditionError:
			msg := res.ErrorMessage
			if msg == "" {
				msg = "condition evaluation failed at runtime"
			}
			e.fault(instr.Source(), msg)
		}

	default:
		e.pc++
	}

	return true
}

func (e *Executor) applyJump(source ast.SourceInfo, target ail.Target) {
	res := e.index.Resolve(e.pc, target)
	switch res.Outcome {
	case gotoresolve.OutcomeJump:
		e.pc = res.PC
	case gotoresolve.OutcomeAdvance:
		e.pc++
	case gotoresolve.OutcomeFault:
		e.fault(source, res.FaultMessage)
	}
}

func (e *Executor) fault(source ast.SourceInfo, message string) {
	e.status = StatusFault
	e.diagnostics = append(e.diagnostics, ast.NewError(ast.Location{Line: source.Line, Column: 1}, "%s", message))
}
