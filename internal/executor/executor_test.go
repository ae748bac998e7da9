package executor

import (
	"testing"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/stretchr/testify/assert"
)

func alwaysTrue(ast.Condition, ast.SourceInfo) ConditionResolution {
	return ConditionResolution{Kind: ConditionTrue}
}

func Test_Executor_CompletesWhenPCRunsOff(t *testing.T) {
	ex := New([]ail.Instruction{ail.LinearMove{}})

	assert := assert.New(t)
	assert.True(ex.Step(0, nil))
	assert.Equal(StatusReady, ex.Status())
	assert.True(ex.Step(0, nil))
	assert.Equal(StatusCompleted, ex.Status())
	assert.False(ex.Step(0, nil))
}

func Test_Executor_BranchIf_True_Jumps(t *testing.T) {
	instructions := []ail.Instruction{
		ail.BranchIf{Then: ail.Target{Target: "L", TargetKind: ast.TargetLabel}},
		ail.LinearMove{},
		ail.Label{Name: "L"},
		ail.Dwell{},
	}
	ex := New(instructions)

	ex.Step(0, alwaysTrue)
	assert.Equal(t, 2, ex.PC())
}

func Test_Executor_BranchIf_Pending_ThenResumesOnEvent(t *testing.T) {
	instructions := []ail.Instruction{
		ail.BranchIf{},
		ail.LinearMove{},
	}
	ex := New(instructions)

	pending := true
	resolver := func(ast.Condition, ast.SourceInfo) ConditionResolution {
		if pending {
			return ConditionResolution{Kind: ConditionPending, WaitKey: "done", HasWaitKey: true}
		}
		return ConditionResolution{Kind: ConditionFalse}
	}

	ex.Step(0, resolver)
	assert := assert.New(t)
	assert.Equal(StatusBlockedOnCondition, ex.Status())
	assert.False(ex.Step(0, resolver))

	ex.NotifyEvent("done")
	pending = false
	assert.True(ex.Step(0, resolver))
	assert.Equal(StatusReady, ex.Status())
	assert.Equal(1, ex.PC())
}

func Test_Executor_UnresolvedGoto_Faults(t *testing.T) {
	instructions := []ail.Instruction{
		ail.Goto{To: ail.Target{Target: "NOWHERE", TargetKind: ast.TargetLabel}},
	}
	ex := New(instructions)

	ex.Step(0, nil)
	assert := assert.New(t)
	assert.Equal(StatusFault, ex.Status())
	if assert.Len(ex.Diagnostics(), 1) {
		assert.Contains(ex.Diagnostics()[0].Message, "NOWHERE")
	}
}

func Test_Executor_ConditionError_Faults(t *testing.T) {
	instructions := []ail.Instruction{ail.BranchIf{}}
	ex := New(instructions)

	ex.Step(0, func(ast.Condition, ast.SourceInfo) ConditionResolution {
		return ConditionResolution{Kind: ConditionError}
	})

	assert := assert.New(t)
	assert.Equal(StatusFault, ex.Status())
	assert.Contains(ex.Diagnostics()[0].Message, "condition evaluation failed at runtime")
}
