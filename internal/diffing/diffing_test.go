package diffing

import (
	"testing"

	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/stretchr/testify/assert"
)

func linear(line int, x float64) message.Message {
	v := x
	return message.LinearMessage{
		Src:  ast.SourceInfo{Line: line},
		Pose: message.Pose{X: &v},
	}
}

func Test_DiffByLine_AddedUpdatedRemoved(t *testing.T) {
	before := []message.Message{linear(1, 1), linear(2, 2)}
	after := []message.Message{linear(1, 1), linear(2, 99), linear(3, 3)}

	d := DiffByLine(before, after)

	assert := assert.New(t)
	assert.Empty(d.RemovedLines)
	if assert.Len(d.Updated, 1) {
		assert.Equal(2, d.Updated[0].Line)
	}
	if assert.Len(d.Added, 1) {
		assert.Equal(3, d.Added[0].Line)
	}

	from, to, ok := d.LineRange()
	assert.True(ok)
	assert.Equal(2, from)
	assert.Equal(3, to)
}

func Test_DiffByLine_Removed(t *testing.T) {
	before := []message.Message{linear(1, 1), linear(2, 2)}
	after := []message.Message{linear(1, 1)}

	d := DiffByLine(before, after)

	assert := assert.New(t)
	assert.Equal([]int{2}, d.RemovedLines)
	assert.Empty(d.Added)
	assert.Empty(d.Updated)
}

func Test_Apply_RoundTrips(t *testing.T) {
	before := []message.Message{linear(1, 1), linear(2, 2)}
	after := []message.Message{linear(1, 1), linear(2, 99), linear(3, 3)}

	d := DiffByLine(before, after)
	applied := Apply(before, d)

	assert := assert.New(t)
	if assert.Len(applied, 3) {
		assert.Equal(1, applied[0].Source().Line)
		assert.Equal(2, applied[1].Source().Line)
		assert.Equal(3, applied[2].Source().Line)
		assert.True(message.Equal(applied[1], linear(2, 99)))
	}
}

func Test_LineRange_EmptyDiff(t *testing.T) {
	_, _, ok := Diff{}.LineRange()
	assert.False(t, ok)
}
