package pipeline

import (
	"testing"

	"github.com/dekarrin/gcodec/internal/message"
	"github.com/stretchr/testify/assert"
)

func Test_CompileAll_EndToEnd(t *testing.T) {
	res := CompileAll("N10 G1 X10 Y20 Z30 A40 B50 C60 F100\n", message.Options{Filename: "t.gcode"})

	assert := assert.New(t)
	assert.Empty(res.Diagnostics)
	assert.Empty(res.Rejected)
	if assert.Len(res.Packets, 1) {
		assert.Equal(1, res.Packets[0].ID)
	}
}

func Test_CompileAll_FailFastStopsAllStages(t *testing.T) {
	res := CompileAll("N1 G4 F3 X10\n", message.Options{})

	assert := assert.New(t)
	assert.Empty(res.Packets)
	if assert.Len(res.Rejected, 1) {
		assert.Equal(1, res.Rejected[0].Source.Line)
	}
}
