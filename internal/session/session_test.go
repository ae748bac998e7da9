package session

import (
	"testing"

	"github.com/dekarrin/gcodec/internal/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New_ParsesInitialText(t *testing.T) {
	s := New("N10 G1 X10 Y20 Z30 A40 B50 C60 F100\n", message.Options{Filename: "t.gcode"})

	assert := assert.New(t)
	assert.Len(s.Latest().Messages, 1)
	assert.Empty(s.Latest().Rejected)
}

func Test_ApplyLineEdit_PadsAndReplacesLine(t *testing.T) {
	s := New("N10 G1 X10 Y20 Z30 A40 B50 C60 F100\n", message.Options{})

	res := s.ApplyLineEdit(3, "N30 G4 F2")

	assert := assert.New(t)
	assert.Equal(3, res.FromLine)
	require.Len(t, s.Lines(), 3)
	assert.Equal("", s.Lines()[1])
	assert.Equal("N30 G4 F2", s.Lines()[2])
	if assert.Len(res.Result.Messages, 2) {
		assert.Equal(message.TypeDwell, res.Result.Messages[1].Type())
	}
}

func Test_ApplyLineEdit_ReplacesExistingLineInPlace(t *testing.T) {
	s := New("N10 G1 X10 Y20 Z30 A40 B50 C60 F100\nN20 G4 F1\n", message.Options{})

	res := s.ApplyLineEdit(1, "N10 G4 F9")

	assert := assert.New(t)
	require.Len(t, s.Lines(), 2)
	assert.Equal("N10 G4 F9", s.Lines()[0])
	if assert.Len(res.Result.Messages, 2) {
		assert.Equal(message.TypeDwell, res.Result.Messages[0].Type())
		assert.Equal(message.TypeDwell, res.Result.Messages[1].Type())
	}
}

func Test_MarshalSnapshot_RoundTrips(t *testing.T) {
	s := New("N10 G1 X10 Y20 Z30 A40 B50 C60 F100\n", message.Options{Filename: "t.gcode"})
	s.ApplyLineEdit(2, "N20 G4 F1")

	data := s.MarshalSnapshot()

	restored, err := UnmarshalSnapshot(data)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(s.Lines(), restored.Lines())
	assert.Equal("t.gcode", restored.opts.Filename)
	if assert.Len(restored.Latest().Messages, 2) {
		assert.Equal(message.TypeLinear, restored.Latest().Messages[0].Type())
		assert.Equal(message.TypeDwell, restored.Latest().Messages[1].Type())
	}
}
