package jsonproj

import (
	"testing"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/dekarrin/gcodec/internal/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatp(v float64) *float64 { return &v }

func Test_MarshalLower_RoundTrip(t *testing.T) {
	n := 10
	res := message.Result{
		Messages: []message.Message{
			message.LinearMessage{
				Src:  ast.SourceInfo{Filename: "a.gcode", Line: 1, LineNumber: &n},
				Mod:  ast.ModalState{Group: ast.Motion, Code: "G1", UpdatesState: true},
				Pose: message.Pose{X: floatp(10), Y: floatp(20)},
				Feed: floatp(100),
			},
			message.ArcMessage{
				Src:       ast.SourceInfo{Line: 2},
				Mod:       ast.ModalState{Group: ast.Motion, Code: "G2", UpdatesState: true},
				Clockwise: true,
				Arc:       message.ArcParams{I: floatp(1), J: floatp(2)},
			},
			message.DwellMessage{
				Src:        ast.SourceInfo{Line: 3},
				Mod:        ast.ModalState{Group: ast.NonModal, Code: "G4", UpdatesState: false},
				DwellMode:  message.Seconds,
				DwellValue: 2.5,
			},
		},
	}

	data, err := MarshalLower(res)
	require.NoError(t, err)

	back, err := UnmarshalLower(data)
	require.NoError(t, err)

	assert := assert.New(t)
	if assert.Len(back, 3) {
		assert.True(message.Equal(res.Messages[0], back[0]))
		assert.True(message.Equal(res.Messages[1], back[1]))
		assert.True(message.Equal(res.Messages[2], back[2]))
	}

	data2, err := MarshalLower(message.Result{Messages: back})
	require.NoError(t, err)
	assert.JSONEq(string(data), string(data2))
}

func Test_MarshalLower_SchemaVersion(t *testing.T) {
	data, err := MarshalLower(message.Result{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schema_version":1`)
}

func Test_MarshalAil_TagsInstructionKinds(t *testing.T) {
	res := ail.Result{
		Instructions: []ail.Instruction{
			ail.LinearMove{},
			ail.Label{Name: "L1"},
			ail.Goto{To: ail.Target{Opcode: ast.OpGotoF, Target: "L1", TargetKind: ast.TargetLabel}},
		},
	}

	data, err := MarshalAil(res)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Contains(string(data), `"kind":"motion_linear"`)
	assert.Contains(string(data), `"kind":"label"`)
	assert.Contains(string(data), `"kind":"goto"`)
}

func Test_MarshalPacket_DensePacketIDs(t *testing.T) {
	res := packet.Build([]ail.Instruction{ail.LinearMove{}, ail.Label{Name: "L"}, ail.ArcMove{}})

	data, err := MarshalPacket(res, nil, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Contains(string(data), `"packet_id":1`)
	assert.Contains(string(data), `"packet_id":2`)
}
