package debugfmt

import (
	"bytes"
	"testing"

	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/stretchr/testify/assert"
)

func Test_WriteDiagnostic_FixedKeyValueFormat(t *testing.T) {
	var buf bytes.Buffer
	WriteDiagnostic(&buf, ast.NewError(ast.Location{Line: 3, Column: 5}, "bad thing"))

	assert.Equal(t, `DIAG line=3 col=5 sev=error msg="bad thing"`+"\n", buf.String())
}

func Test_WriteMessageResult_IncludesSummary(t *testing.T) {
	var buf bytes.Buffer
	res := message.Result{
		Messages: []message.Message{message.LinearMessage{Src: ast.SourceInfo{Line: 1}}},
	}
	WriteMessageResult(&buf, res)

	out := buf.String()
	assert := assert.New(t)
	assert.Contains(out, "MSG line=1 type=G1")
	assert.Contains(out, "SUMMARY messages=1 diagnostics=0 rejected=0")
}
