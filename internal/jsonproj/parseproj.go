package jsonproj

import (
	"encoding/json"

	"github.com/dekarrin/gcodec/internal/ast"
)

// WordJSON is a Word's wire shape.
type WordJSON struct {
	Head     string       `json:"head"`
	Value    string       `json:"value"`
	HasEqual bool         `json:"has_equal"`
	Location LocationJSON `json:"location"`
}

// ItemJSON is one Line item: either a word or a comment, discriminated by
// kind. Exactly one of Word/Text is populated.
type ItemJSON struct {
	Kind     string        `json:"kind"`
	Word     *WordJSON     `json:"word,omitempty"`
	Text     *string       `json:"text,omitempty"`
	Location *LocationJSON `json:"location,omitempty"`
}

func itemJSON(it ast.Item) ItemJSON {
	switch v := it.(type) {
	case ast.Word:
		w := WordJSON{Head: v.Head, Value: v.Value, HasEqual: v.HasEqual, Location: locJSON(v.Loc)}
		return ItemJSON{Kind: "word", Word: &w}
	case ast.Comment:
		loc := locJSON(v.Loc)
		return ItemJSON{Kind: "comment", Text: &v.Text, Location: &loc}
	}
	return ItemJSON{Kind: "unknown"}
}

// StatementJSON is a Line's optional statement, discriminated by kind; only
// the fields relevant to that kind are populated.
type StatementJSON struct {
	Kind      string  `json:"kind"`
	LHS       *string `json:"lhs,omitempty"`
	IsSystem  *bool   `json:"is_system,omitempty"`
	RHSExpr   *string `json:"rhs_expr,omitempty"`
	Name      *string `json:"name,omitempty"`
	Opcode    *string `json:"opcode,omitempty"`
	Target    *string `json:"target,omitempty"`
	TargetKind *string `json:"target_kind,omitempty"`
	Condition  *string `json:"condition,omitempty"`
	Then       *GotoRefJSON `json:"then,omitempty"`
	Else       *GotoRefJSON `json:"else,omitempty"`
}

func gotoStmtRef(g ast.GotoStmt) GotoRefJSON {
	return GotoRefJSON{Opcode: string(g.Opcode), Target: g.Target, TargetKind: g.TargetKind.String()}
}

func statementJSON(s ast.Statement) *StatementJSON {
	switch s.Kind {
	case ast.StmtNone:
		return nil
	case ast.StmtAssignment:
		rhs := ""
		if s.Assignment.RHS != nil {
			rhs = s.Assignment.RHS.String()
		}
		return &StatementJSON{Kind: s.Kind.String(), LHS: strp(s.Assignment.LHS), IsSystem: &s.Assignment.IsSystem, RHSExpr: strp(rhs)}
	case ast.StmtLabel:
		return &StatementJSON{Kind: s.Kind.String(), Name: strp(s.Label.Name)}
	case ast.StmtGoto:
		return &StatementJSON{
			Kind: s.Kind.String(), Opcode: strp(string(s.Goto.Opcode)),
			Target: strp(s.Goto.Target), TargetKind: strp(s.Goto.TargetKind.String()),
		}
	case ast.StmtIfGoto:
		cond := s.IfGoto.Condition.RawJoined()
		then := gotoStmtRef(s.IfGoto.Then)
		out := &StatementJSON{Kind: s.Kind.String(), Condition: &cond, Then: &then}
		if s.IfGoto.Else != nil {
			els := gotoStmtRef(*s.IfGoto.Else)
			out.Else = &els
		}
		return out
	case ast.StmtIfStart:
		cond := s.IfStart.Condition.RawJoined()
		return &StatementJSON{Kind: s.Kind.String(), Condition: &cond}
	default:
		return &StatementJSON{Kind: s.Kind.String()}
	}
}

// LineJSON is a Line's wire shape.
type LineJSON struct {
	LineIndex      int            `json:"line_index"`
	BlockDelete    bool           `json:"block_delete"`
	LineNumber     *int           `json:"line_number,omitempty"`
	LineNumberLoc  *LocationJSON  `json:"line_number_location,omitempty"`
	Items          []ItemJSON     `json:"items"`
	Statement      *StatementJSON `json:"statement,omitempty"`
}

func lineJSON(l ast.Line) LineJSON {
	out := LineJSON{LineIndex: l.LineIndex, BlockDelete: l.BlockDelete}
	if l.LineNumber != nil {
		out.LineNumber = &l.LineNumber.Value
		loc := locJSON(l.LineNumber.Loc)
		out.LineNumberLoc = &loc
	}
	out.Items = make([]ItemJSON, 0, len(l.Items))
	for _, it := range l.Items {
		out.Items = append(out.Items, itemJSON(it))
	}
	if l.HasStatement {
		out.Statement = statementJSON(l.Statement)
	}
	return out
}

// ProgramJSON is Program's wire shape.
type ProgramJSON struct {
	Lines []LineJSON `json:"lines"`
}

// ParseDoc is the stage-1 (parse) JSON projection.
type ParseDoc struct {
	SchemaVersion int         `json:"schema_version"`
	Program       ProgramJSON `json:"program"`
	Diagnostics   []DiagJSON  `json:"diagnostics"`
}

// ParseToJSON builds the stable Parse projection from a Program and its
// parse/semantic diagnostics.
func ParseToJSON(prog ast.Program, diags []ast.Diagnostic) ParseDoc {
	doc := ParseDoc{SchemaVersion: SchemaVersion, Diagnostics: diagsJSON(diags)}
	doc.Program.Lines = make([]LineJSON, 0, len(prog.Lines))
	for _, l := range prog.Lines {
		doc.Program.Lines = append(doc.Program.Lines, lineJSON(l))
	}
	return doc
}

// MarshalParse serializes a Program plus diagnostics to its stable JSON
// form.
func MarshalParse(prog ast.Program, diags []ast.Diagnostic) ([]byte, error) {
	return json.Marshal(ParseToJSON(prog, diags))
}
