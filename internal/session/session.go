// Package session implements the incremental editing session of spec.md
// §4.8: a line buffer plus the latest full lowering result, re-lowered from
// scratch after every edit because G-group modal state persists across
// lines.
package session

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/gparse"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/dekarrin/gcodec/internal/semrules"
	"github.com/dekarrin/rezi"
)

// EditResult is what apply_line_edit returns: the 1-based line the edit
// started at, plus the freshly recomputed message.Result for the whole
// buffer.
type EditResult struct {
	FromLine int
	Result   message.Result
}

// Session owns a buffer of source lines and the most recent full
// message-lowering result.
type Session struct {
	lines  []string
	opts   message.Options
	latest message.Result
}

// New starts a session from initial text (LF-normalized, trailing CR
// stripped), running a first full parse_and_lower pass immediately.
func New(initial string, opts message.Options) *Session {
	s := &Session{opts: opts}
	s.lines = splitLines(initial)
	s.relower()
	return s
}

// Lines returns the current buffer, one entry per line, in order.
func (s *Session) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Latest returns the most recently computed message.Result.
func (s *Session) Latest() message.Result {
	return s.latest
}

// Options returns the message.Options the session was created with, so
// callers re-deriving later pipeline stages (AIL, packets) from Latest() can
// reuse the same filename context.
func (s *Session) Options() message.Options {
	return s.opts
}

// ApplyLineEdit pads the buffer with empty lines up to line1Based if needed,
// replaces that line's text, and re-runs parse_and_lower over the full
// joined buffer, per spec.md §4.8.
func (s *Session) ApplyLineEdit(line1Based int, newLine string) EditResult {
	for len(s.lines) < line1Based {
		s.lines = append(s.lines, "")
	}
	s.lines[line1Based-1] = newLine

	s.relower()

	return EditResult{FromLine: line1Based, Result: s.latest}
}

func (s *Session) relower() {
	text := strings.Join(s.lines, "\n")
	prog, parseDiags := gparse.Parse(text)
	semDiags := semrules.Analyze(prog)
	priorDiags := append(append([]ast.Diagnostic{}, parseDiags...), semDiags...)
	s.latest = message.Lower(prog, priorDiags, s.opts)
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.TrimSuffix(normalized, "\n")
	if normalized == "" {
		return []string{""}
	}
	return strings.Split(normalized, "\n")
}

// snapshot is the durable form of a Session, persisted separately from the
// public JSON projections (internal/jsonproj) via rezi binary encoding, as
// the teacher's server/dao/sqlite layer persists game state.
type snapshot struct {
	Lines    []string
	Filename string
}

// MarshalSnapshot encodes the session's source buffer (not its derived
// lowering result, which is always recomputed on load) to rezi's binary
// format.
func (s *Session) MarshalSnapshot() []byte {
	snap := snapshot{Lines: s.lines, Filename: s.opts.Filename}
	return rezi.EncBinary(snap)
}

// UnmarshalSnapshot restores a Session from bytes produced by
// MarshalSnapshot, recomputing the lowering result from the restored
// buffer.
func UnmarshalSnapshot(data []byte) (*Session, error) {
	var snap snapshot
	if _, err := rezi.DecBinary(data, &snap); err != nil {
		return nil, fmt.Errorf("session: decode snapshot: %w", err)
	}
	s := &Session{opts: message.Options{Filename: snap.Filename}, lines: snap.Lines}
	if len(s.lines) == 0 {
		s.lines = []string{""}
	}
	s.relower()
	return s, nil
}
