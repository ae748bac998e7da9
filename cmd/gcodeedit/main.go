/*
Gcodeedit starts an interactive editing session over a G-code program,
applying one line edit at a time and reporting the freshly recomputed
lowering result after each. It also exposes a toy stepping executor driven
by the same program so the suspend/resume behavior of BranchIf can be
exercised interactively.

Usage:

	gcodeedit [flags] [file]

The flags are:

	-v, --version
		Give the current version of gcodeedit and then exit.

	-d, --direct
		Force reading directly from the console instead of going through
		GNU readline based routines even if launched in a tty.

If a file is given, the session starts with its contents loaded; otherwise
the session starts empty. Commands, typed at the prompt:

	:edit <n> <text>   replace line n and re-lower the whole program
	:show <stage>      print parse|lower|ail|packet for the current program
	:step              advance the executor by one instruction
	:notify <key>      resolve a BlockedOnCondition wait on key
	:quit              exit the session
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/debugfmt"
	"github.com/dekarrin/gcodec/internal/executor"
	"github.com/dekarrin/gcodec/internal/gparse"
	"github.com/dekarrin/gcodec/internal/input"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/dekarrin/gcodec/internal/packet"
	"github.com/dekarrin/gcodec/internal/session"
	"github.com/dekarrin/gcodec/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitInitError

	// consoleWidth is the column width user-facing (non-debug-format)
	// session messages are wrapped to.
	consoleWidth = 80
)

var (
	returnCode  int   = ExitSuccess
	flagVersion *bool = pflag.BoolP("version", "v", false, "Gives the version info")
	forceDirect *bool = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
)

type commandReader interface {
	ReadCommand() (string, error)
	Close() error
}

// printWrapped writes free-text console output word-wrapped to consoleWidth.
// It must never be used for debugfmt output, which is fixed-format and
// meant to be parsed rather than read as prose.
func printWrapped(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, rosed.Edit(msg).Wrap(consoleWidth).String())
}

// repl holds everything one interactive session needs: the line-edit
// session driving message lowering, and a lazily (re)built executor over
// the program's AIL form.
type repl struct {
	sess       *session.Session
	prog       ast.Program
	parseDiags []ast.Diagnostic
	ail        ail.Result
	pkt        packet.Result
	exec       *executor.Executor
	nowMs      int64
	pending    map[string]bool
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	var initial string
	filename := ""
	if pflag.NArg() >= 1 {
		filename = pflag.Arg(0)
		data, err := os.ReadFile(filename)
		if err != nil {
			printWrapped(os.Stderr, "ERROR: %s", err.Error())
			returnCode = ExitInitError
			return
		}
		initial = string(data)
	}

	var reader commandReader
	var err error
	if *forceDirect {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		reader, err = input.NewInteractiveReader()
		if err != nil {
			reader = input.NewDirectReader(os.Stdin)
		}
	}
	defer reader.Close()

	r := &repl{
		sess:    session.New(initial, message.Options{Filename: filename}),
		pending: make(map[string]bool),
	}
	r.rebuild()

	printWrapped(os.Stdout, "gcodeedit interactive session")
	printWrapped(os.Stdout, "commands: :edit <n> <text>  :show <stage>  :step  :notify <key>  :quit")

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			break
		}
		if !r.dispatch(line) {
			break
		}
	}
	printWrapped(os.Stdout, "Goodbye")
}

func (r *repl) dispatch(line string) bool {
	line = strings.TrimSpace(line)
	verb, rest := splitVerb(line)

	switch verb {
	case ":quit":
		return false

	case ":edit":
		lineNo, text, ok := splitEdit(rest)
		if !ok {
			printWrapped(os.Stderr, "ERROR: usage: :edit <line> <text>")
			return true
		}
		res := r.sess.ApplyLineEdit(lineNo, text)
		debugfmt.WriteMessageResult(os.Stdout, res.Result)
		r.rebuild()

	case ":show":
		r.show(strings.TrimSpace(rest))

	case ":step":
		r.step()

	case ":notify":
		key := strings.TrimSpace(rest)
		if key == "" {
			printWrapped(os.Stderr, "ERROR: usage: :notify <key>")
			return true
		}
		r.pending[key] = true
		if r.exec != nil {
			r.exec.NotifyEvent(key)
		}

	default:
		printWrapped(os.Stderr, "ERROR: unknown command %q", verb)
	}

	return true
}

// rebuild re-parses the session's current buffer, re-derives AIL and
// packets from the session's latest lowering result, and resets the
// executor, since a line edit can change the instruction stream entirely.
func (r *repl) rebuild() {
	text := strings.Join(r.sess.Lines(), "\n")
	prog, parseDiags := gparse.Parse(text)

	msgRes := r.sess.Latest()
	ailRes := ail.LowerFromMessages(prog, msgRes, message.Options{})
	pktRes := packet.Build(ailRes.Instructions)

	r.prog = prog
	r.parseDiags = parseDiags
	r.ail = ailRes
	r.pkt = pktRes
	r.exec = executor.New(ailRes.Instructions)
}

func (r *repl) show(stage string) {
	switch stage {
	case "parse":
		debugfmt.WriteParseResult(os.Stdout, len(r.prog.Lines), r.parseDiags)
	case "lower":
		debugfmt.WriteMessageResult(os.Stdout, r.sess.Latest())
	case "ail":
		debugfmt.WriteAilResult(os.Stdout, r.ail)
	case "packet":
		debugfmt.WritePacketResult(os.Stdout, r.pkt)
	default:
		printWrapped(os.Stderr, "ERROR: unknown stage %q, expected parse|lower|ail|packet", stage)
	}
}

// pendingResolver suspends every condition the first time it is seen,
// waiting on a key derived from the condition's source text, and resolves
// it true once that key has been notified. This stands in for real runtime
// variable evaluation, which this module does not implement.
func (r *repl) pendingResolver(cond ast.Condition, source ast.SourceInfo) executor.ConditionResolution {
	key := fmt.Sprintf("line%d", source.Line)
	if len(cond.Terms) > 0 && cond.Terms[0].RawText != "" {
		key = cond.Terms[0].RawText
	}
	if r.pending[key] {
		return executor.ConditionResolution{Kind: executor.ConditionTrue}
	}
	return executor.ConditionResolution{Kind: executor.ConditionPending, WaitKey: key, HasWaitKey: true}
}

func (r *repl) step() {
	if r.exec == nil {
		printWrapped(os.Stderr, "ERROR: no program loaded")
		return
	}
	r.nowMs += 100
	moved := r.exec.Step(r.nowMs, r.pendingResolver)
	fmt.Printf("status=%s pc=%d advanced=%t\n", r.exec.Status(), r.exec.PC(), moved)
	for _, d := range r.exec.Diagnostics() {
		debugfmt.WriteDiagnostic(os.Stdout, d)
	}
}

func splitVerb(line string) (verb, rest string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

func splitEdit(rest string) (lineNo int, text string, ok bool) {
	rest = strings.TrimSpace(rest)
	idx := strings.IndexAny(rest, " \t")
	if idx < 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(rest[:idx])
	if err != nil || n < 1 {
		return 0, "", false
	}
	return n, rest[idx+1:], true
}
