/*
Gcodec runs one or more stages of the G-code compile pipeline over a program
file and prints the result in either a fixed-format debug listing or stable
JSON.

Usage:

	gcodec [flags] <file>

The flags are:

	-v, --version
		Give the current version of gcodec and then exit.

	-m, --mode parse|lower|ail|packet
		Which pipeline stage to run through and report. Defaults to "parse".

	-f, --format debug|json
		Output format. Defaults to "debug".

	-c, --config FILE
		Load pipeline options (limits, executor tick) from a TOML file.

Exit codes: 0 on success, 1 if any diagnostic at the requested stage has
Error severity (or the stream was rejected before completing), 2 on usage
error.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/gcodec/internal/ail"
	"github.com/dekarrin/gcodec/internal/ast"
	"github.com/dekarrin/gcodec/internal/debugfmt"
	"github.com/dekarrin/gcodec/internal/gconfig"
	"github.com/dekarrin/gcodec/internal/gparse"
	"github.com/dekarrin/gcodec/internal/jsonproj"
	"github.com/dekarrin/gcodec/internal/message"
	"github.com/dekarrin/gcodec/internal/packet"
	"github.com/dekarrin/gcodec/internal/semrules"
	"github.com/dekarrin/gcodec/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates no Error-severity diagnostic at the requested
	// stage.
	ExitSuccess = iota

	// ExitDiagnosticError indicates at least one Error-severity diagnostic
	// (or a rejected line) at the requested stage.
	ExitDiagnosticError

	// ExitUsageError indicates bad flags, a missing file, or an unreadable
	// config file.
	ExitUsageError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	mode        *string = pflag.StringP("mode", "m", "parse", "Pipeline stage to run: parse|lower|ail|packet")
	format      *string = pflag.StringP("format", "f", "debug", "Output format: debug|json")
	configFile  *string = pflag.StringP("config", "c", "", "TOML pipeline-options file")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		os.Exit(ExitSuccess)
	}

	if *mode != "parse" && *mode != "lower" && *mode != "ail" && *mode != "packet" {
		fmt.Fprintf(os.Stderr, "ERROR: unknown mode %q\n", *mode)
		os.Exit(ExitUsageError)
	}
	if *format != "debug" && *format != "json" {
		fmt.Fprintf(os.Stderr, "ERROR: unknown format %q\n", *format)
		os.Exit(ExitUsageError)
	}
	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "ERROR: expected exactly one file argument\n")
		os.Exit(ExitUsageError)
	}

	opts := gconfig.Default()
	if *configFile != "" {
		loaded, err := gconfig.LoadFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(ExitUsageError)
		}
		opts = loaded
	}

	file := pflag.Arg(0)
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitUsageError)
	}
	if opts.Filename == "" {
		opts.Filename = file
	}

	returnCode = run(string(data), opts, *mode, *format)
	os.Exit(returnCode)
}

func run(text string, opts gconfig.PipelineOptions, mode, format string) int {
	msgOpts := message.Options{Filename: opts.Filename}

	prog, parseDiags := gparse.Parse(text)
	if mode == "parse" {
		return reportParse(prog, parseDiags, format)
	}

	semDiags := semrules.Analyze(prog)
	priorDiags := append(append([]ast.Diagnostic{}, parseDiags...), semDiags...)

	msgRes := message.Lower(prog, priorDiags, msgOpts)
	if mode == "lower" {
		return reportLower(msgRes, format)
	}

	ailRes := ail.LowerFromMessages(prog, msgRes, msgOpts)
	if mode == "ail" {
		return reportAil(ailRes, format)
	}

	pktRes := packet.Build(ailRes.Instructions)
	return reportPacket(pktRes, priorDiags, ailRes.Rejected, format)
}

func reportParse(prog ast.Program, diags []ast.Diagnostic, format string) int {
	if format == "json" {
		data, err := jsonproj.MarshalParse(prog, diags)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return ExitUsageError
		}
		fmt.Println(string(data))
	} else {
		debugfmt.WriteParseResult(os.Stdout, len(prog.Lines), diags)
	}
	if ast.AnyErrors(diags) {
		return ExitDiagnosticError
	}
	return ExitSuccess
}

func reportLower(res message.Result, format string) int {
	if format == "json" {
		data, err := jsonproj.MarshalLower(res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return ExitUsageError
		}
		fmt.Println(string(data))
	} else {
		debugfmt.WriteMessageResult(os.Stdout, res)
	}
	if ast.AnyErrors(res.Diagnostics) || len(res.Rejected) > 0 {
		return ExitDiagnosticError
	}
	return ExitSuccess
}

func reportAil(res ail.Result, format string) int {
	if format == "json" {
		data, err := jsonproj.MarshalAil(res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return ExitUsageError
		}
		fmt.Println(string(data))
	} else {
		debugfmt.WriteAilResult(os.Stdout, res)
	}
	if ast.AnyErrors(res.Diagnostics) || len(res.Rejected) > 0 {
		return ExitDiagnosticError
	}
	return ExitSuccess
}

func reportPacket(res packet.Result, priorDiags []ast.Diagnostic, rejected []message.RejectedLine, format string) int {
	if format == "json" {
		data, err := jsonproj.MarshalPacket(res, priorDiags, rejected)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return ExitUsageError
		}
		fmt.Println(string(data))
	} else {
		debugfmt.WritePacketResult(os.Stdout, res)
		for _, r := range rejected {
			debugfmt.WriteRejectedLine(os.Stdout, r)
		}
	}
	if ast.AnyErrors(res.Diagnostics) || len(rejected) > 0 {
		return ExitDiagnosticError
	}
	return ExitSuccess
}
