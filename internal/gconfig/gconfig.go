// Package gconfig loads TOML-format pipeline options, grounded on
// internal/tqw's "read file, toml.Decode into a struct" loading pattern.
package gconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// PipelineOptions is everything the CLI and the incremental session need to
// configure a run beyond the source text itself.
type PipelineOptions struct {
	Filename string `toml:"filename"`

	Limits struct {
		MaxLines       int `toml:"max_lines"`
		MaxMessages    int `toml:"max_messages"`
		MaxDiagnostics int `toml:"max_diagnostics"`
	} `toml:"limits"`

	Executor struct {
		// TickMs is the default step interval a driving loop should use
		// between Executor.Step calls when no external clock source is
		// supplied.
		TickMs int64 `toml:"tick_ms"`
	} `toml:"executor"`
}

// Default returns the zero-limits, zero-tick configuration: unbounded
// streaming, caller-driven stepping.
func Default() PipelineOptions {
	return PipelineOptions{}
}

// LoadFile reads and decodes a TOML pipeline-options file at path.
func LoadFile(path string) (PipelineOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PipelineOptions{}, err
	}
	return Load(data)
}

// Load decodes TOML pipeline options from data.
func Load(data []byte) (PipelineOptions, error) {
	var opts PipelineOptions
	if _, err := toml.Decode(string(data), &opts); err != nil {
		return PipelineOptions{}, fmt.Errorf("gconfig: decode: %w", err)
	}
	return opts, nil
}
