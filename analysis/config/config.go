// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path"

	"github.com/awslabs/ar-go-slicer/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the options of the slicer and the list of slicing problems to solve.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// SlicingProblems lists the slicing criteria to compute slices for
	SlicingProblems []SlicingProblem `yaml:"slicing-problems"`
}

// SlicingProblem identifies a function, and a slicing criterion in that function.
type SlicingProblem struct {
	// Function identifies the function to slice. It must match exactly one function of the program.
	Function CodeIdentifier `yaml:"function"`

	// Line is the source line of the criterion
	Line int `yaml:"line"`

	// Variable is the name of the local variable or field written at the criterion
	Variable string `yaml:"variable"`

	// Format is the output format of the slice. If empty, Options.OutputFormat is used.
	Format string `yaml:"format,omitempty"`

	// Target is the file the slice is written to, relative to the reports directory. If empty, the slice is
	// written to the standard output.
	Target string `yaml:"target,omitempty"`
}

// Options are the global options of the slicer
type Options struct {
	// ReportsDir is the directory where all the reports will be stored. If the yaml config file this config struct
	// has been loaded does not specify a ReportsDir but some slicing problem has a Target, then ReportsDir will be
	// created in the folder of the config file.
	ReportsDir string `yaml:"reports-dir"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// VerifyDominators cross-checks every post-dominator tree with an independent algorithm
	VerifyDominators bool `yaml:"verify-dominators"`

	// FixpointBoundFactor scales the maximum number of passes of fixed-point computations. A computation that
	// does not stabilize within the bound reports a malformed graph.
	// If provided FixpointBoundFactor is <= 0, then DefaultFixpointBoundFactor is used.
	FixpointBoundFactor int `yaml:"fixpoint-bound-factor"`

	// OutputFormat is the default format slices are rendered in: one of text, source, xml or yaml
	OutputFormat string `yaml:"output-format"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:      "",
		SlicingProblems: nil,
		Options: Options{
			ReportsDir:          "",
			LogLevel:            int(InfoLevel),
			VerifyDominators:    false,
			FixpointBoundFactor: DefaultFixpointBoundFactor,
			OutputFormat:        FormatText,
			SilenceWarn:         false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Parse(filename, b)
}

// Parse parses the configuration in b. filename is the location of the configuration, relative to which the
// reports directory is created.
func Parse(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}
	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.FixpointBoundFactor <= 0 {
		cfg.FixpointBoundFactor = DefaultFixpointBoundFactor
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = FormatText
	}
	if !IsValidFormat(cfg.OutputFormat) {
		return nil, fmt.Errorf("unknown output format %q, expected one of %v", cfg.OutputFormat, Formats)
	}

	for i, problem := range cfg.SlicingProblems {
		if problem.Line <= 0 {
			return nil, fmt.Errorf("slicing problem %d: line must be positive, got %d", i, problem.Line)
		}
		if problem.Variable == "" {
			return nil, fmt.Errorf("slicing problem %d: missing variable", i)
		}
		if problem.Format != "" && !IsValidFormat(problem.Format) {
			return nil, fmt.Errorf("slicing problem %d: unknown output format %q", i, problem.Format)
		}
		cfg.SlicingProblems[i].Function = CompileRegexes(problem.Function)
	}

	if funcutil.Exists(cfg.SlicingProblems, func(p SlicingProblem) bool { return p.Target != "" }) {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.Mkdir(c.ReportsDir, 0750)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("could not create directory %s", c.ReportsDir)
			}
		}
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// FormatOf returns the output format of the slicing problem, defaulting to the configured output format
func (c Config) FormatOf(p SlicingProblem) string {
	if p.Format != "" {
		return p.Format
	}
	return c.OutputFormat
}

// TargetOf returns the file the slice of the problem should be written to, or the empty string if it should be
// written to the standard output
func (c Config) TargetOf(p SlicingProblem) string {
	if p.Target == "" {
		return ""
	}
	return path.Join(c.ReportsDir, p.Target)
}
