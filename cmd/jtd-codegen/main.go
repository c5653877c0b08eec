// Package main provides the CLI entry point for jtd-codegen, which reads a
// JSON Type Definition schema and emits a validator module in the
// requested target language.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	jtd "github.com/jsontypedef/jtd-codegen"
	"github.com/jsontypedef/jtd-codegen/emitjs"
	"github.com/jsontypedef/jtd-codegen/emitlua"
	"github.com/jsontypedef/jtd-codegen/emitpy"
	"github.com/jsontypedef/jtd-codegen/emitrs"
	"github.com/jsontypedef/jtd-codegen/jtdlog"
)

// targetAliases maps every accepted --target spelling to a canonical name.
var targetAliases = map[string]string{
	"js": "js", "javascript": "js",
	"py": "python", "python": "python",
	"rs": "rust", "rust": "rust",
	"lua": "lua",
}

type config struct {
	Target    string
	LogLevel  string
	LogFormat string
}

func (c *config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Target, "target", "t", "", "target language: js, py, rust, or lua")
	flags.StringVar(&c.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&c.LogFormat, "log-format", "logfmt", "log format: logfmt or json")
}

func main() {
	cfg := &config{}

	rootCmd := &cobra.Command{
		Use:           "jtd-codegen [flags] [schema-file]",
		Short:         "Generate a validator module from a JSON Type Definition schema",
		Long: `jtd-codegen reads a JSON Type Definition (RFC 8927) schema, either from a
file argument or from stdin, and writes a standalone validator module for
the requested target language to stdout.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(cfg, args, os.Stdin, os.Stdout)
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())

	// --help/-h and usage text must land on stderr, not stdout, so stdout
	// stays reserved for generated validator source.
	rootCmd.SetOut(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config, args []string, stdin io.Reader, stdout io.Writer) error {
	handler, err := jtdlog.CreateHandlerWithStrings(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return errors.Wrap(err, "invalid logging configuration")
	}
	logger := slog.New(handler)

	target, ok := targetAliases[cfg.Target]
	if !ok {
		return errors.Errorf("unknown or missing --target %q: must be one of js, py, rust, lua", cfg.Target)
	}

	var raw []byte
	if len(args) == 1 && args[0] != "-" {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "read schema file")
		}
	} else {
		raw, err = io.ReadAll(stdin)
		if err != nil {
			return errors.Wrap(err, "read schema from stdin")
		}
	}

	var rawSchema interface{}
	if err := json.Unmarshal(raw, &rawSchema); err != nil {
		return errors.Wrap(err, "parse schema JSON")
	}

	logger.Debug("compiling schema", slog.String("target", target))

	compiled, err := jtd.Compile(rawSchema)
	if err != nil {
		return errors.Wrap(err, "Invalid JTD schema")
	}

	var source string
	switch target {
	case "js":
		source = emitjs.Emit(compiled)
	case "python":
		source = emitpy.Emit(compiled)
	case "rust":
		source = emitrs.Emit(compiled)
	case "lua":
		source = emitlua.Emit(compiled)
	}

	logger.Debug("emitted validator", slog.Int("bytes", len(source)))

	_, err = io.WriteString(stdout, source)
	if err != nil {
		return errors.Wrap(err, "write output")
	}

	return nil
}
