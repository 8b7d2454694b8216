package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/byte4ever/formatsb/composite"
	"github.com/byte4ever/formatsb/config"
	"github.com/byte4ever/formatsb/output"
	"github.com/byte4ever/formatsb/templating"
)

// options holds the flags shared by compile and render.
type options struct {
	configPath     string
	template       string
	variables      []string
	imports        []string
	stampInfoFiles []string
	startTag       string
	endTag         string
	lineBreak      string
	output         string
	format         string
	verbose        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "formatsb",
		Short: "Compile named templates into composite format strings",
		Long: `formatsb turns templates with named {{tags}} into composite format
strings ("{0}", "{1,-5}", "{2:X2}") plus an ordered argument list.

Tag values come from stamp info files, NAME=VALUE variables and
imported templates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(
				os.Stderr, &slog.HandlerOptions{Level: level},
			)))
		},
	}

	fl := rootCmd.PersistentFlags()
	fl.StringVar(&opts.configPath, "config", "", "TOML config file")
	fl.StringVar(&opts.template, "template", "", "Input template file path (stdin if empty)")
	fl.StringArrayVar(&opts.variables, "variable", nil, "Variable in NAME=VALUE format (repeatable)")
	fl.StringArrayVar(&opts.imports, "imports", nil, "Import in NAME=filename format (repeatable)")
	fl.StringArrayVar(&opts.stampInfoFiles, "stamp_info_file", nil, "Stamp info file path (repeatable)")
	fl.StringVar(&opts.startTag, "start_tag", "{{", "Start tag for template placeholders")
	fl.StringVar(&opts.endTag, "end_tag", "}}", "End tag for template placeholders")
	fl.StringVar(&opts.lineBreak, "line_break", "lf", `Line terminator: "lf", "crlf" or an escaped sequence`)
	fl.StringVar(&opts.output, "output", "", "Output file path (stdout if empty)")
	fl.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug messages")

	compileCmd := &cobra.Command{
		Use:   "compile",
		Short: "Write the composite format string and its arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, "")
		},
	}
	compileCmd.Flags().StringVar(&opts.format, "format", "", "Output format: json, yaml or text")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Write the rendered template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, output.Rendered)
		},
	}

	rootCmd.AddCommand(compileCmd, renderCmd)

	return rootCmd
}

// run compiles the template and writes it. A non-empty
// forced format overrides flags and config.
func run(cmd *cobra.Command, opts *options, forced output.Format) error {
	const errCtx = "running formatsb"

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := applyFlags(cmd, opts, &cfg); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	format := forced
	if format == "" {
		format, err = output.ParseFormat(cfg.Format)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	en := templating.Engine{
		StartTag:       cfg.StartTag,
		EndTag:         cfg.EndTag,
		LineBreak:      cfg.LineBreak,
		StampInfoFiles: cfg.StampInfoFiles,
	}

	tpl, err := en.CompileFile(opts.template, opts.variables, opts.imports)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Debug(
		"compiled template",
		"arguments", tpl.ArgumentCount(),
		"format", format,
	)

	out, closer, err := openOutput(opts.output, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if closer != nil {
		defer closer()
	}

	if err := output.Write(out, format, tpl); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// applyFlags overrides config values with flags the user
// set explicitly.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) error {
	fl := cmd.Flags()

	if fl.Changed("start_tag") {
		cfg.StartTag = opts.startTag
	}

	if fl.Changed("end_tag") {
		cfg.EndTag = opts.endTag
	}

	if fl.Changed("stamp_info_file") {
		cfg.StampInfoFiles = opts.stampInfoFiles
	}

	if fl.Changed("format") {
		cfg.Format = opts.format
	}

	if fl.Changed("line_break") {
		lb, err := parseLineBreak(opts.lineBreak)
		if err != nil {
			return err
		}

		cfg.LineBreak = lb
	}

	return nil
}

// parseLineBreak accepts "lf", "crlf" or a Go-escaped
// sequence such as `\r\n`.
func parseLineBreak(s string) (string, error) {
	switch s {
	case "lf":
		return composite.DefaultLineBreak, nil
	case "crlf":
		return composite.CRLF, nil
	}

	lb, err := strconv.Unquote(`"` + s + `"`)
	if err != nil || lb == "" {
		return "", fmt.Errorf("%q: %w", s, composite.ErrInvalidLineBreak)
	}

	if err := composite.ValidateLineBreak(lb); err != nil {
		return "", err
	}

	return lb, nil
}

// openOutput returns a writer for the result. When
// outPath is empty it returns stdout. The returned
// closer function must be called to finalize the file
// (may be nil for stdout).
func openOutput(
	outPath string,
	stdout io.Writer,
) (io.Writer, func(), error) {
	const errCtx = "opening output"

	if outPath == "" {
		return stdout, nil, nil
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from CLI flags
		outPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		0o666,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return fi, func() {
		_ = fi.Close() //nolint:errcheck // best-effort close
	}, nil
}
