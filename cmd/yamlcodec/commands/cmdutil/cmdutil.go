// Package cmdutil provides shared CLI utilities for all command groups.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mattn/go-isatty"
	"github.com/speakeasy-api/yamlcodec/system"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// StdinIndicator is the conventional Unix indicator to read from stdin.
const StdinIndicator = "-"

// maxConcurrentReads bounds how many input files are read at once.
const maxConcurrentReads = 8

// IsStdin returns true if the given path indicates stdin should be used.
func IsStdin(path string) bool {
	return path == StdinIndicator
}

// StdinIsPiped returns true when stdin is connected to a pipe (not a terminal),
// meaning data is being piped in from another command or a file redirect.
func StdinIsPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

// InputFilesFromArgs returns the input files from args, or "-" if stdin should be used.
func InputFilesFromArgs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{StdinIndicator}
}

// StdinOrFileArgs returns a cobra arg validator that accepts any number of files,
// but only allows zero args when stdin is piped.
func StdinOrFileArgs() cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !StdinIsPiped() {
			return fmt.Errorf("requires at least 1 arg(s), or pipe data to stdin")
		}
		return nil
	}
}

// Input is the raw content of one command line input.
// Err is set instead of Data when the input could not be read.
type Input struct {
	Source string
	Data   []byte
	Err    error
}

// LoadInputs reads every path from fsys concurrently, keeping the order of paths.
// The stdin indicator is read from stdin, which may only be named once.
// A path that cannot be read is reported through its Input.Err and does not stop the others.
func LoadInputs(ctx context.Context, fsys system.VirtualFS, stdin io.Reader, paths []string) ([]Input, error) {
	stdinCount := 0
	for _, path := range paths {
		if IsStdin(path) {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return nil, fmt.Errorf("stdin can only be read once")
	}

	inputs := make([]Input, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, path := range paths {
		inputs[i].Source = path

		if IsStdin(path) {
			inputs[i].Source = "<stdin>"
			g.Go(func() error {
				data, err := io.ReadAll(stdin)
				if err != nil {
					inputs[i].Err = fmt.Errorf("failed to read stdin: %w", err)
					return nil
				}
				inputs[i].Data = data
				return nil
			})
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := system.ReadFile(fsys, path)
			if err != nil {
				inputs[i].Err = fmt.Errorf("failed to read %s: %w", path, err)
				return nil
			}
			inputs[i].Data = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return inputs, nil
}

// NewLogger builds a logfmt logger writing to w. Debug messages are only kept when verbose is set.
func NewLogger(w io.Writer, verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

// IsTerminal reports whether w is a terminal that can render colors.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ReportError writes a failure for a single input to w, highlighting the prefix on terminals.
func ReportError(w io.Writer, source string, err error) {
	prefix := color.New(color.FgRed, color.Bold)
	if IsTerminal(w) {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}

	fmt.Fprintf(w, "%s %s: %v\n", prefix.Sprint("Error:"), source, err)
}

// Die prints an error to stderr and exits with code 1.
func Die(err error) {
	prefix := color.New(color.FgRed, color.Bold)
	if !IsTerminal(os.Stderr) {
		prefix.DisableColor()
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", prefix.Sprint("Error:"), err)
	os.Exit(1)
}
