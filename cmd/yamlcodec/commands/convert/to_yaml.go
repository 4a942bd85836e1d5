package convert

import (
	"context"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/speakeasy-api/yamlcodec/cmd/yamlcodec/commands/cmdutil"
	"github.com/speakeasy-api/yamlcodec/codec"
	"github.com/speakeasy-api/yamlcodec/system"
	"github.com/speakeasy-api/yamlcodec/yml"
	"github.com/spf13/cobra"
)

var (
	toJSONCompatibleFlag bool
	toEnableAliasesFlag  bool
	toAsArrayFlag        bool
	toMaxRecursionFlag   int
	toIndentFlag         int
)

var toYAMLCmd = &cobra.Command{
	Use:   "to-yaml [<file>...]",
	Short: "Re-encode YAML or JSON documents through the generic value model",
	Long: `Decode YAML or JSON input into generic values and encode it again as YAML.

Strings that would be read back as another type are quoted, so the output
decodes to exactly the same values. Every source document is written as its
own YAML document separated by "---", and --as-array collects the documents
of each input into one sequence. With --json-compatible every document is
written as a single line of JSON instead.`,
	Args: cmdutil.StdinOrFileArgs(),
	Run:  RunToYAML,
	Example: `  # Normalise a YAML file
  yamlcodec to-yaml config.yaml

  # Convert JSON to YAML indented with four spaces
  yamlcodec to-yaml --indent 4 config.json

  # Write JSON instead of YAML
  cat config.yaml | yamlcodec to-yaml --json-compatible`,
}

func init() {
	toYAMLCmd.Flags().BoolVar(&toJSONCompatibleFlag, "json-compatible", false, "Write single line JSON instead of YAML")
	toYAMLCmd.Flags().BoolVar(&toEnableAliasesFlag, "enable-aliases", false, "Emit anchors and aliases for containers referenced more than once")
	toYAMLCmd.Flags().BoolVar(&toAsArrayFlag, "as-array", false, "Always write the input as a sequence")
	toYAMLCmd.Flags().IntVar(&toMaxRecursionFlag, "max-recursion", codec.DefaultMaxRecursionDepth, "Maximum container nesting depth")
	toYAMLCmd.Flags().IntVar(&toIndentFlag, "indent", 0, "Indentation width, 0 detects it from the input")
}

// ToYAMLOptions controls how inputs are re-encoded.
type ToYAMLOptions struct {
	JSONCompatible bool
	EnableAliases  bool
	AsArray        bool
	MaxRecursion   int
	Indent         int
}

func RunToYAML(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := cmdutil.NewLogger(os.Stderr, verbose)

	inputs, err := cmdutil.LoadInputs(cmd.Context(), &system.FileSystem{}, os.Stdin, cmdutil.InputFilesFromArgs(args))
	if err != nil {
		cmdutil.Die(err)
	}

	opts := ToYAMLOptions{
		JSONCompatible: toJSONCompatibleFlag,
		EnableAliases:  toEnableAliasesFlag,
		AsArray:        toAsArrayFlag,
		MaxRecursion:   toMaxRecursionFlag,
		Indent:         toIndentFlag,
	}

	if err := ToYAML(cmd.Context(), inputs, opts, logger, os.Stdout, os.Stderr); err != nil {
		cmdutil.Die(err)
	}
}

// ToYAML decodes every input and writes each source document back out, separating YAML documents with "---".
// A failing input is reported on errOut and the rest are still converted.
func ToYAML(ctx context.Context, inputs []cmdutil.Input, opts ToYAMLOptions, logger log.Logger, out, errOut io.Writer) error {
	dctx := codec.NewDecodeContext(codec.WithLogger(logger))

	written, failed := 0, 0
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if input.Err != nil {
			failed++
			cmdutil.ReportError(errOut, input.Source, input.Err)
			continue
		}

		docs, err := convertToYAML(input, opts, dctx, logger)
		if err != nil {
			failed++
			cmdutil.ReportError(errOut, input.Source, err)
			continue
		}

		for _, doc := range docs {
			if written > 0 && !opts.JSONCompatible {
				if _, err := io.WriteString(out, "---\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(out, doc); err != nil {
				return err
			}
			written++
		}
	}

	return failures(failed, len(inputs))
}

// convertToYAML encodes every document of input. Nothing is written for an input until all of its documents encode.
func convertToYAML(input cmdutil.Input, opts ToYAMLOptions, dctx codec.DecodeContext, logger log.Logger) ([]string, error) {
	var vs []any
	if opts.AsArray {
		v, err := codec.DecodeDocument(input.Data, dctx)
		if err != nil {
			return nil, err
		}
		if _, ok := v.([]any); !ok {
			v = []any{v}
		}
		vs = []any{v}
	} else {
		var err error
		vs, err = codec.DecodeAll(input.Data, dctx)
		if err != nil {
			return nil, err
		}
	}

	indent := opts.Indent
	if indent <= 0 {
		cfg := yml.GetConfigFromData(input.Data)
		indent = detectIndent(cfg)
		level.Debug(logger).Log("msg", "detected layout", "source", input.Source, "format", cfg.OriginalFormat, "indent", indent)
	}

	ectx := codec.NewEncodeContext(
		codec.WithJSONCompatible(opts.JSONCompatible),
		codec.WithAliases(opts.EnableAliases),
		codec.WithMaxRecursionDepth(opts.MaxRecursion),
		codec.WithIndent(indent),
	)

	docs := make([]string, 0, len(vs))
	for _, v := range vs {
		text, err := codec.Encode(v, ectx)
		if err != nil {
			return nil, err
		}
		docs = append(docs, text)
	}
	return docs, nil
}

// detectIndent returns the indentation width described by cfg, falling back to the default for tabs.
func detectIndent(cfg yml.Config) int {
	if cfg.IndentationStyle != yml.IndentationStyleSpace || cfg.Indentation <= 0 {
		return codec.DefaultIndent
	}
	return cfg.Indentation
}
