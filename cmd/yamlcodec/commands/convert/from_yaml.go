package convert

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/speakeasy-api/yamlcodec/cmd/yamlcodec/commands/cmdutil"
	"github.com/speakeasy-api/yamlcodec/codec"
	"github.com/speakeasy-api/yamlcodec/query"
	"github.com/speakeasy-api/yamlcodec/system"
	"github.com/spf13/cobra"
)

var (
	fromAsHashtableFlag     bool
	fromOrderedFlag         bool
	fromScalarsAsStringFlag bool
	fromNoEnumerateFlag     bool
	fromQueryFlag           string
	fromLegacyQueryFlag     bool
)

var fromYAMLCmd = &cobra.Command{
	Use:   "from-yaml [<file>...]",
	Short: "Decode YAML documents and print each value as a line of JSON",
	Long: `Decode YAML documents into generic values and print every value as a single line of JSON.

Scalars keep their YAML type: integers, floats, booleans, nulls and timestamps are
recognised from plain scalars, quoted and block scalars are always strings.
A stream holding several documents yields one line per document.`,
	Args: cmdutil.StdinOrFileArgs(),
	Run:  RunFromYAML,
	Example: `  # Decode a file
  yamlcodec from-yaml config.yaml

  # Keep every scalar as a string
  yamlcodec from-yaml --scalars-as-strings config.yaml

  # Select values with a JSONPath query
  cat config.yaml | yamlcodec from-yaml --query '$.servers[*].name'

  # Print a top level sequence as one value
  yamlcodec from-yaml --no-enumerate list.yaml`,
}

func init() {
	fromYAMLCmd.Flags().BoolVar(&fromAsHashtableFlag, "as-hashtable", false, "Decode mappings into unordered maps keyed by typed values")
	fromYAMLCmd.Flags().BoolVar(&fromOrderedFlag, "ordered", false, "Decode mappings into ordered maps keyed by typed values")
	fromYAMLCmd.Flags().BoolVar(&fromScalarsAsStringFlag, "scalars-as-strings", false, "Skip type inference and keep every scalar as a string")
	fromYAMLCmd.Flags().BoolVar(&fromNoEnumerateFlag, "no-enumerate", false, "Print a top level sequence as a single value instead of one line per item")
	fromYAMLCmd.Flags().StringVarP(&fromQueryFlag, "query", "q", "", "RFC 9535 JSONPath expression selecting the values to print")
	fromYAMLCmd.Flags().BoolVar(&fromLegacyQueryFlag, "legacy-query", false, "Evaluate --query with the legacy yamlpath dialect")
	fromYAMLCmd.MarkFlagsMutuallyExclusive("as-hashtable", "ordered")
}

// FromYAMLOptions controls how inputs are decoded and which values are printed.
type FromYAMLOptions struct {
	Shape            codec.OutputShape
	ScalarsAsStrings bool
	NoEnumerate      bool
	Query            string
	LegacyQuery      bool
}

func RunFromYAML(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := cmdutil.NewLogger(os.Stderr, verbose)

	shape := codec.ShapeRecord
	switch {
	case fromAsHashtableFlag:
		shape = codec.ShapeUnorderedMap
	case fromOrderedFlag:
		shape = codec.ShapeOrderedMap
	}

	inputs, err := cmdutil.LoadInputs(cmd.Context(), &system.FileSystem{}, os.Stdin, cmdutil.InputFilesFromArgs(args))
	if err != nil {
		cmdutil.Die(err)
	}

	opts := FromYAMLOptions{
		Shape:            shape,
		ScalarsAsStrings: fromScalarsAsStringFlag,
		NoEnumerate:      fromNoEnumerateFlag,
		Query:            fromQueryFlag,
		LegacyQuery:      fromLegacyQueryFlag,
	}

	if err := FromYAML(cmd.Context(), inputs, opts, logger, os.Stdout, os.Stderr); err != nil {
		cmdutil.Die(err)
	}
}

// FromYAML decodes every input and writes one JSON line per value to out.
// A failing input or value is reported on errOut and the rest are still converted.
func FromYAML(ctx context.Context, inputs []cmdutil.Input, opts FromYAMLOptions, logger log.Logger, out, errOut io.Writer) error {
	var q query.Queryable
	if opts.Query != "" {
		var err error
		q, err = query.NewPath(opts.Query, opts.LegacyQuery)
		if err != nil {
			return err
		}
	}

	dctx := codec.NewDecodeContext(
		codec.WithOutputShape(opts.Shape),
		codec.WithScalarsAsStrings(opts.ScalarsAsStrings),
		codec.WithLogger(logger),
	)
	ectx := codec.NewEncodeContext(codec.WithJSONCompatible(true))

	total, failed := 0, 0
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if input.Err != nil {
			total++
			failed++
			cmdutil.ReportError(errOut, input.Source, input.Err)
			continue
		}

		vs, err := decodeInput(input, q, opts.NoEnumerate, dctx)
		if err != nil {
			total++
			failed++
			cmdutil.ReportError(errOut, input.Source, err)
			continue
		}
		level.Debug(logger).Log("msg", "decoded input", "source", input.Source, "values", len(vs))

		for i, v := range vs {
			total++
			if err := codec.EncodeTo(out, v, ectx); err != nil {
				failed++
				cmdutil.ReportError(errOut, fmt.Sprintf("%s[%d]", input.Source, i), err)
			}
		}
	}

	return failures(failed, total)
}

func decodeInput(input cmdutil.Input, q query.Queryable, noEnumerate bool, dctx codec.DecodeContext) ([]any, error) {
	if q != nil {
		return decodeMatches(input, q, noEnumerate, dctx)
	}

	v, err := codec.DecodeDocument(input.Data, dctx)
	if err != nil {
		return nil, err
	}

	if noEnumerate {
		return []any{v}, nil
	}

	switch v := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	default:
		return []any{v}, nil
	}
}

func decodeMatches(input cmdutil.Input, q query.Queryable, noEnumerate bool, dctx codec.DecodeContext) ([]any, error) {
	docs, err := codec.ParseDocuments(input.Data)
	if err != nil {
		return nil, err
	}

	matches := query.Select(docs, q)
	vs := make([]any, 0, len(matches))
	for _, match := range matches {
		v, err := codec.Decode(match, dctx)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}

	if noEnumerate {
		return []any{vs}, nil
	}
	return vs, nil
}
