package convert

import (
	"github.com/speakeasy-api/yamlcodec/errors"
	"github.com/spf13/cobra"
)

// ErrInputsFailed is returned when at least one input could not be converted.
const ErrInputsFailed = errors.Error("conversion failed")

func Apply(rootCmd *cobra.Command) {
	rootCmd.AddCommand(fromYAMLCmd)
	rootCmd.AddCommand(toYAMLCmd)
}

func failures(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return ErrInputsFailed.Wrapf("%d of %d items failed", failed, total)
}
