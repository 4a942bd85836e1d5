package main

import (
	"runtime/debug"
	"strings"

	"github.com/speakeasy-api/yamlcodec/cmd/yamlcodec/commands/cmdutil"
	convertCmd "github.com/speakeasy-api/yamlcodec/cmd/yamlcodec/commands/convert"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// getVersionInfo returns version information, prioritizing ldflags values over build info
func getVersionInfo() (string, string, string) {
	if version != "dev" || commit != "none" || date != "unknown" {
		return version, commit, date
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}

	moduleVersion := version
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		moduleVersion = buildInfo.Main.Version
	}

	vcsCommit := commit
	vcsTime := date

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) >= 7 {
				vcsCommit = setting.Value[:7] // Short commit hash
			} else {
				vcsCommit = setting.Value
			}
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	return moduleVersion, vcsCommit, vcsTime
}

var rootCmd = &cobra.Command{
	Use:   "yamlcodec",
	Short: "Convert between YAML documents and typed generic values",
	Long: `Convert between YAML documents and typed generic values.

This CLI provides tools for:
- Decoding YAML into values that keep the type of every scalar, printed as JSON lines
- Selecting parts of a document with JSONPath before decoding
- Re-encoding YAML or JSON so that every string survives a round trip unchanged`,
	Version:       version,
	SilenceErrors: true,
}

func init() {
	currentVersion, currentCommit, currentDate := getVersionInfo()

	rootCmd.Version = currentVersion

	var versionTemplate strings.Builder
	versionTemplate.WriteString(`{{printf "%s" .Version}}`)

	if currentCommit != "none" && currentCommit != "" {
		versionTemplate.WriteString("\nBuild: " + currentCommit)
	}

	if currentDate != "unknown" && currentDate != "" {
		versionTemplate.WriteString("\nBuilt: " + currentDate)
	}

	rootCmd.SetVersionTemplate(versionTemplate.String())

	convertCmd.Apply(rootCmd)

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log decoding diagnostics to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cmdutil.Die(err)
	}
}
