// Command pbxpatch adds source files and folder groups to an Xcode
// project.pbxproj manifest, and fixes up stored file paths, without parsing
// the full manifest grammar. See the plan package for the change-set format.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagProject string
	flagPlan    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "pbxpatch",
	Short:         "Patch an Xcode project.pbxproj manifest",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", "", "path to project.pbxproj (required)")
	rootCmd.PersistentFlags().StringVar(&flagPlan, "plan", "", "path to the YAML change-set plan (required)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log every structural step")
	rootCmd.MarkPersistentFlagRequired("project")
	rootCmd.MarkPersistentFlagRequired("plan")
}

func newLogger() *zap.Logger {
	if !flagVerbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
