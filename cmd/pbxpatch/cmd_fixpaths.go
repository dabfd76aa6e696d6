package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soapywu/pbxpatch/pbxpatch"
	"github.com/soapywu/pbxpatch/plan"
)

var fixPathsCmd = &cobra.Command{
	Use:   "fix-paths",
	Short: "Rewrite stored paths of the plan's file references",
	Long: `Applies the plan's path_fixes mapping: for each display name, the
matching PBXFileReference record's path field is rewritten to the corrected
relative path. Identifiers, build-file records and group memberships are left
untouched, and running the same mapping twice changes nothing further.`,
	RunE: runFixPaths,
}

func init() {
	rootCmd.AddCommand(fixPathsCmd)
}

func runFixPaths(cmd *cobra.Command, args []string) error {
	pl, err := plan.Load(flagPlan)
	if err != nil {
		return err
	}
	if len(pl.PathFixes) == 0 {
		return fmt.Errorf("plan %s declares no path_fixes", flagPlan)
	}

	patcher := pbxpatch.NewPatcher(flagProject, pbxpatch.WithLogger(newLogger()))
	result, err := patcher.FixPaths(pl.PathFixes)
	if err != nil {
		if result.RolledBack {
			fmt.Printf("fix-paths failed, manifest restored from %s\n", result.BackupPath)
		}
		return err
	}

	fmt.Printf("rewrote %d path(s) in %s\n", result.PathsRewritten, flagProject)
	fmt.Printf("backup kept at %s\n", result.BackupPath)
	return nil
}
