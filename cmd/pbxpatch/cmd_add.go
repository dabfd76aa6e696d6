package main

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/soapywu/pbxpatch/pbxpatch"
	"github.com/soapywu/pbxpatch/plan"
)

var flagDryRun bool

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add the plan's source files and groups to the manifest",
	Long: `Reads the plan's file list and inserts a build-file record, a file
reference, a build-phase membership line and a group-children entry for each
file, creating missing groups along the way. The manifest is backed up before
mutation and restored byte for byte if anything fails.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print a unified diff instead of writing")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	pl, err := plan.Load(flagPlan)
	if err != nil {
		return err
	}
	if len(pl.Files) == 0 {
		return fmt.Errorf("plan %s declares no files to add", flagPlan)
	}

	additions := make([]pbxpatch.FileAddition, 0, len(pl.Files))
	for _, f := range pl.Files {
		additions = append(additions, pbxpatch.FileAddition{
			SourcePath: f.Path,
			GroupPath:  f.Group,
		})
	}

	patcher := pbxpatch.NewPatcher(flagProject,
		pbxpatch.WithRootGroup(pl.RootGroup),
		pbxpatch.WithLogger(newLogger()))

	if flagDryRun {
		before, after, result, err := patcher.Preview(additions)
		if err != nil {
			return err
		}
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(before),
			B:        difflib.SplitLines(after),
			FromFile: flagProject,
			ToFile:   flagProject + " (patched)",
			Context:  3,
		})
		if err != nil {
			return err
		}
		fmt.Print(diff)
		fmt.Printf("dry run: %d file(s) would be added, %d group(s) created\n",
			result.FilesAdded, len(result.GroupsCreated))
		return nil
	}

	result, err := patcher.Apply(additions)
	if err != nil {
		if result.RolledBack {
			fmt.Printf("patch failed, manifest restored from %s\n", result.BackupPath)
		}
		return err
	}

	fmt.Printf("added %d file(s) to %s\n", result.FilesAdded, flagProject)
	for _, g := range result.GroupsCreated {
		fmt.Printf("created group %s\n", g)
	}
	fmt.Printf("backup kept at %s\n", result.BackupPath)
	return nil
}
