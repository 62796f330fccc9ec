package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/appshelf/config"
	"github.com/sagarc03/appshelf/shelfcli"
)

var errCheckFailed = errors.New("catalog and apps directory disagree")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare the catalog with the packages on disk",
	Long: `Compare the metadata catalog with the apps directory and report:
  - catalog entries without a package on disk
  - packages on disk without a catalog entry
  - catalog categories without a directory

With --strict the command fails when any problem is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("json", false, "output JSON")
	checkCmd.Flags().BoolP("quiet", "q", false, "print problems only")
	checkCmd.Flags().Bool("strict", false, "exit with an error when problems are found")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	strict, _ := cmd.Flags().GetBool("strict")
	formatter := shelfcli.NewFormatter(jsonOutput, quiet)

	service, _, closeStorage, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	report, err := service.Check(ctx)
	if err != nil {
		_ = formatter.FormatError(cmd.ErrOrStderr(), err)
		return fmt.Errorf("check: %w", err)
	}

	if err := formatter.FormatReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if strict && !report.Clean() {
		return errCheckFailed
	}
	return nil
}
