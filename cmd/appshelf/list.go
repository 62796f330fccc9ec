package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/appshelf/config"
	"github.com/sagarc03/appshelf/shelfcli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the apps a page would show",
	Long: `List the categories and apps that would be rendered, optionally
filtered by app type (for example --app-type android).`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("app-type", "", "only list apps of this type")
	listCmd.Flags().Bool("json", false, "output JSON")
	listCmd.Flags().BoolP("quiet", "q", false, "print download URLs only")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	appType, _ := cmd.Flags().GetString("app-type")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	formatter := shelfcli.NewFormatter(jsonOutput, quiet)

	service, _, closeStorage, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	sections, err := service.Sections(ctx, appType)
	if err != nil {
		_ = formatter.FormatError(cmd.ErrOrStderr(), err)
		return fmt.Errorf("list: %w", err)
	}

	return formatter.FormatSections(cmd.OutOrStdout(), sections)
}
