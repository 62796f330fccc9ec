package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/appshelf/config"
	"github.com/sagarc03/appshelf/shelfcli"
)

var errInitCancelled = errors.New("cancelled")

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a new site",
	Long: `Create the layout of a new site in dir (default: the current directory):
  - apps/games/              sample category directory
  - apps_metadata.json       sample catalog
  - templates/index.html     page with every app
  - templates/android.html   page with android apps
  - static/style.css
  - config.yaml

Existing files are only overwritten after confirmation, or with --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite existing files without asking")
	initCmd.Flags().Bool("json", false, "output JSON")
	initCmd.Flags().BoolP("quiet", "q", false, "do not list skipped files")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	formatter := shelfcli.NewFormatter(jsonOutput, quiet)

	site := shelfcli.DefaultSiteConfig(cfg.Server.Port)
	site.Storage.AppsDir = cfg.Storage.AppsDir
	site.Storage.Catalog = cfg.Storage.Catalog
	site.Storage.TemplatesDir = cfg.Storage.TemplatesDir

	files, err := shelfcli.SkeletonFiles(site)
	if err != nil {
		return err
	}

	confirm := confirmOverwrite
	if force {
		confirm = func(string) (bool, error) { return true, nil }
	}

	results, err := shelfcli.Scaffold(dir, files, confirm)
	if errors.Is(err, errInitCancelled) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	return formatter.FormatScaffold(cmd.OutOrStdout(), results)
}

// confirmOverwrite asks before an existing file is replaced. Answering no
// skips the file, Ctrl+C cancels the whole run.
func confirmOverwrite(path string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s already exists. Overwrite it", path),
		IsConfirm: true,
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return false, errInitCancelled
	default:
		return false, fmt.Errorf("prompt: %w", err)
	}
}
