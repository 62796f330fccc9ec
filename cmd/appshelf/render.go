package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/appshelf"
	"github.com/sagarc03/appshelf/config"
)

var renderCmd = &cobra.Command{
	Use:   "render [route]",
	Short: "Render a page to stdout",
	Long: `Render one of the configured pages exactly as the server would and
write it to stdout, or to a file with --output. The route defaults to /.

Useful to publish the catalog as static files or to debug a template.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "write the page to this file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	route := "/"
	if len(args) == 1 {
		route = args[0]
	}

	page, ok := findPage(cfg.Pages, route)
	if !ok {
		return fmt.Errorf("no page configured for route %q", route)
	}

	service, _, closeStorage, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	body, err := service.RenderPage(ctx, page)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := os.WriteFile(output, body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		return nil
	}

	_, err = cmd.OutOrStdout().Write(body)
	return err
}

func findPage(pages []appshelf.Page, route string) (appshelf.Page, bool) {
	for _, p := range pages {
		if p.Route == route {
			return p, true
		}
	}
	return appshelf.Page{}, false
}
