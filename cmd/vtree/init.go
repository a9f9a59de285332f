package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/errors"
)

func initCmd(g *globalFlags) *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default vtree.json",
		Long: `Create vtree.json with default settings in the project directory.

Examples:
  vtree init
  vtree init --name storefront`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := g.dir
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = wd
			}
			if config.Exists(dir) && !force {
				return errors.New("E120").
					WithDetail(filepath.Join(dir, config.ConfigFileName) + " already exists.").
					WithSuggestion("Pass --force to overwrite it.")
			}

			cfg := config.New()
			cfg.Name = name
			if cfg.Name == "" {
				cfg.Name = filepath.Base(dir)
			}
			path := filepath.Join(dir, config.ConfigFileName)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success("Created %s", path)
			info("Run 'vtree render' to see the %s component.", cfg.Root)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (default: directory name)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing vtree.json")

	return cmd
}
