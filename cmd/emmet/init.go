package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Jboschlagos/Emmet-Cloude/internal/config"
	ierrors "github.com/Jboschlagos/Emmet-Cloude/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		dir     string
		useYAML bool
		backend string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write emmet.json (or emmet.yaml with --yaml) with the default
settings into the current directory.

Examples:
  emmet init
  emmet init --yaml --backend=disk`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = wd
			}
			if config.Exists(dir) {
				return ierrors.New("E140").
					WithDetail("A configuration file already exists in " + dir + ".").
					WithSuggestion("Edit the existing file instead")
			}

			cfg := config.New()
			if backend != "" {
				cfg.Store.Backend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			name := config.ConfigFileName
			if useYAML {
				name = "emmet.yaml"
			}
			path := filepath.Join(dir, name)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			success(cmd.ErrOrStderr(), "Created %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write to (default: working directory)")
	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Write emmet.yaml instead of emmet.json")
	cmd.Flags().StringVar(&backend, "backend", "", "Snippet store backend: memory, disk or s3")

	return cmd
}
