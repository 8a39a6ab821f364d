package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jboschlagos/Emmet-Cloude/internal/config"
	ierrors "github.com/Jboschlagos/Emmet-Cloude/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┬┐┌┬┐┌─┐┌┬┐
  ├┤ │││││││├┤  │
  └─┘┴ ┴┴ ┴└─┘ ┴
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ierrors.PrintError(err)
		os.Exit(1)
	}
}

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "emmet",
		Short: "Expand Emmet abbreviations into HTML",
		Long: `emmet turns CSS-selector-like abbreviations into indented HTML.

  div.card*3>h2+p{lorem5}   three cards with a heading and placeholder text
  ul>li.item$*5{Item $}     a numbered list
  !                         an HTML5 document skeleton

Besides one-off expansion it can run a live playground server and keep
expanded snippets in memory, on disk or in S3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to emmet.json or emmet.yaml (default: nearest in the working tree)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		expandCmd(g),
		loremCmd(),
		serveCmd(g),
		publishCmd(g),
		showCmd(g),
		listCmd(g),
		deleteCmd(g),
		pruneCmd(g),
		initCmd(),
		versionCmd(),
	)

	return rootCmd
}

// load resolves the configuration for a command and validates it.
func (g *globalFlags) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}

	if g.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
