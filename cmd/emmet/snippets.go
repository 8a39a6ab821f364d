package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	ierrors "github.com/Jboschlagos/Emmet-Cloude/internal/errors"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/emmet"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/snippets"
)

func publishCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <abbreviation...>",
		Short: "Expand an abbreviation and store it as a snippet",
		Long: `Expand an abbreviation and save the result in the configured
snippet store. The snippet id is printed on standard output.

Examples:
  emmet publish 'nav>ul>li*4>a'
  id=$(emmet publish '!')`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}

			abbr := strings.TrimSpace(strings.Join(args, " "))
			if abbr == "" {
				return ierrors.New("E141")
			}
			logger := cfg.Logger(cmd.ErrOrStderr())
			markup, err := emmet.New(append(cfg.ExpanderOptions(), emmet.WithLogger(logger))...).Expand(abbr)
			if err != nil {
				return err
			}

			store, err := openPersistentStore(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			id, err := store.Save(cmd.Context(), &snippets.Snippet{Abbreviation: abbr, Markup: markup})
			if err != nil {
				return ierrors.New("E081").Wrap(err)
			}

			logger.Debug("snippet saved", "id", id, "backend", cfg.Store.Backend)
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func showCmd(g *globalFlags) *cobra.Command {
	var withAbbr bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			sn, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return storeError(err, args[0])
			}

			out := cmd.OutOrStdout()
			if withAbbr {
				fmt.Fprintf(out, "<!-- %s -->\n", sn.Abbreviation)
			}
			fmt.Fprintln(out, sn.Markup)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withAbbr, "abbreviation", "a", false, "Print the abbreviation as a comment first")

	return cmd
}

func listCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snippets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			list, err := store.List(cmd.Context())
			if err != nil {
				return ierrors.New("E081").Wrap(err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tABBREVIATION")
			for _, sn := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", sn.ID, sn.CreatedAt.Format(time.DateTime), sn.Abbreviation)
			}
			return tw.Flush()
		},
	}
}

func deleteCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return storeError(err, args[0])
			}
			success(cmd.ErrOrStderr(), "Deleted %s", args[0])
			return nil
		},
	}
}

func pruneCmd(g *globalFlags) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete snippets older than a given age",
		Long: `Delete every snippet created more than --older-than ago.

Examples:
  emmet prune --older-than=720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return ierrors.New("E142").WithDetail("--older-than must be a positive duration.")
			}
			cfg, err := g.load()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if err := store.Cleanup(cmd.Context(), olderThan); err != nil {
				return ierrors.New("E081").Wrap(err)
			}
			success(cmd.ErrOrStderr(), "Removed snippets older than %s", olderThan)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Minimum age of removed snippets")

	return cmd
}

// storeError maps a store failure for id to a coded error.
func storeError(err error, id string) error {
	if errors.Is(err, snippets.ErrNotFound) {
		return ierrors.New("E080").
			WithDetail("No snippet with id " + id + ".").
			WithSuggestion("Run 'emmet list' to see stored snippets")
	}
	return ierrors.New("E081").Wrap(err)
}
