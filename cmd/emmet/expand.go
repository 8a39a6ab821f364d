package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	ierrors "github.com/Jboschlagos/Emmet-Cloude/internal/errors"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/emmet"
)

func expandCmd(g *globalFlags) *cobra.Command {
	var (
		indent    string
		maxDepth  int
		maxLength int
	)

	cmd := &cobra.Command{
		Use:   "expand [abbreviation...]",
		Short: "Expand an abbreviation",
		Long: `Expand an abbreviation and print the markup.

Arguments are joined with spaces into one abbreviation. Without
arguments every non-blank line of standard input is expanded on its own.
Quote abbreviations that contain shell metacharacters such as > or *.

Examples:
  emmet expand 'div.card*3>h2+p{lorem5}'
  emmet expand '!' > index.html
  emmet expand --indent=$'\t' 'ul>li*3'
  cat abbreviations.txt | emmet expand`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}

			opts := cfg.ExpanderOptions()
			if cmd.Flags().Changed("indent") {
				opts = append(opts, emmet.WithIndent(indent))
			}
			if cmd.Flags().Changed("max-depth") {
				opts = append(opts, emmet.WithMaxDepth(maxDepth))
			}
			if cmd.Flags().Changed("max-length") {
				opts = append(opts, emmet.WithMaxInputLength(maxLength))
			}
			opts = append(opts, emmet.WithLogger(cfg.Logger(cmd.ErrOrStderr())))
			exp := emmet.New(opts...)

			abbrs := []string{strings.Join(args, " ")}
			if len(args) == 0 {
				abbrs, err = readLines(cmd)
				if err != nil {
					return err
				}
			}
			if len(abbrs) == 0 || strings.TrimSpace(abbrs[0]) == "" {
				return ierrors.New("E141").
					WithExample("emmet expand 'ul>li*3'")
			}

			out := cmd.OutOrStdout()
			for _, abbr := range abbrs {
				markup, err := exp.Expand(abbr)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, markup)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indent, "indent", "", "Indent unit (default from config, two spaces)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum nesting depth, 0 disables the check")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "Maximum abbreviation length in bytes, 0 disables the check")

	return cmd
}

// readLines returns the non-blank lines of the command's standard input.
func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), emmet.DefaultMaxInputLength*4)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, ierrors.New("E142").WithDetail("Reading standard input: " + err.Error()).Wrap(err)
	}
	return lines, nil
}

func loremCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lorem [words]",
		Short: "Print placeholder text",
		Long: `Print placeholder text, 30 words unless a count is given.

Examples:
  emmet lorem
  emmet lorem 12`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				text, err := emmet.New().Expand("lorem")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return ierrors.New("E142").
					WithDetail(fmt.Sprintf("Word count %q is not a non-negative integer.", args[0])).
					WithExample("emmet lorem 12")
			}
			fmt.Fprintln(cmd.OutOrStdout(), emmet.PlaceholderText(n))
			return nil
		},
	}
}
