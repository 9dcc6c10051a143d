package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

func newCleanCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the output root and everything below it",
		Long: `clean removes every file and directory below the output root, then the root
itself. It is idempotent: cleaning an absent root succeeds with nothing removed.

Symbolic links pointing outside the root are reported and left alone. Entries
that cannot be removed are listed and make the command exit with status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := s.load(cmd.Context())
			if err != nil {
				return err
			}

			res := o.Clean(cmd.Context())
			for _, w := range res.Warnings {
				warnColor.Fprintf(s.errW, "skipped %s: %s -> %s\n", w.Kind, w.Path, w.Target)
			}
			for _, f := range res.Failures {
				failColor.Fprintf(s.errW, "failed  %s: %v\n", f.Path, f.Err)
			}
			fmt.Fprintf(s.outW, "removed %d entries from %s\n", res.Removed, res.Root)

			if !res.OK() {
				return &ExitError{
					Code:    ExitFailure,
					Message: fmt.Sprintf("clean left %d path(s) behind", len(res.Failures)),
				}
			}
			return nil
		},
	}
}

func newOrderCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print projects in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := s.load(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range o.EvaluationOrder() {
				fmt.Fprintln(s.outW, id)
			}
			return nil
		},
	}
}

func newPathsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "paths [project...]",
		Short: "Print output directories, in evaluation order or for the named projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := s.load(cmd.Context())
			if err != nil {
				return err
			}

			ids := args
			if len(ids) == 0 {
				fmt.Fprintf(s.outW, "%s\t%s\n", ":root", o.Root())
				ids = o.EvaluationOrder()
			}
			for _, id := range ids {
				p, err := o.OutputPathOf(id)
				if err != nil {
					return &ExitError{Code: ExitFailure, Message: err.Error()}
				}
				fmt.Fprintf(s.outW, "%s\t%s\n", id, p)
			}
			return nil
		},
	}
}

func newValidateCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check declarations without touching the filesystem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := s.load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(s.outW, "ok: %d projects, output root %s\n", len(o.Projects()), o.Root())
			for _, ext := range o.Extensions() {
				fmt.Fprintf(s.outW, "pass-through %s %v (%s)\n", ext.Kind, ext.Labels, ext.Source)
			}
			return nil
		},
	}
}
