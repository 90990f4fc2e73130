package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/born-ml/braid/internal/config"
	"github.com/born-ml/braid/internal/functor"
	"github.com/born-ml/braid/internal/laws"
)

func newLawsCmd(settings func() *config.Config) *cobra.Command {
	var structural bool

	cmd := &cobra.Command{
		Use:   "laws",
		Short: "Check the symmetric monoidal axioms on sample generators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checker := &laws.Checker{Tolerance: settings().Tolerance}
			if !structural {
				checker.Functor = functor.New()
			}

			results, err := checker.Check(laws.DefaultSample())
			if err != nil {
				return err
			}
			for _, r := range results {
				status := "ok"
				if !r.OK() {
					status = "FAIL"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", r.Law, status)
				if r.Err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "    %v\n", r.Err)
				}
			}

			if failed := laws.Failed(results); len(failed) > 0 {
				return errors.Errorf("%d of %d laws failed", len(failed), len(results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&structural, "structural", false, "compare canonical forms only, skip evaluation")
	return cmd
}
