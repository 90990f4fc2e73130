package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/braid/internal/serialization"
	"github.com/born-ml/braid/internal/tensor"
)

func newInspectCmd() *cobra.Command {
	var values bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the arrays stored in a .braid archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arrays, header, err := serialization.ReadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (format %d, braid %s)\n", args[0], header.FormatVersion, header.BraidVersion)
			for _, meta := range header.Arrays {
				fmt.Fprintf(out, "  %-12s %-10s %v", meta.Name, meta.DType, meta.Shape)
				if d, ok := header.Metadata[meta.Name]; ok {
					fmt.Fprintf(out, "  %s", d)
				}
				fmt.Fprintln(out)
				if values {
					fmt.Fprintf(out, "    %s\n", formatValues(arrays[meta.Name]))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&values, "values", "v", false, "print array entries")
	return cmd
}

func formatValues(raw *tensor.RawTensor) string {
	s := "["
	for i := 0; i < raw.NumElements(); i++ {
		if i > 0 {
			s += " "
		}
		s += formatEntry(raw.ScalarAt(i))
	}
	return s + "]"
}
