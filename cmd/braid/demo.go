package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/braid/internal/diagram"
	"github.com/born-ml/braid/internal/functor"
	"github.com/born-ml/braid/internal/serialization"
	"github.com/born-ml/braid/internal/tensor"
)

func newDemoCmd() *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Evaluate a few small diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			two := diagram.MustDim(2)

			demos := []struct {
				title string
				build func() (*diagram.Diagram, error)
			}{
				{"swap", func() (*diagram.Diagram, error) { return diagram.Swap(two, two), nil }},
				{"A then B", func() (*diagram.Diagram, error) {
					a, err := arrayBox("A", two, two, 1, 2, 3, 4)
					if err != nil {
						return nil, err
					}
					b, err := arrayBox("B", two, two, 0, 1, 1, 0)
					if err != nil {
						return nil, err
					}
					return a.Diagram().Then(b.Diagram())
				}},
				{"bell", bell},
			}

			arrays := make(map[string]*tensor.RawTensor, len(demos))
			diagrams := make(map[string]string, len(demos))
			for _, demo := range demos {
				d, err := demo.build()
				if err != nil {
					return err
				}
				t, err := functor.Eval(d)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n%s\n", demo.title, d, formatMatrix(t))
				arrays[demo.title] = t.Array()
				diagrams[demo.title] = d.String()
			}

			if save == "" {
				return nil
			}
			if err := serialization.WriteFile(save, arrays, diagrams); err != nil {
				return err
			}
			logger.Info("saved", "path", save, "arrays", len(arrays))
			return nil
		},
	}
	cmd.Flags().StringVarP(&save, "save", "o", "", "write the evaluated arrays to a .braid archive")
	return cmd
}

func arrayBox(name string, dom, cod diagram.Ty, data ...float64) (*diagram.Box, error) {
	raw, err := tensor.FromFloat64(tensor.Shape{len(data)}, data...)
	if err != nil {
		return nil, err
	}
	return diagram.NewBox(name, dom, cod, diagram.WithData(diagram.NewArray(raw))), nil
}

// bell prepares (|00> + |11>)/sqrt(2) from two zero kets.
func bell() (*diagram.Diagram, error) {
	two := diagram.MustDim(2)
	unit := diagram.MustTy()
	h := 1 / math.Sqrt2

	ket0, err := arrayBox("0", unit, two, 1, 0)
	if err != nil {
		return nil, err
	}
	hadamard, err := arrayBox("H", two, two, h, h, h, -h)
	if err != nil {
		return nil, err
	}
	cnot, err := arrayBox("CX", two.Tensor(two), two.Tensor(two),
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0)
	if err != nil {
		return nil, err
	}
	return ket0.Diagram().Tensor(ket0.Diagram()).Then(
		hadamard.Diagram().Tensor(diagram.Id(two)),
		cnot.Diagram(),
	)
}

// formatMatrix prints one row per domain basis state.
func formatMatrix(t *functor.Tensor) string {
	m := t.Matrix()
	cols := m.Shape()[1]
	var sb strings.Builder
	for i := 0; i < m.NumElements(); i += cols {
		sb.WriteString("  [")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatEntry(m.ScalarAt(i + j)))
		}
		sb.WriteString("]\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func formatEntry(s tensor.Scalar) string {
	v, ok := tensor.ValueOf(s)
	switch {
	case !ok:
		return s.String()
	case imag(v) == 0:
		return fmt.Sprintf("%.4f", real(v))
	default:
		return fmt.Sprintf("%.4f", v)
	}
}
