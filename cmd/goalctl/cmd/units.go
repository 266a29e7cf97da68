package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/templui/goalkeeper/internal/model"
)

func UnitsCmd() *cobra.Command {
	var exerciseOnly bool

	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the units goals can be measured in",
		RunE: func(cmd *cobra.Command, args []string) error {
			units := model.Units()
			if exerciseOnly {
				units = model.ExerciseUnits()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UNIT\tLABEL\tMINIMUM")
			for _, unit := range units {
				minimum := "-"
				if unit.Minimum() > 0 {
					minimum = fmt.Sprint(unit.Minimum())
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", string(unit), unit.Label(), minimum)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&exerciseOnly, "exercise", false, "only list exercise units")
	return cmd
}
