package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stocklab/stocklab/strategy"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available strategies and their parameters",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, spec := range strategy.DefaultRegistry().Specs() {
			cmd.Printf("%s  (%s)\n", spec.ID, spec.Name)
			for _, p := range spec.Params {
				cmd.Printf("    %-12s %-6s default=%-8v range [%v, %v]\n",
					p.Name, p.Type, p.Default, p.Min, p.Max)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
