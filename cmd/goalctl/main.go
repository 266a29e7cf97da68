package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/goalkeeper/cmd/goalctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "goalctl",
		Short:         "Operator tools for goalkeeper",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	opts := cmd.BindDatabaseFlags(rootCmd)

	rootCmd.AddCommand(cmd.MigrateCmd(opts))
	rootCmd.AddCommand(cmd.UnitsCmd())
	rootCmd.AddCommand(cmd.GenerateCmd(opts))
	rootCmd.AddCommand(cmd.TokensCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
