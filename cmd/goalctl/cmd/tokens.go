package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/goalkeeper/internal/repository"
)

// TokensCmd groups maintenance of password reset and invitation tokens.
func TokensCmd(opts *DatabaseOptions) *cobra.Command {
	tokens := &cobra.Command{
		Use:   "tokens",
		Short: "Manage single-use tokens",
	}

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete used and expired tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := opts.open()
			if err != nil {
				return err
			}
			defer database.Close()

			removed, err := repository.NewTokenRepository(database).CleanupExpired(cmd.Context(), olderThan)
			if err != nil {
				return fmt.Errorf("failed to prune tokens: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %d tokens\n", removed)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "keep tokens newer than this")

	tokens.AddCommand(prune)
	return tokens
}
