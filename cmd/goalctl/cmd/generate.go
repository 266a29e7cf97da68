package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/goalkeeper/internal/repository"
	"github.com/templui/goalkeeper/internal/service"
)

// GenerateCmd runs system goal generation for one user, the same way the API does.
func GenerateCmd(opts *DatabaseOptions) *cobra.Command {
	var email string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate missing system goals for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := opts.open()
			if err != nil {
				return err
			}
			defer database.Close()

			userRepository := repository.NewUserRepository(database)
			goalService := service.NewGoalService(
				repository.NewTransactor(database),
				repository.NewGoalRepository(database),
				repository.NewHistoryRepository(database),
				userRepository,
				nil,
				nil,
				seed,
			)

			user, err := userRepository.ByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("failed to find %s: %w", email, err)
			}

			goals, err := goalService.GenerateSystemGoals(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(goals) == 0 {
				fmt.Fprintln(out, "no goals generated, the user already has suggestions for every period")
				return nil
			}
			for _, goal := range goals {
				fmt.Fprintf(out, "%-10s %-6s %s\n", goal.Category, goal.Period, goal)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the user to generate goals for")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible generation (0 is random)")
	cmd.MarkFlagRequired("email")
	return cmd
}
