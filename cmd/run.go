package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one processing cycle",
		Long: `Process unread mail once and exit.

With --user, only that user's inboxes are processed and the cycle
summary is printed. Without it, every user in the directory gets a
cycle (a fleet run).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if userID != "" {
					result := a.orchestrator.RunCycle(ctx, userID)
					fmt.Println(result.Summary())
					return nil
				}

				entry, err := a.fleet.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Fleet run: %d users, %d emails, %d failures (%.1fs)\n",
					entry.UsersProcessed, entry.TotalEmails, entry.Failures, entry.ElapsedSeconds)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "process only this user")
	return cmd
}
