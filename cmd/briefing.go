package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newBriefingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefing <user>",
		Short: "Generate a daily briefing for one user",
		Long: `Analyze all unread mail across the user's active accounts and print
the generated briefing. The briefing is also stored under the data
directory so it can be retrieved later.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				b, err := a.briefings.Run(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Println(b.FullText)
				return nil
			})
		},
	}
	return cmd
}
