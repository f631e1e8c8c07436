package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDraftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Review generated reply drafts",
		Long: `Drafts generated by the agent start out pending. List a user's
drafts, then approve one to push it into the account's Gmail drafts
folder, or reject it.`,
	}
	cmd.AddCommand(newDraftsListCmd())
	cmd.AddCommand(newDraftsApproveCmd())
	cmd.AddCommand(newDraftsRejectCmd())
	return cmd
}

func newDraftsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <user>",
		Short: "List a user's drafts, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				list, err := a.drafts.List(ctx, args[0])
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Println("No drafts.")
					return nil
				}
				for _, d := range list {
					fmt.Printf("%s  %-9s  %s  %q\n", d.ID, d.Status, d.To, d.Subject)
				}
				return nil
			})
		},
	}
}

func newDraftsApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <draft-id>",
		Short: "Approve a pending draft and push it to Gmail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.orchestrator.ApproveDraft(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Draft %s approved.\n", args[0])
				return nil
			})
		},
	}
}

func newDraftsRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <draft-id>",
		Short: "Reject a pending draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.orchestrator.RejectDraft(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Draft %s rejected.\n", args[0])
				return nil
			})
		},
	}
}
