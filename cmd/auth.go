package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxpilot/internal/google"
)

func newAuthCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "auth <account>",
		Short: "Authorize a Google account",
		Long: `Run the OAuth flow for one Gmail account. Prints the authorization
URL, then exchanges the code you paste back for a token stored in the
local token cache.

The OAuth client comes from the INBOXPILOT_GOOGLE_CLIENT_ID and
INBOXPILOT_GOOGLE_CLIENT_SECRET environment variables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := args[0]

			if google.HasTokenForAccount(account) {
				fmt.Printf("Account %s already has a token; continuing replaces it.\n", account)
			}

			if code == "" {
				fmt.Printf("Visit this URL to authorize %s:\n\n  %s\n\nPaste the authorization code: ", account, google.GetAuthURL())
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read authorization code: %w", err)
				}
				code = strings.TrimSpace(line)
			}
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := google.SaveTokenForAccount(cmd.Context(), account, code); err != nil {
				return err
			}
			fmt.Printf("Token saved for %s.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "authorization code (skips the interactive prompt)")
	return cmd
}
