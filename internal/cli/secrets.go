package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"leadhunt-engine/internal/secrets"
)

func newSecretsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage the GitHub API token in the OS keychain",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-github-token [token]",
		Short: "Store a GitHub token (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = strings.TrimSpace(line)
			}
			if err := secrets.SetGitHubToken(token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "GitHub token stored in keychain")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-github-token",
		Short: "Remove the stored GitHub token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.DeleteGitHubToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "GitHub token removed")
			return nil
		},
	})
	return cmd
}
