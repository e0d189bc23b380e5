package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/loveloggy/loveloggy/internal/client"
)

var (
	home      string
	serverURL string

	api *client.Client
)

// Execute runs the chat CLI.
func Execute() error {
	root := &cobra.Command{
		Use:           "chat",
		Short:         "End-to-end encrypted couple chat client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".loveloggy")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			api = client.New(serverURL)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.loveloggy)")
	root.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:3000", "server base URL")

	root.AddCommand(signupCmd(), statusCmd(), sendCmd(), inboxCmd())
	return root.Execute()
}
