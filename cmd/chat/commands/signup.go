package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loveloggy/loveloggy/internal/client"
	"github.com/loveloggy/loveloggy/internal/e2ee"
)

// signup creates the couple (no invite) or joins it (with --invite), then
// generates a key pair, keeps the private key locally and registers the
// public half.
func signupCmd() *cobra.Command {
	var (
		name      string
		email     string
		password  string
		invite    string
		startDate string
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create or join the couple and register an encryption key",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := api.Signup(client.SignupRequest{
				Name:       name,
				Email:      email,
				Password:   password,
				InviteCode: invite,
				StartDate:  startDate,
			})
			if err != nil {
				return err
			}

			priv, err := e2ee.GenerateKeyPair()
			if err != nil {
				return err
			}
			if err := saveKeyring(resp.User.ID, resp.User.Name, resp.User.Email, priv); err != nil {
				return err
			}
			jwk, err := e2ee.ExportPublicKey(priv.PublicKey())
			if err != nil {
				return err
			}
			if err := api.RegisterKey(resp.User.ID, jwk); err != nil {
				return err
			}

			if resp.Coupled {
				fmt.Printf("paired with %s\n", resp.Partner.Name)
			} else {
				fmt.Printf("couple created, share this invite code: %s\n", resp.InviteCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&invite, "invite", "", "invite code (join an existing couple)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "anniversary date (first user only)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
