package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pairing status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := api.Status()
			if err != nil {
				return err
			}
			if st.Coupled {
				fmt.Printf("paired: %s + %s", st.User1.Name, st.User2.Name)
				if st.PairedAt != nil {
					fmt.Printf(" (since %s)", st.PairedAt.Format("2006-01-02"))
				}
				fmt.Println()
			} else if st.User1 != nil {
				fmt.Printf("waiting for partner, invite code: %s\n", st.InviteCode)
			} else {
				fmt.Println("empty, nobody signed up yet")
			}
			if st.StartDate != "" {
				fmt.Printf("together since %s\n", st.StartDate)
			}
			return nil
		},
	}
}
