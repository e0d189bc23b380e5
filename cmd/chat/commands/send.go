package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loveloggy/loveloggy/internal/e2ee"
)

// chatPayload is the structured plaintext sealed into each message.
type chatPayload struct {
	Text string `json:"text"`
	From string `json:"from"`
}

// send <message>: seal a message with the shared key and post it.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>",
		Short: "Encrypt and send a message to your partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, priv, err := loadKeyring()
			if err != nil {
				return err
			}
			key, err := sharedKey(kr, priv)
			if err != nil {
				return err
			}
			env, err := e2ee.SealPayload(key, chatPayload{Text: args[0], From: kr.Name})
			if err != nil {
				return err
			}
			if err := api.SendMessage(kr.UserID, kr.Name, env); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}
}
