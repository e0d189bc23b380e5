package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loveloggy/loveloggy/internal/e2ee"
)

// inbox: fetch the full history and open every message with the shared
// key. Entries that fail authentication are reported, never skipped
// silently.
func inboxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inbox",
		Short: "Fetch and decrypt the message history",
		RunE: func(cmd *cobra.Command, args []string) error {
			kr, priv, err := loadKeyring()
			if err != nil {
				return err
			}
			key, err := sharedKey(kr, priv)
			if err != nil {
				return err
			}

			msgs, err := api.Messages()
			if err != nil {
				return err
			}
			for _, m := range msgs {
				when := m.CreatedAt.Local().Format("2006-01-02 15:04")
				payload, err := e2ee.OpenPayload(key, e2ee.Envelope{Ciphertext: m.Ciphertext, IV: m.IV})
				if err != nil {
					fmt.Printf("[%s] %s: <unreadable: %v>\n", when, m.SenderName, err)
					continue
				}
				switch p := payload.(type) {
				case map[string]any:
					if text, ok := p["text"].(string); ok {
						fmt.Printf("[%s] %s: %s\n", when, m.SenderName, text)
						continue
					}
					fmt.Printf("[%s] %s: %v\n", when, m.SenderName, p)
				default:
					fmt.Printf("[%s] %s: %v\n", when, m.SenderName, p)
				}
			}
			return nil
		},
	}
}
