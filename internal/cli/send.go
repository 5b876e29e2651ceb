package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vesselworks/crewcomm/internal/api"
	"github.com/vesselworks/crewcomm/internal/logging"
	"github.com/vesselworks/crewcomm/internal/models"
)

var sendUrgentFlag bool

func init() {
	sendCmd.Flags().BoolVar(&sendUrgentFlag, "urgent", false, "flag the message as urgent")
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send <contact-id> <message...>",
	Short: "Send a single message from the shell",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		contactID := args[0]
		content := strings.TrimSpace(strings.Join(args[1:], " "))
		if content == "" {
			return fmt.Errorf("message content is empty")
		}

		priority := models.PriorityNormal
		if sendUrgentFlag {
			priority = models.PriorityUrgent
		}

		if err := client.SendMessage(cmd.Context(), api.SendRequest{
			ToID:     contactID,
			Content:  content,
			Priority: priority,
		}); err != nil {
			return fmt.Errorf("send message: %w", err)
		}

		logger := logging.WithContact(contactID)
		logger.Info().
			Str("priority", string(priority)).
			Msg("message sent")
		fmt.Fprintln(cmd.OutOrStdout(), "sent")
		return nil
	},
}
