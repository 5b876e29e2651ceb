package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vesselworks/crewcomm/internal/models"
)

var contactsRoleFlag []string

func init() {
	contactsCmd.Flags().StringSliceVar(&contactsRoleFlag, "role", nil, "filter by role (crew, health, emergency, inventory, admin)")
	rootCmd.AddCommand(contactsCmd)
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List reachable crew contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		roleFilter, err := parseRoles(contactsRoleFlag)
		if err != nil {
			return err
		}

		contacts, err := client.LoadDirectory(cmd.Context(), roleFilter)
		if err != nil {
			return fmt.Errorf("load directory: %w", err)
		}
		if len(contacts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no contacts")
			return nil
		}

		rows := make([][]string, 0, len(contacts))
		for _, contact := range contacts {
			presence := "offline"
			if contact.Online() {
				presence = "online"
			}
			rows = append(rows, []string{
				contact.ID,
				contact.DisplayName,
				contact.RoleLabel,
				contact.DepartmentLabel,
				presence,
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"ID", "NAME", "ROLE", "DEPARTMENT", "PRESENCE"}, rows)
	},
}

func parseRoles(values []string) ([]models.Role, error) {
	if len(values) == 0 {
		return nil, nil
	}
	roles := make([]models.Role, 0, len(values))
	for _, value := range values {
		role := models.Role(value)
		if !role.Known() {
			return nil, fmt.Errorf("unknown role %q (valid: crew, health, emergency, inventory, admin)", value)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
