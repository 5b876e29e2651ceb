package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vesselworks/crewcomm/internal/config"
	"github.com/vesselworks/crewcomm/internal/msgtui"
)

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the messaging interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	if !hasTTY() {
		return fmt.Errorf("the interface requires an interactive terminal; use 'crewcomm contacts' or 'crewcomm send' in scripts")
	}

	cfg := GetConfig()
	client, err := newClient()
	if err != nil {
		return err
	}

	return msgtui.Run(msgtui.Config{
		Provider:       client,
		Theme:          cfg.TUI.Theme,
		ShowTimestamps: cfg.TUI.ShowTimestamps,
		QuickTemplates: cfg.TUI.QuickTemplates,
		ContextStore:   config.NewContextStore(cfg.ContextPath()),
	})
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
