// Package cli wires the crewcomm command tree: the default TUI entry
// plus scriptable subcommands for directory listing and one-shot sends.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vesselworks/crewcomm/internal/api"
	"github.com/vesselworks/crewcomm/internal/config"
	"github.com/vesselworks/crewcomm/internal/logging"
	"github.com/vesselworks/crewcomm/internal/models"
)

var (
	cfgFile    string
	appConfig  *config.Config
	appVersion = "dev"

	// logFile is held open for the process lifetime when logging.file
	// is configured.
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "crewcomm",
	Short: "Crew messaging client",
	Long: `CrewComm is the onboard crew-health messaging client.

Run without arguments to open the interactive interface. Subcommands
cover scripted use: listing the contact directory and sending a single
message from the shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the command tree.
func Execute(version string) error {
	appVersion = version
	defer closeLogFile()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/crewcomm/config.yaml)")
	return rootCmd.Execute()
}

// GetConfig returns the loaded configuration. Nil before initApp runs.
func GetConfig() *config.Config {
	return appConfig
}

func initApp() error {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	output := io.Writer(os.Stderr)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		output = f
	}
	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       output,
		EnableCaller: cfg.Logging.EnableCaller,
	})

	return nil
}

func closeLogFile() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// operatorIdentity returns the configured operator, failing with a
// setup hint when the identity is incomplete.
func operatorIdentity(cfg *config.Config) (models.Operator, error) {
	operator := cfg.Operator.Model()
	if operator.ID == "" {
		return models.Operator{}, fmt.Errorf("operator.id is not configured; set it in %s or via CREWCOMM_OPERATOR_ID", "~/.config/crewcomm/config.yaml")
	}
	return operator, nil
}

// newClient builds the message service client from the loaded config.
func newClient() (*api.Client, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	operator, err := operatorIdentity(cfg)
	if err != nil {
		return nil, err
	}
	logger := logging.WithOperator(operator.ID)
	logger.Debug().
		Str("server", cfg.Server.URL).
		Msg("message service client ready")
	return api.New(cfg.Server.URL, operator, cfg.Server.Timeout), nil
}
