// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"

	"fjacquet/card-advisor/internal/config"
	"fjacquet/card-advisor/internal/container"
	"fjacquet/card-advisor/internal/logging"
	"fjacquet/card-advisor/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	Cards      string
	Output     string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppContainer holds the wired dependencies once PersistentPreRunE has run
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "card-advisor",
		Short: "A CLI tool that recommends which credit card to use for a purchase.",
		Long: `card-advisor classifies a merchant into a spending category and ranks your
cards by rewards earned, interest cost or interest-free float.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to card-advisor!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(SharedFlags.ConfigFile)
			if err != nil {
				return err
			}
			if SharedFlags.LogLevel != "" {
				if _, err := logrus.ParseLevel(SharedFlags.LogLevel); err != nil {
					return fmt.Errorf("invalid log level: %s", SharedFlags.LogLevel)
				}
				cfg.Log.Level = SharedFlags.LogLevel
			}
			if SharedFlags.Cards == "" {
				SharedFlags.Cards = cfg.Data.CardsFile
			}

			Log = config.ConfigureLogging(cfg)
			warnOnOpenPermissions(SharedFlags.ConfigFile)

			c, err := container.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			AppContainer = c
			logging.SetLogger(c.GetLogger())
			return nil
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Shutdown closes the container once a command has finished, including when
// the command failed.
func Shutdown() {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.Close(); err != nil {
		Log.Warnf("Failed to release resources: %v", err)
	}
	AppContainer = nil
}

// warnOnOpenPermissions warns when others can read the config file.
func warnOnOpenPermissions(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if err := validation.IsValidFilePermissions(info.Mode().Perm()); err != nil {
		Log.WithField("file_path", path).Warn(err.Error())
	}
}

// Init initializes the root command and all flags
func Init() {
	cobra.OnFinalize(Shutdown)

	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches $HOME/.card-advisor, .card-advisor and .)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Cards, "cards", "k", "", "Cards file (.yaml, .yml or .csv)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Write ranked results to this CSV file")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Override the configured log level")
}
