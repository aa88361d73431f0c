package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/skyops/app"
	"github.com/kilianp07/skyops/config"
)

var (
	cfgPath string
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:           "skyops",
	Short:         "Drone operations coordinator",
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON instead of tables")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the config file. A missing default file falls back to
// environment variables and defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := cfgPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// withService builds the service for a one-shot command. MQTT and metrics
// stay off since they would not outlive the command; the audit recorder is
// drained by Close.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Service) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.MQTT.Enabled = false
	cfg.Metrics.Sinks = nil
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "service close: %v\n", err)
		}
	}()
	svc.Start(cmd.Context())
	return fn(cmd.Context(), svc)
}
