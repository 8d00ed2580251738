package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-insights/internal/config"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "kanso",
	Short: "Habit analytics and rollup engine",
	Long: `Kanso turns habit completions into daily, weekly, monthly and annual
reports: progress, streaks, rankings and period comparisons.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides log.level from the config")
}

// loadConfig reads the configuration and applies the log level.
func loadConfig() (config.Application, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Application{}, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Application{}, fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	return cfg, nil
}
