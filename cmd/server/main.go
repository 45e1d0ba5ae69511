package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/config"
	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/logger"
)

var (
	configFile string
	portFlag   string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "kisan-sathi",
	Short: "Agricultural question answering API",
	Long: `kisan-sathi answers farmers' questions: it searches for supporting snippets,
builds a grounded prompt and asks a language model. Without a subcommand it serves HTTP.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML configuration file (overrides defaults, overridden by env)")
	rootCmd.PersistentFlags().StringVarP(&portFlag, "port", "p", "", "HTTP port (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd, askCmd)
}

// loadConfig applies the layers: defaults → file → env → flags, then sets up logging.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if portFlag != "" {
		cfg.Port = portFlag
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// main is the single entry‑point for the REST API and CLI.
func main() {
	logger.Init("info", "console")
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
