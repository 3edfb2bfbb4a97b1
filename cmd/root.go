package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/emutrace/emutrace/trace"
)

var logLevel string // Log verbosity level

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "emutrace",
	Short: "Composable synthetic network trace generator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// configFormat picks the wire form from a file extension: YAML carries the
// humanized encoding, everything else the structured JSON encoding.
func configFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func decodeConfigFile[S any](r *trace.Registry[S], path string) (trace.Config[S], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if configFormat(path) == "yaml" {
		return r.DecodeYAML(data)
	}
	return r.DecodeJSON(data)
}

func encodeConfig[S any](r *trace.Registry[S], cfg trace.Config[S], format string) ([]byte, error) {
	if format == "yaml" {
		return r.EncodeYAML(cfg)
	}
	return r.EncodeJSON(cfg)
}
