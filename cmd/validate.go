package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/emutrace/emutrace/trace"
	_ "github.com/emutrace/emutrace/trace/model"
)

var validateKind string // Characteristic kind the config describes

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Decode and validate a trace config",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		tag, err := validateConfigFile(path, validateKind)
		if err != nil {
			logrus.Fatalf("Validation failed: %v", err)
		}
		fmt.Printf("%s: valid %s config (%s)\n", path, validateKind, tag)
	},
}

func validateConfigFile(path, kind string) (string, error) {
	switch kind {
	case "bandwidth":
		cfg, err := decodeConfigFile(trace.BwConfigs, path)
		if err != nil {
			return "", err
		}
		return cfg.Tag(), nil
	case "delay":
		cfg, err := decodeConfigFile(trace.DelayConfigs, path)
		if err != nil {
			return "", err
		}
		return cfg.Tag(), nil
	case "loss":
		cfg, err := decodeConfigFile(trace.LossConfigs, path)
		if err != nil {
			return "", err
		}
		return cfg.Tag(), nil
	case "duplicate":
		cfg, err := decodeConfigFile(trace.DuplicateConfigs, path)
		if err != nil {
			return "", err
		}
		return cfg.Tag(), nil
	case "packet-delay":
		cfg, err := decodeConfigFile(trace.PktDelayConfigs, path)
		if err != nil {
			return "", err
		}
		return cfg.Tag(), nil
	}
	return "", fmt.Errorf("unknown kind %q (want bandwidth, delay, loss, duplicate or packet-delay)", kind)
}

// reencodeJSON decodes the config at path and re-encodes it in the
// structured JSON form.
func reencodeJSON(path, kind string) ([]byte, error) {
	switch kind {
	case "bandwidth":
		cfg, err := decodeConfigFile(trace.BwConfigs, path)
		if err != nil {
			return nil, err
		}
		return trace.BwConfigs.EncodeJSON(cfg)
	case "delay":
		cfg, err := decodeConfigFile(trace.DelayConfigs, path)
		if err != nil {
			return nil, err
		}
		return trace.DelayConfigs.EncodeJSON(cfg)
	case "loss":
		cfg, err := decodeConfigFile(trace.LossConfigs, path)
		if err != nil {
			return nil, err
		}
		return trace.LossConfigs.EncodeJSON(cfg)
	case "duplicate":
		cfg, err := decodeConfigFile(trace.DuplicateConfigs, path)
		if err != nil {
			return nil, err
		}
		return trace.DuplicateConfigs.EncodeJSON(cfg)
	case "packet-delay":
		cfg, err := decodeConfigFile(trace.PktDelayConfigs, path)
		if err != nil {
			return nil, err
		}
		return trace.PktDelayConfigs.EncodeJSON(cfg)
	}
	return nil, fmt.Errorf("unknown kind %q (want bandwidth, delay, loss, duplicate or packet-delay)", kind)
}

func init() {
	validateCmd.Flags().StringVar(&validateKind, "kind", "bandwidth", "Characteristic kind (bandwidth, delay, loss, duplicate, packet-delay)")
	rootCmd.AddCommand(validateCmd)
}
