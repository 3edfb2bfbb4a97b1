package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	_ "github.com/emutrace/emutrace/trace/model"
)

var inspectKind string // Characteristic kind, needed to re-encode YAML input

var inspectCmd = &cobra.Command{
	Use:   "inspect <config-file> <path>",
	Short: "Query a config with a gjson path",
	Long:  "Query a config file with a gjson path expression, e.g. 'StaticBw.bw' or 'RepeatedBwPattern.pattern.#'. YAML configs are converted to the structured JSON form before querying.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		path, query := args[0], args[1]
		data, err := inspectJSON(path, inspectKind)
		if err != nil {
			logrus.Fatalf("Loading config failed: %v", err)
		}
		result := gjson.GetBytes(data, query)
		if !result.Exists() {
			logrus.Fatalf("Path %q matched nothing", query)
		}
		fmt.Println(result.String())
	},
}

// inspectJSON returns the structured JSON form of the config at path,
// re-encoding humanized YAML input through the registry codecs.
func inspectJSON(path, kind string) ([]byte, error) {
	if configFormat(path) != "yaml" {
		return os.ReadFile(path)
	}
	return reencodeJSON(path, kind)
}

func init() {
	inspectCmd.Flags().StringVar(&inspectKind, "kind", "bandwidth", "Characteristic kind (bandwidth, delay, loss, duplicate, packet-delay)")
	rootCmd.AddCommand(inspectCmd)
}
