package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/emutrace/emutrace/trace"
	"github.com/emutrace/emutrace/trace/mahimahi"
	_ "github.com/emutrace/emutrace/trace/model"
)

var (
	convertTrace  string // Mahimahi trace file to ingest
	convertCount  int    // Pattern repetitions; 0 repeats forever
	convertFormat string // Output encoding
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a mahimahi trace into a repeated bandwidth pattern config",
	Long:  "Convert a mahimahi trace file into the equivalent repeated bandwidth pattern config. Output is written to stdout for piping.",
	Run: func(cmd *cobra.Command, args []string) {
		ts, err := mahimahi.ReadFile(convertTrace)
		if err != nil {
			logrus.Fatalf("Reading trace failed: %v", err)
		}
		cfg, err := mahimahi.Load(ts, convertCount)
		if err != nil {
			logrus.Fatalf("Trace conversion failed: %v", err)
		}
		out, err := encodeConfig(trace.BwConfigs, cfg, convertFormat)
		if err != nil {
			logrus.Fatalf("Encoding config failed: %v", err)
		}
		logrus.Infof("Converted %d ticks into %d pattern segments", len(ts), len(cfg.Pattern))
		fmt.Println(string(out))
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertTrace, "trace", "", "Mahimahi trace file")
	convertCmd.Flags().IntVar(&convertCount, "count", 0, "Pattern repetitions (0 repeats forever)")
	convertCmd.Flags().StringVar(&convertFormat, "format", "yaml", "Output encoding (json, yaml)")
	_ = convertCmd.MarkFlagRequired("trace")
	rootCmd.AddCommand(convertCmd)
}
