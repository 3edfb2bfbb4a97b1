package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/emutrace/emutrace/trace"
	_ "github.com/emutrace/emutrace/trace/model"
)

var (
	showKind  string // Characteristic kind the config describes
	showLimit int    // Maximum segments to print
)

var showCmd = &cobra.Command{
	Use:   "show <config-file>",
	Short: "Print the segment stream a config generates",
	Run: func(cmd *cobra.Command, args []string) {
		if err := showConfigFile(args[0], showKind, showLimit); err != nil {
			logrus.Fatalf("Show failed: %v", err)
		}
	},
	Args: cobra.ExactArgs(1),
}

func showConfigFile(path, kind string, limit int) error {
	switch kind {
	case "bandwidth":
		cfg, err := decodeConfigFile(trace.BwConfigs, path)
		if err != nil {
			return err
		}
		return showSegments(cfg.Build(), limit, func(s trace.BwSegment) string {
			return fmt.Sprintf("%s for %s", s.Bw, s.Duration)
		})
	case "delay":
		cfg, err := decodeConfigFile(trace.DelayConfigs, path)
		if err != nil {
			return err
		}
		return showSegments(cfg.Build(), limit, func(s trace.DelaySegment) string {
			return fmt.Sprintf("%s for %s", s.Delay, s.Duration)
		})
	case "loss":
		cfg, err := decodeConfigFile(trace.LossConfigs, path)
		if err != nil {
			return err
		}
		return showSegments(cfg.Build(), limit, func(s trace.LossSegment) string {
			return fmt.Sprintf("%v for %s", s.Loss, s.Duration)
		})
	case "duplicate":
		cfg, err := decodeConfigFile(trace.DuplicateConfigs, path)
		if err != nil {
			return err
		}
		return showSegments(cfg.Build(), limit, func(s trace.DuplicateSegment) string {
			return fmt.Sprintf("%v for %s", s.Duplicate, s.Duration)
		})
	case "packet-delay":
		cfg, err := decodeConfigFile(trace.PktDelayConfigs, path)
		if err != nil {
			return err
		}
		return showSegments(cfg.Build(), limit, func(d time.Duration) string {
			return d.String()
		})
	}
	return fmt.Errorf("unknown kind %q (want bandwidth, delay, loss, duplicate or packet-delay)", kind)
}

func showSegments[S any](t trace.Trace[S], limit int, format func(S) string) error {
	for i := 0; i < limit; i++ {
		s, ok := t.Next()
		if !ok {
			fmt.Println("(exhausted)")
			return nil
		}
		fmt.Println(format(s))
	}
	return nil
}

func init() {
	showCmd.Flags().StringVar(&showKind, "kind", "bandwidth", "Characteristic kind (bandwidth, delay, loss, duplicate, packet-delay)")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Maximum segments to print")
	rootCmd.AddCommand(showCmd)
}
