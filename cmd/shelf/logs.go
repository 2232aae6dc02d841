package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/logtail"
)

const defaultLogLines = 50

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var (
		lines    int
		minLevel string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of shelf's log file",
		Long: `Show the last lines of the log file the UI writes to. With --level,
only entries at that level or more severe are shown.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if lines < 0 {
				return usagef("-n must not be negative")
			}
			threshold := logrus.TraceLevel
			if minLevel != "" {
				level, err := logrus.ParseLevel(minLevel)
				if err != nil {
					return usagef("invalid --level %q", minLevel)
				}
				threshold = level
			}

			cfg, closer, err := flags.loadConfig()
			if err != nil {
				return err
			}
			defer closer.Close()

			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return fmt.Errorf("read log: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(tail) == 0 {
				fmt.Fprintln(out, faintStyle.Render("Log is empty: "+cfg.LogFile))
				return nil
			}
			for _, line := range filterLevel(tail, threshold) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", defaultLogLines, "number of lines to show (0 for all)")
	cmd.Flags().StringVar(&minLevel, "level", "", "minimum level: debug, info, warn, error")
	return cmd
}

// filterLevel keeps lines at threshold or more severe. Lines without a
// parseable level, such as wrapped output, are kept.
func filterLevel(lines []string, threshold logrus.Level) []string {
	if threshold == logrus.TraceLevel {
		return lines
	}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		entry := logtail.Parse(line)
		level, err := logrus.ParseLevel(strings.TrimSpace(entry.Level))
		if err != nil || level <= threshold {
			kept = append(kept, line)
		}
	}
	return kept
}
