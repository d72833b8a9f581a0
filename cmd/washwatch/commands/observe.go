package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/washwatch/washwatch/internal/fetch"
	"github.com/washwatch/washwatch/internal/logger"
	"github.com/washwatch/washwatch/internal/output"
	"github.com/washwatch/washwatch/internal/sink"
	"github.com/washwatch/washwatch/pkg/collector"
	"github.com/washwatch/washwatch/pkg/machine"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Take one observation of every machine and append it to the sinks",
	Long: `Observe fetches the configured status page once, extracts one record
per machine, and appends timestamped rows to the configured sinks.

A run that finds no machine rows still appends a single heartbeat row
(NO_ROWS_FOUND) so gaps in the log are distinguishable from outages.
A run that cannot acquire the page at all, even after retries, appends
a SCRAPE_ERROR row and exits non-zero.

Examples:
  # Observe the widget directly and print records as JSON
  washwatch observe -u "https://status.example.com/widget?room=1" --direct

  # Full pipeline: lazy iframe, sheet web-app, local CSV
  washwatch observe -u "https://example.com/laundry" \
      --sink-url "https://script.google.com/macros/s/.../exec" \
      --csv data/status.csv`,
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)

	flags := observeCmd.Flags()

	// Target
	flags.StringP("url", "u", "", "page to observe (status widget or a page embedding it)")
	flags.String("referer", "", "Referer header for the target fetch")
	flags.Bool("direct", false, "extract from the target document itself, skip frame resolution")

	// Fetch settings
	flags.String("fetch-mode", "auto", "fetch mode: auto, static, dynamic")
	flags.String("user-agent", "", "override HTTP user agent")
	flags.Duration("timeout", 90*time.Second, "page load budget per attempt")
	flags.String("max-snapshot-size", "0", "max fetched HTML size (e.g. 2MB, 0=unlimited)")

	// Retry settings
	flags.Int("retries", 3, "total collection attempts")
	flags.Duration("retry-wait", 5*time.Second, "fixed wait between attempts")

	// Sinks
	flags.String("sink-url", "", "sheet web-app endpoint to POST rows to")
	flags.String("csv", "", "local CSV file to append rows to")
	flags.String("columns", "detail", "row layout: detail ([ts,name,type,status,detail]) or size ([ts,name,size,status])")

	// Record dump
	flags.StringP("output", "o", "", "write extracted records to this file (default: stdout)")
	flags.String("format", "json", "record dump format: json, jsonl, yaml")

	// Bind to viper so env vars and config files can supply them
	_ = viper.BindPFlag("url", flags.Lookup("url"))
	_ = viper.BindPFlag("referer", flags.Lookup("referer"))
	_ = viper.BindPFlag("direct", flags.Lookup("direct"))
	_ = viper.BindPFlag("fetch_mode", flags.Lookup("fetch-mode"))
	_ = viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("max_snapshot_size", flags.Lookup("max-snapshot-size"))
	_ = viper.BindPFlag("retries", flags.Lookup("retries"))
	_ = viper.BindPFlag("retry_wait", flags.Lookup("retry-wait"))
	_ = viper.BindPFlag("sink_url", flags.Lookup("sink-url"))
	_ = viper.BindPFlag("csv", flags.Lookup("csv"))
	_ = viper.BindPFlag("columns", flags.Lookup("columns"))
}

func runObserve(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	targetURL := viper.GetString("url")
	if targetURL == "" {
		return cmd.Help()
	}

	fetchModeStr := viper.GetString("fetch_mode")
	mode := fetch.Mode(fetchModeStr)
	switch mode {
	case fetch.ModeAuto, fetch.ModeStatic, fetch.ModeDynamic:
	default:
		return fmt.Errorf("unknown fetch mode: %s (use 'auto', 'static' or 'dynamic')", fetchModeStr)
	}

	timeout := viper.GetDuration("timeout")
	retries := viper.GetInt("retries")
	retryWait := viper.GetDuration("retry_wait")
	userAgent := viper.GetString("user_agent")
	direct := viper.GetBool("direct")

	// Max snapshot size (0 or empty means unlimited)
	maxSizeStr := viper.GetString("max_snapshot_size")
	var maxSize int
	if strings.TrimSpace(maxSizeStr) != "" && maxSizeStr != "0" {
		bytes, err := humanize.ParseBytes(maxSizeStr)
		if err != nil {
			logger.Error("invalid max-snapshot-size", "value", maxSizeStr, "error", err)
			return err
		}
		maxSize = int(bytes)
	}

	layoutStr := viper.GetString("columns")
	layout := sink.Columns(layoutStr)
	switch layout {
	case sink.ColumnsDetail, sink.ColumnsSize:
	default:
		return fmt.Errorf("unknown column layout: %s (use 'detail' or 'size')", layoutStr)
	}

	c, err := collector.New(
		collector.WithTargetURL(targetURL),
		collector.WithRefererHint(viper.GetString("referer")),
		collector.WithDirect(direct),
		collector.WithFetchMode(mode),
		collector.WithUserAgent(userAgent),
		collector.WithTimeout(timeout),
		collector.WithMaxSnapshotSize(maxSize),
		collector.WithRetryPolicy(collector.RetryPolicy{
			Attempts: retries,
			Wait:     retryWait,
		}),
	)
	if err != nil {
		logger.Error("failed to create collector", "error", err)
		return err
	}
	defer c.Close()

	dest := buildSinks(layout)

	records, err := c.CollectWithRetry(ctx)
	if err != nil {
		logger.Error("collection failed", "error", err)
		// The log must record the outage: append a failure row before
		// exiting non-zero.
		failure := []machine.Record{{
			Name:   "N/A",
			Status: machine.StatusScrapeError,
			Detail: truncateDetail(machine.Normalize(err.Error()), 200),
		}}
		if dest != nil {
			if appendErr := dest.Append(ctx, sink.RowsFor(failure, time.Now(), layout)); appendErr != nil {
				logger.Error("failed to append failure row", "error", appendErr)
			}
		}
		return err
	}

	if dest != nil {
		if err := dest.Append(ctx, sink.RowsFor(records, time.Now(), layout)); err != nil {
			logger.Error("failed to append rows", "error", err)
			return err
		}
	}

	return dumpRecords(cmd, records)
}

// buildSinks assembles the sink chain from flags. The webhook is
// authoritative; the CSV is best-effort and never fails a run. Returns nil
// when no sink is configured.
func buildSinks(layout sink.Columns) sink.Sink {
	var sinks []sink.Sink
	if url := viper.GetString("sink_url"); url != "" {
		sinks = append(sinks, sink.NewWebhook(url, 0))
	}
	if path := viper.GetString("csv"); path != "" {
		sinks = append(sinks, sink.BestEffort(sink.NewCSV(path, layout)))
	}
	if len(sinks) == 0 {
		return nil
	}
	return sink.Multi(sinks...)
}

// dumpRecords writes the extracted records to the --output destination.
func dumpRecords(cmd *cobra.Command, records []machine.Record) error {
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w, err := output.NewWriter(out, output.Format(formatStr))
	if err != nil {
		return err
	}
	if err := w.Write(records); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return w.Close()
}

func truncateDetail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
