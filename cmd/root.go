// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package cmd implements sjournal's command-line surface: a single
// extraction pipeline wired from flags (spec.md §6).
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/splkext/sjournal/config"
	"github.com/splkext/sjournal/internal/endpoint"
	"github.com/splkext/sjournal/internal/extractor"
	"github.com/splkext/sjournal/internal/journal"
	"github.com/splkext/sjournal/internal/logctx"
	"github.com/splkext/sjournal/internal/recordwriter"
)

// exitCodes mirror spec.md §6: 0 clean, 1 fatal decode/IO error, 2 usage
// error, 3 missing optional dependency for the selected format.
const (
	exitOK            = 0
	exitFatal         = 1
	exitUsage         = 2
	exitMissingFormat = 3
)

// cliError carries the process exit code a failure should produce.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:           "sjournal",
	Short:         "Decode Splunk journal archives into ndjson, CSV, or Parquet",
	Long:          `sjournal decompresses and decodes Splunk's binary journal framing, emitting flat analyst-facing event records.`,
	RunE:          runExtract,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("input", "i", "-", `input path: local file, "s3://bucket/key", or "-" for stdin`)
	flags.StringP("output", "o", "-", `output path: local file, "s3://bucket/key", or "-" for stdout`)
	flags.StringP("format", "f", string(recordwriter.NDJSON), "output format: ndjson, csv, or parquet")
	flags.StringP("log-level", "l", "info", "log level: debug, info, warn, or error")
	flags.CountP("verbose", "v", "increase log verbosity; repeatable")
	flags.CountP("quiet", "q", "decrease log verbosity; repeatable")
	flags.Bool("stats", false, "print a JSON summary (event and dictionary counts, bytes read, duration) to stderr on completion")
	flags.Int("row-group-size", 0, "parquet row group size; 0 selects the default (10000)")
	flags.Int64("max-frame-size", 0, "override the frame-size ceiling in bytes; 0 selects the default (64MiB)")
	flags.String("s3-region", "", "override AWS region for s3:// paths")
	flags.String("s3-endpoint", "", "override S3 endpoint URL (MinIO, Ceph, LocalStack)")
	flags.Bool("s3-path-style", false, "use path-style S3 addressing instead of virtual-host")
	flags.Bool("s3-insecure-tls", false, "skip TLS certificate verification for the S3 endpoint")
}

// Execute runs the root command and, on failure, prints the error to
// stderr and exits with the code it carries. It is called by main.main()
// exactly once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := exitFatal
		if ce, ok := err.(*cliError); ok {
			code = ce.code
		}
		fmt.Fprintf(os.Stderr, "sjournal: %v\n", err)
		os.Exit(code)
	}
}

func runExtract(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	inputPath, _ := flags.GetString("input")
	outputPath, _ := flags.GetString("output")
	formatStr, _ := flags.GetString("format")
	logLevel, _ := flags.GetString("log-level")
	verbose, _ := flags.GetCount("verbose")
	quiet, _ := flags.GetCount("quiet")
	showStats, _ := flags.GetBool("stats")
	rowGroupSize, _ := flags.GetInt("row-group-size")
	maxFrameSize, _ := flags.GetInt64("max-frame-size")
	s3Region, _ := flags.GetString("s3-region")
	s3Endpoint, _ := flags.GetString("s3-endpoint")
	s3PathStyle, _ := flags.GetBool("s3-path-style")
	s3InsecureTLS, _ := flags.GetBool("s3-insecure-tls")

	format, err := recordwriter.ParseFormat(formatStr)
	if err != nil {
		return &cliError{code: exitUsage, err: err}
	}

	logger := newLogger(logLevel, verbose, quiet)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logctx.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		return &cliError{code: exitUsage, err: fmt.Errorf("load configuration: %w", err)}
	}
	if rowGroupSize > 0 {
		cfg.RowGroupSize = rowGroupSize
	}
	if maxFrameSize > 0 {
		cfg.MaxFrameSize = uint64(maxFrameSize)
	}
	if s3Region != "" {
		cfg.S3.Region = s3Region
	}
	if s3Endpoint != "" {
		cfg.S3.Endpoint = s3Endpoint
	}
	cfg.S3.PathStyle = cfg.S3.PathStyle || s3PathStyle
	cfg.S3.InsecureTLS = cfg.S3.InsecureTLS || s3InsecureTLS

	s3cfg := endpoint.Config{
		Region:      cfg.S3.Region,
		BaseURL:     cfg.S3.Endpoint,
		PathStyle:   cfg.S3.PathStyle,
		InsecureTLS: cfg.S3.InsecureTLS,
	}

	src, err := endpoint.OpenSource(ctx, inputPath, s3cfg)
	if err != nil {
		return &cliError{code: exitFatal, err: fmt.Errorf("endpoint open failed: %w", err)}
	}
	defer func() { _ = src.Close() }()

	sink, err := endpoint.OpenSink(ctx, outputPath, s3cfg)
	if err != nil {
		return &cliError{code: exitFatal, err: fmt.Errorf("endpoint open failed: %w", err)}
	}

	writer, err := newWriter(format, sink, cfg.RowGroupSize)
	if err != nil {
		_ = sink.Close()
		return &cliError{code: exitMissingFormat, err: err}
	}

	start := time.Now()
	stats, extractErr := extractor.Extract(ctx, src, writer,
		journal.WithMaxFrameSize(cfg.MaxFrameSize))
	duration := time.Since(start)

	closeErr := writer.Close()
	sinkCloseErr := sink.Close()

	if extractErr != nil {
		return &cliError{code: exitFatal, err: extractErr}
	}
	if closeErr != nil {
		return &cliError{code: exitFatal, err: fmt.Errorf("writer failed: %w", closeErr)}
	}
	if sinkCloseErr != nil {
		return &cliError{code: exitFatal, err: fmt.Errorf("commit failed: %w", sinkCloseErr)}
	}

	if showStats {
		printStats(stats, duration)
	}

	return nil
}

type statsSummary struct {
	EventCount      int64  `json:"event_count"`
	HostCount       int    `json:"host_count"`
	SourceCount     int    `json:"source_count"`
	SourceTypeCount int    `json:"sourcetype_count"`
	BytesRead       uint64 `json:"bytes_read"`
	DurationMs      int64  `json:"duration_ms"`
}

func printStats(stats extractor.Stats, duration time.Duration) {
	summary := statsSummary{
		EventCount:      stats.EventCount,
		HostCount:       stats.HostCount,
		SourceCount:     stats.SourceCount,
		SourceTypeCount: stats.SourceTypeCount,
		BytesRead:       stats.BytesDecoded,
		DurationMs:      duration.Milliseconds(),
	}
	enc := json.NewEncoder(os.Stderr)
	_ = enc.Encode(summary)
}

func newWriter(format recordwriter.Format, sink io.Writer, rowGroupSize int) (recordwriter.Writer, error) {
	switch format {
	case recordwriter.NDJSON:
		return recordwriter.NewNDJSON(sink), nil
	case recordwriter.CSV:
		return recordwriter.NewCSV(sink), nil
	case recordwriter.Parquet:
		return recordwriter.NewColumnar(sink, rowGroupSize), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func newLogger(levelFlag string, verbose, quiet int) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(levelFlag)); err != nil {
		level = slog.LevelInfo
	}
	adjusted := slog.Level(int(level) - 4*verbose + 4*quiet)

	opts := &slog.HandlerOptions{Level: adjusted}
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
