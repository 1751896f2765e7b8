package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/novinsdk/sentinel-go/internal/config"
	"github.com/novinsdk/sentinel-go/internal/httpbridge"
	"github.com/novinsdk/sentinel-go/pkg/sentinel"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var inputFile string

var rootCmd = &cobra.Command{
	Use:     "novin-sentinel",
	Short:   "On-device security-event risk assessor",
	Long:    "novin-sentinel reads newline-delimited security-event JSON and emits a bounded threat assessment per line.",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAssess()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP bridge (GET /health, POST /assess)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.Flags().StringVar(&inputFile, "file", "", "read requests from this file instead of stdin")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("novin-sentinel %s\n", Version)
		if BuildTime != "unknown" {
			fmt.Printf("Built: %s\n", BuildTime)
		}
		if GitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", GitCommit)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runAssess implements the CLI contract from spec 6: newline-delimited
// request JSON from stdin or --file, one result JSON per line to stdout,
// errors to stderr with the input echoed. Exit codes: 0 on success, 1 on
// initialization failure.
func runAssess() error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sdk, err := sentinel.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize SDK: %w", err)
	}
	defer sdk.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr)
	}

	in := os.Stdin
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", inputFile, err)
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		assessment, err := sdk.Assess(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\ninput: %s\n", err, line)
			continue
		}

		out, err := jsonLine(assessment)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\ninput: %s\n", err, line)
			continue
		}
		fmt.Println(out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

// runServe implements the HTTP bridge external collaborator from spec 6,
// bound via NOVIN_BIND_HOST/NOVIN_BIND_PORT.
func runServe() error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sdk, err := sentinel.Initialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize SDK: %w", err)
	}
	defer sdk.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr)
	}

	bridge := httpbridge.NewServer(sdk, cfg.BindHost, cfg.BindPort)
	bridge.Start(ctx)

	<-ctx.Done()
	return nil
}
