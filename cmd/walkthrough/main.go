// Package main implements the walkthrough CLI, which drives a running
// career map server through complete user sessions and verifies the
// dashboards it reports.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/careermap/internal/walkthrough"
)

// Default configuration constants.
const (
	defaultSessions    = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 90 * time.Second
	defaultWaitTimeout = 60 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

var (
	// serverURL is the base URL of the career map server
	serverURL string
	timeout   time.Duration

	// run command flags
	sessions    int
	workers     int
	waitTimeout time.Duration
	timeline    string
	seed        uint64
	outputFile  string
	logFile     string
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "walkthrough",
	Short: "Drive a career map server through complete sessions",
	Long: `walkthrough is a command-line client for the career map HTTP API.
It creates sessions, answers the assessment, waits for the dashboard and
exercises the roadmap, explanation and simulation endpoints.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk sessions through the whole flow and verify the results",
	Long: `Walk sessions through the whole flow and verify the results.

Examples:
  # Walk 20 sessions against a local server
  walkthrough run

  # Walk 200 sessions with 16 workers on a 1 year timeline
  walkthrough run --sessions 200 --workers 16 --timeline "1 year"

  # Keep transcripts of every session
  walkthrough run --output transcripts.json --log walkthrough.log`,
	Args: cobra.NoArgs,
	RunE: runWalkthrough,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check career map server health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client := walkthrough.NewClient(serverURL, timeout)
		if err := client.Health(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the assessment questionnaire",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client := walkthrough.NewClient(serverURL, timeout)
		q, err := client.Questionnaire(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9080", "career map server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "HTTP request timeout")

	runCmd.Flags().IntVar(&sessions, "sessions", defaultSessions, "Number of sessions to walk")
	runCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
	runCmd.Flags().DurationVar(&waitTimeout, "wait", defaultWaitTimeout, "How long to wait for background loads")
	runCmd.Flags().StringVar(&timeline, "timeline", "",
		"Timeline to switch to ("+strings.Join(walkthrough.Timelines(), ", ")+"); random when empty")
	runCmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "Seed for generated answers")
	runCmd.Flags().StringVar(&outputFile, "output", "", "Output file for session transcripts")
	runCmd.Flags().StringVar(&logFile, "log", "", "Log file for run output")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(questionsCmd)
}

func runWalkthrough(cmd *cobra.Command, _ []string) error {
	closeLog, err := walkthrough.SetupLogging(logFile, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	return walkthrough.Run(ctx, &walkthrough.Config{
		BaseURL:     serverURL,
		Sessions:    sessions,
		Workers:     workers,
		Timeout:     timeout,
		WaitTimeout: waitTimeout,
		Timeline:    timeline,
		Seed:        seed,
		OutputFile:  outputFile,
		LogFile:     logFile,
		Verbose:     verbose,
	})
}
