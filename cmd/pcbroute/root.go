package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chrisbmr/pcbroute/board"
)

var (
	configPath string
	outPath    string
	verbose    bool
	timeout    time.Duration

	logger = logrus.New()
)

// Exit codes, spec.md §6: 0 success, 1 generic error, 2 input parse
// error, 3 board semantic error, 4 routing failure (some connection
// unrouted), 5 timeout.
const (
	exitOK             = 0
	exitGenericError   = 1
	exitInputError     = 2
	exitSemanticError  = 3
	exitRoutingFailure = 4
	exitTimeout        = 5
)

var rootCmd = &cobra.Command{
	Use:   "pcbroute",
	Short: "PCB auto-router: navigation grid, A* pathfinder, rip-up-and-reroute",
	Long: `pcbroute loads a board JSON document (components, pins, nets,
connections) and routes it: the "route" subcommand runs a single-
connection A* search, "rrr" runs the rip-up-and-reroute agent over a
set of connections, and "validate" checks a board's current state
against the track/connection invariants without routing anything.

Each subcommand prints the resulting board state as JSON to stdout
(or --out) and exits 0 on success, 1 on a generic error, 2 on an
input parse error, 3 on a board semantic error, 4 when some
connection stays unrouted, and 5 on timeout.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns the process exit code (spec.md §6).
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		code := exitCodeFor(err)
		fmt.Fprintln(os.Stderr, "pcbroute:", err)
		return code
	}
	return exitOK
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a RouterConfig JSON document")
	rootCmd.PersistentFlags().StringVar(&outPath, "out", "", "write result JSON here instead of stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "routing deadline; 0 disables it")

	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(rrrCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadConfig reads --config if set, else returns
// board.DefaultRouterConfig().
func loadConfig() (board.RouterConfig, error) {
	cfg := board.DefaultRouterConfig()
	if configPath == "" {
		return cfg, nil
	}
	f, err := os.Open(configPath)
	if err != nil {
		return cfg, &board.InputError{Reason: err.Error()}
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, &board.InputError{Reason: "--config: " + err.Error()}
	}
	return cfg, nil
}

func loadBoard(path string) (*board.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &board.InputError{Reason: err.Error()}
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return board.LoadJSON(data, cfg, logger)
}

// writeResult prints b's current routing state to --out, or stdout
// if unset.
func writeResult(b *board.Board) error {
	data, err := b.MarshalJSON()
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

// routeContext returns a context bound to --timeout (if set) and its
// cancel func; callers must always call the returned cancel.
func routeContext() (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, board.ErrTimeout) {
		return exitTimeout
	}
	if errors.Is(err, board.ErrUnroutable) {
		return exitRoutingFailure
	}
	var ie *board.InputError
	if errors.As(err, &ie) {
		return exitInputError
	}
	var re *board.RuleError
	if errors.As(err, &re) {
		return exitSemanticError
	}
	var iv *board.InvariantError
	if errors.As(err, &iv) {
		return exitSemanticError
	}
	return exitGenericError
}
