package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg)

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	code := run(ctx, cfg, logger, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one subcommand and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return 2
	}
	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	tokens, err := cli.OpenTokenStore(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer func() {
		if err := tokens.Close(); err != nil {
			logger.Warn("Failed to close token store", "error", err)
		}
	}()

	a, err := newApp(ctx, cfg, tokens, logger, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer a.Close()

	logger.Debug("Running command", "command", cmd.name)
	if err := cmd.run(ctx, a, args[1:]); err != nil {
		var ue *usageError
		switch {
		case errors.As(err, &ue):
			if !ue.reported {
				fmt.Fprintln(stderr, "error:", err)
			}
			return 2
		case errors.Is(err, context.Canceled):
			fmt.Fprintln(stderr, "interrupted")
			return 130
		default:
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: fintrack <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	width := 0
	for _, c := range commands {
		width = max(width, len(c.name))
	}
	for _, c := range commands {
		fmt.Fprintf(w, "  %s%s  %s\n", c.name, strings.Repeat(" ", width-len(c.name)), c.summary)
	}
}
