// Command berhotctl inspects and exercises the session handoff offline:
// encode and decode #auth= fragments, replay the boot sequence of a product
// app against a URL, and query the product catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/berhot/session-handoff/internal/logging"
)

var (
	logLevel    string
	catalogFile string
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "berhotctl",
		Short:         "Berhot session handoff tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.Setup("DEV", logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "product catalog YAML (defaults to the built-in catalog)")

	cmd.AddCommand(
		encodeCmd(),
		decodeCmd(),
		bootCmd(),
		productsCmd(),
	)
	return cmd
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelOnSignal()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
