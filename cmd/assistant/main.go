// Command assistant talks to a running store server from the terminal: one
// shot queries, file transcription and an interactive websocket session.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "assistant"

// Version is set at build time.
var Version = "dev"

type options struct {
	server  string
	ffplay  string
	mute    bool
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Shopping assistant client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.server, "server", "s", "http://localhost:8080", "Store server base URL")
	cmd.PersistentFlags().StringVar(&opts.ffplay, "ffplay", "ffplay", "Audio player binary")
	cmd.PersistentFlags().BoolVar(&opts.mute, "mute", false, "Do not play synthesized speech")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(queryCmd(opts), transcribeCmd(opts), chatCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func (o *options) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (o *options) player() *audioPlayer {
	return &audioPlayer{binary: o.ffplay, mute: o.mute}
}
