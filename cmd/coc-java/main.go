package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sonvt1710/coc-java/internal/buildinfo"
	"github.com/sonvt1710/coc-java/internal/commands"
	"github.com/sonvt1710/coc-java/internal/jdk"
	"github.com/sonvt1710/coc-java/internal/logger"
)

func main() {
	// Log command invocation with context
	log := logger.Get()
	cwd, _ := os.Getwd()
	log.Info("command invoked", "version", buildinfo.Version, "command", strings.Join(os.Args[1:], " "), "cwd", cwd)

	rootCmd := &cobra.Command{
		Use:   "coc-java",
		Short: "coc-java - Java runtime and Lombok resolution for the Java language server",
		Long: `coc-java selects the JDK that runs the Java language server and the
project JDK, and manages the Lombok agent injected into the server.
The editor extension runs it before starting the language server.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add global flags
	commands.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(commands.NewJDKCommand())
	rootCmd.AddCommand(commands.NewLombokCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewLogsCommand())
	rootCmd.AddCommand(commands.NewUpdateCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Failures were already shown with their remediation.
		var failure *jdk.Failure
		if !errors.As(err, &failure) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		log.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
