package cmd

import (
	"fmt"
	"os"

	"ahb-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ahb-manager",
	Short: "MIG/AHB ingest and diff service",
	Long: `AHB Manager ingests EDIFACT Message Implementation Guides and Anwendungshandbücher,
fills AHB gaps from the MIG, stores the flattened trees and compares them across format versions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps for CLI errors
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
