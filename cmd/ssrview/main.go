// Package main is the entry point for the ssrview viewer.
package main

import (
	"fmt"
	"os"

	"github.com/xlab/closer"
	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/app"
	"github.com/Faultbox/ssrview/internal/config"
	"github.com/Faultbox/ssrview/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WritePath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}

	// Initialize logger
	err = logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		Console: true,
		File: logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	// Signals exit through closer; flush logs on the way out.
	closer.Bind(logger.Sync)

	logger.Info("=== ssrview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	closer.Checked(func() error {
		a, err := app.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create viewer: %w", err)
		}
		defer a.Close()

		if err := a.Run(); err != nil {
			logger.Error("viewer error", zap.Error(err))
			return err
		}
		logger.Info("viewer closed normally")
		return nil
	}, true)

	closer.Close()
}
