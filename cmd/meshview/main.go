// Package main is the entry point for the Meshview client.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/meshforge/meshview/internal/api"
	"github.com/meshforge/meshview/internal/app"
	"github.com/meshforge/meshview/internal/config"
	"github.com/meshforge/meshview/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Meshview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to create application", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if url, err := initialAsset(a.Client()); err != nil {
		logger.Error("failed to resolve initial model", zap.Error(err))
	} else if url != "" {
		a.ShowAsset(url)
	}

	if err := a.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// initialAsset decides what to show on startup: an explicit model URL wins,
// otherwise a prompt is sent to the generation service. With neither the
// viewer starts empty.
func initialAsset(client *api.Client) (string, error) {
	if url := config.ModelURL(); url != "" {
		return url, nil
	}

	prompt := config.Prompt()
	if prompt == "" {
		return "", nil
	}

	logger.Info("generating model", zap.String("prompt", prompt))
	resp, err := client.GenerateFromText(context.Background(), api.TextRequest{Text: prompt})
	if err != nil {
		return "", err
	}
	return resp.ModelURL, nil
}
