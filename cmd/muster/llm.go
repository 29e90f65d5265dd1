package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/muster/internal/config"
	"github.com/Veraticus/muster/internal/engine"
	"github.com/Veraticus/muster/internal/llm"
)

// createGateway builds the extraction gateway from configuration.
// This function is shared by every command that extracts records.
func createGateway() (*llm.Gateway, error) {
	cfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, err
	}

	gateway, err := llm.NewGateway(cfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction gateway: %w", err)
	}

	slog.Debug("Extraction gateway ready", "provider", cfg.Provider, "model", cfg.Model)
	return gateway, nil
}

// createSession wires an attendance session around the extractor.
func createSession(extractor engine.Extractor) (*engine.Session, error) {
	scope, err := engine.ParseConfirmScope(viper.GetString("session.confirm_scope"))
	if err != nil {
		return nil, err
	}

	return engine.NewSession(extractor,
		engine.WithConfirmScope(scope),
		engine.WithLogger(slog.Default()),
	), nil
}
