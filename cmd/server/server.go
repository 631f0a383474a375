package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harishkotra/onchain-chronicler/internal/chronicle"
	"github.com/harishkotra/onchain-chronicler/internal/config"
	"github.com/harishkotra/onchain-chronicler/internal/ledger"
	"github.com/harishkotra/onchain-chronicler/internal/logger"
	"github.com/harishkotra/onchain-chronicler/internal/narrative"
)

// startup budget for dialing the RPC endpoint and reading the chain id
const ledgerDialTimeout = 15 * time.Second

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ledgerDialTimeout)
	defer cancel()

	ledgerClient, err := ledger.NewClient(ctx, cfg.RPCURL, cfg.ContractAddress, cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger client: %w", err)
	}

	generator := narrative.NewClient(narrative.Config{
		BaseURL: cfg.GaiaNodeURL,
		APIKey:  cfg.GaiaAPIKey,
		Model:   cfg.GaiaModel,
	})

	aggregator := chronicle.NewAggregator(ledgerClient)
	waiter := chronicle.NewWaiter(ledgerClient)
	orchestrator := chronicle.NewOrchestrator(ledgerClient, ledgerClient, waiter, generator)

	logger.Info("ledger client connected",
		"contract", cfg.ContractAddress,
		"narrative_model", cfg.GaiaModel,
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config:       cfg,
		ledger:       ledgerClient,
		generator:    generator,
		aggregator:   aggregator,
		orchestrator: orchestrator,
		router:       router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
