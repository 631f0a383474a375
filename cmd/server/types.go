package main

import (
	"github.com/gin-gonic/gin"
	"github.com/harishkotra/onchain-chronicler/internal/chronicle"
	"github.com/harishkotra/onchain-chronicler/internal/config"
	"github.com/harishkotra/onchain-chronicler/internal/ledger"
	"github.com/harishkotra/onchain-chronicler/internal/narrative"
)

// holds all dependencies and state for the API server
type Server struct {
	config       *config.Config
	ledger       *ledger.Client
	generator    *narrative.Client
	aggregator   *chronicle.Aggregator
	orchestrator *chronicle.Orchestrator
	router       *gin.Engine
}
