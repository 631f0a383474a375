package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultGaiaModel = "llama-3-8b-instruct"

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have a .env file
	}

	rpcURL := os.Getenv("RPC_URL")
	contractAddress := os.Getenv("CONTRACT_ADDRESS")
	privateKey := os.Getenv("CHRONICLER_PRIVATE_KEY")
	gaiaNodeURL := os.Getenv("GAIA_NODE_URL")
	gaiaAPIKey := os.Getenv("GAIA_API_KEY")
	gaiaModel := os.Getenv("GAIA_MODEL")
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	environment := os.Getenv("ENVIRONMENT")

	if rpcURL == "" {
		return nil, fmt.Errorf("RPC_URL environment variable is required")
	}

	if contractAddress == "" {
		return nil, fmt.Errorf("CONTRACT_ADDRESS environment variable is required")
	}

	if privateKey == "" {
		return nil, fmt.Errorf("CHRONICLER_PRIVATE_KEY environment variable is required")
	}

	if gaiaNodeURL == "" {
		return nil, fmt.Errorf("GAIA_NODE_URL environment variable is required")
	}

	if gaiaModel == "" {
		gaiaModel = defaultGaiaModel
	}

	if environment == "" {
		environment = "development"
	}

	return &Config{
		RPCURL:          rpcURL,
		ContractAddress: contractAddress,
		PrivateKey:      strings.TrimPrefix(privateKey, "0x"),
		GaiaNodeURL:     strings.TrimRight(gaiaNodeURL, "/"),
		GaiaAPIKey:      gaiaAPIKey,
		GaiaModel:       gaiaModel,
		AllowedOrigins:  splitOrigins(allowedOrigins),
		Environment:     environment,
	}, nil
}

// splits a comma-separated origin list, dropping empty entries
func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
