package config

type Config struct {
	RPCURL          string
	ContractAddress string
	PrivateKey      string
	GaiaNodeURL     string
	GaiaAPIKey      string
	GaiaModel       string
	AllowedOrigins  []string
	Environment     string
}
