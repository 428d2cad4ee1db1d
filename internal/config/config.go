package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env             string
	LogLevel        string
	ServerPort      string
	AllowedOrigin   string
	JWTSecret       string
	SessionTTL      time.Duration
	DemoEmail       string
	DemoPassword    string
	WalletProvider  string
	RPCURL          string
	ConnectDelay    time.Duration
	ConfirmDelay    time.Duration
	CopiedReset     time.Duration
	Clipboard       string
	DebitOnTransfer bool
}

// LoadConfig reads the environment, optionally seeded from envFile.
// A missing envFile is not an error.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:             v.GetString("ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		ServerPort:      v.GetString("SERVER_PORT"),
		AllowedOrigin:   v.GetString("ALLOWED_ORIGIN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		SessionTTL:      v.GetDuration("SESSION_TTL"),
		DemoEmail:       v.GetString("DEMO_EMAIL"),
		DemoPassword:    v.GetString("DEMO_PASSWORD"),
		WalletProvider:  v.GetString("WALLET_PROVIDER"),
		RPCURL:          v.GetString("RPC_URL"),
		ConnectDelay:    v.GetDuration("CONNECT_DELAY"),
		ConfirmDelay:    v.GetDuration("CONFIRM_DELAY"),
		CopiedReset:     v.GetDuration("COPIED_RESET"),
		Clipboard:       v.GetString("CLIPBOARD"),
		DebitOnTransfer: v.GetBool("DEBIT_ON_TRANSFER"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ALLOWED_ORIGIN", "*")
	v.SetDefault("JWT_SECRET", "secret")
	v.SetDefault("SESSION_TTL", "1h")
	v.SetDefault("DEMO_EMAIL", "demo@bluecarbonregistry.com")
	v.SetDefault("DEMO_PASSWORD", "demo123")
	v.SetDefault("WALLET_PROVIDER", "demo")
	v.SetDefault("RPC_URL", "http://localhost:8545")
	v.SetDefault("CONNECT_DELAY", "1500ms")
	v.SetDefault("CONFIRM_DELAY", "3s")
	v.SetDefault("COPIED_RESET", "2s")
	v.SetDefault("CLIPBOARD", "memory")
	v.SetDefault("DEBIT_ON_TRANSFER", false)
}

func (c *Config) validate() error {
	switch c.WalletProvider {
	case "demo", "rpc":
	default:
		return fmt.Errorf("unknown WALLET_PROVIDER %q (want demo or rpc)", c.WalletProvider)
	}
	switch c.Clipboard {
	case "memory", "system":
	default:
		return fmt.Errorf("unknown CLIPBOARD %q (want memory or system)", c.Clipboard)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
