package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"cardroom-server/internal/util"
)

// Config provides configuration for the card room
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	RecaptchaSecret string `yaml:"recaptchaSecret" envconfig:"recaptcha_secret"`
	Log             struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Wallet struct {
		// ChipsPerUnit is the fixed conversion rate between one unit of
		// external currency and chips
		ChipsPerUnit int `yaml:"chipsPerUnit" envconfig:"chips_per_unit"`
		// FreeChips is the amount granted by a free-chip claim
		FreeChips int `yaml:"freeChips" envconfig:"free_chips"`
	}
	Bank struct {
		// InitialBalance seeds the blackjack house bank at startup
		InitialBalance int `yaml:"initialBalance" envconfig:"initial_balance"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; the environment alone can configure the server
func Load() error {
	config = Config{}

	configFile := util.Getenv("CARDROOM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	} else {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	}

	if err := envconfig.Process("cardroom", &config); err != nil {
		return err
	}

	applyDefaults(&config)
	config.loaded = true
	return nil
}

func applyDefaults(c *Config) {
	if c.Wallet.ChipsPerUnit == 0 {
		c.Wallet.ChipsPerUnit = 100
	}

	if c.Wallet.FreeChips == 0 {
		c.Wallet.FreeChips = 1000
	}

	if c.Bank.InitialBalance == 0 {
		c.Bank.InitialBalance = 1000000
	}
}
