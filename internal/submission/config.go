package submission

import (
	"fmt"
	"time"

	"survey-collector/internal/common/config"
)

type Config struct {
	Enabled    bool          `mapstructure:"enabled"`
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	DedupeTTL  time.Duration `mapstructure:"dedupe_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Timeout:   30 * time.Second,
		DedupeTTL: 10 * time.Minute,
	}
}

// Validate checks the settings the handler cannot run without. An
// empty WebhookURL passes on purpose: that case is reported per
// request as a configuration error, without any network activity.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.DedupeTTL <= 0 {
		return fmt.Errorf("dedupe_ttl must be positive")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		cfg.WebhookURL = appConfig.Webhook.URL
		if appConfig.Webhook.Timeout > 0 {
			cfg.Timeout = config.GetDuration(appConfig.Webhook.Timeout)
		}
		if appConfig.Dedupe.TTL > 0 {
			cfg.DedupeTTL = config.GetDuration(appConfig.Dedupe.TTL)
		}
	}

	return cfg
}
