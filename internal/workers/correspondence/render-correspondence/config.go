// internal/workers/correspondence/render-correspondence/config.go
package rendercorrespondence

import (
	"fmt"
	"time"

	"correspondence-workers/internal/common/config"
	"correspondence-workers/internal/correspondence"
)

type Config struct {
	DefaultTemplateID string
	Timeout           time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		DefaultTemplateID: correspondence.TemplateGroupReservation,
		Timeout:           30 * time.Second,
	}
}

// ConfigFrom reads the worker's timeout and the template defaults.
func ConfigFrom(cfg *config.Config) *Config {
	c := DefaultConfig()
	if id := cfg.Template.DefaultTemplateID; id != "" {
		c.DefaultTemplateID = id
	}
	if wcfg := config.GetWorkerConfig(cfg, TaskType); wcfg.Timeout > 0 {
		c.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return c
}

func (c *Config) Validate() error {
	if c.DefaultTemplateID == "" {
		return fmt.Errorf("default template id is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
