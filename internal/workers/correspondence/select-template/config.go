// internal/workers/correspondence/select-template/config.go
package selecttemplate

import (
	"time"

	"correspondence-workers/internal/common/config"
	"correspondence-workers/internal/correspondence"
)

type Config struct {
	Rules             []config.SelectionRule `mapstructure:"rules"`
	DefaultTemplateID string                 `mapstructure:"default_template_id"`
	Timeout           time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Rules:             cfg.Template.Rules,
		DefaultTemplateID: cfg.Template.DefaultTemplateID,
		Timeout:           30 * time.Second,
	}
	if c.DefaultTemplateID == "" {
		c.DefaultTemplateID = correspondence.TemplateGroupReservation
	}
	if wcfg := config.GetWorkerConfig(cfg, TaskType); wcfg.Timeout > 0 {
		c.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return c
}
