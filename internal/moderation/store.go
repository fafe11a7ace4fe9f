package moderation

import (
	"sync/atomic"

	"github.com/aegisproj/aegis/backend/internal/models"
)

// ConfigStore publishes the moderation config as an immutable value behind a
// single atomic pointer. Readers get a consistent snapshot; Set swaps the
// whole value so no evaluation ever observes a half-updated threshold set.
type ConfigStore struct {
	v atomic.Pointer[models.ModerationConfig]
}

func NewConfigStore(cfg models.ModerationConfig) *ConfigStore {
	s := &ConfigStore{}
	c := cfg.Clone()
	s.v.Store(&c)
	return s
}

// Get returns the current config snapshot.
func (s *ConfigStore) Get() models.ModerationConfig {
	return *s.v.Load()
}

// Set validates and publishes a new config. On validation failure the prior
// config stays in effect.
func (s *ConfigStore) Set(cfg models.ModerationConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c := cfg.Clone()
	s.v.Store(&c)
	return nil
}
