// Package settings persists player preferences between runs.
package settings

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"
	"go.uber.org/zap"
)

const settingsKey = "settings"

// Saved is the data stored on disk.
type Saved struct {
	LastTrack string  `json:"lastTrack"`
	Volume    float64 `json:"volume"`
	Muted     bool    `json:"muted"`
}

// Backend is the part of gdata.Manager the store uses.
type Backend interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

// Store reads and writes Saved. A nil or backend-less store silently keeps
// nothing, so the demo runs when the data dir is not writable.
type Store struct {
	data   Backend
	logger *zap.Logger
}

// Open opens the gdata storage of appName.
func Open(appName string, logger *zap.Logger) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		logger.Warn("could not initialise persistence", zap.Error(err))
		return &Store{logger: logger}, fmt.Errorf("open settings: %w", err)
	}
	return &Store{data: m, logger: logger}, nil
}

// NewStore returns a store over b.
func NewStore(b Backend, logger *zap.Logger) *Store {
	return &Store{data: b, logger: logger}
}

// Load returns the saved settings, or nil when there are none.
func (s *Store) Load() (*Saved, error) {
	if s == nil || s.data == nil {
		return nil, nil
	}

	data, err := s.data.LoadItem(settingsKey)
	if err != nil {
		s.logger.Warn("could not load settings", zap.Error(err))
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var saved Saved
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &saved, nil
}

// Save writes the settings.
func (s *Store) Save(saved *Saved) error {
	if s == nil || s.data == nil {
		return nil
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}
	if err := s.data.SaveItem(settingsKey, data); err != nil {
		s.logger.Warn("could not save settings", zap.Error(err))
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
