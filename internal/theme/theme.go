// Package theme manages the persisted light/dark/system display preference.
package theme

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skycast/weatherdash/internal/storage"
)

// Mode is a display theme preference.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeLight, ModeDark, ModeSystem:
		return true
	}
	return false
}

// Store holds the theme preference and the observed system preference.
type Store struct {
	mu  sync.RWMutex
	kv  storage.KV
	log zerolog.Logger

	mode              Mode
	systemPrefersDark bool
}

// NewStore creates a theme store defaulting to system mode.
func NewStore(kv storage.KV, log zerolog.Logger) *Store {
	return &Store{
		kv:   kv,
		log:  log.With().Str("component", "theme").Logger(),
		mode: ModeSystem,
	}
}

// Load reads the saved preference; unrecognized or unreadable values are
// ignored and the default kept.
func (s *Store) Load() {
	raw, ok, err := s.kv.Get(storage.KeyTheme)
	if err != nil || !ok {
		if err != nil {
			s.log.Error().Err(err).Msg("failed to read theme preference")
		}
		return
	}

	var saved Mode
	if err := json.Unmarshal(raw, &saved); err != nil {
		s.log.Error().Err(err).Msg("failed to parse theme preference")
		return
	}
	if !saved.Valid() {
		return
	}

	s.mu.Lock()
	s.mode = saved
	s.mu.Unlock()
}

// Mode returns the active preference.
func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode sets and persists the preference. Invalid modes are ignored.
func (s *Store) SetMode(mode Mode) {
	if !mode.Valid() {
		return
	}

	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()

	raw, _ := json.Marshal(mode)
	if err := s.kv.Set(storage.KeyTheme, raw); err != nil {
		s.log.Error().Err(err).Msg("failed to save theme preference")
	}
}

// Toggle cycles light -> dark -> system -> light.
func (s *Store) Toggle() {
	switch s.Mode() {
	case ModeLight:
		s.SetMode(ModeDark)
	case ModeDark:
		s.SetMode(ModeSystem)
	default:
		s.SetMode(ModeLight)
	}
}

// SetSystemPrefersDark records the detected system preference, consulted when
// the mode is system.
func (s *Store) SetSystemPrefersDark(dark bool) {
	s.mu.Lock()
	s.systemPrefersDark = dark
	s.mu.Unlock()
}

// IsDark resolves the effective dark/light state.
func (s *Store) IsDark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mode == ModeSystem {
		return s.systemPrefersDark
	}
	return s.mode == ModeDark
}
