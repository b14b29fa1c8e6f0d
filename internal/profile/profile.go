// Package profile manages the locally persisted user profile and its derived
// presentation values (gravatar URL, formatted phone number).
package profile

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog"

	"github.com/skycast/weatherdash/internal/storage"
)

// Profile is the user's local profile. It never leaves the device except as
// derived URLs (gravatar).
type Profile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CountryCode string `json:"countryCode"`
}

func defaultProfile() Profile {
	return Profile{
		Name:        "Jane Doe",
		Email:       "jane@gmail.com",
		Phone:       "123-456-7890",
		CountryCode: "US",
	}
}

// Store holds the profile and persists it under the user-profile key.
type Store struct {
	mu  sync.RWMutex
	kv  storage.KV
	log zerolog.Logger

	profile Profile
}

// NewStore creates a profile store seeded with defaults. Call Load to merge
// the persisted profile over them.
func NewStore(kv storage.KV, log zerolog.Logger) *Store {
	return &Store{
		kv:      kv,
		log:     log.With().Str("component", "profile").Logger(),
		profile: defaultProfile(),
	}
}

// Load merges the persisted profile over the defaults. Unreadable data is
// logged and ignored.
func (s *Store) Load() {
	raw, ok, err := s.kv.Get(storage.KeyProfile)
	if err != nil || !ok {
		if err != nil {
			s.log.Error().Err(err).Msg("failed to read profile")
		}
		return
	}

	saved := s.Profile()
	if err := json.Unmarshal(raw, &saved); err != nil {
		s.log.Error().Err(err).Msg("failed to parse stored profile")
		return
	}

	s.mu.Lock()
	s.profile = saved
	s.mu.Unlock()
}

// Profile returns the current profile.
func (s *Store) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Update merges the non-empty fields of changes into the profile and
// persists the result.
func (s *Store) Update(changes Profile) error {
	s.mu.Lock()
	if changes.Name != "" {
		s.profile.Name = changes.Name
	}
	if changes.Email != "" {
		s.profile.Email = changes.Email
	}
	if changes.Phone != "" {
		s.profile.Phone = changes.Phone
	}
	if changes.CountryCode != "" {
		s.profile.CountryCode = changes.CountryCode
	}
	updated := s.profile
	s.mu.Unlock()

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := s.kv.Set(storage.KeyProfile, raw); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// GravatarURL derives the avatar URL from the profile email: MD5 of the
// trimmed, lower-cased address. Empty when no email is set.
func (s *Store) GravatarURL() string {
	email := strings.TrimSpace(strings.ToLower(s.Profile().Email))
	if email == "" {
		return ""
	}
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&d=identicon", hex.EncodeToString(sum[:]))
}

// FormattedPhone returns the phone in international notation for the
// profile's country. Unparseable numbers fall back to dial-code + raw input.
func (s *Store) FormattedPhone() string {
	p := s.Profile()
	num, err := phonenumbers.Parse(p.Phone, p.CountryCode)
	if err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
	}
	if c, ok := CountryByCode(p.CountryCode); ok {
		return c.DialCode + " " + p.Phone
	}
	return p.Phone
}

// E164Phone returns the phone in E.164 form, empty when invalid.
func (s *Store) E164Phone() string {
	p := s.Profile()
	num, err := phonenumbers.Parse(p.Phone, p.CountryCode)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ""
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// ValidPhone reports whether the profile phone parses as a valid number for
// the profile country.
func (s *Store) ValidPhone() bool {
	p := s.Profile()
	num, err := phonenumbers.Parse(p.Phone, p.CountryCode)
	return err == nil && phonenumbers.IsValidNumber(num)
}

// DisplayInfo is the one-line contact summary shown in the header.
func (s *Store) DisplayInfo() string {
	return s.Profile().Email + " | " + s.FormattedPhone()
}
