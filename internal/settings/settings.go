// Package settings persists user preferences next to the favorites document.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// RecordKey names the preferences record.
const RecordKey = "gitstarplus_settings"

const (
	KeyLanguage    = "language"
	KeyButtonStyle = "button-style"
)

var (
	ErrUnknownKey   = errors.New("unknown setting")
	ErrInvalidValue = errors.New("invalid setting value")
)

var allowed = map[string][]string{
	KeyLanguage:    {"fr", "en"},
	KeyButtonStyle: {"full", "compact"},
}

type Preferences struct {
	Language    string `json:"language"`
	ButtonStyle string `json:"buttonStyle"`
}

func Defaults() Preferences {
	return Preferences{Language: "fr", ButtonStyle: "full"}
}

type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	records RecordStore
}

func NewStore(records RecordStore) *Store {
	return &Store{records: records}
}

// Load returns the stored preferences, with defaults for anything unset.
func (s *Store) Load(ctx context.Context) (Preferences, error) {
	prefs := Defaults()
	data, ok, err := s.records.Get(ctx, RecordKey)
	if err != nil {
		return prefs, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return prefs, nil
	}

	var stored Preferences
	if err := json.Unmarshal(data, &stored); err != nil {
		return prefs, fmt.Errorf("decode settings: %w", err)
	}
	if stored.Language != "" {
		prefs.Language = stored.Language
	}
	if stored.ButtonStyle != "" {
		prefs.ButtonStyle = stored.ButtonStyle
	}
	return prefs, nil
}

func (s *Store) Save(ctx context.Context, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	if err := s.records.Put(ctx, RecordKey, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Set validates and stores a single preference.
func (s *Store) Set(ctx context.Context, key, value string) (Preferences, error) {
	values, ok := allowed[key]
	if !ok {
		return Preferences{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if !slices.Contains(values, value) {
		return Preferences{}, fmt.Errorf("%w: %s must be one of %v", ErrInvalidValue, key, values)
	}

	prefs, err := s.Load(ctx)
	if err != nil {
		return Preferences{}, err
	}
	switch key {
	case KeyLanguage:
		prefs.Language = value
	case KeyButtonStyle:
		prefs.ButtonStyle = value
	}
	return prefs, s.Save(ctx, prefs)
}

// Reset drops the stored preferences so Load returns the defaults.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.records.Delete(ctx, RecordKey); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	return nil
}
