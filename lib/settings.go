// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	ConfigDirName          = "flux"
	SettingsFileName       = "settings.json"
	DefaultFilePermissions = 0755
)

type Settings struct {
	Backend       string   `json:"backend"`
	ClipLength    uint32   `json:"clip_length"`
	ClipHotkey    []string `json:"clip_hotkey"`
	Framerate     uint32   `json:"framerate"`
	ReplayTime    uint32   `json:"replay_time"`
	Container     string   `json:"container"`
	Output        string   `json:"output"`
	Codec         string   `json:"codec"`
	Quality       uint32   `json:"quality"`
	FramerateMode string   `json:"framerate_mode"`
	BitrateMode   string   `json:"bitrate_mode"`
}

// Every key is required on load.
var settingsKeys = []string{
	"backend",
	"clip_length",
	"clip_hotkey",
	"framerate",
	"replay_time",
	"container",
	"output",
	"codec",
	"quality",
	"framerate_mode",
	"bitrate_mode",
}

func DefaultSettings() Settings {
	return Settings{
		Backend:       "gpu-screen-recorder",
		ClipLength:    30,
		ClipHotkey:    []string{"KEY_LEFTALT", "KEY_Z"},
		Framerate:     60,
		ReplayTime:    30,
		Container:     "mp4",
		Output:        "~/Videos/clip",
		Codec:         "h264",
		Quality:       20,
		FramerateMode: "vfr",
		BitrateMode:   "cqp",
	}
}

// ConfigDirFunc resolves the per-user configuration directory.
type ConfigDirFunc func() (string, error)

// Store reads and writes settings.json. Nothing is cached between calls and
// there is no locking: concurrent Save/Load calls may interleave.
type Store struct {
	configDir ConfigDirFunc
}

// NewStore returns a store rooted at configDir; nil means os.UserConfigDir.
func NewStore(configDir ConfigDirFunc) *Store {
	if configDir == nil {
		configDir = os.UserConfigDir
	}
	return &Store{configDir: configDir}
}

func (s *Store) Dir() (string, error) {
	base, err := s.configDir()
	if err != nil {
		return "", fmt.Errorf("could not find config directory: %w", err)
	}
	if base == "" {
		return "", errors.New("could not find config directory")
	}
	return filepath.Join(base, ConfigDirName), nil
}

func (s *Store) Path() (string, error) {
	dir, err := s.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// Save overwrites settings.json with the whole record. The write is not atomic.
func (s *Store) Save(settings Settings) error {
	dir, err := s.Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if settings.ClipHotkey == nil {
		settings.ClipHotkey = []string{}
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, SettingsFileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Load returns the stored record, or DefaultSettings when no file exists yet.
// A missing file is never created here.
func (s *Store) Load() (Settings, error) {
	settingsPath, err := s.Path()
	if err != nil {
		return Settings{}, err
	}

	data, err := os.ReadFile(settingsPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings, err := DecodeSettings(data)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

// DecodeSettings parses a settings record strictly: unknown, missing and null
// fields are rejected rather than defaulted.
func DecodeSettings(data []byte) (Settings, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Settings{}, err
	}

	known := make(map[string]bool, len(settingsKeys))
	for _, key := range settingsKeys {
		known[key] = true
	}
	// encoding/json folds case when matching struct fields, so keys must be
	// checked exactly here.
	for key := range fields {
		if !known[key] {
			return Settings{}, fmt.Errorf("unknown field `%s`", key)
		}
	}

	for _, key := range settingsKeys {
		raw, ok := fields[key]
		if !ok {
			return Settings{}, fmt.Errorf("missing field `%s`", key)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return Settings{}, fmt.Errorf("invalid null for field `%s`", key)
		}
	}

	var hotkey []*string
	if err := json.Unmarshal(fields["clip_hotkey"], &hotkey); err != nil {
		return Settings{}, fmt.Errorf("invalid field `clip_hotkey`: %w", err)
	}
	for i, key := range hotkey {
		if key == nil {
			return Settings{}, fmt.Errorf("invalid null at `clip_hotkey[%d]`", i)
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var settings Settings
	if err := decoder.Decode(&settings); err != nil {
		return Settings{}, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return Settings{}, errors.New("trailing data after settings object")
	}

	return settings, nil
}
