package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/LdDl/strokematch/strokematch"
	"github.com/pkg/errors"
)

// Settings are defaults for the command line tool. Flags given explicitly take precedence
type Settings struct {
	Trials    int     `json:"trials"`
	Detail    int     `json:"detail"`
	StepDecay float64 `json:"step_decay"`
	Workers   int     `json:"workers"`
	Smooth    bool    `json:"smooth"`
}

// Default returns settings matching library defaults
func Default() *Settings {
	return &Settings{
		Trials:    strokematch.DefaultTrials,
		Detail:    strokematch.DefaultDetail,
		StepDecay: strokematch.DefaultStepDecay,
		Workers:   1,
		Smooth:    false,
	}
}

func GetSettingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "strokematch", "settings.json"), nil
}

// LoadSettings reads settings file. Missing file is created with defaults,
// broken file or out of range values fall back to defaults with a warning
func LoadSettings(settingsPath string) (*Settings, error) {
	defaultSettings := Default()

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("creating default settings file", "path", settingsPath)
			if err := createDefaultSettings(settingsPath, defaultSettings); err != nil {
				slog.Warn("failed to create default settings file", "error", err)
			}
			return defaultSettings, nil
		}
		return nil, errors.Wrap(err, "can't read settings")
	}

	// Check for unrecognised keys
	var rawSettings map[string]interface{}
	if err := json.Unmarshal(data, &rawSettings); err != nil {
		slog.Warn("invalid settings file, using defaults", "error", err)
		return defaultSettings, nil
	}

	knownKeys := getKnownKeys(Settings{})
	for key := range rawSettings {
		if !knownKeys[key] {
			slog.Warn("unrecognised setting key in settings file", "key", key)
		}
	}

	settings := Default()
	if err := json.Unmarshal(data, settings); err != nil {
		slog.Warn("invalid settings file, using defaults", "error", err)
		return defaultSettings, nil
	}

	if settings.Trials < 1 {
		slog.Warn("invalid trials value, using default", "value", settings.Trials, "default", defaultSettings.Trials)
		settings.Trials = defaultSettings.Trials
	}
	if settings.Detail < 2 {
		slog.Warn("invalid detail value, must be at least 2, using default", "value", settings.Detail, "default", defaultSettings.Detail)
		settings.Detail = defaultSettings.Detail
	}
	if settings.StepDecay <= 0.0 || settings.StepDecay > 1.0 {
		slog.Warn("invalid step_decay value, must be in (0, 1], using default", "value", settings.StepDecay, "default", defaultSettings.StepDecay)
		settings.StepDecay = defaultSettings.StepDecay
	}
	if settings.Workers < 1 {
		slog.Warn("invalid workers value, using default", "value", settings.Workers, "default", defaultSettings.Workers)
		settings.Workers = defaultSettings.Workers
	}

	return settings, nil
}

func createDefaultSettings(path string, settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func getKnownKeys(v interface{}) map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			// Handle json tags like "field,omitempty"
			tagName := strings.Split(jsonTag, ",")[0]
			if tagName != "-" {
				keys[tagName] = true
			}
		}
	}
	return keys
}
