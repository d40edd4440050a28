// Package config loads and saves the YAML settings file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/pomoscreen/internal/curfew"
	"github.com/sadopc/pomoscreen/internal/restart"
	"github.com/sadopc/pomoscreen/internal/scheduler"
)

const settingsFileName = "settings.yaml"

type Settings struct {
	WorkMinutes       int  `yaml:"work_minutes"`
	ShortBreakMinutes int  `yaml:"short_break_minutes"`
	LongBreakMinutes  int  `yaml:"long_break_minutes"`
	LongBreakCycle    int  `yaml:"long_break_cycle"`
	AutoStartNextWork bool `yaml:"auto_start_next_work"`

	Idle        IdleSettings     `yaml:"idle"`
	ScreenLock  DetectorSettings `yaml:"screen_lock"`
	Screensaver DetectorSettings `yaml:"screensaver"`
	StayUp      StayUpSettings   `yaml:"stay_up"`

	API      APISettings `yaml:"api"`
	LogLevel string      `yaml:"log_level"`
}

type IdleSettings struct {
	Enabled         bool `yaml:"enabled"`
	AfterMinutes    int  `yaml:"after_minutes"`
	ActionIsRestart bool `yaml:"action_is_restart"`
}

// DetectorSettings configures a screen lock or screensaver response.
type DetectorSettings struct {
	Enabled         bool `yaml:"enabled"`
	ActionIsRestart bool `yaml:"action_is_restart"`
}

// StayUpSettings is the nightly limit after which work is refused until 06:00.
type StayUpSettings struct {
	Enabled bool `yaml:"enabled"`
	Hour    int  `yaml:"hour"`
	Minute  int  `yaml:"minute"`
}

// APISettings controls the loopback control API. Port 0 disables it.
type APISettings struct {
	Port int `yaml:"port"`
}

func Default() Settings {
	return Settings{
		WorkMinutes:       25,
		ShortBreakMinutes: 3,
		LongBreakMinutes:  15,
		LongBreakCycle:    4,
		AutoStartNextWork: true,
		Idle:              IdleSettings{AfterMinutes: 10, ActionIsRestart: true},
		ScreenLock:        DetectorSettings{ActionIsRestart: true},
		Screensaver:       DetectorSettings{ActionIsRestart: true},
		StayUp:            StayUpSettings{Hour: 23},
		LogLevel:          "info",
	}
}

// DefaultPath returns <UserConfigDir>/<appName>/settings.yaml.
func DefaultPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	settings := Default()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	fileData := settings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}
	return fileData.normalized(), nil
}

func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(settings.normalized())
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// normalized replaces out-of-range fields with their defaults.
func (s Settings) normalized() Settings {
	d := Default()
	if s.WorkMinutes <= 0 {
		s.WorkMinutes = d.WorkMinutes
	}
	if s.ShortBreakMinutes <= 0 {
		s.ShortBreakMinutes = d.ShortBreakMinutes
	}
	if s.LongBreakMinutes <= 0 {
		s.LongBreakMinutes = d.LongBreakMinutes
	}
	if s.LongBreakCycle < 0 {
		s.LongBreakCycle = d.LongBreakCycle
	}
	if s.Idle.AfterMinutes <= 0 {
		s.Idle.AfterMinutes = d.Idle.AfterMinutes
	}
	if s.StayUp.Hour < 0 || s.StayUp.Hour > 23 {
		s.StayUp.Hour = d.StayUp.Hour
	}
	if s.StayUp.Minute < 0 || s.StayUp.Minute > 59 {
		s.StayUp.Minute = d.StayUp.Minute
	}
	if s.API.Port < 0 || s.API.Port > 65535 {
		s.API.Port = d.API.Port
	}
	if _, ok := logLevels[strings.ToLower(s.LogLevel)]; !ok {
		s.LogLevel = d.LogLevel
	}
	return s
}

func (s Settings) Policy() restart.Policy {
	return restart.Policy{
		IdleEnabled:                s.Idle.Enabled,
		IdleActionIsRestart:        s.Idle.ActionIsRestart,
		ScreenLockEnabled:          s.ScreenLock.Enabled,
		ScreenLockActionIsRestart:  s.ScreenLock.ActionIsRestart,
		ScreensaverEnabled:         s.Screensaver.Enabled,
		ScreensaverActionIsRestart: s.Screensaver.ActionIsRestart,
		CurfewEnabled:              s.StayUp.Enabled,
		CurfewHour:                 s.StayUp.Hour,
		CurfewMinute:               s.StayUp.Minute,
	}
}

func (s Settings) Scheduler() scheduler.Settings {
	return scheduler.Settings{
		Policy:            s.Policy(),
		Work:              time.Duration(s.WorkMinutes) * time.Minute,
		ShortRest:         time.Duration(s.ShortBreakMinutes) * time.Minute,
		LongRest:          time.Duration(s.LongBreakMinutes) * time.Minute,
		LongBreakCycle:    s.LongBreakCycle,
		AutoStartNextWork: s.AutoStartNextWork,
	}
}

func (s Settings) IdleAfter() time.Duration {
	return time.Duration(s.Idle.AfterMinutes) * time.Minute
}

func (s Settings) Curfew() curfew.Window {
	return curfew.Window{Hour: s.StayUp.Hour, Minute: s.StayUp.Minute}
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (s Settings) SlogLevel() slog.Level {
	if l, ok := logLevels[strings.ToLower(s.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}
