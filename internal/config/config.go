// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/salestrainer/salestrainer-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete salestrainer configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// LogFile overrides the default log location (~/.salestrainer/salestrainer.log).
	LogFile string `toml:"log_file" json:"log_file"`

	Server   ServerConfig   `toml:"server" json:"server"`
	Voice    VoiceConfig    `toml:"voice" json:"voice"`
	Feedback FeedbackConfig `toml:"feedback" json:"feedback"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	Signup   SignupConfig   `toml:"signup" json:"signup"`
}

// ServerConfig describes how to reach the Sales Training server.
type ServerConfig struct {
	// BaseURL is the root of the web application, e.g. http://127.0.0.1:5000
	BaseURL string `toml:"base_url" json:"base_url"`

	// TimeoutSecs bounds each request. 0 means no timeout.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`

	// CSRFPage is fetched once to discover the anti-forgery token.
	CSRFPage string `toml:"csrf_page" json:"csrf_page"`

	// RequestsPerMinute paces outbound requests. 0 disables pacing.
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// VoiceConfig configures speech input.
type VoiceConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`

	// Backend is "command" or "whisper".
	Backend string `toml:"backend" json:"backend"`

	// Command is the recognizer command for the "command" backend.
	// It must stream JSON lines on stdout.
	Command string `toml:"command" json:"command"`

	// CaptureCommand emits raw 16 kHz mono s16le PCM for the "whisper" backend.
	CaptureCommand string `toml:"capture_command" json:"capture_command"`

	OpenAIAPIKey string `toml:"openai_api_key" json:"openai_api_key"`

	// SubmitDelayMs is the pause between stopping capture and auto-submitting.
	SubmitDelayMs int `toml:"submit_delay_ms" json:"submit_delay_ms"`

	Language string `toml:"language" json:"language"`

	// IntervalMs is how often the whisper backend re-transcribes.
	IntervalMs int `toml:"interval_ms" json:"interval_ms"`
}

// FeedbackConfig configures the feedback report.
type FeedbackConfig struct {
	// ExportDir receives sales-feedback-YYYY-MM-DD.txt files.
	ExportDir string `toml:"export_dir" json:"export_dir"`

	// MinMessages is the transcript length that enables feedback.
	MinMessages int `toml:"min_messages" json:"min_messages"`
}

// UIConfig contains user interface settings.
type UIConfig struct {
	Theme string `toml:"theme" json:"theme"`

	// Locale picks the clock format, e.g. "en-US". Empty means $LANG.
	Locale string `toml:"locale" json:"locale"`

	// RichText renders assistant markup. When false replies are shown verbatim.
	RichText bool `toml:"rich_text" json:"rich_text"`
}

// SignupConfig contains client-side signup rules.
type SignupConfig struct {
	PasswordMinLength int `toml:"password_min_length" json:"password_min_length"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultSubmitDelay is the voice auto-submit delay.
	DefaultSubmitDelay = 500 * time.Millisecond

	// DefaultMinMessages matches the server's feedback precondition.
	DefaultMinMessages = 4

	// DefaultPasswordMinLength is the client-side minimum password length.
	DefaultPasswordMinLength = 8
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Server: ServerConfig{
			BaseURL:           "http://127.0.0.1:5000",
			TimeoutSecs:       0,
			CSRFPage:          "/auth/login",
			RequestsPerMinute: 60,
		},

		Voice: VoiceConfig{
			Enabled:       false,
			Backend:       "command",
			SubmitDelayMs: int(DefaultSubmitDelay / time.Millisecond),
			Language:      "en-US",
			IntervalMs:    1500,
		},

		Feedback: FeedbackConfig{
			ExportDir:   ".",
			MinMessages: DefaultMinMessages,
		},

		UI: UIConfig{
			Theme:    "dark",
			RichText: true,
		},

		Signup: SignupConfig{
			PasswordMinLength: DefaultPasswordMinLength,
		},
	}
}

// Timeout returns the request timeout; zero means none.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// SubmitDelay returns the voice auto-submit delay.
func (v VoiceConfig) SubmitDelay() time.Duration {
	return time.Duration(v.SubmitDelayMs) * time.Millisecond
}

// Interval returns the whisper re-transcription interval.
func (v VoiceConfig) Interval() time.Duration {
	return time.Duration(v.IntervalMs) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the salestrainer configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".salestrainer"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the log file path, honoring LogFile.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "salestrainer.log"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens config files to 0600; they may hold an API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads KEY=VALUE pairs from .env files into the process
// environment. Variables that are already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
		if dir, err := ConfigDir(); err == nil {
			paths = append(paths, filepath.Join(dir, ".env"))
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// .env files and environment overrides are applied last.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			cfg, err := LoadFromPath(tomlPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			cfg, err := LoadFromPath(jsonPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Defaults plus any load error, for information only.
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
// Values absent from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTo saves the configuration to path, as JSON when path ends in .json
// and as TOML otherwise. The parent directory is created if needed.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if strings.HasSuffix(path, ".json") {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# salestrainer configuration file\n")
	b.WriteString("# Generated by salestrainer - edit with care\n\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"dark", "light", "auto"}

// ValidVoiceBackends lists the accepted voice.backend values.
var ValidVoiceBackends = []string{"command", "whisper"}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Server
	if c.Server.BaseURL == "" {
		errs = append(errs, ValidationError{"server.base_url", "must not be empty"})
	} else if u, err := url.Parse(c.Server.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{"server.base_url", "must be an absolute http(s) URL"})
	}
	if c.Server.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{"server.timeout_secs", "must not be negative"})
	}
	if c.Server.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{"server.requests_per_minute", "must not be negative"})
	}
	if c.Server.CSRFPage != "" && !strings.HasPrefix(c.Server.CSRFPage, "/") {
		errs = append(errs, ValidationError{"server.csrf_page", "must be an absolute path"})
	}

	// Voice
	if !contains(ValidVoiceBackends, c.Voice.Backend) {
		errs = append(errs, ValidationError{"voice.backend",
			fmt.Sprintf("must be one of %s", strings.Join(ValidVoiceBackends, ", "))})
	}
	if c.Voice.SubmitDelayMs < 0 {
		errs = append(errs, ValidationError{"voice.submit_delay_ms", "must not be negative"})
	}
	if c.Voice.IntervalMs < 0 {
		errs = append(errs, ValidationError{"voice.interval_ms", "must not be negative"})
	}
	if c.Voice.Enabled {
		switch c.Voice.Backend {
		case "command":
			if strings.TrimSpace(c.Voice.Command) == "" {
				errs = append(errs, ValidationError{"voice.command", "required when the command backend is enabled"})
			}
		case "whisper":
			if strings.TrimSpace(c.Voice.CaptureCommand) == "" {
				errs = append(errs, ValidationError{"voice.capture_command", "required when the whisper backend is enabled"})
			}
			if c.Voice.OpenAIAPIKey == "" {
				errs = append(errs, ValidationError{"voice.openai_api_key", "required when the whisper backend is enabled"})
			}
		}
	}

	// Feedback
	if c.Feedback.MinMessages < 1 {
		errs = append(errs, ValidationError{"feedback.min_messages", "must be at least 1"})
	}

	// UI
	if !contains(ValidThemes, c.UI.Theme) {
		errs = append(errs, ValidationError{"ui.theme",
			fmt.Sprintf("must be one of %s", strings.Join(ValidThemes, ", "))})
	}

	// Signup
	if c.Signup.PasswordMinLength < 1 {
		errs = append(errs, ValidationError{"signup.password_min_length", "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// SetDefaults fills zero values that have a meaningful default.
// Zero is a legitimate value for the timeout and pacing, so those are left alone.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Server.CSRFPage == "" {
		c.Server.CSRFPage = d.Server.CSRFPage
	}
	if c.Voice.Backend == "" {
		c.Voice.Backend = d.Voice.Backend
	}
	if c.Voice.SubmitDelayMs == 0 {
		c.Voice.SubmitDelayMs = d.Voice.SubmitDelayMs
	}
	if c.Voice.IntervalMs == 0 {
		c.Voice.IntervalMs = d.Voice.IntervalMs
	}
	if c.Voice.Language == "" {
		c.Voice.Language = d.Voice.Language
	}
	if c.Feedback.ExportDir == "" {
		c.Feedback.ExportDir = d.Feedback.ExportDir
	}
	if c.Feedback.MinMessages == 0 {
		c.Feedback.MinMessages = d.Feedback.MinMessages
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Signup.PasswordMinLength == 0 {
		c.Signup.PasswordMinLength = d.Signup.PasswordMinLength
	}
}

// Migrate normalizes older spellings of settings.
func (c *Config) Migrate() error {
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	c.Voice.Backend = strings.ToLower(strings.TrimSpace(c.Voice.Backend))
	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))

	// "openai" was the first name of the whisper backend.
	if c.Voice.Backend == "openai" {
		c.Voice.Backend = "whisper"
	}

	// Locales written with underscores (en_US.UTF-8) are accepted too.
	if c.UI.Locale != "" {
		loc := c.UI.Locale
		if i := strings.IndexAny(loc, ".@"); i >= 0 {
			loc = loc[:i]
		}
		c.UI.Locale = strings.ReplaceAll(loc, "_", "-")
	}

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SALESTRAINER_BASE_URL: overrides server.base_url
//   - SALESTRAINER_TIMEOUT: overrides server.timeout_secs
//   - SALESTRAINER_VOICE: "1" or "true" enables voice input
//   - SALESTRAINER_VOICE_BACKEND: overrides voice.backend
//   - SALESTRAINER_VOICE_COMMAND: overrides voice.command
//   - SALESTRAINER_CAPTURE_COMMAND: overrides voice.capture_command
//   - SALESTRAINER_OPENAI_API_KEY (or OPENAI_API_KEY): overrides voice.openai_api_key
//   - SALESTRAINER_EXPORT_DIR: overrides feedback.export_dir
//   - SALESTRAINER_LOCALE: overrides ui.locale
//   - SALESTRAINER_THEME: overrides ui.theme
//   - SALESTRAINER_LOG_FILE: overrides log_file
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SALESTRAINER_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}

	if v := os.Getenv("SALESTRAINER_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Server.TimeoutSecs = secs
		}
	}

	if v := os.Getenv("SALESTRAINER_VOICE"); v != "" {
		c.Voice.Enabled = v == "1" || strings.ToLower(v) == "true"
	}

	if v := os.Getenv("SALESTRAINER_VOICE_BACKEND"); v != "" {
		c.Voice.Backend = v
	}

	if v := os.Getenv("SALESTRAINER_VOICE_COMMAND"); v != "" {
		c.Voice.Command = v
	}

	if v := os.Getenv("SALESTRAINER_CAPTURE_COMMAND"); v != "" {
		c.Voice.CaptureCommand = v
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Voice.OpenAIAPIKey = v
	}
	if v := os.Getenv("SALESTRAINER_OPENAI_API_KEY"); v != "" {
		c.Voice.OpenAIAPIKey = v
	}

	if v := os.Getenv("SALESTRAINER_EXPORT_DIR"); v != "" {
		c.Feedback.ExportDir = v
	}

	if v := os.Getenv("SALESTRAINER_LOCALE"); v != "" {
		c.UI.Locale = v
	}

	if v := os.Getenv("SALESTRAINER_THEME"); v != "" {
		c.UI.Theme = v
	}

	if v := os.Getenv("SALESTRAINER_LOG_FILE"); v != "" {
		c.LogFile = v
	}
}

// =============================================================================
// COPY / DISPLAY
// =============================================================================

// Clone returns a copy of the configuration. Config holds no maps or slices,
// so a value copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a JSON representation with secrets redacted.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c.Redacted(), "", "  ")
	return string(data)
}

// Redacted returns a copy with secrets replaced, safe to print.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	if safe.Voice.OpenAIAPIKey != "" {
		safe.Voice.OpenAIAPIKey = "[REDACTED]"
	}
	return safe
}

// ErrNoConfigFile is returned by Path when neither config file exists.
var ErrNoConfigFile = errors.New("no config file found")

// Path returns the config file Load would read.
func Path() (string, error) {
	for _, fn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		p, err := fn()
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrNoConfigFile
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the configuration from path, or from the default
// locations when path is empty, and makes it the global instance. On error
// the global configuration is left as it was. Thread-safe.
func ReloadGlobal(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = LoadFromPath(path)
	} else {
		cfg, err = Load()
	}
	if err != nil {
		return nil, err
	}

	// Mark the lazy load as done so it cannot clobber cfg later.
	globalConfigOnce.Do(func() {})

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return cfg, nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	// Mark the lazy load as done so it cannot clobber cfg later.
	globalConfigOnce.Do(func() {})

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
