package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Vocabulary VocabularyConfig  `yaml:"vocabulary"`
	SQLite     SQLiteConfig      `yaml:"sqlite"`
	Auth       AuthConfig        `yaml:"auth"`
	Audio      AudioConfig       `yaml:"audio"`
	CORS       CORSConfig        `yaml:"cors"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vocabulary.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Audio.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	// SessionTTL is how long an unused study session is kept. Zero keeps
	// sessions until they are deleted.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.SessionTTL, validation.Min(time.Duration(0)).Error("must not be negative")),
	)
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VocabularyConfig locates the vocabulary data. File, KoreanFile and
// MediaDir are relative to DataDir.
type VocabularyConfig struct {
	DataDir    string `yaml:"data_dir"`
	File       string `yaml:"file"`
	KoreanFile string `yaml:"korean_file"`
	MediaDir   string `yaml:"media_dir"`
}

// Validate validates the vocabulary configuration.
func (c *VocabularyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.File, validation.Required, validation.By(relativePath)),
		validation.Field(&c.KoreanFile, validation.By(relativePath)),
		validation.Field(&c.MediaDir, validation.By(relativePath)),
	)
}

// MediaPath returns the media directory joined onto DataDir, or "" when
// media lookup is disabled.
func (c *VocabularyConfig) MediaPath() string {
	if c.MediaDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, c.MediaDir)
}

func relativePath(value any) error {
	p, _ := value.(string)
	if p != "" && filepath.IsAbs(p) {
		return fmt.Errorf("must be relative to data_dir")
	}
	return nil
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// AudioConfig configures the espeak-ng pronunciation backend.
type AudioConfig struct {
	Enabled bool   `yaml:"enabled"`
	Binary  string `yaml:"binary"`
	Voice   string `yaml:"voice"`
	WPM     int    `yaml:"wpm"`
}

// Validate validates the audio configuration.
func (c *AudioConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Binary, validation.Required),
		validation.Field(&c.WPM, validation.Min(80), validation.Max(450)),
	)
}

// CORSConfig lists the browser origins allowed to call the API. An empty
// list disables CORS headers.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAge         int      `yaml:"max_age"`
}

// Enabled reports whether any origin is allowed.
func (c *CORSConfig) Enabled() bool {
	return len(c.AllowedOrigins) > 0
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
			SessionTTL: 2 * time.Hour,
		},
		Vocabulary: VocabularyConfig{
			DataDir:    "./data",
			File:       "vocabulary.txt",
			KoreanFile: "korean_vocabulary.json",
			MediaDir:   "media",
		},
		SQLite: SQLiteConfig{
			Path: "./vocabuild.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Audio: AudioConfig{
			Enabled: true,
			Binary:  "espeak-ng",
			Voice:   "en-us",
			WPM:     175,
		},
		CORS: CORSConfig{
			MaxAge: 300,
		},
	}
}
