package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgconfig "github.com/starford/vocabuild/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.AuthEnabled())
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, AuthModeDisabled, cfg.Mode)
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.AuthEnabled())
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is empty")
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	assert.Error(t, cfg.Validate())
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	assert.Error(t, cfg.Validate())
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filepath.Join("data", "media"), cfg.Vocabulary.MediaPath())
	assert.Equal(t, 2*time.Hour, cfg.App.SessionTTL)
}

func TestVocabularyConfig_AbsoluteFileRejected(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Vocabulary.File = "/etc/vocabulary.txt"
	assert.Error(t, cfg.Validate())
}

func TestVocabularyConfig_FileRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Vocabulary.File = ""
	assert.Error(t, cfg.Validate())
}

func TestVocabularyConfig_NoMediaDir(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Vocabulary.MediaDir = ""
	assert.Empty(t, cfg.Vocabulary.MediaPath(), "empty media dir disables media lookup")
}

func TestAudioConfig(t *testing.T) {
	cfg := AudioConfig{Enabled: false}
	require.NoError(t, cfg.Validate(), "disabled audio skips validation")

	cfg = AudioConfig{Enabled: true, Binary: "", WPM: 175}
	assert.Error(t, cfg.Validate(), "enabled audio needs a binary")

	cfg = AudioConfig{Enabled: true, Binary: "espeak-ng", WPM: 20}
	assert.Error(t, cfg.Validate(), "wpm below range")
}

func TestCORSConfig_Enabled(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.False(t, cfg.CORS.Enabled())
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	assert.True(t, cfg.CORS.Enabled())
}

func TestSessionTTL(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.SessionTTL = 0
	require.NoError(t, cfg.Validate(), "zero keeps sessions forever")

	cfg.App.SessionTTL = -time.Minute
	assert.Error(t, cfg.Validate())

	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("app:\n  http:\n    port: 8080\n  session_ttl: 45m\n"), 0o644))
	cfg = NewDefaultConfig()
	found, err := pkgconfig.LoadOptional(p, cfg)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 45*time.Minute, cfg.App.SessionTTL)
}
