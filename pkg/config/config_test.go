package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("VOCAB_TEST_NAME", "words")
	p := writeFile(t, "name: ${VOCAB_TEST_NAME}\nport: 9000\n")

	var s sample
	require.NoError(t, Load(p, &s))
	assert.Equal(t, sample{Name: "words", Port: 9000}, s)
}

func TestLoad_Validates(t *testing.T) {
	p := writeFile(t, "name: x\nport: 0\n")

	var s sample
	err := Load(p, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port must be positive")
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	assert.Error(t, Load(filepath.Join(t.TempDir(), "nope.yaml"), &s))
}

func TestLoadOptional(t *testing.T) {
	s := sample{Name: "default", Port: 8080}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &s)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "default", s.Name, "defaults kept")

	p := writeFile(t, "port: 9090\n")
	found, err = LoadOptional(p, &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "default", Port: 9090}, s)

	bad := sample{}
	_, err = LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &bad)
	assert.Error(t, err, "invalid defaults fail validation")
}
