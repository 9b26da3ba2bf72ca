package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, log.InfoLevel, cfg.Level())

	reg := cfg.Registry()
	_, ok := reg.Lookup("Timer")
	assert.True(t, ok)
	assert.Equal(t, len(cfg.Components), reg.Len())
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("LOG_LEVEL", "")

	path := writeConfig(t, `
[server]
addr = ":8080"

[database]
url = "postgres://file"

[log]
level = "debug"

[[components]]
key = "Only"
label = "Only One"
category = "Test"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "postgres://env", cfg.Database.URL)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, []string{"Only"}, cfg.Registry().Keys())
	assert.Equal(t, "Only One", cfg.Components[0].Label)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	tests := []struct {
		name string
		body string
	}{
		{"BadTOML", `[server`},
		{"UnknownKey", "[server]\nport = 1\n"},
		{"BadLevel", "[log]\nlevel = \"loud\"\n"},
		{"BlankKey", "[[components]]\nlabel = \"x\"\n"},
		{"DuplicateKey", "[[components]]\nkey = \"a\"\n[[components]]\nkey = \"a\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "not found")
}
