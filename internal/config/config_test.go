package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("BUDGET_TEST_DIR", "/srv/budget")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/Documents/budget.db", want: filepath.Join(home, "Documents/budget.db")},
		{name: "env var", in: "$BUDGET_TEST_DIR/budget.db", want: "/srv/budget/budget.db"},
		{name: "absolute", in: "/tmp/budget.db", want: "/tmp/budget.db"},
		{name: "tilde in the middle", in: "/tmp/~/x", want: "/tmp/~/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Documents", "Budget Manager", "budget.db"), cfg.DatabasePath)
	assert.Empty(t, cfg.BackupPath)
	assert.Equal(t, "windows-1252", cfg.ImportEncoding)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BUDGET_USER_NAME", " alice ")
	t.Setenv("BUDGET_USER_PASSWORD", "pw1")
	t.Setenv("BUDGET_DATABASE_PATH", "/tmp/budget-test/budget.db")

	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "pw1", cfg.Password)
	assert.Equal(t, "/tmp/budget-test/budget.db", cfg.DatabasePath)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: `+filepath.Join(dir, "data.db")+`
  backup_path: `+filepath.Join(dir, "copy.db")+`
import:
  encoding: utf-8
logging:
  level: debug
  format: json
`), 0600))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.db"), cfg.DatabasePath)
	assert.Equal(t, filepath.Join(dir, "copy.db"), cfg.BackupPath)
	assert.Equal(t, "utf-8", cfg.ImportEncoding)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_InMemoryAndEmpty(t *testing.T) {
	v := viper.New()
	v.Set(KeyDatabasePath, ":memory:")
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DatabasePath)

	empty := viper.New()
	_, err = Load(empty)
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := ResolvePath("data/budget.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "data", "budget.db"), got)

	got, err = ResolvePath(" " + MemoryPath + " ")
	require.NoError(t, err)
	assert.Equal(t, MemoryPath, got)

	got, err = ResolvePath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
