package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath   = "database.path"
	KeyBackupPath     = "database.backup_path"
	KeyUserName       = "user.name"
	KeyUserPassword   = "user.password"
	KeyImportEncoding = "import.encoding"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
)

// EnvPrefix is prepended to environment overrides, e.g. BUDGET_USER_NAME.
const EnvPrefix = "BUDGET"

// DefaultDatabasePath is where the budget lives unless configured otherwise.
const DefaultDatabasePath = "~/Documents/Budget Manager/budget.db"

// Config is the resolved application configuration.
type Config struct {
	DatabasePath   string
	BackupPath     string
	Username       string
	Password       string
	ImportEncoding string
	LogLevel       string
	LogFormat      string
}

// SetDefaults registers defaults and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyImportEncoding, "windows-1252")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from v. Paths have ~ and $VAR expanded and
// are made absolute.
func Load(v *viper.Viper) (*Config, error) {
	dbPath, err := ResolvePath(v.GetString(KeyDatabasePath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyDatabasePath, err)
	}
	if dbPath == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyDatabasePath)
	}
	backupPath, err := ResolvePath(v.GetString(KeyBackupPath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyBackupPath, err)
	}

	return &Config{
		DatabasePath:   dbPath,
		BackupPath:     backupPath,
		Username:       strings.TrimSpace(v.GetString(KeyUserName)),
		Password:       v.GetString(KeyUserPassword),
		ImportEncoding: v.GetString(KeyImportEncoding),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
	}, nil
}

// DefaultConfigDir is the directory searched for config.yaml.
func DefaultConfigDir() string {
	return ExpandPath("~/.config/budget")
}
