package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/digimatspa/sertit-utils/archives"
	"github.com/digimatspa/sertit-utils/internal/constants"
)

// TestLoadConfig tests the LoadConfig function.
//
//nolint:tparallel // It's a test function and it's not parallel to avoid race conditions.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name           string
		configFilename string
		configContent  string
		expectError    bool
		expectedError  string
	}{
		{
			name:           "valid config file",
			configFilename: "valid_config.yaml",
			configContent: `
output_path: "/tmp/products"
scratch_dir: "/tmp/scratch"
overwrite: true
archive_format: "zip"
log_level: "info"
file_log_level: "debug"
log_folder: "/tmp/logs"
max_log_size: "10MB"
max_log_backups: 3
`,
			expectError: false,
		},
		{
			name:           "non-existent file",
			configFilename: "non_existent.yaml",
			expectError:    true,
			expectedError:  "failed to read config from file",
		},
		{
			name:           "invalid yaml",
			configFilename: "invalid.yaml",
			configContent: `
invalid: yaml: content: [unclosed
`,
			expectError:   true,
			expectedError: "failed to read config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				tempDir    = t.TempDir()
				configPath = filepath.Join(tempDir, "non_existent.yaml")
			)

			if tt.configFilename != "" {
				configPath = filepath.Join(tempDir, tt.configFilename)
			}

			if tt.configContent != "" {
				err := os.WriteFile(configPath, []byte(tt.configContent), constants.DefaultFilePermissions)
				require.NoError(t, err)
			}

			cfg, err := LoadConfig(configPath)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, cfg)
				assert.Equal(t, "/tmp/products", cfg.OutputPath)
				assert.Equal(t, "/tmp/scratch", cfg.ScratchDir)
				assert.True(t, cfg.Overwrite)
				assert.Equal(t, "zip", cfg.ArchiveFormat)
				assert.Equal(t, int64(3), cfg.MaxLogBackups)
			}
		})
	}
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      *Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: &Config{
				OutputPath:    "/tmp/products",
				ArchiveFormat: "tar.gz",
				LogLevel:      "info",
				FileLogLevel:  "debug",
				MaxLogSize:    "10MB",
			},
			expectError: false,
		},
		{
			name: "defaults fill in",
			config: &Config{
				OutputPath: "/tmp/products",
				LogLevel:   "info",
			},
			expectError: false,
		},
		{
			name: "empty output path",
			config: &Config{
				OutputPath: "   ",
				LogLevel:   "info",
			},
			expectError: true,
			errorMsg:    "output path cannot be empty",
		},
		{
			name: "invalid log level",
			config: &Config{
				OutputPath: "/tmp/products",
				LogLevel:   "invalid",
			},
			expectError: true,
			errorMsg:    "unknown log level:",
		},
		{
			name: "invalid file log level",
			config: &Config{
				OutputPath:   "/tmp/products",
				LogLevel:     "info",
				FileLogLevel: "chatty",
			},
			expectError: true,
			errorMsg:    "unknown log level:",
		},
		{
			name: "invalid archive format",
			config: &Config{
				OutputPath:    "/tmp/products",
				LogLevel:      "info",
				ArchiveFormat: "rar",
			},
			expectError: true,
			errorMsg:    "failed to parse archive format",
		},
		{
			name: "invalid max log size",
			config: &Config{
				OutputPath: "/tmp/products",
				LogLevel:   "info",
				MaxLogSize: "a lot",
			},
			expectError: true,
			errorMsg:    "failed to parse max log size",
		},
		{
			name: "negative max log backups",
			config: &Config{
				OutputPath:    "/tmp/products",
				LogLevel:      "info",
				MaxLogBackups: -1,
			},
			expectError: true,
			errorMsg:    "max log backups must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateConfig(tt.config)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, zapcore.InfoLevel, tt.config.ParsedLogLevel)
			}
		})
	}
}

// TestValidateConfig_Derived tests derived field computation.
func TestValidateConfig_Derived(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		OutputPath:   "/tmp/products",
		LogLevel:     "warn",
		FileLogLevel: "debug",
		MaxLogSize:   "25MiB",
	}

	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, zapcore.WarnLevel, cfg.ParsedLogLevel)
	assert.Equal(t, zapcore.DebugLevel, cfg.ParsedFileLogLevel)
	assert.Equal(t, archives.FormatZip, cfg.ParsedArchiveFormat)
	assert.Equal(t, int64(25), cfg.ParsedMaxLogSizeMB)
}

// TestValidateConfig_TinyLogSize tests that sub-megabyte thresholds round up.
func TestValidateConfig_TinyLogSize(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		OutputPath: "/tmp/products",
		LogLevel:   "info",
		MaxLogSize: "100KB",
	}

	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, int64(1), cfg.ParsedMaxLogSizeMB)
}

// TestSaveConfig tests that saving preserves key order and updates output_path.
func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	original := `# archive tooling settings
log_level: "info"
output_path: "/old/path"
overwrite: false
`

	require.NoError(t, os.WriteFile(configPath, []byte(original), constants.DefaultFilePermissions))

	viper.Reset()
	viper.SetConfigFile(configPath)
	require.NoError(t, viper.ReadInConfig())

	cfg := &Config{OutputPath: "/new/path"}
	require.NoError(t, SaveConfig(cfg))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, `output_path: "/new/path"`)

	// Key order is kept: log_level still comes before output_path.
	assert.Less(t, strings.Index(text, "log_level"), strings.Index(text, "output_path"))
}

// TestSaveConfig_CreatesMissingFile tests that saving bootstraps a new file.
func TestSaveConfig_CreatesMissingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "fresh.yaml")

	viper.Reset()
	viper.SetConfigFile(configPath)

	cfg := &Config{OutputPath: "/data/products"}
	require.NoError(t, SaveConfig(cfg))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "output_path")
	assert.Contains(t, text, "/data/products")
}
