package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/digimatspa/sertit-utils/archives"
	"github.com/digimatspa/sertit-utils/internal/constants"
	"github.com/digimatspa/sertit-utils/logs"
)

// Config holds all configuration settings.
type Config struct {
	// OutputPath is the directory where extracted and created files are placed.
	OutputPath string `mapstructure:"output_path"`
	// ScratchDir is the root for temporary working directories.
	// The system temporary directory is used when empty.
	ScratchDir string `mapstructure:"scratch_dir"`
	// Overwrite indicates whether already extracted outputs are replaced.
	Overwrite bool `mapstructure:"overwrite"`
	// ArchiveFormat is the default format for created archives
	// (zip, tar, tar.gz, tar.bz2 or tar.xz).
	ArchiveFormat string `mapstructure:"archive_format"`
	// LogLevel specifies the console logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// FileLogLevel specifies the file logging verbosity level.
	// LogLevel is used when empty.
	FileLogLevel string `mapstructure:"file_log_level"`
	// LogFolder is the directory where log files are written.
	// File logging is disabled when empty.
	LogFolder string `mapstructure:"log_folder"`
	// MaxLogSize is the maximum size of a log file before rotation (e.g., "10MB").
	MaxLogSize string `mapstructure:"max_log_size"`
	// MaxLogBackups is the number of rotated log files to keep.
	MaxLogBackups int64 `mapstructure:"max_log_backups"`
	// ParsedLogLevel is the parsed console zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedFileLogLevel is the parsed file zap log level.
	ParsedFileLogLevel zapcore.Level
	// ParsedArchiveFormat is the parsed default archive format.
	ParsedArchiveFormat archives.Format
	// ParsedMaxLogSizeMB is the parsed log rotation threshold in megabytes.
	ParsedMaxLogSizeMB int64
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".sertit-utils.yaml"

	// DefaultMaxLogSize is the default maximum size for log files.
	DefaultMaxLogSize = "10MB"

	// bytesPerMegabyte converts a byte count into whole megabytes.
	bytesPerMegabyte = 1024 * 1024
)

// Static error definitions for better error handling.
var (
	// ErrEmptyOutputPath indicates that the output path is missing.
	ErrEmptyOutputPath = errors.New("output path cannot be empty")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidMaxLogBackups indicates that the log backups count is invalid.
	ErrInvalidMaxLogBackups = errors.New("max log backups must not be negative")
)

// LoadConfig loads configuration settings from a YAML file.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return ErrEmptyOutputPath
	}

	parsedLogLevel, isLogLevelCorrect := logs.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel
	cfg.ParsedFileLogLevel = parsedLogLevel

	if cfg.FileLogLevel != "" {
		parsedFileLogLevel, isFileLogLevelCorrect := logs.ParseLogLevel(cfg.FileLogLevel)
		if !isFileLogLevelCorrect {
			return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.FileLogLevel)
		}

		cfg.ParsedFileLogLevel = parsedFileLogLevel
	}

	archiveFormat := strings.TrimSpace(cfg.ArchiveFormat)
	if archiveFormat == "" {
		archiveFormat = archives.FormatZip.String()
	}

	parsedArchiveFormat, err := archives.ParseFormat(archiveFormat)
	if err != nil {
		return fmt.Errorf("failed to parse archive format: %w", err)
	}

	cfg.ParsedArchiveFormat = parsedArchiveFormat

	maxLogSize := strings.TrimSpace(cfg.MaxLogSize)
	if maxLogSize == "" {
		maxLogSize = DefaultMaxLogSize
	}

	parsedMaxLogSize, err := humanize.ParseBytes(maxLogSize)
	if err != nil {
		return fmt.Errorf("failed to parse max log size: %w", err)
	}

	// lumberjack measures rotation thresholds in whole megabytes.
	cfg.ParsedMaxLogSizeMB = int64(parsedMaxLogSize / bytesPerMegabyte)
	if cfg.ParsedMaxLogSizeMB == 0 {
		cfg.ParsedMaxLogSizeMB = 1
	}

	if cfg.MaxLogBackups < 0 {
		return ErrInvalidMaxLogBackups
	}

	return nil
}

// SaveConfig saves the configuration to the file while preserving the original format and order.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, cfg.OutputPath, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Update the output_path value in the node tree.
	updateOutputPathInNode(&node, cfg.OutputPath)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// Write the file back with preserved order.
	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile, outputPath string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// File doesn't exist, create it with viper.
	viper.Set("output_path", outputPath)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// updateOutputPathInNode updates the output_path value in the YAML node tree.
func updateOutputPathInNode(node *yaml.Node, outputPath string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value == "output_path" {
			// Update the value while preserving style.
			valueNode.Value = outputPath

			// Ensure it's quoted if it contains special characters.
			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}

			break
		}
	}
}
