package cmd_test

import (
	"archive/zip"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// testBinaryName is the name of the test binary for E2E tests.
	testBinaryName = "sertit-utils-test"
)

// TestMain builds the binary before running E2E tests.
func TestMain(m *testing.M) {
	// Build the binary for testing.
	//nolint:noctx // TestMain doesn't have access to context, and build is needed before tests run.
	buildCmd := exec.Command("go", "build", "-o", testBinaryName, "../.")
	if err := buildCmd.Run(); err != nil {
		os.Exit(1)
	}

	// Run tests.
	code := m.Run()

	// Cleanup.
	_ = os.Remove(testBinaryName)

	os.Exit(code)
}

// writeTestConfig writes a minimal configuration file and returns its path.
func writeTestConfig(t *testing.T, dir, outputPath string) string {
	t.Helper()

	configPath := filepath.Join(dir, "config.yaml")
	content := `
output_path: "` + outputPath + `"
overwrite: false
archive_format: "zip"
log_level: "info"
`

	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644)) //nolint:gosec // It's a test file.

	return configPath
}

// TestE2E_CreateAndExtract packs a folder, lists the result and extracts it back.
func TestE2E_CreateAndExtract(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	outputDir := filepath.Join(tempDir, "output")
	configPath := writeTestConfig(t, tempDir, outputDir)

	// Folder with one data file to pack.
	productDir := filepath.Join(tempDir, "product_a")
	require.NoError(t, os.MkdirAll(productDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(productDir, "data.txt"), []byte("payload"), 0o644))

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	createCmd := exec.Command("./"+testBinaryName, "create", "--config", configPath, productDir)

	output, err := createCmd.CombinedOutput()
	require.NoError(t, err, "create failed: %s", output)

	archivePath := filepath.Join(outputDir, "product_a.zip")
	require.FileExists(t, archivePath)

	// The folder itself is the root entry of the archive.
	reader, err := zip.OpenReader(archivePath)
	require.NoError(t, err)

	var names []string
	for _, member := range reader.File {
		names = append(names, member.Name)
	}

	require.NoError(t, reader.Close())
	assert.Contains(t, names, "product_a/data.txt")

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	membersCmd := exec.Command("./"+testBinaryName, "members", "--config", configPath, archivePath)

	output, err = membersCmd.CombinedOutput()
	require.NoError(t, err, "members failed: %s", output)
	assert.Contains(t, string(output), "product_a/data.txt")

	extractDir := filepath.Join(tempDir, "extracted")

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	extractCmd := exec.Command("./"+testBinaryName,
		"extract", "--config", configPath, "--output", extractDir, archivePath)

	output, err = extractCmd.CombinedOutput()
	require.NoError(t, err, "extract failed: %s", output)

	content, err := os.ReadFile(filepath.Join(extractDir, "product_a", "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
}

// TestE2E_ConfigSetOutputBootstrap tests that set-output creates a missing
// configuration file instead of failing to load it.
func TestE2E_ConfigSetOutputBootstrap(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "fresh.yaml")
	outputDir := filepath.Join(tempDir, "output")

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	setCmd := exec.Command("./"+testBinaryName, "config", "set-output", "--config", configPath, outputDir)

	output, err := setCmd.CombinedOutput()
	require.NoError(t, err, "set-output failed: %s", output)

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), outputDir)
}

// TestE2E_InvalidFlagValues tests that invalid flag values are rejected.
func TestE2E_InvalidFlagValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		args             []string
		expectedErrorMsg string
	}{
		{
			name:             "invalid archive format",
			args:             []string{"create", "--format", "rar", "some-folder"},
			expectedErrorMsg: "failed to parse archive format",
		},
		{
			name:             "invalid log level",
			args:             []string{"members", "--log-level", "chatty", "some-archive.zip"},
			expectedErrorMsg: "unknown log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tempDir := t.TempDir()
			configPath := writeTestConfig(t, tempDir, filepath.Join(tempDir, "output"))

			args := append([]string{tt.args[0], "--config", configPath}, tt.args[1:]...)

			//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
			cmd := exec.Command("./"+testBinaryName, args...)
			output, err := cmd.CombinedOutput()

			require.Error(t, err)
			assert.Contains(t, strings.ToLower(string(output)), strings.ToLower(tt.expectedErrorMsg),
				"Expected error message about '%s' but got: %s", tt.expectedErrorMsg, output)
		})
	}
}
