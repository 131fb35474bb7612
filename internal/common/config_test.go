package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XRAY_CLIENT_ID", "client-id")
	t.Setenv("XRAY_CLIENT_SECRET", "client-secret")
}

func TestLoadConfigFromEnv(t *testing.T) {
	setRequiredEnv(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "client-id", config.Xray.ClientID)
	assert.Equal(t, "client-secret", config.Xray.ClientSecret)
	assert.Equal(t, "https://xray.cloud.getxray.app", config.Xray.BaseURL)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadConfigMissingClientID(t *testing.T) {
	t.Setenv("XRAY_CLIENT_ID", "")
	t.Setenv("XRAY_CLIENT_SECRET", "client-secret")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindConfig, xrayerrors.KindOf(err))
	assert.Contains(t, err.Error(), "XRAY_CLIENT_ID")
}

func TestLoadConfigMissingClientSecret(t *testing.T) {
	t.Setenv("XRAY_CLIENT_ID", "client-id")
	t.Setenv("XRAY_CLIENT_SECRET", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindConfig, xrayerrors.KindOf(err))
	assert.Contains(t, err.Error(), "XRAY_CLIENT_SECRET")
}

func TestLoadConfigRejectsNonHTTPSBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("XRAY_BASE_URL", "http://xray.example.com")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindConfig, xrayerrors.KindOf(err))
	assert.Contains(t, err.Error(), "https")
}

func TestLoadConfigRejectsMalformedBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("XRAY_BASE_URL", "not a url")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindConfig, xrayerrors.KindOf(err))
}

func TestLoadConfigCustomBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("XRAY_BASE_URL", "https://xray.internal.example.com")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://xray.internal.example.com", config.Xray.BaseURL)
}

func TestLoadConfigFileThenEnvPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xray-mcp.toml")
	content := `
[xray]
client_id = "file-id"
client_secret = "file-secret"
base_url = "https://file.example.com"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// Environment overrides the file.
	t.Setenv("XRAY_CLIENT_ID", "env-id")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-id", config.Xray.ClientID)
	assert.Equal(t, "file-secret", config.Xray.ClientSecret)
	assert.Equal(t, "https://file.example.com", config.Xray.BaseURL)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfigUnreadableFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Equal(t, xrayerrors.KindConfig, xrayerrors.KindOf(err))
}
