package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"CHUNK_SIZE", "NODE_ENDPOINT", "NODE_FALLBACK", "HTTP_TIMEOUT", "KEY_JSON_PATH",
		"WEB3SIGNER_ENDPOINT", "RESULTS_DIR", "SQLITE_PATH", "WEBHOOK_URL", "WEBHOOK_TITLE",
		"LOG_LEVEL", "LOG_DIR", "S3_ENDPOINT", "S3_BUCKET", "S3_SECURE", "S3_REGION",
		"S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_PATH",
	} {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, []string{"127.0.0.1:5052"}, cfg.NodeEndpoints)
	assert.Equal(t, "keys.json", cfg.KeyJSONPath)
	assert.Equal(t, "results", cfg.ResultsDir)
	assert.Equal(t, 20*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.NodeFallback)
	assert.False(t, cfg.S3.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("NODE_ENDPOINT", "node-a:5052, node-b:5052,")
	t.Setenv("KEY_JSON_PATH", "/data/keys.json")
	t.Setenv("S3_ENDPOINT", "s3.local:9000")
	t.Setenv("S3_BUCKET", "reports")

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.ChunkSize)
	assert.Equal(t, []string{"node-a:5052", "node-b:5052"}, cfg.NodeEndpoints)
	assert.Equal(t, "/data/keys.json", cfg.KeyJSONPath)
	assert.Equal(t, "s3.local:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadConfigLayering(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
chunkSize: 250
nodeEndpoints:
  - yaml-node:5052
resultsDir: /var/results
httpTimeout: 5s
`), 0o644))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("CHUNK_SIZE=42\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CHUNK_SIZE") })

	cfg, err := LoadConfig(envPath, yamlPath)
	require.NoError(t, err)

	// the environment (populated from .env) wins over the YAML file
	assert.Equal(t, 42, cfg.ChunkSize)
	assert.Equal(t, []string{"yaml-node:5052"}, cfg.NodeEndpoints)
	assert.Equal(t, "/var/results", cfg.ResultsDir)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoadConfigMissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"), "")
	assert.NoError(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunkSize: [\n"), 0o644))

	_, err := LoadConfig("", path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidChunkSize)

	cfg = DefaultConfig()
	cfg.NodeEndpoints = nil
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.KeyJSONPath = ""
	assert.Error(t, cfg.Validate())
	cfg.Web3SignerEndpoint = "http://web3signer:9000"
	assert.NoError(t, cfg.Validate())
}
