package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBootstrapsDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxee", "config.json")

	config, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig.OpenaiAPIHost, config.OpenaiAPIHost)
	assert.Equal(t, defaultConfig.RequestTimeout, config.RequestTimeout)
	assert.Equal(t, defaultConfig.MaxTokens, config.MaxTokens)

	// The file now exists with the defaults serialized.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestParseExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	document := `{
  "openai_api_key": "k",
  "openai_api_host": "https://example.com/v1",
  "request_timeout": 30,
  "default_agent": "deepseek-chat",
  "max_tokens": 1024,
  "transcript_directory": "/tmp/voxee-chats",
  "agents_file": "/tmp/voxee-agents.json"
}`
	require.NoError(t, os.WriteFile(path, []byte(document), 0644))

	config, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "k", config.OpenaiAPIKey)
	assert.Equal(t, "https://example.com/v1", config.OpenaiAPIHost)
	assert.Equal(t, 30, config.RequestTimeout)
	assert.Equal(t, "deepseek-chat", config.DefaultAgent)
	assert.Equal(t, "/tmp/voxee-chats", config.TranscriptDirectory)
}
