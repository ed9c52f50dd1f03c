package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/voxee/voxee/file"
)

var defaultConfig = Config{
	OpenaiAPIKey:        "API_KEY",
	OpenaiAPIHost:       "https://api.openai.com/v1",
	AnthropicAPIKey:     "",
	RequestTimeout:      120,
	DefaultAgent:        "gpt-4o-mini",
	MaxTokens:           8192,
	TranscriptDirectory: "~/.voxee/chats",
	AgentsFile:          "~/.voxee/agents.json",
}

// Config holds configuration for the voxee tool.
type Config struct {
	OpenaiAPIKey        string `json:"openai_api_key"`
	OpenaiAPIHost       string `json:"openai_api_host"`
	AnthropicAPIKey     string `json:"anthropic_api_key"`
	RequestTimeout      int    `json:"request_timeout"`
	DefaultAgent        string `json:"default_agent"`
	MaxTokens           int    `json:"max_tokens"`
	TranscriptDirectory string `json:"transcript_directory"`
	AgentsFile          string `json:"agents_file"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}

	expandedTranscriptDirectory, err := file.ExpandPath(config.TranscriptDirectory)
	if err != nil {
		return nil, errors.Wrap(err, "expanding transcript directory path")
	}
	config.TranscriptDirectory = expandedTranscriptDirectory

	expandedAgentsFile, err := file.ExpandPath(config.AgentsFile)
	if err != nil {
		return nil, errors.Wrap(err, "expanding agents file path")
	}
	config.AgentsFile = expandedAgentsFile
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
