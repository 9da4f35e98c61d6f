package format

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents output formatting options
type Config struct {
	IndentSize   int  `yaml:"indent_size" mapstructure:"indent_size"`
	FinalNewline bool `yaml:"final_newline" mapstructure:"final_newline"`
}

// DefaultConfig returns the default formatting configuration
func DefaultConfig() *Config {
	return &Config{
		IndentSize:   2,
		FinalNewline: false,
	}
}

// Indent returns the string used for one indentation level
func (c *Config) Indent() string {
	size := c.IndentSize
	if size <= 0 {
		size = 2
	}
	return strings.Repeat(" ", size)
}

// LoadConfig loads formatting configuration from a file
// If the file doesn't exist, returns the default configuration
func LoadConfig(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Format Config `yaml:"format"`
	}

	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}

	// Set defaults for any missing values
	config := &wrapper.Format
	if config.IndentSize == 0 {
		config.IndentSize = 2
	}

	return config, nil
}

// SaveConfig saves the formatting configuration to a file
func SaveConfig(path string, config *Config) error {
	wrapper := struct {
		Format Config `yaml:"format"`
	}{
		Format: *config,
	}

	data, err := yaml.Marshal(wrapper)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
