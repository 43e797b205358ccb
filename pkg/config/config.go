package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for uvmigrate
type Config struct {
	// DescriptorName is the legacy per-module manifest file name.
	DescriptorName string `mapstructure:"descriptor_name"`
	// RequirementsName is the plain dependency list file name.
	RequirementsName string `mapstructure:"requirements_name"`
	// ManifestName is the generated target manifest file name.
	ManifestName string `mapstructure:"manifest_name"`
	// ModuleDirs lists the workspace directories scanned for modules,
	// in enumeration order. The directory name doubles as the folder category.
	ModuleDirs []string `mapstructure:"module_dirs"`
	// Exclude holds doublestar globs for module paths to skip during discovery.
	Exclude []string `mapstructure:"exclude"`
	// PythonRequires is the requires-python constraint written to every manifest.
	PythonRequires string `mapstructure:"python_requires"`
	// Concurrency bounds parallel batch migration. 1 means sequential.
	Concurrency int `mapstructure:"concurrency"`
}

var defaultConfig = Config{
	DescriptorName:   "init.yaml",
	RequirementsName: "requirements.txt",
	ManifestName:     "pyproject.toml",
	ModuleDirs:       []string{"cores", "utils", "managers", "plugins", "mcps"},
	Exclude:          []string{"**/.venv", "**/venv", "**/__pycache__", "**/*.egg-info"},
	PythonRequires:   ">=3.11",
	Concurrency:      1,
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaultConfig
	cfg.ModuleDirs = append([]string(nil), defaultConfig.ModuleDirs...)
	cfg.Exclude = append([]string(nil), defaultConfig.Exclude...)
	return &cfg
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("descriptor_name", defaultConfig.DescriptorName)
	v.SetDefault("requirements_name", defaultConfig.RequirementsName)
	v.SetDefault("manifest_name", defaultConfig.ManifestName)
	v.SetDefault("module_dirs", defaultConfig.ModuleDirs)
	v.SetDefault("exclude", defaultConfig.Exclude)
	v.SetDefault("python_requires", defaultConfig.PythonRequires)
	v.SetDefault("concurrency", defaultConfig.Concurrency)

	// Configuration file search paths
	v.SetConfigName("uvmigrate")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // Current directory
	v.AddConfigPath("$HOME") // Home directory

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the migrator cannot operate with.
func (c *Config) Validate() error {
	if c.DescriptorName == "" {
		return fmt.Errorf("descriptor_name must not be empty")
	}
	if c.ManifestName == "" {
		return fmt.Errorf("manifest_name must not be empty")
	}
	if len(c.ModuleDirs) == 0 {
		return fmt.Errorf("module_dirs must list at least one directory")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}
