package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures where artifacts come from and where they land.
type Config struct {
	// ToolsDir overrides the resolved tools root when set.
	ToolsDir string `yaml:"tools_dir"`

	IdfRepository string `yaml:"idf_repository"`
	DistBaseURL   string `yaml:"dist_base_url"`

	GccRepository string `yaml:"gcc_repository"`
	GccRelease    string `yaml:"gcc_release"`
	GccVersion    string `yaml:"gcc_version"`

	LlvmRepository string `yaml:"llvm_repository"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		IdfRepository:  "https://github.com/espressif/esp-idf",
		DistBaseURL:    "https://dl.espressif.com/dl",
		GccRepository:  "https://github.com/espressif/crosstool-NG/releases/download",
		GccRelease:     "esp-2021r2-patch3",
		GccVersion:     "gcc8_4_0",
		LlvmRepository: "https://github.com/espressif/llvm-project/releases/download",
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise
// returns the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || path == "" {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures fields fall back to the baseline when the YAML
// omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.IdfRepository == "" {
		c.IdfRepository = defaults.IdfRepository
	}
	if c.DistBaseURL == "" {
		c.DistBaseURL = defaults.DistBaseURL
	}
	if c.GccRepository == "" {
		c.GccRepository = defaults.GccRepository
	}
	if c.GccRelease == "" {
		c.GccRelease = defaults.GccRelease
	}
	if c.GccVersion == "" {
		c.GccVersion = defaults.GccVersion
	}
	if c.LlvmRepository == "" {
		c.LlvmRepository = defaults.LlvmRepository
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
