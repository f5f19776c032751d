package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for inspex. All fields
// are pointers so an unset key is distinguishable from a zero value when
// resolving CLI > local > global precedence.
type FileConfig struct {
	AWSBin         *string `yaml:"aws_bin"`
	OutputDir      *string `yaml:"output_dir"`
	DefaultRegion  *string `yaml:"default_region"`
	MaxOutputBytes *int64  `yaml:"max_output_bytes"`
	NoColor        *bool   `yaml:"no_color"`
	NoCache        *bool   `yaml:"no_cache"`
	CacheTTL       *string `yaml:"cache_ttl"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the given directory. It supports
// .inspex.yml/.yaml and inspex.yml/.yaml.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".inspex.yml", ".inspex.yaml", "inspex.yml", "inspex.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or
// ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "inspex", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
