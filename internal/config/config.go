package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrison/atpath/internal/exclude"
	"github.com/harrison/atpath/internal/filelock"
)

// FileName is the config file inside the atpath home directory
const FileName = "config.yaml"

// DefaultBaseExclusions always apply to search, even with exclusions disabled
var DefaultBaseExclusions = []string{"**/node_modules/**", "**/.git/**"}

// Exclusions holds the per-panel rule blocks, newline-delimited gitignore patterns
type Exclusions struct {
	// OpenFiles filters the open-files panel
	OpenFiles string `yaml:"open_files"`

	// Searcher prunes filename search
	Searcher string `yaml:"searcher"`

	// Collector prunes folder expansion
	Collector string `yaml:"collector"`
}

// Config represents atpath settings
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// ExcludeEnabled applies the Exclusions blocks
	ExcludeEnabled bool `yaml:"exclude_enabled"`

	// PrefixEnabled decorates copied and displayed paths with Prefix
	PrefixEnabled bool `yaml:"prefix_enabled"`

	// Prefix is the mention marker, "@/" by default
	Prefix string `yaml:"prefix"`

	// FullPath displays host paths instead of workspace-relative ones
	FullPath bool `yaml:"full_path"`

	// PersistState restores panel state when a workspace is reopened
	PersistState bool `yaml:"persist_state"`

	// Exclusions are the user rule sets
	Exclusions Exclusions `yaml:"exclusions"`

	// BaseExclusions are search rules applied ahead of Exclusions.Searcher
	BaseExclusions []string `yaml:"base_exclusions"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		ExcludeEnabled: true,
		PrefixEnabled:  true,
		Prefix:         "@/",
		FullPath:       false,
		PersistState:   true,
		BaseExclusions: append([]string(nil), DefaultBaseExclusions...),
	}
}

// LoadConfig loads configuration from the specified file path.
// A missing file yields the defaults; a malformed file is an error.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding onto the defaults leaves unset keys untouched
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration under a cross-process file lock
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := filelock.LockAndWrite(path, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Flags are CLI overrides; nil fields were not given on the command line
type Flags struct {
	LogLevel       *string
	Prefix         *string
	PrefixEnabled  *bool
	FullPath       *bool
	ExcludeEnabled *bool
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(f Flags) {
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.Prefix != nil {
		c.Prefix = *f.Prefix
	}
	if f.PrefixEnabled != nil {
		c.PrefixEnabled = *f.PrefixEnabled
	}
	if f.FullPath != nil {
		c.FullPath = *f.FullPath
	}
	if f.ExcludeEnabled != nil {
		c.ExcludeEnabled = *f.ExcludeEnabled
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.PrefixEnabled && c.Prefix == "" {
		return fmt.Errorf("prefix cannot be empty when prefix_enabled is true")
	}

	for _, block := range []struct{ name, text string }{
		{"exclusions.open_files", c.Exclusions.OpenFiles},
		{"exclusions.searcher", c.Exclusions.Searcher},
		{"exclusions.collector", c.Exclusions.Collector},
	} {
		for _, line := range exclude.ParseLines(block.text) {
			if line == "!" {
				return fmt.Errorf("%s: negation %q has no pattern", block.name, line)
			}
		}
	}

	return nil
}

// SearchRules compiles the base exclusions followed by the searcher block
func (c *Config) SearchRules() *exclude.RuleSet {
	if !c.ExcludeEnabled {
		return exclude.Compile(c.BaseExclusions)
	}
	return exclude.Compile(exclude.Merge(c.BaseExclusions, exclude.ParseLines(c.Exclusions.Searcher)))
}

// CollectorRules compiles the rule set used by folder expansion
func (c *Config) CollectorRules() *exclude.RuleSet {
	if !c.ExcludeEnabled {
		return nil
	}
	return exclude.Parse(c.Exclusions.Collector)
}

// OpenFilesRules compiles the rule set used by the open-files panel
func (c *Config) OpenFilesRules() *exclude.RuleSet {
	if !c.ExcludeEnabled {
		return nil
	}
	return exclude.Parse(c.Exclusions.OpenFiles)
}

// Clone returns a deep copy, letting walks hold a snapshot while settings change
func (c *Config) Clone() *Config {
	out := *c
	out.BaseExclusions = append([]string(nil), c.BaseExclusions...)
	return &out
}
