package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/errors"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/portage"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/triggers"
)

// Config holds the optional TOML configuration. Every field has a working
// default; the file is only needed to change them.
//
// Example:
//
//	depvars = ["RDEPEND", "PDEPEND"]
//	full_atom = true
//	indent = 4
//
//	[cache]
//	ttl = "48h"
//
//	[report]
//	path = "/home/me/emerge_rdeps.txt"
type Config struct {
	// Depvars is the list of dependency variables examined per hop.
	Depvars []string `toml:"depvars"`

	// FullAtom shows whole atom texts in trigger output instead of bare
	// category/package names.
	FullAtom bool `toml:"full_atom"`

	// Indent is the number of spaces per chain depth level in output.
	Indent int `toml:"indent"`

	Cache  CacheConfig  `toml:"cache"`
	Report ReportConfig `toml:"report"`
}

// CacheConfig configures the portageq response cache.
type CacheConfig struct {
	// Dir overrides the default cache directory.
	Dir string `toml:"dir"`

	// TTL is a duration string such as "24h". Empty uses the default.
	TTL string `toml:"ttl"`

	// Disabled turns response caching off entirely.
	Disabled bool `toml:"disabled"`
}

// ReportConfig configures where the depclean report comes from.
type ReportConfig struct {
	// Path names a captured report file. Empty runs emerge.
	Path string `toml:"path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Depvars: triggers.DepvarNames,
		Indent:  2,
	}
}

// defaultConfigPath is ~/.config/rdep-analyzer/config.toml (per XDG).
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rdep-analyzer", "config.toml"), nil
}

// LoadConfig reads the configuration file at path, or the default location
// when path is empty. A missing file yields the defaults; a file that fails
// to parse is an error, since silently ignoring it would mask typos.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "loading config %s", path)
	}
	if cfg.Indent <= 0 {
		cfg.Indent = 2
	}
	if len(cfg.Depvars) == 0 {
		cfg.Depvars = triggers.DepvarNames
	}
	if cfg.Cache.TTL != "" {
		if _, err := time.ParseDuration(cfg.Cache.TTL); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err,
				"invalid cache.ttl %q", cfg.Cache.TTL)
		}
	}
	return cfg, nil
}

// CacheTTL returns the configured cache TTL, or the portage default.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return portage.DefaultTTL
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return portage.DefaultTTL
	}
	return d
}

// cacheDir returns the cache directory, honoring the config override.
func (c *Config) cacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rdep-analyzer"), nil
}
