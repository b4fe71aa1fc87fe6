package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blocksets/internal/server"
	"github.com/matzehuels/blocksets/pkg/archive"
	"github.com/matzehuels/blocksets/pkg/errors"
	"github.com/matzehuels/blocksets/pkg/pipeline"
)

// configFile is the profile name looked up in the config directory.
const configFile = "config.toml"

// Backend names accepted by the cache and archive sections.
const (
	backendNone  = "none"
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
)

// Config is the optional TOML profile. Every field has a working default,
// so a missing profile is not an error.
//
//	[pipeline]
//	mode = "decompose"
//	max_entities = 10
//
//	[pipeline.split]
//	max_deletions = 4
//	split_ratio = 0.25
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[archive]
//	backend = "mongo"
//	mongo = { uri = "mongodb://localhost:27017" }
//
//	[server]
//	addr = ":9090"
//	request_timeout = "30s"
type Config struct {
	Pipeline pipeline.Options `toml:"pipeline"`
	Cache    CacheConfig      `toml:"cache"`
	Archive  ArchiveConfig    `toml:"archive"`
	Server   server.Config    `toml:"server"`
}

// CacheConfig selects where split and decompose results are cached.
type CacheConfig struct {
	Backend  string `toml:"backend"` // file (default), redis or none
	Dir      string `toml:"dir"`     // file backend, defaults to ~/.cache/blocksets
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// ArchiveConfig selects where runs are recorded.
type ArchiveConfig struct {
	Backend string              `toml:"backend"` // file (default), mongo or none
	Dir     string              `toml:"dir"`     // file backend, defaults to ~/.local/share/blocksets/runs
	Mongo   archive.MongoConfig `toml:"mongo"`
}

func defaultConfig() *Config {
	return &Config{
		Cache:   CacheConfig{Backend: backendFile},
		Archive: ArchiveConfig{Backend: backendFile},
	}
}

// loadConfig reads the profile at path. An empty path falls back to the
// profile in the config directory, which may be absent.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	} else if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidOptions, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Cache.Backend == "" {
		c.Cache.Backend = backendFile
	}
	if c.Archive.Backend == "" {
		c.Archive.Backend = backendFile
	}
	switch c.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidOptions, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Archive.Backend {
	case backendFile, backendNone, backendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidOptions, "unknown archive backend %q", c.Archive.Backend)
	}
	if c.Pipeline.Mode != "" {
		if err := pipeline.ValidateMode(c.Pipeline.Mode); err != nil {
			return err
		}
	}
	return nil
}
