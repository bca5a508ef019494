package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds user-level settings, loaded from a TOML file.
//
// The default location is ~/.config/dotforge/config.toml. A missing file is
// not an error; all fields have working defaults.
type Config struct {
	// Cache settings for rendered artifacts.
	CacheBackend string   `toml:"cache_backend"` // "file", "redis", or "none"
	CacheDir     string   `toml:"cache_dir"`
	CacheTTL     duration `toml:"cache_ttl"`
	RedisAddr    string   `toml:"redis_addr"`

	// Render defaults, overridable per invocation.
	Format string `toml:"format"`
	Engine string `toml:"engine"` // empty means pick by graph directedness

	// Graph store settings.
	StoreBackend  string `toml:"store_backend"` // "file" or "mongo"
	StoreDir      string `toml:"store_dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	// HTTP server settings.
	Listen string `toml:"listen"`
}

// duration wraps time.Duration so TOML values like "24h" parse directly.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() *Config {
	return &Config{
		CacheBackend:  "file",
		CacheDir:      defaultCacheDir(),
		CacheTTL:      duration{24 * time.Hour},
		Format:        "svg",
		StoreBackend:  "file",
		StoreDir:      defaultStoreDir(),
		MongoDatabase: "dotforge",
		Listen:        ":8080",
	}
}

// loadConfig reads the configuration file at path, or the default location
// when path is empty. A missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = defaultConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dotforge", "config.toml")
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "dotforge-cache")
	}
	return filepath.Join(base, "dotforge")
}

func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "dotforge-graphs")
	}
	return filepath.Join(home, ".dotforge", "graphs")
}
