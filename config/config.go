package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting for the harvester. It is built once at process
// start and handed into components; nothing reads the environment directly.
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Search  SearchConfig  `mapstructure:"search"`
	Browser BrowserConfig `mapstructure:"browser"`
	Storage StorageConfig `mapstructure:"storage"`
	Digest  DigestConfig  `mapstructure:"digest"`
	Email   EmailConfig   `mapstructure:"email"`
	Server  ServerConfig  `mapstructure:"server"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug bool `mapstructure:"debug"`
}

// SearchConfig describes the upstream Quick Search endpoint and traversal
// bounds.
type SearchConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AdvancedURL string `mapstructure:"advanced_url"`
	Database    string `mapstructure:"database"`
	Sort        string `mapstructure:"sort"`
	Year        int    `mapstructure:"year"` // 0 = current year
	MaxPages    int    `mapstructure:"max_pages"`
}

// BrowserConfig controls the headless browser session.
type BrowserConfig struct {
	Headless      bool          `mapstructure:"headless"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DownloadPause time.Duration `mapstructure:"download_pause"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// StorageConfig locates everything the harvester writes.
type StorageConfig struct {
	DataDir      string `mapstructure:"data_dir"`
	IndexFile    string `mapstructure:"index_file"`
	ManifestFile string `mapstructure:"manifest_file"`
	ArchiveDir   string `mapstructure:"archive_dir"`
}

// TranscriptsDir is the root of the per-chamber transcript tree.
func (c StorageConfig) TranscriptsDir() string {
	return filepath.Join(c.DataDir, "transcripts")
}

// DigestConfig controls keyword digest generation.
type DigestConfig struct {
	KeywordsFile string   `mapstructure:"keywords_file"`
	Keywords     []string `mapstructure:"keywords"` // fallback when the file is absent
	Radius       int      `mapstructure:"radius"`
	MaxMatches   int      `mapstructure:"max_matches"` // 0 = unlimited
}

// EmailConfig contains SMTP delivery settings for the digest mail.
type EmailConfig struct {
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	From       string   `mapstructure:"from"`
	To         []string `mapstructure:"to"`
	Attach     bool     `mapstructure:"attach"`
	AutoNotify bool     `mapstructure:"auto_notify"`
}

func (e EmailConfig) Validate() error {
	if !e.AutoNotify {
		return nil
	}
	if strings.TrimSpace(e.Host) == "" {
		return fmt.Errorf("email.host required when auto_notify is enabled")
	}
	if len(e.To) == 0 {
		return fmt.Errorf("email.to required when auto_notify is enabled")
	}
	return nil
}

// ServerConfig contains the status API settings used by watch mode.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// WatchConfig contains the daemon schedule. Schedule accepts @hourly,
// @daily, or a standard cron expression.
type WatchConfig struct {
	Schedule string `mapstructure:"schedule"`
}

// Load builds the configuration from defaults, an optional config file and
// HANSARD_* environment variables. When path is empty a missing config file
// is fine; a file that exists but cannot be parsed is an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("general.debug", false)
	v.SetDefault("search.base_url", "https://search.parliament.tas.gov.au/Search/search/search")
	v.SetDefault("search.advanced_url", "https://search.parliament.tas.gov.au/adv/hahansard")
	v.SetDefault("search.database", "Hansard")
	v.SetDefault("search.sort", "-9") // newest first
	v.SetDefault("search.year", 0)
	v.SetDefault("search.max_pages", 5)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout", 40*time.Second)
	v.SetDefault("browser.download_pause", 15*time.Second)
	v.SetDefault("browser.user_agent", "hansard-harvester/1.0 (+https://github.com/parlwatch/hansard)")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.index_file", "")
	v.SetDefault("storage.manifest_file", "")
	v.SetDefault("storage.archive_dir", "")
	v.SetDefault("digest.keywords_file", "keywords.txt")
	v.SetDefault("digest.keywords", []string{"budget", "health", "education", "climate"})
	v.SetDefault("digest.radius", 0)
	v.SetDefault("digest.max_matches", 200)
	v.SetDefault("email.port", 587)
	v.SetDefault("email.attach", true)
	v.SetDefault("email.auto_notify", false)
	v.SetDefault("server.address", ":8787")
	v.SetDefault("watch.schedule", "@daily")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("HANSARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg = cfg.withDerivedPaths()
	if cfg.Search.Year == 0 {
		cfg.Search.Year = time.Now().Year()
	}
	if err := cfg.Email.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withDerivedPaths fills path defaults that hang off the data directory.
func (c Config) withDerivedPaths() Config {
	if c.Storage.IndexFile == "" {
		c.Storage.IndexFile = filepath.Join(c.Storage.DataDir, "seen_index.json")
	}
	if c.Storage.ManifestFile == "" {
		c.Storage.ManifestFile = filepath.Join(c.Storage.DataDir, "last_run.json")
	}
	if c.Storage.ArchiveDir == "" {
		c.Storage.ArchiveDir = filepath.Join(c.Storage.DataDir, "archive.bleve")
	}
	return c
}
