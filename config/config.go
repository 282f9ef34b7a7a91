package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const DefaultPageSize = 10

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Media    MediaConfig    `mapstructure:"media"`
	Posts    PostsConfig    `mapstructure:"posts"`
	Log      LogConfig      `mapstructure:"log"`
	Groups   []GroupSeed    `mapstructure:"groups"`
}

type ServerConfig struct {
	BindAddress string `mapstructure:"bind_address"`
	// TLSDomains enables autotls when set, e.g. "example.com,www.example.com"
	TLSDomains string `mapstructure:"tls_domains"`
	Mode       string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	// MySQL is used when the DSN is set, SQLite otherwise
	MySQLDSN   string `mapstructure:"mysql_dsn"`
	SQLiteFile string `mapstructure:"sqlite_file"`
}

type SessionConfig struct {
	Key    string `mapstructure:"key"`
	MaxAge int    `mapstructure:"max_age"`
}

type MediaConfig struct {
	// Path is a local directory, used when S3Bucket is empty
	Path      string `mapstructure:"path"`
	S3Bucket  string `mapstructure:"s3_bucket"`
	S3Region  string `mapstructure:"s3_region"`
	S3Key     string `mapstructure:"s3_key"`
	S3Secret  string `mapstructure:"s3_secret"`
	S3Prefix  string `mapstructure:"s3_prefix"`
	ThumbSize uint   `mapstructure:"thumb_size"`
}

type PostsConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// GroupSeed describes a group provisioned at startup. Groups are created by
// the operator through the config file, not through the web interface.
type GroupSeed struct {
	Title       string `mapstructure:"title"`
	Slug        string `mapstructure:"slug"`
	Description string `mapstructure:"description"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.bind_address", "0.0.0.0:8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.sqlite_file", "blog.db")
	v.SetDefault("session.max_age", 30*86400)
	v.SetDefault("media.path", "media")
	v.SetDefault("media.thumb_size", 300)
	v.SetDefault("posts.page_size", DefaultPageSize)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("BLOG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and env vars still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Posts.PageSize <= 0 {
		cfg.Posts.PageSize = DefaultPageSize
	}
	return &cfg, nil
}
