// Package config assembles the typed application configuration. Precedence
// from low to high: built-in defaults, the .env file, pixelpress.yaml, the
// process environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ManuelReschke/PixelPress/internal/pkg/env"
)

type App struct {
	Name   string
	Env    string
	Host   string
	Port   int
	Domain string
}

type Log struct {
	Level      string
	JSON       bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type DB struct {
	Driver             string
	Host               string
	Port               int
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
}

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type Upload struct {
	Dir       string
	MaxSizeMB int
	Backend   string
	PublicURL string
}

type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

type Image struct {
	MaxWidth    int
	MaxHeight   int
	Quality     int
	MaxParallel int
}

type Posts struct {
	PerPage int
}

type Metrics struct {
	User     string
	Password string
}

type Admin struct {
	Username string
	Email    string
	Password string
}

type HCaptcha struct {
	SiteKey string
	Secret  string
}

type Config struct {
	App      App
	Log      Log
	DB       DB
	Redis    Redis
	Upload   Upload
	S3       S3
	Image    Image
	Posts    Posts
	Metrics  Metrics
	Admin    Admin
	HCaptcha HCaptcha
}

// binding maps a config key to its environment variable and default.
type binding struct {
	key string
	env string
	def any
}

var bindings = []binding{
	{"app.name", "APP_NAME", "PixelPress"},
	{"app.env", "APP_ENV", "prod"},
	{"app.host", "APP_HOST", "localhost"},
	{"app.port", "APP_PORT", 4000},
	{"app.domain", "PUBLIC_DOMAIN", "http://localhost:4000"},

	{"log.level", "LOG_LEVEL", "info"},
	{"log.json", "LOG_JSON", false},
	{"log.file", "LOG_FILE", ""},
	{"log.maxsizemb", "LOG_MAX_SIZE_MB", 50},
	{"log.maxbackups", "LOG_MAX_BACKUPS", 5},
	{"log.maxagedays", "LOG_MAX_AGE_DAYS", 30},

	{"db.driver", "DB_DRIVER", "mysql"},
	{"db.host", "DB_HOST", "127.0.0.1"},
	{"db.port", "DB_PORT", 3306},
	{"db.user", "DB_USER", ""},
	{"db.password", "DB_PASSWORD", ""},
	{"db.name", "DB_NAME", "pixelpress"},
	{"db.sslmode", "DB_SSLMODE", "disable"},
	{"db.maxopenconns", "DB_MAX_OPEN_CONNS", 20},
	{"db.maxidleconns", "DB_MAX_IDLE_CONNS", 5},
	{"db.connmaxlifetimemin", "DB_CONN_MAX_LIFETIME_MIN", 30},
	{"db.automigrate", "DB_AUTO_MIGRATE", true},

	{"redis.host", "CACHE_HOST", "localhost"},
	{"redis.port", "CACHE_PORT", 6379},
	{"redis.password", "CACHE_PASSWORD", ""},
	{"redis.db", "CACHE_DB", 0},

	{"upload.dir", "UPLOAD_DIR", "uploads"},
	{"upload.maxsizemb", "UPLOAD_MAX_SIZE_MB", 16},
	{"upload.backend", "STORAGE_BACKEND", "local"},
	{"upload.publicurl", "UPLOAD_PUBLIC_URL", "/uploads"},

	{"s3.bucket", "S3_BUCKET", ""},
	{"s3.region", "S3_REGION", "eu-central-1"},
	{"s3.endpoint", "S3_ENDPOINT", ""},
	{"s3.accesskey", "S3_ACCESS_KEY", ""},
	{"s3.secretkey", "S3_SECRET_KEY", ""},
	{"s3.publicurl", "S3_PUBLIC_URL", ""},

	{"image.maxwidth", "IMAGE_MAX_WIDTH", 1200},
	{"image.maxheight", "IMAGE_MAX_HEIGHT", 800},
	{"image.quality", "IMAGE_QUALITY", 85},
	{"image.maxparallel", "IMAGE_MAX_PARALLEL", 2},

	{"posts.perpage", "POSTS_PER_PAGE", 6},

	{"metrics.user", "METRICS_USER", "admin"},
	{"metrics.password", "METRICS_PASSWORD", ""},

	{"admin.username", "ADMIN_USERNAME", "admin"},
	{"admin.email", "ADMIN_EMAIL", "admin@blog.com"},
	{"admin.password", "ADMIN_PASSWORD", "admin123"},

	{"hcaptcha.sitekey", "HCAPTCHA_SITEKEY", ""},
	{"hcaptcha.secret", "HCAPTCHA_SECRET", ""},
}

// Load builds the configuration. configFile may be empty; a missing
// pixelpress.yaml is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for _, b := range bindings {
		v.SetDefault(b.key, b.def)
		// values from the .env file replace the built-in defaults
		if val, ok := env.Env[b.env]; ok && val != "" {
			v.SetDefault(b.key, val)
		}
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pixelpress")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("../../")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	return &c, nil
}

func (c *Config) normalize() {
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	c.Upload.Backend = strings.ToLower(strings.TrimSpace(c.Upload.Backend))
	if c.Image.MaxParallel < 1 {
		c.Image.MaxParallel = 1
	}
	if c.Posts.PerPage < 1 {
		c.Posts.PerPage = 6
	}
}

func (c *Config) IsDev() bool {
	return c.App.Env == "dev"
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}
