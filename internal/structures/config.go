package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Size       int           `yaml:"size"`
	UserTTL    time.Duration `yaml:"userTTL"`
	ProductTTL time.Duration `yaml:"productTTL"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" validate:"required"`
}

type ScraperConfig struct {
	Mode         string        `yaml:"mode" validate:"required|in:direct,browser"`
	APIBase      string        `yaml:"apiBase" validate:"required|fullUrl"`
	FetchTimeout time.Duration `yaml:"fetchTimeout" validate:"required|min:1"`
	ProductDelay time.Duration `yaml:"productDelay"`
	Headless     bool          `yaml:"headless"`
}

type RefreshConfig struct {
	Hour          int `yaml:"hour" validate:"min:0|max:23"`
	RecencyDays   int `yaml:"recencyDays" validate:"required|min:1"`
	RetentionDays int `yaml:"retentionDays" validate:"required|min:1"`
}

type PushoverConfig struct {
	Token  string `yaml:"token"`
	APIURL string `yaml:"apiUrl"`
}

type SnapshotConfig struct {
	FilePath string `yaml:"filePath" validate:"required|unixPath"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Database  DatabaseConfig `yaml:"database"`
	Scraper   ScraperConfig  `yaml:"scraper"`
	Refresh   RefreshConfig  `yaml:"refresh"`
	Pushover  PushoverConfig `yaml:"pushover"`
	Snapshot  SnapshotConfig `yaml:"snapshot"`
}
