package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	CORSOrigin     string `mapstructure:"cors_origin"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type CloudinaryConf struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Folder    string `mapstructure:"folder"`
	// Video uploads stream in chunks; images go up in one call.
	ChunkSizeBytes       int64 `mapstructure:"chunk_size_bytes"`
	UploadTimeoutSeconds int64 `mapstructure:"upload_timeout_seconds"`
}

type UploadConf struct {
	MaxSizeMB int `mapstructure:"max_size_mb"`
}

type JWTConf struct {
	Secret     string `mapstructure:"secret"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

type RateLimitConf struct {
	Max           int `mapstructure:"max"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type Config struct {
	App        AppConf        `mapstructure:"app"`
	Mongo      MongoConf      `mapstructure:"mongodb"`
	Cloudinary CloudinaryConf `mapstructure:"cloudinary"`
	Upload     UploadConf     `mapstructure:"upload"`
	JWT        JWTConf        `mapstructure:"jwt"`
	RateLimit  RateLimitConf  `mapstructure:"rate_limit"`

	// derived
	ShutdownTimeout time.Duration
	RateLimitWindow time.Duration
	JWTTTL          time.Duration
}

// Load reads the optional yaml file at path, then lets environment
// variables override (MONGODB_URI, CLOUDINARY_API_KEY, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app.env", "production")
	v.SetDefault("app.port", 5000)
	v.SetDefault("app.cors_origin", "*")
	v.SetDefault("app.shutdown_seconds", 15)
	v.SetDefault("mongodb.database", "kamson")
	v.SetDefault("cloudinary.folder", "products")
	v.SetDefault("cloudinary.chunk_size_bytes", 6*1024*1024)
	v.SetDefault("cloudinary.upload_timeout_seconds", 120)
	v.SetDefault("upload.max_size_mb", 20)
	v.SetDefault("jwt.ttl_minutes", 24*60)
	v.SetDefault("rate_limit.max", 100)
	v.SetDefault("rate_limit.window_minutes", 15)

	// flat env names used in deployment
	bindings := map[string]string{
		"app.env":               "NODE_ENV",
		"app.port":              "PORT",
		"app.cors_origin":       "CORS_ORIGIN",
		"mongodb.uri":           "MONGODB_URI",
		"mongodb.database":      "MONGODB_DATABASE",
		"cloudinary.cloud_name": "CLOUDINARY_CLOUD_NAME",
		"cloudinary.api_key":    "CLOUDINARY_API_KEY",
		"cloudinary.api_secret": "CLOUDINARY_API_SECRET",
		"jwt.secret":            "JWT_SECRET",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.RateLimitWindow = time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	cfg.JWTTTL = time.Duration(cfg.JWT.TTLMinutes) * time.Minute
	return &cfg, nil
}

func (c *Config) Development() bool {
	return c.App.Env == "development"
}

func (c *Config) MaxUploadBytes() int {
	return c.Upload.MaxSizeMB * 1024 * 1024
}
