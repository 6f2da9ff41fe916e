package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port      string `yaml:"port"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"server"`
	Storage struct {
		Type      string `yaml:"type"` // "local" or "s3"
		LocalDir  string `yaml:"local_dir"`
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Bucket    string `yaml:"bucket"`
		UseSSL    bool   `yaml:"use_ssl"`
	} `yaml:"storage"`
	Extraction struct {
		URL string `yaml:"url"`
	} `yaml:"extraction_service"`
	Detection struct {
		RemoteURL        string  `yaml:"remote_url"`
		DefaultProvider  string  `yaml:"default_provider"`
		DefaultThreshold float64 `yaml:"default_threshold"`
	} `yaml:"ai_detection"`
	Embedding struct {
		URL     string `yaml:"url"`
		Model   string `yaml:"model"`
		Enabled bool   `yaml:"enabled"`
	} `yaml:"embedding"`
	Worker struct {
		PollInterval    int64 `yaml:"poll_interval_seconds"`
		StaleJobTimeout int64 `yaml:"stale_job_timeout_seconds"`
	} `yaml:"worker"`
}

// LoadConfig reads configuration from the specified YAML file. Secrets can
// be overridden through the environment so they stay out of the config file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.Server.JWTSecret = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		config.Storage.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		config.Storage.SecretKey = v
	}

	if config.Detection.DefaultProvider == "" {
		config.Detection.DefaultProvider = "local"
	}
	if config.Detection.DefaultThreshold == 0 {
		config.Detection.DefaultThreshold = 0.5
	}
	if config.Worker.PollInterval == 0 {
		config.Worker.PollInterval = 2
	}
	if config.Worker.StaleJobTimeout == 0 {
		config.Worker.StaleJobTimeout = 600
	}

	return config, nil
}
