package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		Port     string `yaml:"port"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	Server struct {
		Port int    `yaml:"port"`
		Mode string `yaml:"mode"` // "dev" or "prod", controls logging too
	} `yaml:"server"`
	Auth struct {
		Secret  string `yaml:"secret"`
		ExpHour int    `yaml:"exp_hour"`
	} `yaml:"auth"`
	Chatbot struct {
		URL                string `yaml:"url"`
		ConnectTimeoutSec  int    `yaml:"connect_timeout_seconds"`
		ResponseTimeoutSec int    `yaml:"response_timeout_seconds"`
		MaxRetries         int    `yaml:"max_retries"`
		RetryBaseMillis    int    `yaml:"retry_base_millis"`
		MaxHistory         int    `yaml:"max_history"`
	} `yaml:"chatbot"`
	Upload struct {
		Dir            string `yaml:"dir"`
		BaseURL        string `yaml:"base_url"`
		MaxPhotos      int    `yaml:"max_photos"`
		MaxPhotoSizeMB int    `yaml:"max_photo_size_mb"`
	} `yaml:"upload"`
	Usage struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"usage"`
}

// GlobalConfig is the global configuration instance
var GlobalConfig Config

// DSN generates the PostgreSQL DSN from database config
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.Port,
		c.Database.SSLMode,
	)
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Chatbot.ConnectTimeoutSec) * time.Second
}

func (c *Config) ResponseTimeout() time.Duration {
	return time.Duration(c.Chatbot.ResponseTimeoutSec) * time.Second
}

func (c *Config) RetryBase() time.Duration {
	return time.Duration(c.Chatbot.RetryBaseMillis) * time.Millisecond
}

// LoadConfig reads and parses the YAML configuration file into GlobalConfig
func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	GlobalConfig = cfg

	if GlobalConfig.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if GlobalConfig.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if GlobalConfig.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if GlobalConfig.Database.Port == "" {
		return fmt.Errorf("database.port is required")
	}
	if GlobalConfig.Database.SSLMode == "" {
		GlobalConfig.Database.SSLMode = "disable"
	}
	if GlobalConfig.Server.Port < 1 || GlobalConfig.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if GlobalConfig.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if GlobalConfig.Auth.ExpHour == 0 {
		GlobalConfig.Auth.ExpHour = 24
	}
	if GlobalConfig.Chatbot.URL == "" {
		return fmt.Errorf("chatbot.url is required")
	}
	if GlobalConfig.Chatbot.ConnectTimeoutSec == 0 {
		GlobalConfig.Chatbot.ConnectTimeoutSec = 5
	}
	if GlobalConfig.Chatbot.ResponseTimeoutSec == 0 {
		GlobalConfig.Chatbot.ResponseTimeoutSec = 60
	}
	if GlobalConfig.Chatbot.MaxRetries == 0 {
		GlobalConfig.Chatbot.MaxRetries = 3
	}
	if GlobalConfig.Chatbot.RetryBaseMillis == 0 {
		GlobalConfig.Chatbot.RetryBaseMillis = 500
	}
	if GlobalConfig.Chatbot.MaxHistory == 0 {
		GlobalConfig.Chatbot.MaxHistory = 10
	}
	if GlobalConfig.Upload.Dir == "" {
		GlobalConfig.Upload.Dir = "uploads"
	}
	if GlobalConfig.Upload.BaseURL == "" {
		GlobalConfig.Upload.BaseURL = fmt.Sprintf("http://localhost:%d/files", GlobalConfig.Server.Port)
	}
	if GlobalConfig.Upload.MaxPhotos == 0 {
		GlobalConfig.Upload.MaxPhotos = 5
	}
	if GlobalConfig.Upload.MaxPhotoSizeMB == 0 {
		GlobalConfig.Upload.MaxPhotoSizeMB = 10
	}
	if GlobalConfig.Usage.Timezone == "" {
		GlobalConfig.Usage.Timezone = "UTC"
	}

	return nil
}
