package config

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Groq       GroqConfig       `yaml:"groq"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	UploadMaxMB int      `yaml:"upload_max_mb"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// GroqConfig points at an OpenAI-compatible chat completion endpoint.
type GroqConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type ElevenLabsConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

func Default() *Config {
	return &Config{
		Server:     ServerConfig{Port: 9871, UploadMaxMB: 25, CORSOrigins: []string{"*"}},
		Log:        LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Groq:       GroqConfig{BaseURL: "https://api.groq.com/openai/v1", Model: "llama-3.3-70b-versatile"},
		ElevenLabs: ElevenLabsConfig{BaseURL: "https://api.elevenlabs.io", Model: "scribe_v1"},
		Auth:       AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		Database:   DatabaseConfig{Port: 3306, Name: "voice_todo"},
	}
}

func Load(configFile string) *Config {
	c := Default()

	paths := []string{"etc/config-dev.yaml", "/etc/voice-todo/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, c); err != nil {
				slog.Warn("config file ignored, using defaults", "path", path, "err", err)
			}
			break
		}
	}

	envOverride(&c.Groq.BaseURL, "GROQ_BASE_URL")
	envOverride(&c.Groq.APIKey, "GROQ_API_KEY")
	envOverride(&c.Groq.Model, "GROQ_MODEL")
	envOverride(&c.ElevenLabs.BaseURL, "ELEVENLABS_BASE_URL")
	envOverride(&c.ElevenLabs.APIKey, "ELEVENLABS_API_KEY")
	envOverride(&c.ElevenLabs.Model, "ELEVENLABS_MODEL")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Database.Host, "MYSQL_HOST")
	envOverride(&c.Database.User, "MYSQL_USER")
	envOverride(&c.Database.Password, "MYSQL_PASS")
	envOverride(&c.Database.Name, "MYSQL_DB")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Server.UploadMaxMB, "UPLOAD_MAX_MB")
	envOverrideInt(&c.Database.Port, "MYSQL_PORT")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// UploadLimit is the maximum accepted audio upload in bytes.
func (c *Config) UploadLimit() int64 {
	if c.Server.UploadMaxMB <= 0 {
		return 25 << 20
	}
	return int64(c.Server.UploadMaxMB) << 20
}

// DatabaseEnabled reports whether login and the action log are available.
func (c *Config) DatabaseEnabled() bool {
	return c.Database.Host != ""
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
