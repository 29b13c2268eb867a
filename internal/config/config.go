package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	defaultAPIURL         = "http://localhost:3000"
	defaultListenAddress  = "localhost:8080"
	defaultLogLevel       = "info"
	defaultEnv            = EnvLocal
	defaultConfigDir      = ".cattus"
	defaultRequestTimeout = 30
	defaultPageSize       = 50
)

type Config struct {
	Env            string
	APIURL         string
	WSURL          string
	ListenAddress  string
	LogLevel       string
	ConfigDir      string
	StatePath      string
	KeyPath        string
	TokenKey       string
	RequestTimeout time.Duration
	CookieSecure   bool
	CSRFKey        string
	PageSize       int
}

// MustLoad загружает конфигурацию из .env, переменных окружения и
// конфигурационного файла, прочитанного в глобальный viper.
func MustLoad() *Config {
	loadDotEnv()

	cfg, err := Load(viper.GetViper())
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}

	if err := os.MkdirAll(cfg.ConfigDir, 0o700); err != nil {
		fmt.Printf("Ошибка создания директории конфигурации: %v\n", err)
	}

	return cfg
}

func loadDotEnv() {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}
}

// Load builds the configuration from v without touching the filesystem.
func Load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("API_URL", defaultAPIURL)
	v.SetDefault("LISTEN_ADDRESS", defaultListenAddress)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("PAGE_SIZE", defaultPageSize)

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, configDir)
	}

	cfg := &Config{
		Env:            v.GetString("APP_ENV"),
		APIURL:         strings.TrimRight(v.GetString("API_URL"), "/"),
		WSURL:          strings.TrimRight(v.GetString("WS_URL"), "/"),
		ListenAddress:  v.GetString("LISTEN_ADDRESS"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		ConfigDir:      configDir,
		StatePath:      filepath.Join(configDir, "state.db"),
		KeyPath:        filepath.Join(configDir, "state.key"),
		TokenKey:       v.GetString("TOKEN_KEY"),
		RequestTimeout: time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		CSRFKey:        v.GetString("CSRF_KEY"),
		PageSize:       v.GetInt("PAGE_SIZE"),
	}

	if cfg.WSURL == "" {
		cfg.WSURL = deriveWSURL(cfg.APIURL)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func deriveWSURL(apiURL string) string {
	switch {
	case strings.HasPrefix(apiURL, "https://"):
		return "wss://" + strings.TrimPrefix(apiURL, "https://")
	case strings.HasPrefix(apiURL, "http://"):
		return "ws://" + strings.TrimPrefix(apiURL, "http://")
	default:
		return apiURL
	}
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if u, err := url.Parse(c.APIURL); err != nil || u.Host == "" {
		return fmt.Errorf("api_url is invalid: %q", c.APIURL)
	}
	if !strings.HasPrefix(c.WSURL, "ws://") && !strings.HasPrefix(c.WSURL, "wss://") {
		return fmt.Errorf("ws_url must start with ws:// or wss://: %q", c.WSURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes")
	}
	if c.IsProd() && c.CSRFKey == "" {
		return fmt.Errorf("csrf_key is required in prod")
	}
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown app_env: %q", c.Env)
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
