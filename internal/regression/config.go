// Package regression содержит общий код регрессионного набора: конфигурацию
// окружения, HTTP-клиент магазина и мелкие помощники для тестов.
package regression

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigFile ищется в рабочем каталоге, если путь не задан явно.
	DefaultConfigFile = "regression.yaml"

	// CIRetries - число повторов шагов UI в CI.
	CIRetries = 2
)

// Config описывает окружение прогона.
type Config struct {
	APIURL        string        `mapstructure:"api_url"`
	FrontendURL   string        `mapstructure:"frontend_url"`
	CI            bool          `mapstructure:"ci"`
	Username      string        `mapstructure:"test_username"`
	Password      string        `mapstructure:"test_password"`
	TestTimeout   time.Duration `mapstructure:"test_timeout"`
	ExpectTimeout time.Duration `mapstructure:"expect_timeout"`
	PRResultsDir  string        `mapstructure:"pr_results_dir"`
	Headless      bool          `mapstructure:"headless"`
}

// DefaultConfig возвращает значения для локального прогона против shop-service.
func DefaultConfig() Config {
	return Config{
		APIURL:        "http://localhost:8080",
		FrontendURL:   "http://localhost:3000",
		Username:      "test2345",
		Password:      "Qwpo1209!@",
		TestTimeout:   60 * time.Second,
		ExpectTimeout: 10 * time.Second,
		PRResultsDir:  "pr-results",
	}
}

// LoadOptions управляет загрузкой конфигурации.
type LoadOptions struct {
	// ConfigPath переопределяет regression.yaml. Явно заданный файл обязан существовать.
	ConfigPath string
	// Overrides применяются последними, ключи как в mapstructure-тегах.
	Overrides map[string]any
}

// envBindings связывает ключи конфигурации с переменными окружения.
var envBindings = map[string]string{
	"api_url":        "API_URL",
	"frontend_url":   "FRONTEND_URL",
	"ci":             "CI",
	"test_username":  "TEST_USERNAME",
	"test_password":  "TEST_PASSWORD",
	"test_timeout":   "TEST_TIMEOUT",
	"expect_timeout": "EXPECT_TIMEOUT",
	"pr_results_dir": "PR_RESULTS_DIR",
	"headless":       "HEADLESS",
}

// LoadConfig собирает конфигурацию: defaults < regression.yaml < env < Overrides.
func LoadConfig(opts LoadOptions) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := mergeConfigFile(v, opts.ConfigPath); err != nil {
		return Config{}, err
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	// Вне CI браузер видим, как при локальной отладке.
	if !v.IsSet("headless") {
		cfg.Headless = cfg.CI
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("frontend_url", def.FrontendURL)
	v.SetDefault("ci", def.CI)
	v.SetDefault("test_username", def.Username)
	v.SetDefault("test_password", def.Password)
	v.SetDefault("test_timeout", def.TestTimeout)
	v.SetDefault("expect_timeout", def.ExpectTimeout)
	v.SetDefault("pr_results_dir", def.PRResultsDir)
}

func mergeConfigFile(v *viper.Viper, path string) error {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultConfigFile
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("stat config %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Validate проверяет, что адреса абсолютные, а таймауты положительные.
func (c Config) Validate() error {
	for name, raw := range map[string]string{"api_url": c.APIURL, "frontend_url": c.FrontendURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.TestTimeout <= 0 {
		return errors.New("test_timeout must be > 0")
	}
	if c.ExpectTimeout <= 0 {
		return errors.New("expect_timeout must be > 0")
	}
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return errors.New("test_username and test_password are required")
	}
	return nil
}

// Retries возвращает число повторов нестабильных шагов.
func (c Config) Retries() int {
	if c.CI {
		return CIRetries
	}
	return 0
}

// ScreenshotPath возвращает <PRResultsDir>/<prFolder>/screenshots/<name>.png.
func (c Config) ScreenshotPath(prFolder, name string) string {
	root := c.PRResultsDir
	if root == "" {
		root = DefaultConfig().PRResultsDir
	}
	return filepath.Join(root, prFolder, "screenshots", name+".png")
}
