package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Browser   BrowserConfig   `yaml:"browser" envconfig:"BROWSER"`
	Collector CollectorConfig `yaml:"collector" envconfig:"COLLECTOR"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// BrowserConfig controls the chromedp session.
type BrowserConfig struct {
	Headless      bool          `yaml:"headless" envconfig:"HEADLESS"`
	WindowWidth   int           `yaml:"window_width" envconfig:"WINDOW_WIDTH" validate:"min=640"`
	WindowHeight  int           `yaml:"window_height" envconfig:"WINDOW_HEIGHT" validate:"min=480"`
	UserAgent     string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	NavTimeout    time.Duration `yaml:"nav_timeout" envconfig:"NAV_TIMEOUT" validate:"min=1s"`
	WaitTimeout   time.Duration `yaml:"wait_timeout" envconfig:"WAIT_TIMEOUT" validate:"min=500ms"`
	ActionsPerSec float64       `yaml:"actions_per_sec" envconfig:"ACTIONS_PER_SEC" validate:"gt=0"`
}

// CollectorConfig controls search, pagination and pacing behavior.
type CollectorConfig struct {
	BaseURL        string `yaml:"base_url" envconfig:"BASE_URL" validate:"url"`
	SearchPath     string `yaml:"search_path" envconfig:"SEARCH_PATH"`
	MaxMonths      int    `yaml:"max_months" envconfig:"MAX_MONTHS" validate:"min=1,max=12"`
	PageSize       int    `yaml:"page_size" envconfig:"PAGE_SIZE" validate:"min=1"`
	EmptyPageLimit int    `yaml:"empty_page_limit" envconfig:"EMPTY_PAGE_LIMIT" validate:"min=1"`
	PageCeiling    int    `yaml:"page_ceiling" envconfig:"PAGE_CEILING" validate:"min=1"`

	// Pacing delays between site interactions. Unconditional waits, applied
	// even when the previous action succeeded immediately.
	AfterNavigate   time.Duration `yaml:"after_navigate" envconfig:"AFTER_NAVIGATE"`
	AfterFormChange time.Duration `yaml:"after_form_change" envconfig:"AFTER_FORM_CHANGE"`
	AfterClick      time.Duration `yaml:"after_click" envconfig:"AFTER_CLICK"`
	BetweenPages    time.Duration `yaml:"between_pages" envconfig:"BETWEEN_PAGES"`
	BetweenRanges   time.Duration `yaml:"between_ranges" envconfig:"BETWEEN_RANGES"`
	BetweenYears    time.Duration `yaml:"between_years" envconfig:"BETWEEN_YEARS"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/collector.log",
		},
		Browser: BrowserConfig{
			Headless:      true,
			WindowWidth:   1920,
			WindowHeight:  1080,
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			NavTimeout:    30 * time.Second,
			WaitTimeout:   10 * time.Second,
			ActionsPerSec: 2,
		},
		Collector: CollectorConfig{
			BaseURL:         "https://kind.krx.co.kr",
			SearchPath:      "/disclosure/details.do?method=searchDetailsMain",
			MaxMonths:       6,
			PageSize:        100,
			EmptyPageLimit:  3,
			PageCeiling:     100,
			AfterNavigate:   5 * time.Second,
			AfterFormChange: 2 * time.Second,
			AfterClick:      time.Second,
			BetweenPages:    2 * time.Second,
			BetweenRanges:   10 * time.Second,
			BetweenYears:    10 * time.Second,
		},
	}
}

// Load loads configuration layered as defaults, then an optional config.yaml
// next to the executable, then KIND_* environment variables on top.
func Load() (*Config, error) {
	cfg := Default()

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("KIND", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// SearchURL returns the full URL of the disclosure search page.
func (c *CollectorConfig) SearchURL() string {
	return c.BaseURL + c.SearchPath
}

// getConfigFilePath returns the path of the optional YAML config file,
// resolved next to the executable rather than the working directory.
func getConfigFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "config.yaml")
}
