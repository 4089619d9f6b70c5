package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Browser engines playwright can launch
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// Defaults for the on-disk artifacts of a run
const (
	DefaultAuthStatePath = ".auth/storagestate.json"
	DefaultScreenshotDir = "screenshots"
)

// E2EConfig holds everything the suite needs to reach the storefront under test
type E2EConfig struct {
	Headless      bool
	BaseURL       string
	Username      string
	Password      string
	Browser       string
	SlowMo        time.Duration
	Timeout       time.Duration
	AuthStatePath string
	ScreenshotDir string
}

// LoadE2EConfig loads the suite configuration from environment variables
func LoadE2EConfig(getenv func(string) string) (*E2EConfig, error) {
	config := &E2EConfig{
		Headless:      parseBool(getenv("HEADLESS"), true),
		BaseURL:       strings.TrimRight(getenv("BASE_URL"), "/"),
		Username:      getenv("USERNAME"),
		Password:      getenv("PASSWORD"),
		Browser:       strings.ToLower(getenv("BROWSER")),
		AuthStatePath: getenv("AUTH_STATE_PATH"),
		ScreenshotDir: getenv("SCREENSHOT_DIR"),
	}

	// Validate required fields
	if config.BaseURL == "" {
		return nil, fmt.Errorf("BASE_URL is required")
	}
	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		return nil, fmt.Errorf("BASE_URL is not a valid URL: %w", err)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("USERNAME is required")
	}
	if config.Password == "" {
		return nil, fmt.Errorf("PASSWORD is required")
	}

	switch config.Browser {
	case "":
		config.Browser = BrowserChromium
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	default:
		return nil, fmt.Errorf("unsupported BROWSER: %s", config.Browser)
	}

	timeout, err := parseDuration(getenv("E2E_TIMEOUT"), 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid E2E_TIMEOUT: %w", err)
	}
	config.Timeout = timeout

	slowMo, err := parseDuration(getenv("SLOW_MO"), 0)
	if err != nil {
		return nil, fmt.Errorf("invalid SLOW_MO: %w", err)
	}
	config.SlowMo = slowMo

	if config.AuthStatePath == "" {
		config.AuthStatePath = DefaultAuthStatePath
	}
	if config.ScreenshotDir == "" {
		config.ScreenshotDir = DefaultScreenshotDir
	}

	return config, nil
}

// URL joins a storefront path onto the base URL
func (c *E2EConfig) URL(path string) string {
	if path == "" || path == "/" {
		return c.BaseURL + "/"
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
