package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	TelegramToken string `env:"TELEGRAM_BOT_TOKEN" env-required:"true"`
	LoginSecret   string `env:"LOGIN_SECRET" env-required:"true"`

	API APIConfig

	RedisURL   string        `env:"REDIS_URL" env-default:""`
	SessionTTL time.Duration `env:"SESSION_TTL" env-default:"720h"`

	// Optional: participant export to Google Sheets
	SpreadsheetID            string `env:"GOOGLE_SHEETS_SPREADSHEET_ID" env-default:""`
	GoogleServiceAccountJSON string `env:"GOOGLE_SERVICE_ACCOUNT_JSON" env-default:""`

	HTTPAddr      string `env:"HTTP_ADDR" env-default:":8080"`
	BasePublicURL string `env:"BASE_PUBLIC_URL" env-default:""`
	ExportSecret  string `env:"EXPORT_SECRET" env-default:""`
	WebBaseURL    string `env:"WEB_BASE_URL" env-default:""`

	View ViewConfig
}

type APIConfig struct {
	BaseURL     string        `env:"EVENT_API_BASE_URL" env-default:"http://localhost:3000"`
	Timeout     time.Duration `env:"EVENT_API_TIMEOUT" env-default:"10s"`
	ReadRetries int           `env:"EVENT_API_READ_RETRIES" env-default:"2"`
}

type ViewConfig struct {
	DateLayout       string `env:"DATE_LAYOUT" env-default:"1/2/2006"`
	Currency         string `env:"PRICE_CURRENCY" env-default:"INR"`
	PlaceholderImage string `env:"PLACEHOLDER_IMAGE" env-default:"https://via.placeholder.com/80"`
	DetailPageChars  int    `env:"DETAIL_PAGE_CHARS" env-default:"3500"`
}

func FromEnv() (Config, error) {
	var c Config
	if err := cleanenv.ReadEnv(&c); err != nil {
		return c, fmt.Errorf("read env: %w", err)
	}

	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.BasePublicURL = strings.TrimRight(strings.TrimSpace(c.BasePublicURL), "/")
	c.WebBaseURL = strings.TrimRight(strings.TrimSpace(c.WebBaseURL), "/")

	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.TelegramToken) == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is empty")
	}
	if strings.TrimSpace(c.LoginSecret) == "" {
		return fmt.Errorf("LOGIN_SECRET is empty")
	}
	if c.BasePublicURL != "" && strings.TrimSpace(c.ExportSecret) == "" {
		return fmt.Errorf("EXPORT_SECRET is required when BASE_PUBLIC_URL is set")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("EVENT_API_BASE_URL is not an absolute url: %q", c.API.BaseURL)
	}
	if c.API.ReadRetries < 0 {
		return fmt.Errorf("EVENT_API_READ_RETRIES must not be negative")
	}
	if (c.SpreadsheetID == "") != (c.GoogleServiceAccountJSON == "") {
		return fmt.Errorf("GOOGLE_SHEETS_SPREADSHEET_ID and GOOGLE_SERVICE_ACCOUNT_JSON must be set together")
	}
	if c.View.DetailPageChars < 200 {
		return fmt.Errorf("DETAIL_PAGE_CHARS is too small: %d", c.View.DetailPageChars)
	}
	return nil
}

func (c Config) SheetsEnabled() bool {
	return c.SpreadsheetID != ""
}

// PublicURL is the base the ops server is reachable at from a chat.
func (c Config) PublicURL() string {
	if c.BasePublicURL != "" {
		return c.BasePublicURL
	}
	return "http://localhost" + c.HTTPAddr
}
