package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Th0mmi3/auto-comment/internal/entity"
)

// Config holds the application configuration
type Config struct {
	BoardURL        string
	LoginURL        string
	CoinURLTemplate string

	WalletFile string
	LogFile    string
	LogLevel   string

	Headless    bool
	ProfileRoot string
	ChromeBin   string

	// RequireAuth делает неудачный логин фатальным. По умолчанию только логируем.
	RequireAuth bool
	// SeenDB — путь к sqlite с уже обработанными монетами. Пусто = только память.
	SeenDB      string
	MetricsAddr string

	PollInterval    time.Duration
	BackoffInterval time.Duration
	// PostsPerMinute ограничивает частоту ответов. 0 = без ограничения.
	PostsPerMinute float64

	Timeouts Timeouts
	Pauses   Pauses
}

// Timeouts — ожидание появления элементов.
type Timeouts struct {
	Listing time.Duration
	Element time.Duration
	Submit  time.Duration
	Login   time.Duration
}

// Pauses — фиксированные паузы между шагами, чтобы клиентский рендер успел отработать.
type Pauses struct {
	AfterBoardLoad  time.Duration
	AfterCoinLoad   time.Duration
	AfterOpenReply  time.Duration
	AfterTyping     time.Duration
	AfterSubmit     time.Duration
	AfterLoginClick time.Duration
	AfterLogin      time.Duration
}

// Default returns the configuration observed on the production board.
func Default() *Config {
	return &Config{
		BoardURL:        "https://pump.fun/board",
		LoginURL:        "https://pump.fun/login",
		CoinURLTemplate: "https://pump.fun/coin/" + entity.IDPlaceholder,
		WalletFile:      "wallet.json",
		LogFile:         "pump_fun_tracker.log",
		LogLevel:        "debug",
		Headless:        true,
		ProfileRoot:     ".",
		PollInterval:    10 * time.Second,
		BackoffInterval: 60 * time.Second,
		Timeouts: Timeouts{
			Listing: 10 * time.Second,
			Element: 10 * time.Second,
			Submit:  5 * time.Second,
			Login:   10 * time.Second,
		},
		Pauses: Pauses{
			AfterBoardLoad:  5 * time.Second,
			AfterCoinLoad:   5 * time.Second,
			AfterOpenReply:  2 * time.Second,
			AfterTyping:     2 * time.Second,
			AfterSubmit:     3 * time.Second,
			AfterLoginClick: 2 * time.Second,
			AfterLogin:      5 * time.Second,
		},
	}
}

// LoadConfig loads configuration from an optional .env file and environment variables.
// An empty envFile means ".env" in the working directory.
func LoadConfig(envFile string) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		// Без .env живём на переменных окружения, но явно указанный файл обязан существовать
		if explicit {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	def := Default()
	var errs []error
	cfg := &Config{
		BoardURL:        getEnvOrDefault("BOARD_URL", def.BoardURL),
		LoginURL:        getEnvOrDefault("LOGIN_URL", def.LoginURL),
		CoinURLTemplate: getEnvOrDefault("COIN_URL_TEMPLATE", def.CoinURLTemplate),
		WalletFile:      getEnvOrDefault("WALLET_FILE", def.WalletFile),
		LogFile:         getEnvOrDefault("LOG_FILE", def.LogFile),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", def.LogLevel),
		Headless:        getBool("HEADLESS", def.Headless, &errs),
		ProfileRoot:     getEnvOrDefault("PROFILE_ROOT", def.ProfileRoot),
		ChromeBin:       getEnvOrDefault("CHROME_BIN", def.ChromeBin),
		RequireAuth:     getBool("REQUIRE_AUTH", def.RequireAuth, &errs),
		SeenDB:          getEnvOrDefault("SEEN_DB", def.SeenDB),
		MetricsAddr:     getEnvOrDefault("METRICS_ADDR", def.MetricsAddr),
		PollInterval:    getDuration("POLL_INTERVAL", def.PollInterval, &errs),
		BackoffInterval: getDuration("BACKOFF_INTERVAL", def.BackoffInterval, &errs),
		PostsPerMinute:  getFloat("POST_RATE", def.PostsPerMinute, &errs),
		Timeouts: Timeouts{
			Listing: getDuration("LISTING_TIMEOUT", def.Timeouts.Listing, &errs),
			Element: getDuration("ELEMENT_TIMEOUT", def.Timeouts.Element, &errs),
			Submit:  getDuration("SUBMIT_TIMEOUT", def.Timeouts.Submit, &errs),
			Login:   getDuration("LOGIN_TIMEOUT", def.Timeouts.Login, &errs),
		},
		Pauses: Pauses{
			AfterBoardLoad:  getDuration("PAUSE_BOARD_LOAD", def.Pauses.AfterBoardLoad, &errs),
			AfterCoinLoad:   getDuration("PAUSE_COIN_LOAD", def.Pauses.AfterCoinLoad, &errs),
			AfterOpenReply:  getDuration("PAUSE_OPEN_REPLY", def.Pauses.AfterOpenReply, &errs),
			AfterTyping:     getDuration("PAUSE_TYPING", def.Pauses.AfterTyping, &errs),
			AfterSubmit:     getDuration("PAUSE_SUBMIT", def.Pauses.AfterSubmit, &errs),
			AfterLoginClick: getDuration("PAUSE_LOGIN_CLICK", def.Pauses.AfterLoginClick, &errs),
			AfterLogin:      getDuration("PAUSE_LOGIN", def.Pauses.AfterLogin, &errs),
		},
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields every run depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.BoardURL == "" {
		errs = append(errs, errors.New("BOARD_URL is required"))
	}
	if !strings.Contains(c.CoinURLTemplate, entity.IDPlaceholder) {
		errs = append(errs, fmt.Errorf("COIN_URL_TEMPLATE must contain %s, got %q", entity.IDPlaceholder, c.CoinURLTemplate))
	}
	if c.WalletFile == "" {
		errs = append(errs, errors.New("WALLET_FILE is required"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval))
	}
	if c.BackoffInterval <= 0 {
		errs = append(errs, fmt.Errorf("BACKOFF_INTERVAL must be positive, got %s", c.BackoffInterval))
	}
	if c.PostsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("POST_RATE must not be negative, got %v", c.PostsPerMinute))
	}
	return errors.Join(errs...)
}

// getEnvOrDefault retrieves an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getBool(key string, def bool, errs *[]error) bool {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

// getDuration принимает как "1m30s", так и голое число секунд.
func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return def
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func getFloat(key string, def float64, errs *[]error) float64 {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}
