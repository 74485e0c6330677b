package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Store    StoreConfig    `yaml:"store" json:"store" jsonschema:"description=State storage configuration"`
	ESPI     ESPIConfig     `yaml:"espi" json:"espi" jsonschema:"description=ESPI source configuration"`
	Decoders DecodersConfig `yaml:"decoders" json:"decoders" jsonschema:"description=Company lookup tables"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`
	LLM      LLMConfig      `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for company emoji generation"`
	Notify   NotifyConfig   `yaml:"notify" json:"notify" jsonschema:"description=Notification targets"`
}

// ServerConfig holds REST API settings
type ServerConfig struct {
	Listen   string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL  string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public URL used in RSS and OPML links"`
	RSSItems int           `yaml:"rss_items" json:"rss_items" jsonschema:"default=50,minimum=1,description=Maximum announcements in company RSS feed"`
}

// StoreConfig selects and configures state storage
type StoreConfig struct {
	Type            string `yaml:"type" json:"type" jsonschema:"default=sqlite,enum=sqlite,enum=json,description=Storage backend"`
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:espiscope.db?cache=shared&mode=rwc,description=SQLite connection string"`
	Dir             string `yaml:"dir" json:"dir" jsonschema:"default=.,description=Directory with pinned_stocks.json and espi_history.json for json store"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// ESPIConfig holds source fetching settings
type ESPIConfig struct {
	URLTemplate string        `yaml:"url_template" json:"url_template" jsonschema:"default=https://biznes.pap.pl/espi/espi/{year}?company={id}&selectCompany={id},description=Company page template with {id} and {year} placeholders"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Page fetch timeout"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; espiscope/1.0),description=User agent for HTTP requests"`
	Identity    string        `yaml:"identity" json:"identity" jsonschema:"default=full,enum=full,enum=title,description=Announcement identity used to detect new items"`
	Excerpt     ExcerptConfig `yaml:"excerpt" json:"excerpt" jsonschema:"description=Announcement body excerpt in notifications"`
	Breaker     BreakerConfig `yaml:"breaker" json:"breaker" jsonschema:"description=Circuit breaker around the ESPI site"`
}

// ExcerptConfig enables fetching of announcement detail pages
type ExcerptConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Add detail page excerpt to notifications"`
	MaxLen  int  `yaml:"max_len" json:"max_len" jsonschema:"default=500,description=Maximum excerpt length in characters"`
}

// BreakerConfig defines circuit breaker thresholds
type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests" json:"max_requests" jsonschema:"default=3,description=Requests allowed in half-open state"`
	Interval         time.Duration `yaml:"interval" json:"interval" jsonschema:"default=60s,description=Period to reset failure counts"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=5m,description=How long breaker stays open"`
	FailureThreshold float64       `yaml:"failure_threshold" json:"failure_threshold" jsonschema:"default=0.8,minimum=0,maximum=1,description=Failure ratio to open breaker"`
	MinRequests      uint32        `yaml:"min_requests" json:"min_requests" jsonschema:"default=5,description=Requests before failure ratio is checked"`
}

// DecodersConfig points to lookup tables
type DecodersConfig struct {
	Dir      string        `yaml:"dir" json:"dir" jsonschema:"default=decoders,description=Directory with stock_id.json ticker_to_id.json and symbol_to_id.json"`
	Watch    bool          `yaml:"watch" json:"watch" jsonschema:"default=false,description=Reload tables on change"`
	Debounce time.Duration `yaml:"debounce" json:"debounce" jsonschema:"default=1s,description=Quiet period before reload"`
}

// ScheduleConfig holds poller settings
type ScheduleConfig struct {
	Interval   time.Duration `yaml:"interval" json:"interval" jsonschema:"default=60s,description=Poll interval"`
	MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=4,description=Maximum companies checked concurrently"`
}

// LLMConfig holds LLM configuration for emoji generation
type LLMConfig struct {
	Provider     string        `yaml:"provider" json:"provider" jsonschema:"default=openai,enum=openai,enum=gemini,enum=none,description=LLM provider"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=API endpoint (OpenAI-compatible or Gemini base URL)"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"default=gpt-4o-mini,description=Model name"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.7,description=Temperature for response generation"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Request timeout"`
	Prompt       string        `yaml:"prompt" json:"prompt" jsonschema:"description=Prompt template with %s for company name (optional)"`
	DefaultEmoji string        `yaml:"default_emoji" json:"default_emoji" jsonschema:"default=🏢,description=Emoji used when generation fails"`
}

// NotifyConfig holds notification targets, the first configured one is used
type NotifyConfig struct {
	Discord DiscordConfig `yaml:"discord" json:"discord" jsonschema:"description=Discord bot channel"`
	Email   EmailConfig   `yaml:"email" json:"email" jsonschema:"description=SMTP email"`
}

// DiscordConfig holds discord bot settings
type DiscordConfig struct {
	Token     string        `yaml:"token" json:"token" jsonschema:"description=Bot token"`
	ChannelID string        `yaml:"channel_id" json:"channel_id" jsonschema:"description=Channel for announcements"`
	APIURL    string        `yaml:"api_url" json:"api_url" jsonschema:"default=https://discord.com/api/v10,description=Discord API base URL"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Request timeout"`
	Rate      float64       `yaml:"rate" json:"rate" jsonschema:"default=1,description=Requests per second"`
}

// EmailConfig holds SMTP settings
type EmailConfig struct {
	SMTPServer string        `yaml:"smtp_server" json:"smtp_server" jsonschema:"description=SMTP server host"`
	SMTPPort   int           `yaml:"smtp_port" json:"smtp_port" jsonschema:"default=587,description=SMTP server port"`
	SMTPUser   string        `yaml:"smtp_user" json:"smtp_user" jsonschema:"description=SMTP user"`
	SMTPPass   string        `yaml:"smtp_pass" json:"smtp_pass" jsonschema:"description=SMTP password"`
	From       string        `yaml:"from" json:"from" jsonschema:"description=Sender address"`
	To         string        `yaml:"to" json:"to" jsonschema:"description=Recipient address"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=SMTP timeout"`
}

// Enabled reports if discord is configured
func (d DiscordConfig) Enabled() bool { return d.Token != "" && d.ChannelID != "" }

// Enabled reports if email is configured
func (e EmailConfig) Enabled() bool { return e.SMTPServer != "" && e.To != "" }

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema, supplementary to validate
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}
	if cfg.Server.RSSItems == 0 {
		cfg.Server.RSSItems = 50
	}

	if cfg.Store.Type == "" {
		cfg.Store.Type = "sqlite"
	}
	if cfg.Store.DSN == "" {
		cfg.Store.DSN = "file:espiscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = "."
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = 10
	}
	if cfg.Store.MaxIdleConns == 0 {
		cfg.Store.MaxIdleConns = 5
	}
	if cfg.Store.ConnMaxLifetime == 0 {
		cfg.Store.ConnMaxLifetime = 3600
	}

	if cfg.ESPI.URLTemplate == "" {
		cfg.ESPI.URLTemplate = "https://biznes.pap.pl/espi/espi/{year}?company={id}&selectCompany={id}"
	}
	if cfg.ESPI.Timeout == 0 {
		cfg.ESPI.Timeout = 30 * time.Second
	}
	if cfg.ESPI.UserAgent == "" {
		cfg.ESPI.UserAgent = "Mozilla/5.0 (compatible; espiscope/1.0)"
	}
	if cfg.ESPI.Identity == "" {
		cfg.ESPI.Identity = "full"
	}
	if cfg.ESPI.Excerpt.MaxLen == 0 {
		cfg.ESPI.Excerpt.MaxLen = 500
	}

	if cfg.Decoders.Dir == "" {
		cfg.Decoders.Dir = "decoders"
	}
	if cfg.Decoders.Debounce == 0 {
		cfg.Decoders.Debounce = time.Second
	}

	if cfg.Schedule.Interval == 0 {
		cfg.Schedule.Interval = 60 * time.Second
	}
	if cfg.Schedule.MaxWorkers == 0 {
		cfg.Schedule.MaxWorkers = 4
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 15 * time.Second
	}
	if cfg.LLM.DefaultEmoji == "" {
		cfg.LLM.DefaultEmoji = "🏢"
	}

	if cfg.Notify.Discord.APIURL == "" {
		cfg.Notify.Discord.APIURL = "https://discord.com/api/v10"
	}
	if cfg.Notify.Discord.Timeout == 0 {
		cfg.Notify.Discord.Timeout = 10 * time.Second
	}
	if cfg.Notify.Discord.Rate == 0 {
		cfg.Notify.Discord.Rate = 1
	}
	if cfg.Notify.Email.SMTPPort == 0 {
		cfg.Notify.Email.SMTPPort = 587
	}
	if cfg.Notify.Email.Timeout == 0 {
		cfg.Notify.Email.Timeout = 10 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	switch cfg.Store.Type {
	case "sqlite", "json":
	default:
		return fmt.Errorf("store.type must be sqlite or json, got %q", cfg.Store.Type)
	}

	if !strings.Contains(cfg.ESPI.URLTemplate, "{id}") {
		return fmt.Errorf("espi.url_template must contain {id}")
	}
	switch cfg.ESPI.Identity {
	case "full", "title":
	default:
		return fmt.Errorf("espi.identity must be full or title, got %q", cfg.ESPI.Identity)
	}
	if cfg.ESPI.Breaker.FailureThreshold < 0 || cfg.ESPI.Breaker.FailureThreshold > 1 {
		return fmt.Errorf("espi.breaker.failure_threshold must be between 0 and 1")
	}

	if cfg.Schedule.Interval < time.Second {
		return fmt.Errorf("schedule.interval must be at least 1 second")
	}
	if cfg.Schedule.MaxWorkers < 1 {
		return fmt.Errorf("schedule.max_workers must be at least 1")
	}

	switch cfg.LLM.Provider {
	case "openai", "gemini", "none":
	default:
		return fmt.Errorf("llm.provider must be openai, gemini or none, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.Prompt != "" && !strings.Contains(cfg.LLM.Prompt, "%s") {
		return fmt.Errorf("llm.prompt must contain %%s for company name")
	}

	if cfg.Notify.Discord.Token != "" && cfg.Notify.Discord.ChannelID == "" {
		return fmt.Errorf("notify.discord.channel_id is required when token is set")
	}
	if cfg.Notify.Discord.Rate < 0 {
		return fmt.Errorf("notify.discord.rate must be positive")
	}
	if cfg.Notify.Email.SMTPServer != "" && (cfg.Notify.Email.From == "" || cfg.Notify.Email.To == "") {
		return fmt.Errorf("notify.email.from and notify.email.to are required when smtp_server is set")
	}

	return nil
}

// Secrets returns values to mask in logs
func (c *Config) Secrets() []string {
	var res []string
	for _, s := range []string{c.LLM.APIKey, c.Notify.Discord.Token, c.Notify.Email.SMTPPass} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}
