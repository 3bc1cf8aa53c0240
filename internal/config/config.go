package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable pool_max_conns=10",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Telegram struct {
	Token          string `mapstructure:"token"`
	Channel        string `mapstructure:"channel"`
	APIBaseURL     string `mapstructure:"api_base_url"`
	PollTimeoutSec int    `mapstructure:"poll_timeout_sec"`
}

type ExchangeRateAPI struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type AlphaVantage struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type CoinGecko struct {
	BaseURL string `mapstructure:"base_url"`
}

type Market struct {
	FreshWindowSec      int `mapstructure:"fresh_window_sec"`
	CommodityTimeoutSec int `mapstructure:"commodity_timeout_sec"`
	RefreshIntervalSec  int `mapstructure:"refresh_interval_sec"`
}

type Session struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

type AppConfig struct {
	HTTPServer      HTTPServer      `mapstructure:"http_server"`
	DbServer        DbServer        `mapstructure:"db_server"`
	HTTPClient      HTTPClient      `mapstructure:"http_client"`
	Logging         Logging         `mapstructure:"logging"`
	Telegram        Telegram        `mapstructure:"telegram"`
	ExchangeRateAPI ExchangeRateAPI `mapstructure:"exchange_rate_api"`
	AlphaVantage    AlphaVantage    `mapstructure:"alpha_vantage"`
	CoinGecko       CoinGecko       `mapstructure:"coin_gecko"`
	Market          Market          `mapstructure:"market"`
	Session         Session         `mapstructure:"session"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	viper.SetDefault("db_server.max_conns", 10)
	viper.SetDefault("http_client.timeout_seconds", 10)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	viper.SetDefault("telegram.poll_timeout_sec", 30)
	viper.SetDefault("exchange_rate_api.base_url", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("alpha_vantage.base_url", "https://www.alphavantage.co/query")
	viper.SetDefault("coin_gecko.base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("market.fresh_window_sec", 300)
	viper.SetDefault("market.commodity_timeout_sec", 30)
	viper.SetDefault("market.refresh_interval_sec", 300)
	viper.SetDefault("session.ttl_seconds", 900)

	// db server env vars
	_ = viper.BindEnv("db_server.host", "DB_HOST")
	_ = viper.BindEnv("db_server.port", "DB_PORT")
	_ = viper.BindEnv("db_server.user", "DB_USER")
	_ = viper.BindEnv("db_server.pass", "DB_PASS")
	_ = viper.BindEnv("db_server.name", "DB_NAME")
	_ = viper.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = viper.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// telegram env vars
	_ = viper.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	_ = viper.BindEnv("telegram.channel", "TELEGRAM_CHANNEL")

	// upstream API keys
	_ = viper.BindEnv("exchange_rate_api.api_key", "EXCHANGE_RATE_API_KEY")
	_ = viper.BindEnv("alpha_vantage.api_key", "ALPHA_VANTAGE_API_KEY")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
