package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver string
		URL    string
	}
	Server struct {
		Port int
	}
	Site struct {
		BaseURL       string
		Locales       []string
		DefaultLocale string
	}
	Quality struct {
		Interval  string
		BatchSize int
	}
	Sitemap struct {
		SourceTimeout string
		BuildTimeout  string
	}
	Cache struct {
		TTL string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	AI struct {
		OpenAIKey    string
		OpenAIModel  string
		GeminiKey    string
		GeminiModel  string
		SystemPrompt string
	}
	Audit struct {
		UserAgent string
	}
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Default values
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("site.baseurl", "https://www.propertyscope.example")
	viper.SetDefault("site.locales", []string{"en", "ar", "ru"})
	viper.SetDefault("site.defaultlocale", "en")
	viper.SetDefault("quality.interval", "6h")
	viper.SetDefault("quality.batchsize", 50)
	viper.SetDefault("sitemap.sourcetimeout", "5s")
	viper.SetDefault("sitemap.buildtimeout", "30s")
	viper.SetDefault("cache.ttl", "15m")
	viper.SetDefault("ai.openaimodel", "gpt-4o-mini")
	viper.SetDefault("ai.geminimodel", "gemini-1.5-flash")
	viper.SetDefault("audit.useragent", "PropertyScope Audit Bot v1.0")

	// API keys and the database URL come from the environment in deployment
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("ai.openaikey", "OPENAI_API_KEY")
	viper.BindEnv("ai.geminikey", "GEMINI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) GetQualityInterval() time.Duration {
	duration, err := time.ParseDuration(c.Quality.Interval)
	if err != nil {
		return 6 * time.Hour
	}
	return duration
}

func (c *Config) GetSitemapSourceTimeout() time.Duration {
	duration, err := time.ParseDuration(c.Sitemap.SourceTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return duration
}

func (c *Config) GetSitemapBuildTimeout() time.Duration {
	duration, err := time.ParseDuration(c.Sitemap.BuildTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return duration
}

// GetCacheTTL is the lifetime for all cached HTTP responses, not just the
// sitemap. A single knob keeps Redis expiry behavior uniform.
func (c *Config) GetCacheTTL() time.Duration {
	duration, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 15 * time.Minute
	}
	return duration
}
