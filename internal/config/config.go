package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string         `mapstructure:"service_name"`
	HTTP        HTTPConfig     `mapstructure:"http"`
	Mongo       MongoConfig    `mapstructure:"mongo"`
	NATS        NATSConfig     `mapstructure:"nats"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Minio       MinioConfig    `mapstructure:"minio"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Cache       CacheConfig    `mapstructure:"cache"`
	Retry       RetryConfig    `mapstructure:"retry"`
	Features    FeaturesConfig `mapstructure:"features"`
	Ingest      IngestConfig   `mapstructure:"ingest"`
	Proxy       ProxyConfig    `mapstructure:"proxy"`
	Sections    SectionsConfig `mapstructure:"sections"`
	Debug       DebugConfig    `mapstructure:"debug"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
	Tracing     TracingConfig  `mapstructure:"tracing"`
}

type HTTPConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinioConfig configures the object store used by the image proxy.
// An empty Endpoint disables the proxy cache.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	CronSecret string        `mapstructure:"cron_secret"`
}

type CacheConfig struct {
	FeedTTL    time.Duration `mapstructure:"feed_ttl"`
	ContentTTL time.Duration `mapstructure:"content_ttl"`
}

type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

type FeaturesConfig struct {
	BreakingWindow   time.Duration `mapstructure:"breaking_window"`
	BestOfWeekWindow time.Duration `mapstructure:"best_of_week_window"`
	BestOfWeekSize   int           `mapstructure:"best_of_week_size"`
	MigrationBatch   int           `mapstructure:"migration_batch"`
}

type IngestSource struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"`
}

type IngestConfig struct {
	Sources           []IngestSource `mapstructure:"sources"`
	MaxItemsPerSource int            `mapstructure:"max_items_per_source"`
	Timeout           time.Duration  `mapstructure:"timeout"`
}

type ProxyConfig struct {
	MaxBytes  int64         `mapstructure:"max_bytes"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// SectionsConfig switches whole site sections on and off.
type SectionsConfig struct {
	Categories bool `mapstructure:"categories"`
	Trending   bool `mapstructure:"trending"`
	Breaking   bool `mapstructure:"breaking"`
	Home       bool `mapstructure:"home"`
	Articles   bool `mapstructure:"articles"`
	Jobs       bool `mapstructure:"jobs"`
	Bookmarks  bool `mapstructure:"bookmarks"`
	Profile    bool `mapstructure:"profile"`
	Search     bool `mapstructure:"search"`
}

// AsMap returns the toggles keyed by section name.
func (s SectionsConfig) AsMap() map[string]bool {
	return map[string]bool{
		"categories": s.Categories,
		"trending":   s.Trending,
		"breaking":   s.Breaking,
		"home":       s.Home,
		"articles":   s.Articles,
		"jobs":       s.Jobs,
		"bookmarks":  s.Bookmarks,
		"profile":    s.Profile,
		"search":     s.Search,
	}
}

type DebugConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type MetricsConfig struct {
	Port string `mapstructure:"port"`
}

type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// SampleRatio applies to root spans; child spans follow their parent.
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "content-service")

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "omnisphere")
	v.SetDefault("mongo.connect_timeout", "10s")
	v.SetDefault("mongo.min_pool_size", 0)
	v.SetDefault("mongo.max_pool_size", 100)

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.connect_timeout", "5s")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.bucket", "image-proxy")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.cron_secret", "")

	v.SetDefault("cache.feed_ttl", "2m")
	v.SetDefault("cache.content_ttl", "5m")

	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", "1s")

	v.SetDefault("features.breaking_window", "6h")
	v.SetDefault("features.best_of_week_window", "168h")
	v.SetDefault("features.best_of_week_size", 10)
	v.SetDefault("features.migration_batch", 500)

	v.SetDefault("ingest.max_items_per_source", 5)
	v.SetDefault("ingest.timeout", "20s")

	v.SetDefault("proxy.max_bytes", 10<<20)
	v.SetDefault("proxy.timeout", "15s")
	v.SetDefault("proxy.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	for _, section := range []string{"categories", "trending", "breaking", "home", "articles", "jobs", "bookmarks", "profile", "search"} {
		v.SetDefault("sections."+section, true)
	}

	v.SetDefault("debug.enabled", false)
	v.SetDefault("metrics.port", "9090")
	v.SetDefault("tracing.otlp_endpoint", "")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if fi, err := os.Stat(path); err == nil {
		if !fi.IsDir() {
			v.SetConfigFile(path)
		} else {
			v.AddConfigPath(path)
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CONTENT") // CONTENT_MONGO_URI, CONTENT_AUTH_JWT_SECRET ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found; using defaults and environment variables.")
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// The cron secret is shared with the scheduler, which only knows the bare name.
	if cfg.Auth.CronSecret == "" {
		cfg.Auth.CronSecret = os.Getenv("CRON_SECRET")
	}

	return &cfg, nil
}
