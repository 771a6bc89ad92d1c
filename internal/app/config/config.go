package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageFile  = "file"
	StorageRedis = "redis"
	StorageMongo = "mongo"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	GRPCServer GRPCServerConfig `yaml:"grpc_server"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Cart       CartConfig       `yaml:"cart"`
	Checkout   CheckoutConfig   `yaml:"checkout"`
	Redis      RedisConfig      `yaml:"redis"`
	MongoDB    MongoDBConfig    `yaml:"mongo"`
	NATS       NATSConfig       `yaml:"nats"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Logger     LoggerConfig     `yaml:"logger"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"30s"`
	TimeoutGraceful time.Duration `yaml:"timeout_graceful_shutdown" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type GRPCServerConfig struct {
	Enabled           bool          `yaml:"enabled" env:"GRPC_ENABLED" env-default:"false"`
	Port              string        `yaml:"port" env:"GRPC_PORT" env-default:"50055"`
	MaxConnectionIdle time.Duration `yaml:"max_connection_idle" env-default:"15m"`
	TimeoutGraceful   time.Duration `yaml:"timeout_graceful_shutdown" env-default:"15s"`
}

type CatalogConfig struct {
	URL           string        `yaml:"url" env:"CATALOG_URL" env-default:"https://script.google.com/macros/s/AKfycbyh8dpK29PIbin4v2BdWuayR3awdf9J5qA4fWf0Yogkph0BPSCi5dLLsAyKSTP7apeU/exec"`
	Timeout       time.Duration `yaml:"timeout" env:"CATALOG_TIMEOUT" env-default:"15s"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env:"CATALOG_CACHE_TTL" env-default:"5m"`
	FeaturedCount int           `yaml:"featured_count" env:"CATALOG_FEATURED_COUNT" env-default:"6"`
}

type CartConfig struct {
	Storage string `yaml:"storage" env:"CART_STORAGE" env-default:"file"`
	Slot    string `yaml:"slot" env:"CART_SLOT" env-default:"cart"`
	Dir     string `yaml:"dir" env:"CART_DIR" env-default:"./data"`
	// TTL applies to the redis driver only; zero keeps the slot forever.
	TTL time.Duration `yaml:"ttl" env:"CART_TTL" env-default:"0s"`
}

type CheckoutConfig struct {
	PhoneNumber string `yaml:"phone_number" env:"CHECKOUT_PHONE_NUMBER" env-default:"918547732408"`
	Currency    string `yaml:"currency" env:"CHECKOUT_CURRENCY" env-default:"₹"`
	BaseURL     string `yaml:"base_url" env:"CHECKOUT_BASE_URL" env-default:"https://wa.me"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	// CatalogCache turns on the redis-backed catalog cache regardless of the cart driver.
	CatalogCache bool `yaml:"catalog_cache" env:"REDIS_CATALOG_CACHE" env-default:"false"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	User     string `yaml:"user" env:"MONGO_USER"`
	Password string `yaml:"password" env:"MONGO_PASSWORD"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"storefront"`
}

type NATSConfig struct {
	// URL empty disables checkout event publishing.
	URL     string `yaml:"url" env:"NATS_URL"`
	Subject string `yaml:"subject" env:"NATS_CHECKOUT_SUBJECT" env-default:"storefront.checkout.handed_off"`
}

type SMTPConfig struct {
	// Host empty disables the checkout email.
	Host        string        `yaml:"host" env:"SMTP_HOST"`
	Port        int           `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username    string        `yaml:"username" env:"SMTP_USERNAME"`
	Password    string        `yaml:"password" env:"SMTP_PASSWORD"`
	SenderEmail string        `yaml:"sender_email" env:"SMTP_SENDER_EMAIL"`
	ShopEmail   string        `yaml:"shop_email" env:"SMTP_SHOP_EMAIL"`
	Encryption  string        `yaml:"encryption" env:"SMTP_ENCRYPTION" env-default:"tls"`
	ServerName  string        `yaml:"server_name" env:"SMTP_SERVER_NAME"`
	SendTimeout time.Duration `yaml:"send_timeout" env:"SMTP_SEND_TIMEOUT" env-default:"10s"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	TimeFormat string `yaml:"time_format" env:"LOG_TIME_FORMAT" env-default:"2006-01-02T15:04:05.000Z07:00"`
}

type TracingConfig struct {
	// Endpoint empty keeps tracing in-process only (spans are created but not exported).
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"storefront-service"`
}

func (c *Config) Validate() error {
	switch c.Cart.Storage {
	case StorageFile, StorageRedis, StorageMongo:
	default:
		return fmt.Errorf("unknown cart storage driver %q", c.Cart.Storage)
	}
	if c.Cart.Slot == "" {
		return errors.New("cart slot name must not be empty")
	}
	if c.Catalog.URL == "" {
		return errors.New("catalog url must not be empty")
	}
	if c.Catalog.FeaturedCount < 0 {
		return errors.New("catalog featured_count must not be negative")
	}
	if c.Checkout.PhoneNumber == "" {
		return errors.New("checkout phone number must not be empty")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, cfg.Validate()
	}

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			log.Printf("Warning: Config file not found at %s, attempting to load from environment variables only.", path)
			if errEnv := cleanenv.ReadEnv(&cfg); errEnv != nil {
				return nil, errEnv
			}
			return &cfg, cfg.Validate()
		}
		return nil, err
	}
	return &cfg, cfg.Validate()
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH_STOREFRONT")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
