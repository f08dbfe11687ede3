package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	defaultPort        = 3000
	defaultMongoURI    = "mongodb://127.0.0.1:27017/express-mongoose-recipes-dev"
	defaultDatabase    = "express-mongoose-recipes-dev"
	defaultKafkaTopic  = "recipe-topic"
	defaultStaticDir   = "public"
	defaultLogLevel    = "info"
	defaultRetries     = 10
	defaultOpTimeout   = 10 * time.Second
	defaultCacheTTL    = time.Minute
	defaultRetryPeriod = 3 * time.Second
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Mongo  MongoConfig  `toml:"mongo"`
	Kafka  KafkaConfig  `toml:"kafka"`
	Redis  RedisConfig  `toml:"redis"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Port      int    `toml:"port"`
	StaticDir string `toml:"static_dir"`
}

type MongoConfig struct {
	URI              string   `toml:"uri"`
	Database         string   `toml:"database"`
	ConnectRetries   int      `toml:"connect_retries"`
	RetryInterval    Duration `toml:"retry_interval"`
	OperationTimeout Duration `toml:"operation_timeout"`
}

// KafkaConfig leaves Brokers empty when events are disabled.
type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// RedisConfig leaves Addr empty when the entity cache is disabled.
type RedisConfig struct {
	Addr string   `toml:"addr"`
	TTL  Duration `toml:"ttl"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration reads "10s" style values from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", string(text))
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      defaultPort,
			StaticDir: defaultStaticDir,
		},
		Mongo: MongoConfig{
			URI:              defaultMongoURI,
			ConnectRetries:   defaultRetries,
			RetryInterval:    Duration{defaultRetryPeriod},
			OperationTimeout: Duration{defaultOpTimeout},
		},
		Kafka: KafkaConfig{
			Topic: defaultKafkaTopic,
		},
		Redis: RedisConfig{
			TTL: Duration{defaultCacheTTL},
		},
		Log: LogConfig{
			Level: defaultLogLevel,
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file at path,
// and finally environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open config")
		}
		defer file.Close()

		if err = toml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to decode config %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = databaseFromURI(cfg.Mongo.URI)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return errors.Wrapf(err, "invalid PORT %q", port)
		}
		c.Server.Port = p
	}
	c.Server.StaticDir = getEnv("STATIC_DIR", c.Server.StaticDir)

	c.Mongo.URI = getEnv("MONGODB_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGODB_DATABASE", c.Mongo.Database)
	if retries := os.Getenv("MONGODB_CONNECT_RETRIES"); retries != "" {
		r, err := strconv.Atoi(retries)
		if err != nil {
			return errors.Wrapf(err, "invalid MONGODB_CONNECT_RETRIES %q", retries)
		}
		c.Mongo.ConnectRetries = r
	}
	if err := durationEnv("MONGODB_OPERATION_TIMEOUT", &c.Mongo.OperationTimeout); err != nil {
		return err
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = strings.Split(brokers, ",")
	}
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	if err := durationEnv("CACHE_TTL", &c.Redis.TTL); err != nil {
		return err
	}

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, dst *Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return errors.Wrap(dst.UnmarshalText([]byte(v)), key)
}

func databaseFromURI(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil || cs.Database == "" {
		return defaultDatabase
	}
	return cs.Database
}
