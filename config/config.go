// Ininicializing common application configuration
package config

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	App       AppConfig       `mapstructure:"app"`
	Keys      KeysConfig      `mapstructure:"keys"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Idle_timeout   time.Duration `mapstructure:"idle_timeout"`
	Mode           string        `mapstructure:"mode"`
	RequestTimeout int           `mapstructure:"request_timeout_seconds"`
	StoragePath    string        `mapstructure:"storage_path"`
}

type AppConfig struct {
	TextPlatform             string  `mapstructure:"text_platform"`
	TextModel                string  `mapstructure:"text_model"`
	Temperature              float32 `mapstructure:"temperature"`
	BasicInstructions        string  `mapstructure:"basic_instructions"`
	ImageSpecialInstructions string  `mapstructure:"image_special_instructions"`
	ImagePlatform            string  `mapstructure:"image_platform"`
	StabilityEngine          string  `mapstructure:"stability_engine"`
	FontFile                 string  `mapstructure:"font_file"`
	BaseFileName             string  `mapstructure:"base_file_name"`
	OutputFolder             string  `mapstructure:"output_folder"`
	ReleaseChannel           string  `mapstructure:"release_channel"`
	FallbackOnModelError     bool    `mapstructure:"fallback_on_model_error"`
	NoFileSave               bool    `mapstructure:"no_file_save"`
}

type KeysConfig struct {
	Gemini    string `mapstructure:"gemini"`
	OpenAI    string `mapstructure:"openai"`
	ClipDrop  string `mapstructure:"clipdrop"`
	Stability string `mapstructure:"stability"`
}

type KafkaConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	JobsTopic   string   `mapstructure:"jobs_topic"`
	EventsTopic string   `mapstructure:"events_topic"`
	GroupID     string   `mapstructure:"group_id"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`

	// Настройки пула соединений
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RetentionConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	MaxAge   time.Duration `mapstructure:"max_age"`
}

// keyEnv maps key settings to the conventional unprefixed variables.
var keyEnv = map[string]string{
	"keys.gemini":    "GEMINI_API_KEY",
	"keys.openai":    "OPENAI_API_KEY",
	"keys.clipdrop":  "CLIPDROP_API_KEY",
	"keys.stability": "STABILITY_API_KEY",
}

// LoadConfig reads ./config/config.yaml when present. A missing file leaves the defaults in place.
func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	viperInstance.SetEnvPrefix("MEMEGEN")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	for key, env := range keyEnv {
		if err := viperInstance.BindEnv(key, "MEMEGEN_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	err := viperInstance.ReadInConfig()

	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		logrus.Info("Config file not found, using defaults")
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		logrus.Errorf("unable to decode config into struct, %v", err)
		return nil, err
	}
	return &c, nil
}

// Load is LoadConfig followed by ParseConfig.
func Load() (*Config, error) {
	v, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return ParseConfig(v)
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 3*time.Minute)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.request_timeout_seconds", 170)
	v.SetDefault("server.storage_path", "./storage")

	// App defaults
	v.SetDefault("app.text_platform", "gemini")
	v.SetDefault("app.text_model", "")
	v.SetDefault("app.temperature", 1.0)
	v.SetDefault("app.basic_instructions", "You will create funny memes that are clever and original, and not cliche or lame.")
	v.SetDefault("app.image_special_instructions", "The images should be photographic.")
	v.SetDefault("app.image_platform", "clipdrop")
	v.SetDefault("app.stability_engine", "stable-diffusion-xl-1024-v0-9")
	v.SetDefault("app.font_file", "arial.ttf")
	v.SetDefault("app.base_file_name", "meme")
	v.SetDefault("app.output_folder", "Outputs")
	v.SetDefault("app.release_channel", "all")
	v.SetDefault("app.fallback_on_model_error", true)
	v.SetDefault("app.no_file_save", false)

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.jobs_topic", "meme-jobs")
	v.SetDefault("kafka.events_topic", "memes-generated")
	v.SetDefault("kafka.group_id", "meme-worker")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	// Retention defaults
	v.SetDefault("retention.enabled", true)
	v.SetDefault("retention.interval", time.Hour)
	v.SetDefault("retention.max_age", 7*24*time.Hour)
}

// Address is the listen address; an empty host listens on all interfaces.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, s.Port)
}
