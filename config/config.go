package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort        string        `mapstructure:"HTTPPort"`
		Timeout         time.Duration `mapstructure:"HTTPTimeout"`
		ReadTimeout     time.Duration `mapstructure:"readTimeout"`
		WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	} `mapstructure:"server"`
	Metrics struct {
		Port        string `mapstructure:"port"`
		ServiceName string `mapstructure:"serviceName"`
	} `mapstructure:"metrics"`
	Generation  GenerationConfig `mapstructure:"generation"`
	Credentials struct {
		File          string `mapstructure:"file"`
		AllowOverride bool   `mapstructure:"allowOverride"`
	} `mapstructure:"credentials"`
	Session struct {
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
	} `mapstructure:"session"`
	Chat struct {
		MaxHistoryTurns int `mapstructure:"maxHistoryTurns"`
	} `mapstructure:"chat"`
	Directory struct {
		Backend string `mapstructure:"backend"`
	} `mapstructure:"directory"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"rateLimit"`
}

// GenerationConfig describes how the remote generation service is reached.
type GenerationConfig struct {
	Backend           string        `mapstructure:"backend"`
	BaseURL           string        `mapstructure:"baseURL"`
	TextModel         string        `mapstructure:"textModel"`
	ImageModel        string        `mapstructure:"imageModel"`
	APIKey            string        `mapstructure:"apiKey"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	MaxTokens         struct {
		Insight     int `mapstructure:"insight"`
		Caption     int `mapstructure:"caption"`
		Itinerary   int `mapstructure:"itinerary"`
		Attractions int `mapstructure:"attractions"`
		Chat        int `mapstructure:"chat"`
		Image       int `mapstructure:"image"`
	} `mapstructure:"maxTokens"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The credential and signing secret keep their conventional env names.
	_ = v.BindEnv("generation.apiKey", "GOOGLE_GEMINI_API_KEY")
	_ = v.BindEnv("session.secret", "SESSION_SECRET")
	_ = v.BindEnv("mode", "APP_ENV")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// IsDevelopment reports whether the colored development logger should be used.
func (c Config) IsDevelopment() bool {
	return c.Mode == "" || c.Mode == "development"
}
