package configs

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values
type Config struct {
	Port             string
	SessionSecret    string
	SessionTTL       time.Duration
	RedisURL         string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDB       string
	KafkaBrokers     []string
	KafkaTopic       string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioBucket      string

	// Chat gateway tuning
	HandshakeTimeout time.Duration
	WriteWait        time.Duration
	PongWait         time.Duration
	SendBufferSize   int
	SessionSweep     time.Duration
}

var (
	instance *Config
	once     sync.Once
)

// Load loads configuration from the .env file, falling back to
// environment variables and defaults.
func Load() *Config {
	once.Do(func() {
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
		viper.AddConfigPath(".")

		viper.SetDefault("SOCIAL_PORT", "8080")
		viper.SetDefault("SOCIAL_SESSION_SECRET", "secret")
		viper.SetDefault("SOCIAL_SESSION_TTL", "100m")
		viper.SetDefault("REDIS_URL", "redis://127.0.0.1:6379/0")
		viper.SetDefault("POSTGRES_USER", "postgres")
		viper.SetDefault("POSTGRES_PASSWORD", "password")
		viper.SetDefault("POSTGRES_HOST", "localhost")
		viper.SetDefault("POSTGRES_PORT", "5432")
		viper.SetDefault("POSTGRES_DB", "postgres")
		viper.SetDefault("KAFKA_BROKERS", "")
		viper.SetDefault("KAFKA_TOPIC", "social-activity")
		viper.SetDefault("MINIO_ENDPOINT", "")
		viper.SetDefault("MINIO_ACCESS_KEY", "")
		viper.SetDefault("MINIO_SECRET_KEY", "")
		viper.SetDefault("MINIO_BUCKET", "avatars")
		viper.SetDefault("CHAT_HANDSHAKE_TIMEOUT", "5s")
		viper.SetDefault("CHAT_WRITE_WAIT", "10s")
		viper.SetDefault("CHAT_PONG_WAIT", "60s")
		viper.SetDefault("CHAT_SEND_BUFFER", 256)
		viper.SetDefault("CHAT_SESSION_SWEEP", "30s")
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil {
			log.Printf("Warning: Error reading .env file: %v", err)
			log.Printf("Using environment variables and defaults")
		}

		sessionTTL, err := time.ParseDuration(viper.GetString("SOCIAL_SESSION_TTL"))
		if err != nil {
			log.Fatal("Invalid SOCIAL_SESSION_TTL format")
		}

		var brokers []string
		if raw := viper.GetString("KAFKA_BROKERS"); raw != "" {
			brokers = strings.Split(raw, ",")
		}

		instance = &Config{
			Port:             viper.GetString("SOCIAL_PORT"),
			SessionSecret:    viper.GetString("SOCIAL_SESSION_SECRET"),
			SessionTTL:       sessionTTL,
			RedisURL:         viper.GetString("REDIS_URL"),
			PostgresUser:     viper.GetString("POSTGRES_USER"),
			PostgresPassword: viper.GetString("POSTGRES_PASSWORD"),
			PostgresHost:     viper.GetString("POSTGRES_HOST"),
			PostgresPort:     viper.GetString("POSTGRES_PORT"),
			PostgresDB:       viper.GetString("POSTGRES_DB"),
			KafkaBrokers:     brokers,
			KafkaTopic:       viper.GetString("KAFKA_TOPIC"),
			MinioEndpoint:    viper.GetString("MINIO_ENDPOINT"),
			MinioAccessKey:   viper.GetString("MINIO_ACCESS_KEY"),
			MinioSecretKey:   viper.GetString("MINIO_SECRET_KEY"),
			MinioBucket:      viper.GetString("MINIO_BUCKET"),
			HandshakeTimeout: viper.GetDuration("CHAT_HANDSHAKE_TIMEOUT"),
			WriteWait:        viper.GetDuration("CHAT_WRITE_WAIT"),
			PongWait:         viper.GetDuration("CHAT_PONG_WAIT"),
			SendBufferSize:   viper.GetInt("CHAT_SEND_BUFFER"),
			SessionSweep:     viper.GetDuration("CHAT_SESSION_SWEEP"),
		}
	})
	return instance
}
