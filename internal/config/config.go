package config

import (
	"fmt"
	"os"
	"time"
)

// Драйверы хранилища задач
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type FileStoreConfig struct {
	Path       string
	BackupPath string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type Config struct {
	Port        string
	LogLevel    string
	StoreDriver string // "file" или "postgres"
	DB          DatabaseConfig
	FileStore   FileStoreConfig
	Auth        AuthConfig
	StaticDir   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StoreDriver: getEnv("STORE_DRIVER", DriverPostgres),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "tasks_user"),
			Password: getEnv("DB_PASSWORD", "tasks_pass"),
			DBName:   getEnv("DB_NAME", "tasks_db"),
		},
		FileStore: FileStoreConfig{
			Path:       getEnv("TASKS_FILE", "tasks.txt"),
			BackupPath: getEnv("TASKS_BACKUP_FILE", "tasks_backup.txt"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  30 * time.Minute,
		},
		StaticDir: getEnv("STATIC_DIR", "web/static"),
	}

	if cfg.StoreDriver != DriverFile && cfg.StoreDriver != DriverPostgres {
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}

	// В режиме postgres токены обязательны, значит нужен секрет
	if cfg.StoreDriver == DriverPostgres && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when STORE_DRIVER=postgres")
	}

	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = d
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (db *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		db.Host, db.Port, db.User, db.Password, db.DBName)
}
